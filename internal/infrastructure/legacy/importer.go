// Package legacy imports the old flat per-player YAML store into the
// current bucket layout. The old layout kept one balance per world name;
// the importer folds those into group buckets using the current world
// group index and retires the source directory so the import never runs
// twice.
package legacy

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/ersonp/worldpurse/internal/domain/entities"
	"github.com/ersonp/worldpurse/internal/domain/ports"
	"github.com/ersonp/worldpurse/internal/domain/services"
)

// legacyFile mirrors the old per-player YAML layout: a playerinfo block,
// an offline_world block, and one top-level key per world.
type legacyFile struct {
	PlayerInfo struct {
		UUID string `yaml:"uuid"`
		Name string `yaml:"name"`
	} `yaml:"playerinfo"`
	OfflineWorld struct {
		Name string `yaml:"name"`
	} `yaml:"offline_world"`
	Worlds map[string]legacyWorld `yaml:",inline"`
}

type legacyWorld struct {
	Money string `yaml:"money"`
}

// Importer converts legacy per-player files into balance records.
type Importer struct {
	store  ports.RecordStore
	names  ports.NameIndex
	groups *services.WorldGroups
	logger *slog.Logger
}

// NewImporter creates an Importer.
func NewImporter(
	store ports.RecordStore,
	names ports.NameIndex,
	groups *services.WorldGroups,
	logger *slog.Logger,
) *Importer {
	return &Importer{store: store, names: names, groups: groups, logger: logger}
}

// Run imports every .yml file in dir, best-effort: files that cannot be
// parsed or carry no usable UUID are skipped with a log entry, never
// aborting the batch. Worlds not in the known set are skipped the same
// way. On completion the directory is renamed with an ".old" suffix.
// It returns the number of players imported.
func (i *Importer) Run(ctx context.Context, dir string, known []string) (int, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("reading legacy directory: %w", err)
	}

	knownSet := make(map[string]struct{}, len(known))
	for _, w := range known {
		knownSet[w] = struct{}{}
	}

	imported := 0
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".yml") {
			continue
		}
		if err := i.importFile(ctx, filepath.Join(dir, file.Name()), knownSet); err != nil {
			i.logger.Error("skipping legacy file", "file", file.Name(), "error", err)
			continue
		}
		imported++
	}

	if err := os.Rename(dir, dir+".old"); err != nil {
		return imported, fmt.Errorf("retiring legacy directory: %w", err)
	}
	return imported, nil
}

func (i *Importer) importFile(ctx context.Context, path string, known map[string]struct{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	var legacy legacyFile
	if err := yaml.Unmarshal(data, &legacy); err != nil {
		return fmt.Errorf("parsing file: %w", err)
	}

	id, err := uuid.Parse(legacy.PlayerInfo.UUID)
	if err != nil {
		return fmt.Errorf("no usable uuid: %w", err)
	}
	playerID := id.String()

	rec, err := i.store.Load(ctx, playerID)
	if err != nil {
		return fmt.Errorf("loading existing record: %w", err)
	}
	if len(rec.Buckets) > 0 {
		return fmt.Errorf("record already exists for %s", playerID)
	}
	rec.Name = legacy.PlayerInfo.Name

	for world, entry := range legacy.Worlds {
		if _, ok := known[world]; !ok {
			i.logger.Warn("unrecognized world in legacy file, skipping",
				"file", filepath.Base(path), "world", world)
			continue
		}
		amount := decimal.Zero
		if entry.Money != "" {
			amount, err = decimal.NewFromString(entry.Money)
			if err != nil {
				i.logger.Warn("unparseable legacy balance, skipping",
					"file", filepath.Base(path), "world", world, "value", entry.Money)
				continue
			}
		}
		// Worlds sharing a group fold into one bucket.
		rec.AddToBucket(i.groups.BucketKey(world), entities.RoundHalfDown(amount, 2))
	}

	if world := legacy.OfflineWorld.Name; world != "" {
		if _, ok := known[world]; ok {
			rec.LastWorld = world
		}
	}

	if err := i.store.Save(ctx, rec); err != nil {
		return fmt.Errorf("saving record: %w", err)
	}
	if rec.Name != "" {
		if err := i.names.Record(ctx, rec.Name, playerID); err != nil {
			return fmt.Errorf("recording name: %w", err)
		}
	}
	return nil
}
