package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ersonp/worldpurse/internal/domain/services"
	"github.com/ersonp/worldpurse/internal/infrastructure/config"
	"github.com/ersonp/worldpurse/internal/infrastructure/store/sqlite"
)

// deps holds what commands need: the loaded config, the group
// definitions from groups.yaml, and the open SQLite repository.
type deps struct {
	Config *config.Config
	Groups *config.GroupsConfig
	Repo   *sqlite.Repository
	Logger *slog.Logger
}

// withDeps loads config, opens the store, calls fn and cleans up.
func withDeps(ctx context.Context, fn func(*deps) error) error {
	cfg, err := config.Load(globalDataDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	groups, err := config.LoadGroups(globalDataDir)
	if err != nil {
		return fmt.Errorf("loading groups: %w", err)
	}

	repo, err := sqlite.NewRepository(config.SQLiteConfig{Path: cfg.SQLitePath(globalDataDir)})
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer repo.Close()

	if err := repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	return fn(&deps{
		Config: cfg,
		Groups: groups,
		Repo:   repo,
		Logger: logger,
	})
}

// groupIndex builds a group index from the loaded definitions. The CLI
// runs offline, so every world named in groups.yaml counts as known.
func (d *deps) groupIndex() *services.WorldGroups {
	known := make([]string, 0, 8)
	for _, def := range d.Groups.Groups {
		known = append(known, def.Worlds...)
	}
	idx := services.NewWorldGroups(d.Logger)
	idx.Rebuild(d.Groups.Groups, known)
	return idx
}
