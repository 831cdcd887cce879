package legacy

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/worldpurse/internal/domain/mocks"
	"github.com/ersonp/worldpurse/internal/domain/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeLegacyFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestImporterRun(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	dir := filepath.Join(base, "userdata")
	require.NoError(t, os.Mkdir(dir, 0755))

	aliceID := uuid.New().String()
	writeLegacyFile(t, dir, "alice.yml", `
playerinfo:
  uuid: `+aliceID+`
  name: Alice
offline_world:
  name: world_b
world_a:
  money: 100.005
world_b:
  money: 10.00
world_c:
  money: 5.50
old_event_world:
  money: 999.00
`)
	writeLegacyFile(t, dir, "broken.yml", "playerinfo: [not a mapping\n")
	writeLegacyFile(t, dir, "no_uuid.yml", "playerinfo:\n  name: Ghost\n")
	writeLegacyFile(t, dir, "notes.txt", "not a player file")

	store := mocks.NewRecordStore()
	names := mocks.NewNameIndex()
	groups := services.NewWorldGroups(testLogger())
	groups.Rebuild([]services.GroupDefinition{
		{Name: "survival", Worlds: []string{"world_b", "world_c"}},
	}, []string{"world_a", "world_b", "world_c"})

	importer := NewImporter(store, names, groups, testLogger())
	imported, err := importer.Run(ctx, dir, []string{"world_a", "world_b", "world_c"})
	require.NoError(t, err)
	assert.Equal(t, 1, imported)

	rec := store.Records[aliceID]
	require.NotNil(t, rec)
	assert.Equal(t, "Alice", rec.Name)
	assert.Equal(t, "world_b", rec.LastWorld)

	// world_a stays its own bucket; the rounding rule applies on import.
	b, ok := rec.Bucket("world_a")
	require.True(t, ok)
	assert.True(t, b.Equal(decimal.RequireFromString("100.00")))

	// world_b and world_c fold into the survival bucket.
	b, ok = rec.Bucket("survival")
	require.True(t, ok)
	assert.True(t, b.Equal(decimal.RequireFromString("15.50")))

	// The unrecognized world is dropped, not imported.
	_, ok = rec.Bucket("old_event_world")
	assert.False(t, ok)

	id, err := names.Resolve(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, aliceID, id)

	// The directory is retired so the import never re-runs.
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(dir + ".old")
	assert.NoError(t, err)
}

func TestImporterSkipsExistingRecords(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	dir := filepath.Join(base, "userdata")
	require.NoError(t, os.Mkdir(dir, 0755))

	id := uuid.New().String()
	writeLegacyFile(t, dir, "alice.yml", `
playerinfo:
  uuid: `+id+`
  name: Alice
world_a:
  money: 50.00
`)

	store := mocks.NewRecordStore()
	names := mocks.NewNameIndex()
	groups := services.NewWorldGroups(testLogger())

	existing, err := store.Load(ctx, id)
	require.NoError(t, err)
	existing.Name = "Alice"
	existing.SetBucket("world_a", decimal.RequireFromString("7.00"))
	require.NoError(t, store.Save(ctx, existing))

	importer := NewImporter(store, names, groups, testLogger())
	imported, err := importer.Run(ctx, dir, []string{"world_a"})
	require.NoError(t, err)
	assert.Zero(t, imported)

	b, _ := store.Records[id].Bucket("world_a")
	assert.True(t, b.Equal(decimal.RequireFromString("7.00")), "existing record untouched")
}

func TestImporterMissingDirectory(t *testing.T) {
	importer := NewImporter(mocks.NewRecordStore(), mocks.NewNameIndex(),
		services.NewWorldGroups(testLogger()), testLogger())

	_, err := importer.Run(context.Background(), filepath.Join(t.TempDir(), "nope"), nil)
	assert.Error(t, err)
}
