package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/worldpurse/internal/domain/entities"
	"github.com/ersonp/worldpurse/internal/infrastructure/config"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(config.SQLiteConfig{
		Path: filepath.Join(t.TempDir(), "worldpurse.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	require.NoError(t, repo.EnsureSchema(context.Background()))
	return repo
}

func TestRepositoryRequiresPath(t *testing.T) {
	_, err := NewRepository(config.SQLiteConfig{})
	assert.Error(t, err)
}

func TestRecordRoundTrip(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	rec := entities.NewPlayerRecord("p1", "Alice")
	rec.LastWorld = "world_b"
	rec.SetBucket("survival", decimal.RequireFromString("42.50"))
	rec.SetBucket("world_a", decimal.RequireFromString("100.00"))

	require.NoError(t, repo.Save(ctx, rec))

	loaded, err := repo.Load(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", loaded.Name)
	assert.Equal(t, "world_b", loaded.LastWorld)
	require.Len(t, loaded.Buckets, 2)

	b, ok := loaded.Bucket("survival")
	require.True(t, ok)
	assert.True(t, b.Equal(decimal.RequireFromString("42.50")))
	b, ok = loaded.Bucket("world_a")
	require.True(t, ok)
	assert.True(t, b.Equal(decimal.RequireFromString("100.00")))
}

func TestLoadMissingPlayerReturnsDefault(t *testing.T) {
	repo := newTestRepository(t)

	rec, err := repo.Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, "nobody", rec.ID)
	assert.Empty(t, rec.Name)
	assert.Empty(t, rec.LastWorld)
	assert.Empty(t, rec.Buckets)
}

func TestSaveReplacesPriorState(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	rec := entities.NewPlayerRecord("p1", "Alice")
	rec.SetBucket("world_a", decimal.RequireFromString("10.00"))
	rec.SetBucket("world_b", decimal.RequireFromString("20.00"))
	require.NoError(t, repo.Save(ctx, rec))

	// A later save with fewer buckets fully replaces the old rows.
	rec = entities.NewPlayerRecord("p1", "Alicia")
	rec.SetBucket("world_a", decimal.RequireFromString("15.00"))
	require.NoError(t, repo.Save(ctx, rec))

	loaded, err := repo.Load(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Alicia", loaded.Name)
	require.Len(t, loaded.Buckets, 1)
	b, _ := loaded.Bucket("world_a")
	assert.True(t, b.Equal(decimal.RequireFromString("15.00")))
}

func TestListOrdersByName(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for _, p := range []struct{ id, name string }{
		{"p2", "Zed"}, {"p1", "Alice"}, {"p3", "Mallory"},
	} {
		rec := entities.NewPlayerRecord(p.id, p.name)
		rec.SetBucket("world_a", decimal.RequireFromString("1.00"))
		require.NoError(t, repo.Save(ctx, rec))
	}

	records, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Alice", records[0].Name)
	assert.Equal(t, "Mallory", records[1].Name)
	assert.Equal(t, "Zed", records[2].Name)
	b, ok := records[0].Bucket("world_a")
	require.True(t, ok)
	assert.True(t, b.Equal(decimal.RequireFromString("1.00")))
}

func TestNameIndex(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	t.Run("unknown name resolves empty", func(t *testing.T) {
		id, err := repo.Resolve(ctx, "Nobody")
		require.NoError(t, err)
		assert.Empty(t, id)
	})

	t.Run("case-insensitive resolve", func(t *testing.T) {
		require.NoError(t, repo.Record(ctx, "Alice", "p1"))

		for _, name := range []string{"alice", "ALICE", "Alice", "  alice "} {
			id, err := repo.Resolve(ctx, name)
			require.NoError(t, err)
			assert.Equal(t, "p1", id, "resolving %q", name)
		}
	})

	t.Run("last write wins", func(t *testing.T) {
		require.NoError(t, repo.Record(ctx, "Alice", "p1"))
		require.NoError(t, repo.Record(ctx, "alice", "p9"))

		id, err := repo.Resolve(ctx, "Alice")
		require.NoError(t, err)
		assert.Equal(t, "p9", id)
	})
}
