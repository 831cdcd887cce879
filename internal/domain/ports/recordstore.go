package ports

import (
	"context"

	"github.com/ersonp/worldpurse/internal/domain/entities"
)

// RecordStore persists player balance records. Implementations must make
// Save an atomic replace: a concurrent Load never observes a half-written
// bucket map.
type RecordStore interface {
	// Load returns the stored record for a player, or a fresh default
	// record (no last world, empty buckets) when none exists.
	Load(ctx context.Context, playerID string) (*entities.PlayerRecord, error)

	// Save durably overwrites the player's record. Idempotent.
	Save(ctx context.Context, record *entities.PlayerRecord) error

	// List returns all stored records, ordered by player name.
	List(ctx context.Context) ([]*entities.PlayerRecord, error)
}
