package ports

import "context"

// NameIndex maps display names to stable player IDs. Lookups are
// case-insensitive. Names are not unique over time (players rename);
// the latest Record call wins.
type NameIndex interface {
	// Resolve returns the player ID for a name, or "" when unknown.
	Resolve(ctx context.Context, name string) (string, error)

	// Record upserts the name to ID mapping.
	Record(ctx context.Context, name, playerID string) error
}
