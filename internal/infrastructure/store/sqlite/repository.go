// Package sqlite provides the SQLite implementation of the RecordStore
// and NameIndex interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/ersonp/worldpurse/internal/domain/entities"
	"github.com/ersonp/worldpurse/internal/infrastructure/config"
)

// Repository implements ports.RecordStore and ports.NameIndex using SQLite.
type Repository struct {
	db   *sql.DB
	path string
}

// NewRepository creates a new SQLite repository.
func NewRepository(cfg config.SQLiteConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Enable foreign keys for referential integrity
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Repository{
		db:   db,
		path: cfg.Path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- Players (one record per player ever seen)
	CREATE TABLE IF NOT EXISTS players (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		last_world TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- Bucket balances (one row per player and bucket key)
	CREATE TABLE IF NOT EXISTS balances (
		player_id TEXT NOT NULL REFERENCES players(id),
		bucket TEXT NOT NULL,
		amount TEXT NOT NULL,
		PRIMARY KEY (player_id, bucket)
	);
	CREATE INDEX IF NOT EXISTS idx_balances_player ON balances(player_id);

	-- Name index (display name -> player id, last write wins)
	CREATE TABLE IF NOT EXISTS names (
		normalized_name TEXT PRIMARY KEY,
		player_id TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_names_player ON names(player_id);
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Load returns the stored record for a player, or a fresh default record
// when none exists on disk.
func (r *Repository) Load(ctx context.Context, playerID string) (*entities.PlayerRecord, error) {
	query := `SELECT id, name, last_world FROM players WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, playerID)

	rec := entities.NewPlayerRecord(playerID, "")
	err := row.Scan(&rec.ID, &rec.Name, &rec.LastWorld)
	if err == sql.ErrNoRows {
		return rec, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning player: %w", err)
	}

	if err := r.loadBuckets(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Save durably overwrites the player's record. The player row and all
// bucket rows are replaced in one transaction, so a concurrent Load sees
// either the old record or the new one.
func (r *Repository) Save(ctx context.Context, record *entities.PlayerRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning save transaction: %w", err)
	}
	defer tx.Rollback()

	playerQuery := `
		INSERT INTO players (id, name, last_world, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			last_world = excluded.last_world,
			updated_at = CURRENT_TIMESTAMP
	`
	if _, err := tx.ExecContext(ctx, playerQuery, record.ID, record.Name, record.LastWorld); err != nil {
		return fmt.Errorf("saving player: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM balances WHERE player_id = ?`, record.ID); err != nil {
		return fmt.Errorf("clearing balances: %w", err)
	}
	for bucket, amount := range record.Buckets {
		insert := `INSERT INTO balances (player_id, bucket, amount) VALUES (?, ?, ?)`
		if _, err := tx.ExecContext(ctx, insert, record.ID, bucket, amount.String()); err != nil {
			return fmt.Errorf("saving balance %s: %w", bucket, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save: %w", err)
	}
	return nil
}

// List returns all stored records, ordered by player name.
func (r *Repository) List(ctx context.Context) ([]*entities.PlayerRecord, error) {
	query := `SELECT id, name, last_world FROM players ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying players: %w", err)
	}
	defer rows.Close()

	result := make([]*entities.PlayerRecord, 0, 16)
	for rows.Next() {
		rec := entities.NewPlayerRecord("", "")
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.LastWorld); err != nil {
			return nil, fmt.Errorf("scanning player: %w", err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, rec := range result {
		if err := r.loadBuckets(ctx, rec); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// loadBuckets fills a record's bucket map from the balances table.
// Amounts that no longer parse are skipped rather than failing the load.
func (r *Repository) loadBuckets(ctx context.Context, rec *entities.PlayerRecord) error {
	query := `SELECT bucket, amount FROM balances WHERE player_id = ?`
	rows, err := r.db.QueryContext(ctx, query, rec.ID)
	if err != nil {
		return fmt.Errorf("querying balances: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var bucket, amount string
		if err := rows.Scan(&bucket, &amount); err != nil {
			return fmt.Errorf("scanning balance: %w", err)
		}
		d, err := decimal.NewFromString(amount)
		if err != nil {
			continue
		}
		rec.Buckets[bucket] = d
	}
	return rows.Err()
}

// Resolve returns the player ID recorded for a name, or "" when the
// name is unknown. Matching is case-insensitive.
func (r *Repository) Resolve(ctx context.Context, name string) (string, error) {
	query := `SELECT player_id FROM names WHERE normalized_name = ?`
	row := r.db.QueryRowContext(ctx, query, entities.NormalizeName(name))

	var playerID string
	err := row.Scan(&playerID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("scanning name: %w", err)
	}
	return playerID, nil
}

// Record upserts the name to player ID mapping. The latest write wins;
// the authoritative reverse mapping lives on the player record itself.
func (r *Repository) Record(ctx context.Context, name, playerID string) error {
	query := `
		INSERT INTO names (normalized_name, player_id)
		VALUES (?, ?)
		ON CONFLICT(normalized_name) DO UPDATE SET
			player_id = excluded.player_id
	`
	if _, err := r.db.ExecContext(ctx, query, entities.NormalizeName(name), playerID); err != nil {
		return fmt.Errorf("recording name: %w", err)
	}
	return nil
}
