// Package worldpurse keeps per-world money balances for players on a
// multi-world game server. Worlds can be clustered into named groups
// that share one balance; worlds outside any group keep independent
// balances. The package does not implement an economy itself: it shadows
// an external economy ledger, swapping the ledger's live value whenever
// a player crosses into a world with a different balance bucket.
//
// The host process wires a Ledger implementation and calls Connect,
// WorldChange, Disconnect and Shutdown at the matching lifecycle
// moments.
package worldpurse

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ersonp/worldpurse/internal/domain/entities"
	"github.com/ersonp/worldpurse/internal/domain/ports"
	"github.com/ersonp/worldpurse/internal/domain/services"
	"github.com/ersonp/worldpurse/internal/infrastructure/config"
	"github.com/ersonp/worldpurse/internal/infrastructure/legacy"
	"github.com/ersonp/worldpurse/internal/infrastructure/store/sqlite"
)

// Ledger is the external economy system the core mirrors buckets into.
type Ledger = ports.Ledger

// Core ties the group index, the record store and the synchronization
// services together behind the lifecycle entry points a host calls.
type Core struct {
	cfg     *config.Config
	repo    *sqlite.Repository
	groups  *services.WorldGroups
	sync    *services.Synchronizer
	pay     *services.Payments
	logger  *slog.Logger
	dataDir string
}

// Open loads configuration from dataDir, opens the store, runs the
// one-time legacy import when the old per-player directory is present,
// and builds the group index against the host's known worlds.
func Open(ctx context.Context, dataDir string, ledger Ledger, knownWorlds []string, logger *slog.Logger) (*Core, error) {
	if logger == nil {
		logger = slog.Default()
	}

	cfg, err := config.Load(dataDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	repo, err := sqlite.NewRepository(config.SQLiteConfig{Path: cfg.SQLitePath(dataDir)})
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	if err := repo.EnsureSchema(ctx); err != nil {
		repo.Close()
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}

	groups := services.NewWorldGroups(logger)
	sync := services.NewSynchronizer(ledger, repo, repo, groups, logger)
	c := &Core{
		cfg:     cfg,
		repo:    repo,
		groups:  groups,
		sync:    sync,
		pay:     services.NewPayments(ledger, repo, sync, logger),
		logger:  logger,
		dataDir: dataDir,
	}

	if err := c.ReloadGroups(knownWorlds); err != nil {
		repo.Close()
		return nil, err
	}

	c.importLegacy(ctx, knownWorlds)

	return c, nil
}

// ReloadGroups re-reads groups.yaml and atomically replaces the group
// index. Previously resolved memberships are discarded; balances already
// snapshotted under old bucket keys are left as they are and the new
// grouping simply applies from the next transition on.
func (c *Core) ReloadGroups(knownWorlds []string) error {
	groupsCfg, err := config.LoadGroups(c.dataDir)
	if err != nil {
		return fmt.Errorf("loading groups: %w", err)
	}
	c.groups.Rebuild(groupsCfg.Groups, knownWorlds)
	return nil
}

// importLegacy runs the one-time import of the old flat per-player
// store. Best-effort: a failed import is logged and the server keeps
// starting.
func (c *Core) importLegacy(ctx context.Context, knownWorlds []string) {
	dir := config.LegacyDir(c.dataDir)
	if _, err := os.Stat(dir); err != nil {
		return
	}
	c.logger.Info("legacy player store found, importing", "dir", dir)
	importer := legacy.NewImporter(c.repo, c.repo, c.groups, c.logger)
	imported, err := importer.Run(ctx, dir, knownWorlds)
	if err != nil {
		c.logger.Error("legacy import incomplete", "imported", imported, "error", err)
		return
	}
	c.logger.Info("legacy import finished", "imported", imported)
}

// Connect registers a player arriving in a world and activates the
// matching balance bucket.
func (c *Core) Connect(ctx context.Context, playerID, name, world string) {
	c.sync.Connect(ctx, playerID, name, world)
}

// WorldChange synchronizes a move between worlds. The returned notice is
// the configured arrival message with the live balance filled in, empty
// when the active bucket did not change or the notice is disabled.
func (c *Core) WorldChange(ctx context.Context, playerID, from, to string) (string, error) {
	balance, changed, err := c.sync.WorldChange(ctx, playerID, from, to)
	if err != nil {
		return "", err
	}
	if !changed || !c.cfg.Messages.ShowWorldBalance {
		return "", nil
	}
	return strings.ReplaceAll(c.cfg.Messages.WorldBalance, "[balance]", balance.StringFixed(2)), nil
}

// Disconnect snapshots the player's live balance, persists their record
// and drops them from the cache.
func (c *Core) Disconnect(ctx context.Context, playerID, world string) {
	c.sync.Disconnect(ctx, playerID, world)
}

// Pay transfers an amount, given as a decimal string, from the sender to
// the named recipient.
func (c *Core) Pay(ctx context.Context, senderID, recipientName, amount string) error {
	d, err := entities.ParseAmount(amount)
	if err != nil {
		return err
	}
	return c.pay.Pay(ctx, senderID, recipientName, d)
}

// GroupWorlds returns the worlds sharing a balance with the given world.
func (c *Core) GroupWorlds(world string) []string {
	return c.groups.Members(world)
}

// StoredBalances returns a player's persisted bucket balances by name.
// For a connected player this is the state as of the last persist, not
// the live session: the bucket for their current world lags the ledger
// until the next push.
func (c *Core) StoredBalances(ctx context.Context, name string) (map[string]decimal.Decimal, error) {
	playerID, err := c.repo.Resolve(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("resolving player: %w", err)
	}
	if playerID == "" {
		return nil, fmt.Errorf("%w: %s", entities.ErrUnknownPlayer, name)
	}
	rec, err := c.repo.Load(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("loading record: %w", err)
	}
	return rec.Buckets, nil
}

// Shutdown flushes every connected player's record to durable storage
// and closes the store. This is the one process-wide ordering guarantee:
// all in-memory snapshots reach disk before teardown.
func (c *Core) Shutdown(ctx context.Context) error {
	c.sync.SaveAll(ctx)
	return c.repo.Close()
}
