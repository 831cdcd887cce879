package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/ersonp/worldpurse/internal/domain/entities"
	"github.com/ersonp/worldpurse/internal/domain/ports"
)

// Synchronizer keeps the economy ledger's live balance in step with the
// per-bucket snapshots in each player's record as players connect, move
// between worlds and disconnect. The host invokes Connect, WorldChange,
// Disconnect and SaveAll at the matching lifecycle moments.
//
// Terminology: a "push" snapshots the ledger's current value into a
// record bucket; a "pull" overwrites the ledger with a bucket value.
type Synchronizer struct {
	ledger ports.Ledger
	store  ports.RecordStore
	names  ports.NameIndex
	groups *WorldGroups
	logger *slog.Logger

	mu     sync.Mutex
	online map[string]*session
}

// session is the single in-memory owner of one connected player's record.
// All record and ledger mutations for that player happen under mu.
type session struct {
	mu     sync.Mutex
	record *entities.PlayerRecord
}

// NewSynchronizer creates a Synchronizer with an empty session cache.
func NewSynchronizer(
	ledger ports.Ledger,
	store ports.RecordStore,
	names ports.NameIndex,
	groups *WorldGroups,
	logger *slog.Logger,
) *Synchronizer {
	return &Synchronizer{
		ledger: ledger,
		store:  store,
		names:  names,
		groups: groups,
		logger: logger,
		online: make(map[string]*session),
	}
}

// Connect loads (or creates) the player's record, caches it, and pulls
// the bucket for the world's group into the ledger. A player connecting
// for the very first time has no buckets yet; the ledger's new-account
// default is left untouched so it can be snapshotted on disconnect
// instead of being clobbered with zero.
func (s *Synchronizer) Connect(ctx context.Context, playerID, name, world string) {
	sess := s.ensureSession(playerID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	rec, err := s.store.Load(ctx, playerID)
	if err != nil {
		s.logger.Error("loading player record, starting from empty",
			"player", playerID, "error", err)
		rec = entities.NewPlayerRecord(playerID, name)
	}
	rec.Name = name
	sess.record = rec

	if err := s.names.Record(ctx, name, playerID); err != nil {
		s.logger.Error("recording player name", "player", playerID, "error", err)
	}

	key := s.groups.BucketKey(world)
	if bal, ok := rec.Bucket(key); ok {
		s.setLedger(ctx, playerID, bal)
	} else if len(rec.Buckets) > 0 {
		rec.SetBucket(key, decimal.Zero)
		s.setLedger(ctx, playerID, decimal.Zero)
	}
	rec.LastWorld = world
}

// WorldChange synchronizes a move from one world to another. When both
// worlds resolve to the same bucket nothing touches the ledger; only the
// last world is updated. Otherwise the current live balance is pushed
// into the source bucket and the destination bucket (created at zero if
// new) is pulled into the ledger. A ledger failure on the pull keeps the
// push: the snapshot stays valid and the player simply carries the old
// live value until corrected. Movement is never blocked by a sync
// failure.
//
// It returns the live balance after the change and whether the active
// bucket changed, so a host can show an arrival balance message.
func (s *Synchronizer) WorldChange(ctx context.Context, playerID, from, to string) (decimal.Decimal, bool, error) {
	sess, ok := s.session(playerID)
	if !ok {
		return decimal.Zero, false, entities.ErrUnknownPlayer
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	rec := sess.record
	if rec == nil {
		return decimal.Zero, false, entities.ErrUnknownPlayer
	}
	fromKey := s.groups.BucketKey(from)
	toKey := s.groups.BucketKey(to)
	if fromKey == toKey {
		rec.LastWorld = to
		return decimal.Zero, false, nil
	}

	cur, err := s.ledger.Balance(ctx, playerID)
	if err != nil {
		// Without the live value there is nothing safe to push or pull;
		// keep the last known-good state.
		s.logger.Error("reading ledger balance on world change",
			"player", playerID, "from", from, "to", to, "error", err)
		rec.LastWorld = to
		return decimal.Zero, false, nil
	}
	rec.SetBucket(fromKey, cur)

	target, ok := rec.Bucket(toKey)
	if !ok {
		rec.SetBucket(toKey, decimal.Zero)
		target = decimal.Zero
	}
	s.setLedger(ctx, playerID, target)
	rec.LastWorld = to
	return target, true, nil
}

// Disconnect pushes the live balance into the bucket for the player's
// current world, persists the record, and evicts the session. The
// record is cleared under the session lock so a payment that looked the
// session up before the eviction finds it dead instead of depositing
// into an already-persisted record.
func (s *Synchronizer) Disconnect(ctx context.Context, playerID, world string) {
	sess, ok := s.session(playerID)
	if !ok {
		return
	}
	sess.mu.Lock()
	rec := sess.record
	if rec == nil {
		sess.mu.Unlock()
		return
	}
	s.push(ctx, rec, world)
	rec.LastWorld = world
	s.persist(ctx, rec)
	sess.record = nil
	sess.mu.Unlock()

	s.mu.Lock()
	delete(s.online, playerID)
	s.mu.Unlock()
}

// SaveAll pushes and persists every connected player's record without
// evicting anyone. Called at shutdown; all in-memory snapshots reach
// durable storage before the process exits.
func (s *Synchronizer) SaveAll(ctx context.Context) {
	s.mu.Lock()
	sessions := make([]*session, 0, len(s.online))
	for _, sess := range s.online {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.mu.Lock()
		rec := sess.record
		if rec == nil {
			sess.mu.Unlock()
			continue
		}
		s.push(ctx, rec, rec.LastWorld)
		s.persist(ctx, rec)
		sess.mu.Unlock()
	}
}

// Online reports the world a connected player was last synchronized in.
func (s *Synchronizer) Online(playerID string) (string, bool) {
	sess, ok := s.session(playerID)
	if !ok {
		return "", false
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.record == nil {
		return "", false
	}
	return sess.record.LastWorld, true
}

// push snapshots the current ledger value into the bucket for world.
func (s *Synchronizer) push(ctx context.Context, rec *entities.PlayerRecord, world string) {
	if world == "" {
		return
	}
	cur, err := s.ledger.Balance(ctx, rec.ID)
	if err != nil {
		s.logger.Error("reading ledger balance for snapshot",
			"player", rec.ID, "world", world, "error", err)
		return
	}
	rec.SetBucket(s.groups.BucketKey(world), cur)
}

func (s *Synchronizer) setLedger(ctx context.Context, playerID string, amount decimal.Decimal) {
	if err := s.ledger.SetBalance(ctx, playerID, amount); err != nil {
		s.logger.Error("setting ledger balance, keeping previous live value",
			"player", playerID, "error", err)
	}
}

// persist saves a record, treating failure as non-fatal: the in-memory
// state stays valid and the next save cycle retries.
func (s *Synchronizer) persist(ctx context.Context, rec *entities.PlayerRecord) {
	if err := s.store.Save(ctx, rec); err != nil {
		s.logger.Error("saving player record", "player", rec.ID, "error", err)
	}
	if err := s.names.Record(ctx, rec.Name, rec.ID); err != nil {
		s.logger.Error("saving player name", "player", rec.ID, "error", err)
	}
}

func (s *Synchronizer) ensureSession(playerID string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.online[playerID]
	if !ok {
		sess = &session{}
		s.online[playerID] = sess
	}
	return sess
}

func (s *Synchronizer) session(playerID string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.online[playerID]
	return sess, ok
}
