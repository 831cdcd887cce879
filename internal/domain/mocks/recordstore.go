package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/ersonp/worldpurse/internal/domain/entities"
)

// RecordStore is an in-memory mock of ports.RecordStore. Records are
// deep-copied on Load and Save so tests exercise the same
// serialize/deserialize boundary the real store has.
type RecordStore struct {
	mu      sync.Mutex
	Records map[string]*entities.PlayerRecord

	LoadErr error
	SaveErr error

	// Saves counts successful Save calls.
	Saves int
}

// NewRecordStore creates an empty mock store.
func NewRecordStore() *RecordStore {
	return &RecordStore{Records: make(map[string]*entities.PlayerRecord)}
}

// Load returns a copy of the stored record, or a fresh default record.
func (m *RecordStore) Load(_ context.Context, playerID string) (*entities.PlayerRecord, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.Records[playerID]
	if !ok {
		return entities.NewPlayerRecord(playerID, ""), nil
	}
	return copyRecord(rec), nil
}

// Save stores a copy of the record.
func (m *RecordStore) Save(_ context.Context, record *entities.PlayerRecord) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Records[record.ID] = copyRecord(record)
	m.Saves++
	return nil
}

// List returns copies of all stored records ordered by name.
func (m *RecordStore) List(_ context.Context) ([]*entities.PlayerRecord, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*entities.PlayerRecord, 0, len(m.Records))
	for _, rec := range m.Records {
		result = append(result, copyRecord(rec))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func copyRecord(rec *entities.PlayerRecord) *entities.PlayerRecord {
	buckets := make(map[string]decimal.Decimal, len(rec.Buckets))
	for k, v := range rec.Buckets {
		buckets[k] = v
	}
	return &entities.PlayerRecord{
		ID:        rec.ID,
		Name:      rec.Name,
		LastWorld: rec.LastWorld,
		Buckets:   buckets,
	}
}
