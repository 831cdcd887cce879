package mocks

import (
	"context"
	"sync"

	"github.com/ersonp/worldpurse/internal/domain/entities"
)

// NameIndex is an in-memory mock of ports.NameIndex.
type NameIndex struct {
	mu    sync.Mutex
	Names map[string]string

	ResolveErr error
	RecordErr  error
}

// NewNameIndex creates an empty mock index.
func NewNameIndex() *NameIndex {
	return &NameIndex{Names: make(map[string]string)}
}

// Resolve returns the player ID for a name, case-insensitively.
func (m *NameIndex) Resolve(_ context.Context, name string) (string, error) {
	if m.ResolveErr != nil {
		return "", m.ResolveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Names[entities.NormalizeName(name)], nil
}

// Record upserts the name to ID mapping.
func (m *NameIndex) Record(_ context.Context, name, playerID string) error {
	if m.RecordErr != nil {
		return m.RecordErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Names[entities.NormalizeName(name)] = playerID
	return nil
}
