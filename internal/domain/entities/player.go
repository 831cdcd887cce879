// Package entities contains core domain data structures.
package entities

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PlayerRecord holds everything persisted for one player: their display
// name, the world they last synchronized in, and a balance per bucket.
// A bucket key is the world group name for grouped worlds, or the world
// name itself for ungrouped ones. Exactly one bucket mirrors the economy
// ledger at any time; all others are frozen snapshots.
type PlayerRecord struct {
	ID        string                     `json:"id"`
	Name      string                     `json:"name"`
	LastWorld string                     `json:"last_world"`
	Buckets   map[string]decimal.Decimal `json:"buckets"`
}

// NewPlayerRecord returns an empty record for a player seen for the
// first time: no last world, no buckets.
func NewPlayerRecord(id, name string) *PlayerRecord {
	return &PlayerRecord{
		ID:      id,
		Name:    name,
		Buckets: make(map[string]decimal.Decimal),
	}
}

// Bucket returns the stored balance for a bucket key, and whether the
// bucket exists. A missing bucket reports zero.
func (r *PlayerRecord) Bucket(key string) (decimal.Decimal, bool) {
	b, ok := r.Buckets[key]
	if !ok {
		return decimal.Zero, false
	}
	return b, true
}

// SetBucket stores a balance for a bucket key, rounding it to cents.
func (r *PlayerRecord) SetBucket(key string, amount decimal.Decimal) {
	if r.Buckets == nil {
		r.Buckets = make(map[string]decimal.Decimal)
	}
	r.Buckets[key] = RoundHalfDown(amount, 2)
}

// AddToBucket adds an amount to a bucket, creating it at zero first if
// it does not exist.
func (r *PlayerRecord) AddToBucket(key string, amount decimal.Decimal) {
	current, _ := r.Bucket(key)
	r.SetBucket(key, current.Add(amount))
}

// NormalizeName converts a name to lowercase for case-insensitive matching.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
