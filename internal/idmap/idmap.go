// Package idmap associates stable numeric article ids with Airtable record ids.
package idmap

import (
	"context"
	"sync"
	"unicode/utf16"

	"articlehub/internal/apperr"
)

// Hash derives a 31-bit non-negative id from an external record id. It folds
// every UTF-16 code unit in as hash = (hash<<5) - hash + unit with 32-bit
// wraparound, then masks off the sign bit.
//
// Distinct record ids can hash to the same value (for example "recAa" and
// "recBB"). Collisions are neither detected nor resolved.
func Hash(externalID string) int {
	var h uint32
	for _, unit := range utf16.Encode([]rune(externalID)) {
		h = (h << 5) - h + uint32(unit)
	}
	return int(h & 0x7fffffff)
}

// Table maps internal ids to external record ids. Entries are added on first
// sighting and never removed.
type Table struct {
	mu      sync.RWMutex
	records map[int]string
}

func NewTable() *Table {
	return &Table{records: make(map[int]string)}
}

// Put records externalID and returns its internal id. A colliding record
// silently replaces the earlier entry.
func (t *Table) Put(externalID string) int {
	id := Hash(externalID)
	t.mu.Lock()
	t.records[id] = externalID
	t.mu.Unlock()
	return id
}

func (t *Table) Lookup(id int) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	externalID, ok := t.records[id]
	return externalID, ok
}

func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.records)
}

// Resolve returns the external id for id. On a miss it runs refetch once,
// which is expected to repopulate the table, and looks again. A second miss
// is a NOT_FOUND_ERROR.
func (t *Table) Resolve(ctx context.Context, id int, refetch func(context.Context) error) (string, error) {
	if externalID, ok := t.Lookup(id); ok {
		return externalID, nil
	}

	if err := refetch(ctx); err != nil {
		return "", err
	}

	if externalID, ok := t.Lookup(id); ok {
		return externalID, nil
	}
	return "", apperr.NotFound(id)
}
