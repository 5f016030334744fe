package mock

import (
	"context"
	"sync"

	"github.com/poiesic/policysync/vectorindex"
)

// Index is an in-memory test double for vectorindex.Index.
// It records every upsert and allows failure injection via UpsertFunc.
type Index struct {
	mu      sync.Mutex
	entries map[string]vectorindex.Entry
	upserts int
	closed  bool

	// UpsertFunc is consulted before every upsert if set; a non-nil return
	// fails that call without storing the entry.
	UpsertFunc func(entry vectorindex.Entry) error
}

// NewIndex creates an empty in-memory index.
// Returns the concrete type to allow test assertions.
func NewIndex() *Index {
	return &Index{entries: make(map[string]vectorindex.Entry)}
}

var _ vectorindex.Index = (*Index)(nil)

func (m *Index) UpsertVector(ctx context.Context, entry vectorindex.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return vectorindex.ErrIndexClosed
	}
	m.upserts++
	if m.UpsertFunc != nil {
		if err := m.UpsertFunc(entry); err != nil {
			return err
		}
	}
	if entry.ID == "" {
		return vectorindex.ErrEmptyID
	}
	if len(entry.Vector) == 0 {
		return vectorindex.ErrEmptyVector
	}

	m.entries[entry.ID] = entry
	return nil
}

func (m *Index) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Entry returns the stored entry for id, if any.
func (m *Index) Entry(id string) (vectorindex.Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[id]
	return entry, ok
}

// Len returns the number of distinct stored entries.
func (m *Index) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// UpsertCalls returns how many times UpsertVector was invoked.
func (m *Index) UpsertCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.upserts
}

// Reset clears stored entries, counters and the injected failure.
func (m *Index) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]vectorindex.Entry)
	m.upserts = 0
	m.closed = false
	m.UpsertFunc = nil
}
