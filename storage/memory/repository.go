package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/poiesic/policysync/core"
	"github.com/poiesic/policysync/storage"
)

// Repository is an in-memory PolicyRepository for tests and dry runs.
// Function fields allow failure injection per call site.
type Repository struct {
	mu      sync.Mutex
	records map[string]*core.PolicyRecord
	closed  bool

	// UpsertErr, when set, is called before every Upsert; a non-nil return
	// fails that call. Used to simulate store-level rejections.
	UpsertErr func(record *core.PolicyRecord) error

	// SetVectorIDErr, when set, is called before every SetVectorID.
	SetVectorIDErr func(policyNumber string) error

	upsertCalls int
}

// NewRepository creates an empty in-memory repository.
func NewRepository() *Repository {
	return &Repository{records: make(map[string]*core.PolicyRecord)}
}

var _ storage.PolicyRepository = (*Repository)(nil)

func (r *Repository) Upsert(ctx context.Context, record *core.PolicyRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return storage.ErrStorageClosed
	}
	r.upsertCalls++

	if r.UpsertErr != nil {
		if err := r.UpsertErr(record); err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	stored, exists := r.records[record.PolicyNumber]

	clone := *record
	if exists {
		clone.InsertedAt = stored.InsertedAt
		if clone.VectorID == nil {
			clone.VectorID = stored.VectorID
		}
	} else {
		clone.InsertedAt = now
	}
	clone.UpdatedAt = now

	r.records[record.PolicyNumber] = &clone
	record.VectorID = clone.VectorID
	return nil
}

func (r *Repository) SetVectorID(ctx context.Context, policyNumber, vectorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return storage.ErrStorageClosed
	}
	if r.SetVectorIDErr != nil {
		if err := r.SetVectorIDErr(policyNumber); err != nil {
			return err
		}
	}

	stored, ok := r.records[policyNumber]
	if !ok {
		return storage.ErrNotFound
	}
	stored.VectorID = &vectorID
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *Repository) GetPolicy(ctx context.Context, policyNumber string) (*core.PolicyRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, storage.ErrStorageClosed
	}
	stored, ok := r.records[policyNumber]
	if !ok {
		return nil, storage.ErrNotFound
	}
	clone := *stored
	return &clone, nil
}

func (r *Repository) ListMissingVectorID(ctx context.Context, after string, limit int) ([]*core.PolicyRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, storage.ErrStorageClosed
	}
	if limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	keys := make([]string, 0, len(r.records))
	for key, record := range r.records {
		if record.VectorID == nil && key > after {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	if len(keys) > limit {
		keys = keys[:limit]
	}

	out := make([]*core.PolicyRecord, len(keys))
	for i, key := range keys {
		clone := *r.records[key]
		out[i] = &clone
	}
	return out, nil
}

func (r *Repository) CountMissingVectorID(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return 0, storage.ErrStorageClosed
	}
	var n int64
	for _, record := range r.records {
		if record.VectorID == nil {
			n++
		}
	}
	return n, nil
}

func (r *Repository) CountPolicies(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return 0, storage.ErrStorageClosed
	}
	return int64(len(r.records)), nil
}

// WithTransaction runs fn directly; the in-memory backend has no multi-row
// transactions, but each single-record operation is atomic under the mutex.
func (r *Repository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (r *Repository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// UpsertCalls returns how many times Upsert was invoked, for test assertions.
func (r *Repository) UpsertCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.upsertCalls
}
