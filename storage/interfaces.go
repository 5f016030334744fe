package storage

import (
	"context"

	"github.com/poiesic/policysync/core"
)

// PolicyRepository provides relational storage for canonical policy records.
// Implementations must be thread-safe and support concurrent access.
type PolicyRepository interface {
	// Upsert inserts the record if its policy number is new, otherwise
	// overwrites every field except the key with the incoming values.
	// A stored vector id is preserved when the incoming record carries
	// none; after the call record.VectorID reflects the persisted value.
	// The single-record upsert is atomic.
	Upsert(ctx context.Context, record *core.PolicyRecord) error

	// SetVectorID updates only the vector id of an existing record.
	// Returns ErrNotFound if the policy number does not exist.
	SetVectorID(ctx context.Context, policyNumber, vectorID string) error

	// GetPolicy retrieves a single record by policy number.
	// Returns ErrNotFound if the record doesn't exist.
	GetPolicy(ctx context.Context, policyNumber string) (*core.PolicyRecord, error)

	// ListMissingVectorID returns up to limit records whose vector id is
	// unset, with policy numbers strictly greater than after, ordered by
	// policy number. Pass "" to start from the beginning.
	ListMissingVectorID(ctx context.Context, after string, limit int) ([]*core.PolicyRecord, error)

	// CountMissingVectorID returns the number of records without a vector id.
	CountMissingVectorID(ctx context.Context) (int64, error)

	// CountPolicies returns the total number of stored records.
	CountPolicies(ctx context.Context) (int64, error)

	// WithTransaction executes fn within a transaction when the backend
	// supports multi-row transactions. If fn returns an error, the
	// transaction is rolled back. The context passed to fn carries
	// transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}
