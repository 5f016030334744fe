package vectorindex

import "context"

// Entry is one vector index entry: an embedding plus the filterable
// metadata payload mirroring the canonical record it was derived from.
type Entry struct {
	ID       string
	Vector   []float32
	Metadata map[string]string
}

// Index provides upsert access to an external vector index.
// Implementations must be thread-safe for concurrent use.
type Index interface {
	// UpsertVector inserts or overwrites the entry with the given id.
	// Upserting an existing id replaces the stored vector and metadata in
	// place; it never creates a duplicate entry.
	UpsertVector(ctx context.Context, entry Entry) error

	// Close releases resources held by the index client.
	Close() error
}
