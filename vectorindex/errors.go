package vectorindex

import "errors"

var (
	// ErrEmptyID indicates an upsert without a vector identifier.
	ErrEmptyID = errors.New("vector id cannot be empty")

	// ErrEmptyVector indicates an upsert without embedding values.
	ErrEmptyVector = errors.New("vector cannot be empty")

	// ErrIndexClosed indicates the index client has been closed.
	ErrIndexClosed = errors.New("vector index is closed")
)
