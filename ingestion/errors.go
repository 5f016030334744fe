package ingestion

import "errors"

var (
	// ErrRepositoryRequired is returned when a policy repository is not provided.
	ErrRepositoryRequired = errors.New("policy repository required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrIndexRequired is returned when a vector index is not provided.
	ErrIndexRequired = errors.New("vector index required")

	// ErrAllRecordsFailed is returned alongside the summary when a non-empty
	// batch produced no successfully ingested record.
	ErrAllRecordsFailed = errors.New("no records were successfully ingested")

	// ErrInvalidMaxAttempts is returned when a retry is configured with a
	// non-positive attempt cap.
	ErrInvalidMaxAttempts = errors.New("max attempts must be greater than zero")
)
