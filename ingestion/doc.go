// Package ingestion orchestrates the policy ingestion pipeline.
//
// One Run processes one batch of raw spreadsheet rows: headers are
// reconciled against the canonical schema, rows are normalized into policy
// records, records are upserted into the relational store and their vector
// representations synced into the vector index. Per-record outcomes are
// collected in a ledger and returned as a batch summary.
//
// Records with distinct business keys are processed concurrently on a
// bounded worker pool; rows sharing a key are serialized in input order so
// the last write wins. External calls are retried with exponential backoff
// before a record is marked failed. A single poisoned record never aborts
// the batch; only an unresolvable schema (no policy number column) does.
package ingestion
