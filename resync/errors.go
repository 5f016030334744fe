package resync

import "errors"

var (
	// ErrAllSyncFailed is returned when a sweep found records to repair but
	// could not sync a single one.
	ErrAllSyncFailed = errors.New("no records were successfully synced")
)
