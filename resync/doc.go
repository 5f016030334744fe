// Package resync repairs the eventual-consistency gap between the
// relational store and the vector index. A record whose vector sync failed
// during ingestion is left behind with no vector id; the sweeper walks
// those records in keyset batches and replays the embedding sync for each
// until the index is current again.
package resync
