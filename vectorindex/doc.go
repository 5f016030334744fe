// Package vectorindex abstracts the external nearest-neighbor store that
// holds embedding vectors for policy records.
//
// The pipeline only ever upserts: a record's vector entry is keyed by its
// stable vector id, so refreshing a record overwrites the old entry rather
// than accumulating duplicates. Similarity search over the index belongs to
// the query layer and is out of scope here.
//
// The qdrant sub-package implements Index against a Qdrant instance over
// gRPC; the mock sub-package provides an in-memory test double.
package vectorindex
