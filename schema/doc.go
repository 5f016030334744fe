// Package schema reconciles heterogeneous spreadsheet headers onto the
// canonical policy field set.
//
// Dataset revisions disagree on column names: the same treaty retention
// proportion has appeared as "PPN.1" and as "TREATY PPN". A single ordered
// synonym table declares every known variant; resolving a batch produces a
// Map from raw header to canonical field that downstream normalization
// consumes. Headers no rule claims are passed through unmapped and dropped
// later. A batch whose headers cannot resolve the policy_number business
// key fails immediately with a schema error.
package schema
