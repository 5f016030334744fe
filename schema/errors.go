package schema

import "errors"

var (
	// ErrPolicyNumberUnresolved indicates no observed header resolves to the
	// policy_number business key. The batch cannot be processed without it.
	ErrPolicyNumberUnresolved = errors.New("schema: policy number column cannot be resolved")
)
