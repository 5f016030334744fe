// Package normalize coerces renamed raw rows into canonical policy records.
//
// Normalization is deliberately lenient where the source data is sloppy
// (numeric coercion, missing periods) and strict where identity is at
// stake (the cleaned policy number must be non-empty, period bounds must
// be ordered). Every outcome is a value; nothing throws past this
// boundary.
package normalize
