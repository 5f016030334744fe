package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePolicyRecord(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	t.Run("valid record", func(t *testing.T) {
		record := &PolicyRecord{
			PolicyNumber: "P-001",
			InsuredName:  "Acme Holdings",
			PeriodStart:  &start,
			PeriodEnd:    &end,
		}
		require.NoError(t, ValidatePolicyRecord(record))
	})

	t.Run("nil record", func(t *testing.T) {
		err := ValidatePolicyRecord(nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidPolicyRecord)
	})

	t.Run("empty policy number", func(t *testing.T) {
		err := ValidatePolicyRecord(&PolicyRecord{})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrEmptyPolicyNumber)
	})

	t.Run("period start after end", func(t *testing.T) {
		record := &PolicyRecord{
			PolicyNumber: "P-001",
			PeriodStart:  &end,
			PeriodEnd:    &start,
		}
		err := ValidatePolicyRecord(record)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrPeriodOrder)
	})

	t.Run("missing period is acceptable", func(t *testing.T) {
		record := &PolicyRecord{PolicyNumber: "P-001"}
		require.NoError(t, ValidatePolicyRecord(record))
	})

	t.Run("only one period bound present", func(t *testing.T) {
		record := &PolicyRecord{PolicyNumber: "P-001", PeriodStart: &start}
		require.NoError(t, ValidatePolicyRecord(record))
	})
}

func TestContentFingerprint(t *testing.T) {
	a := ContentFingerprint("policy_number: P-001")
	b := ContentFingerprint("policy_number: P-001")
	c := ContentFingerprint("policy_number: P-002")

	assert.Equal(t, a, b, "identical content must produce identical fingerprints")
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 32)
}
