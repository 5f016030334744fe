package normalize

import (
	"testing"
	"time"

	"github.com/poiesic/policysync/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Run("full row", func(t *testing.T) {
		record, err := Normalize(map[string]string{
			core.FieldPolicyNumber:    "P-001",
			core.FieldInsuredName:     "Acme Holdings",
			core.FieldSumInsured:      "1000000",
			core.FieldPremium:         "2500.50",
			core.FieldInsurancePeriod: "01/01/2024 - 31/12/2024",
		})
		require.NoError(t, err)

		assert.Equal(t, "P-001", record.PolicyNumber)
		assert.Equal(t, "Acme Holdings", record.InsuredName)
		assert.Equal(t, 1000000.0, record.SumInsured)
		assert.Equal(t, 2500.50, record.Premium)

		require.NotNil(t, record.PeriodStart)
		require.NotNil(t, record.PeriodEnd)
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *record.PeriodStart)
		assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), *record.PeriodEnd)
	})

	t.Run("empty key after cleaning fails the record", func(t *testing.T) {
		_, err := Normalize(map[string]string{
			core.FieldPolicyNumber: " \x01\x02 ",
			core.FieldSumInsured:   "100",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrEmptyPolicyNumber)
	})

	t.Run("missing period yields absent dates, not a failure", func(t *testing.T) {
		record, err := Normalize(map[string]string{
			core.FieldPolicyNumber: "P-002",
		})
		require.NoError(t, err)
		assert.Nil(t, record.PeriodStart)
		assert.Nil(t, record.PeriodEnd)
	})

	t.Run("unparseable numeric becomes zero", func(t *testing.T) {
		record, err := Normalize(map[string]string{
			core.FieldPolicyNumber: "P-003",
			core.FieldSumInsured:   "N/A",
			core.FieldPremium:      "pending",
		})
		require.NoError(t, err)
		assert.Equal(t, 0.0, record.SumInsured)
		assert.Equal(t, 0.0, record.Premium)
	})

	t.Run("blank insured name defaults", func(t *testing.T) {
		record, err := Normalize(map[string]string{
			core.FieldPolicyNumber: "P-004",
			core.FieldInsuredName:  "  ",
		})
		require.NoError(t, err)
		assert.Equal(t, core.DefaultInsuredName, record.InsuredName)
	})

	t.Run("inverted period is a validation failure", func(t *testing.T) {
		_, err := Normalize(map[string]string{
			core.FieldPolicyNumber:    "P-005",
			core.FieldInsurancePeriod: "31/12/2024 - 01/01/2024",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrPeriodOrder)
	})

	t.Run("numeric fields default to zero when absent", func(t *testing.T) {
		record, err := Normalize(map[string]string{
			core.FieldPolicyNumber: "P-006",
		})
		require.NoError(t, err)
		assert.Equal(t, 0.0, record.TreatyRetentionPPN)
		assert.Equal(t, 0.0, record.FacultativeOutwardPremium)
	})
}

func TestCleanPolicyNumber(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "P-001", "P-001"},
		{"surrounding whitespace", "  P-001  ", "P-001"},
		{"control characters", "P-\x0100\x1F1", "P-0011"},
		{"black square artifact", "P-001■", "P-001"},
		{"coinsurance suffix", "P-001 A/B", "P-001"},
		{"suffix only stripped at end", "A/B P-001", "A/B P-001"},
		{"empty", "", ""},
		{"only garbage", "\x00\x1F■", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CleanPolicyNumber(tc.in))
		})
	}
}

func TestSplitPeriod(t *testing.T) {
	t.Run("well formed", func(t *testing.T) {
		start, end := SplitPeriod("01/01/2024 - 31/12/2024")
		require.NotNil(t, start)
		require.NotNil(t, end)
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *start)
		assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), *end)
	})

	t.Run("stray characters in dates", func(t *testing.T) {
		start, end := SplitPeriod("01/01/2024. - 31/12/2024 ")
		require.NotNil(t, start)
		require.NotNil(t, end)
	})

	t.Run("no separator", func(t *testing.T) {
		start, end := SplitPeriod("01/01/2024")
		assert.Nil(t, start)
		assert.Nil(t, end)
	})

	t.Run("empty", func(t *testing.T) {
		start, end := SplitPeriod("")
		assert.Nil(t, start)
		assert.Nil(t, end)
	})

	t.Run("malformed end date", func(t *testing.T) {
		start, end := SplitPeriod("01/01/2024 - TBD")
		require.NotNil(t, start)
		assert.Nil(t, end)
	})

	t.Run("day month order", func(t *testing.T) {
		start, _ := SplitPeriod("05/03/2024 - 31/12/2024")
		require.NotNil(t, start)
		assert.Equal(t, time.March, start.Month())
		assert.Equal(t, 5, start.Day())
	})
}

func TestLenientFloat(t *testing.T) {
	testCases := []struct {
		in   string
		want float64
	}{
		{"1000000", 1000000},
		{"2,500.50", 2500.50},
		{"$300", 300},
		{" 42 ", 42},
		{"-12.5", -12.5},
		{"", 0},
		{"N/A", 0},
		{"12x", 0},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, LenientFloat(tc.in))
		})
	}
}
