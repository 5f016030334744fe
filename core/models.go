package core

import "time"

// RawRecord is a single spreadsheet row after decoding: raw column label
// mapped to the raw cell value, exactly as it appeared in the export.
type RawRecord map[string]string

// PolicyRecord is the canonical representation of one insurance policy.
// It is the unit of truth shared by the relational store and the vector
// index; PolicyNumber is the only stable identity.
type PolicyRecord struct {
	PolicyNumber string
	InsuredName  string
	SumInsured   float64
	Premium      float64

	OwnRetentionPPN        float64
	OwnRetentionSumInsured float64
	OwnRetentionPremium    float64

	TreatyRetentionPPN float64
	TreatySumInsured   float64
	TreatyPremium      float64

	FacultativeOutwardPPN        float64
	FacultativeOutwardSumInsured float64
	FacultativeOutwardPremium    float64

	// PeriodStart and PeriodEnd are nil when the source row carried no
	// parseable period of insurance. Partial data is acceptable.
	PeriodStart *time.Time
	PeriodEnd   *time.Time

	// VectorID refers to the entry in the vector index derived from the
	// current field values of this record. Nil until the first successful
	// embedding sync.
	VectorID *string

	InsertedAt time.Time
	UpdatedAt  time.Time
}

// DefaultInsuredName fills InsuredName when the source row leaves it blank.
const DefaultInsuredName = "Unknown"
