package core

// Canonical field names. These are the wire contract between schema
// reconciliation and everything downstream, and double as the relational
// column names.
const (
	FieldPolicyNumber = "policy_number"
	FieldInsuredName  = "insured_name"
	FieldSumInsured   = "sum_insured"
	FieldPremium      = "premium"

	FieldOwnRetentionPPN        = "own_retention_ppn"
	FieldOwnRetentionSumInsured = "own_retention_sum_insured"
	FieldOwnRetentionPremium    = "own_retention_premium"

	FieldTreatyRetentionPPN = "treaty_retention_ppn"
	FieldTreatySumInsured   = "treaty_sum_insured"
	FieldTreatyPremium      = "treaty_premium"

	FieldFacultativeOutwardPPN        = "facultative_outward_ppn"
	FieldFacultativeOutwardSumInsured = "facultative_outward_sum_insured"
	FieldFacultativeOutwardPremium    = "facultative_outward_premium"

	FieldPeriodStart = "insurance_period_start_date"
	FieldPeriodEnd   = "insurance_period_end_date"

	FieldVectorID = "vector_id"

	// FieldInsurancePeriod is the composite "start - end" source field.
	// It is consumed only by normalization, which expands it into
	// FieldPeriodStart and FieldPeriodEnd.
	FieldInsurancePeriod = "insurance_period"
)
