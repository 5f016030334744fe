package schema

import "github.com/poiesic/policysync/core"

// DefaultTable returns the declarative synonym table covering every known
// dataset revision. The first generation of exports used positional
// duplicate headers ("PPN.1", "SUM INSURED.2"); later generations spelled
// the section out ("TREATY PPN"). Both resolve to the same canonical field.
//
// The composite "PERIOD OF INSURANCE" header maps to the single
// insurance_period source field; normalization expands it into the two
// canonical date fields.
func DefaultTable() Table {
	return Table{
		{Source: "POLICY NUMBER", Canonical: core.FieldPolicyNumber},
		{Source: "INSURED", Canonical: core.FieldInsuredName},
		{Source: "PERIOD OF INSURANCE", Canonical: core.FieldInsurancePeriod},
		{Source: "SUM INSURED", Canonical: core.FieldSumInsured},
		{Source: "PREMIUM", Canonical: core.FieldPremium},

		{Source: "OWN RETENTION PPN", Canonical: core.FieldOwnRetentionPPN},
		{Source: "OWN RETENTION SUM INSURED", Canonical: core.FieldOwnRetentionSumInsured},
		{Source: "OWN RETENTION PREMIUM", Canonical: core.FieldOwnRetentionPremium},
		{Source: "TREATY PPN", Canonical: core.FieldTreatyRetentionPPN},
		{Source: "TREATY SUM INSURED", Canonical: core.FieldTreatySumInsured},
		{Source: "TREATY PREMIUM", Canonical: core.FieldTreatyPremium},
		{Source: "FACULTATIVE OUTWARD PPN", Canonical: core.FieldFacultativeOutwardPPN},
		{Source: "FACULTATIVE OUTWARD SUM INSURED", Canonical: core.FieldFacultativeOutwardSumInsured},
		{Source: "FACULTATIVE OUTWARD PREMIUM", Canonical: core.FieldFacultativeOutwardPremium},

		// Legacy positional headers from the first export generation.
		{Source: "PPN", Canonical: core.FieldOwnRetentionPPN},
		{Source: "SUM INSURED.1", Canonical: core.FieldOwnRetentionSumInsured},
		{Source: "PREMIUM.1", Canonical: core.FieldOwnRetentionPremium},
		{Source: "PPN.1", Canonical: core.FieldTreatyRetentionPPN},
		{Source: "SUM INSURED.2", Canonical: core.FieldTreatySumInsured},
		{Source: "PREMIUM.2", Canonical: core.FieldTreatyPremium},
		{Source: "PPN.2", Canonical: core.FieldFacultativeOutwardPPN},
		{Source: "SUM INSURED.3", Canonical: core.FieldFacultativeOutwardSumInsured},
		{Source: "PREMIUM.3", Canonical: core.FieldFacultativeOutwardPremium},
	}
}
