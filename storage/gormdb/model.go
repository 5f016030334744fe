package gormdb

import (
	"time"

	"github.com/poiesic/policysync/core"
)

// policyRow is the relational mapping of core.PolicyRecord. Column names
// are the canonical field names; policy_number is the primary key.
type policyRow struct {
	PolicyNumber string  `gorm:"column:policy_number;primaryKey"`
	InsuredName  string  `gorm:"column:insured_name"`
	SumInsured   float64 `gorm:"column:sum_insured"`
	Premium      float64 `gorm:"column:premium"`

	OwnRetentionPPN        float64 `gorm:"column:own_retention_ppn"`
	OwnRetentionSumInsured float64 `gorm:"column:own_retention_sum_insured"`
	OwnRetentionPremium    float64 `gorm:"column:own_retention_premium"`

	TreatyRetentionPPN float64 `gorm:"column:treaty_retention_ppn"`
	TreatySumInsured   float64 `gorm:"column:treaty_sum_insured"`
	TreatyPremium      float64 `gorm:"column:treaty_premium"`

	FacultativeOutwardPPN        float64 `gorm:"column:facultative_outward_ppn"`
	FacultativeOutwardSumInsured float64 `gorm:"column:facultative_outward_sum_insured"`
	FacultativeOutwardPremium    float64 `gorm:"column:facultative_outward_premium"`

	PeriodStart *time.Time `gorm:"column:insurance_period_start_date"`
	PeriodEnd   *time.Time `gorm:"column:insurance_period_end_date"`

	VectorID *string `gorm:"column:vector_id;index"`

	InsertedAt time.Time `gorm:"column:inserted_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (policyRow) TableName() string { return "insurance_policies" }

func rowFromRecord(record *core.PolicyRecord) *policyRow {
	return &policyRow{
		PolicyNumber: record.PolicyNumber,
		InsuredName:  record.InsuredName,
		SumInsured:   record.SumInsured,
		Premium:      record.Premium,

		OwnRetentionPPN:        record.OwnRetentionPPN,
		OwnRetentionSumInsured: record.OwnRetentionSumInsured,
		OwnRetentionPremium:    record.OwnRetentionPremium,

		TreatyRetentionPPN: record.TreatyRetentionPPN,
		TreatySumInsured:   record.TreatySumInsured,
		TreatyPremium:      record.TreatyPremium,

		FacultativeOutwardPPN:        record.FacultativeOutwardPPN,
		FacultativeOutwardSumInsured: record.FacultativeOutwardSumInsured,
		FacultativeOutwardPremium:    record.FacultativeOutwardPremium,

		PeriodStart: record.PeriodStart,
		PeriodEnd:   record.PeriodEnd,
		VectorID:    record.VectorID,
	}
}

func (row *policyRow) toRecord() *core.PolicyRecord {
	return &core.PolicyRecord{
		PolicyNumber: row.PolicyNumber,
		InsuredName:  row.InsuredName,
		SumInsured:   row.SumInsured,
		Premium:      row.Premium,

		OwnRetentionPPN:        row.OwnRetentionPPN,
		OwnRetentionSumInsured: row.OwnRetentionSumInsured,
		OwnRetentionPremium:    row.OwnRetentionPremium,

		TreatyRetentionPPN: row.TreatyRetentionPPN,
		TreatySumInsured:   row.TreatySumInsured,
		TreatyPremium:      row.TreatyPremium,

		FacultativeOutwardPPN:        row.FacultativeOutwardPPN,
		FacultativeOutwardSumInsured: row.FacultativeOutwardSumInsured,
		FacultativeOutwardPremium:    row.FacultativeOutwardPremium,

		PeriodStart: row.PeriodStart,
		PeriodEnd:   row.PeriodEnd,
		VectorID:    row.VectorID,
		InsertedAt:  row.InsertedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}
