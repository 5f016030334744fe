package ingestion

import (
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/policysync/core"
)

const dateLayout = "2006-01-02"

// EmbeddingText builds the textual representation of a record that is fed
// to the embedder. Fields are labeled and emitted in a fixed order so that
// identical field values always produce identical text; the embedding for
// a record is therefore reproducible.
func EmbeddingText(record *core.PolicyRecord) string {
	var b strings.Builder

	writeField(&b, core.FieldPolicyNumber, record.PolicyNumber)
	writeField(&b, core.FieldInsuredName, record.InsuredName)
	writeFloat(&b, core.FieldSumInsured, record.SumInsured)
	writeFloat(&b, core.FieldPremium, record.Premium)

	writeFloat(&b, core.FieldOwnRetentionPPN, record.OwnRetentionPPN)
	writeFloat(&b, core.FieldOwnRetentionSumInsured, record.OwnRetentionSumInsured)
	writeFloat(&b, core.FieldOwnRetentionPremium, record.OwnRetentionPremium)

	writeFloat(&b, core.FieldTreatyRetentionPPN, record.TreatyRetentionPPN)
	writeFloat(&b, core.FieldTreatySumInsured, record.TreatySumInsured)
	writeFloat(&b, core.FieldTreatyPremium, record.TreatyPremium)

	writeFloat(&b, core.FieldFacultativeOutwardPPN, record.FacultativeOutwardPPN)
	writeFloat(&b, core.FieldFacultativeOutwardSumInsured, record.FacultativeOutwardSumInsured)
	writeFloat(&b, core.FieldFacultativeOutwardPremium, record.FacultativeOutwardPremium)

	writeField(&b, core.FieldPeriodStart, formatDate(record.PeriodStart))
	writeField(&b, core.FieldPeriodEnd, formatDate(record.PeriodEnd))

	return b.String()
}

// Metadata builds the filterable payload stored alongside the vector,
// mirroring the canonical fields the query layer filters on. The content
// fingerprint lets a later sync pass recognize an already-current entry.
func Metadata(record *core.PolicyRecord, fingerprint string) map[string]string {
	metadata := map[string]string{
		core.FieldPolicyNumber: record.PolicyNumber,
		core.FieldInsuredName:  record.InsuredName,
		core.FieldSumInsured:   formatFloat(record.SumInsured),
		core.FieldPremium:      formatFloat(record.Premium),
		"content_fingerprint":  fingerprint,
	}
	if record.PeriodStart != nil {
		metadata[core.FieldPeriodStart] = record.PeriodStart.Format(dateLayout)
	}
	if record.PeriodEnd != nil {
		metadata[core.FieldPeriodEnd] = record.PeriodEnd.Format(dateLayout)
	}
	return metadata
}

func writeField(b *strings.Builder, field, value string) {
	b.WriteString(field)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteByte('\n')
}

func writeFloat(b *strings.Builder, field string, value float64) {
	writeField(b, field, formatFloat(value))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}
