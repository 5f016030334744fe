package ingestion

import (
	"sort"
	"sync"
)

// Status tags the outcome of one input row.
type Status string

const (
	// StatusSucceeded means the record was upserted and its vector synced.
	StatusSucceeded Status = "succeeded"
	// StatusSkipped means the row was dropped before any write (no usable key).
	StatusSkipped Status = "skipped"
	// StatusFailed means a write or sync step failed after retries.
	StatusFailed Status = "failed"
)

// Failure reasons for the outcomes the pipeline itself produces. Store and
// sync failures carry the underlying error text instead.
const (
	ReasonEmptyKey      = "empty_key"
	ReasonInvalidPeriod = "invalid_period"
	ReasonCancelled     = "cancelled"
)

// Outcome is the fate of one input row.
type Outcome struct {
	Sheet        string
	Row          int
	PolicyNumber string
	Status       Status
	Reason       string
}

// Failure identifies a row that did not succeed and why.
type Failure struct {
	Sheet  string `json:"sheet"`
	Row    int    `json:"row_index"`
	Reason string `json:"reason"`
}

// Summary aggregates the per-row outcomes of one ingestion call.
// It exists only for the duration of that call and is returned to the
// caller verbatim, never persisted.
type Summary struct {
	RecordsProcessed int       `json:"records_processed"`
	Succeeded        int       `json:"succeeded"`
	Skipped          int       `json:"skipped"`
	Failed           int       `json:"failed"`
	Failures         []Failure `json:"failures,omitempty"`
}

// Ledger accumulates one outcome per attempted row across all pipeline
// stages. Safe for concurrent use by pool workers.
type Ledger struct {
	mu       sync.Mutex
	outcomes []Outcome
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Record appends one row outcome.
func (l *Ledger) Record(outcome Outcome) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.outcomes = append(l.outcomes, outcome)
}

// Outcomes returns a copy of all recorded outcomes, ordered by row index.
func (l *Ledger) Outcomes() []Outcome {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Outcome, len(l.outcomes))
	copy(out, l.outcomes)
	sort.Slice(out, func(i, j int) bool { return out[i].Row < out[j].Row })
	return out
}

// Summary folds the recorded outcomes into the batch summary.
func (l *Ledger) Summary() *Summary {
	summary := &Summary{}
	for _, outcome := range l.Outcomes() {
		summary.RecordsProcessed++
		switch outcome.Status {
		case StatusSucceeded:
			summary.Succeeded++
		case StatusSkipped:
			summary.Skipped++
			summary.Failures = append(summary.Failures, Failure{
				Sheet:  outcome.Sheet,
				Row:    outcome.Row,
				Reason: outcome.Reason,
			})
		case StatusFailed:
			summary.Failed++
			summary.Failures = append(summary.Failures, Failure{
				Sheet:  outcome.Sheet,
				Row:    outcome.Row,
				Reason: outcome.Reason,
			})
		}
	}
	return summary
}
