// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/policysync/ai"
	"github.com/poiesic/policysync/core"
	"github.com/poiesic/policysync/normalize"
	"github.com/poiesic/policysync/schema"
	"github.com/poiesic/policysync/storage"
	"github.com/poiesic/policysync/vectorindex"
)

// Sheet is one named tabular input: a sheet of a workbook, a CSV file, or
// any other source that yields header-keyed rows.
type Sheet struct {
	Name string
	Rows []core.RawRecord
}

// Pipeline runs the full ingestion flow for a batch of sheets: schema
// reconciliation, normalization, relational upsert, and vector sync, with a
// per-row outcome ledger. A Pipeline is safe for concurrent Run calls; all
// batch state lives in the call.
type Pipeline struct {
	repo     storage.PolicyRepository
	embedder ai.Embedder
	index    vectorindex.Index

	table       schema.Table
	poolSize    int
	maxAttempts int
	baseDelay   time.Duration
	logger      *slog.Logger

	upsert *upsertCoordinator
	sync   *EmbeddingSync
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPoolSize caps the number of concurrent ingest workers.
func WithPoolSize(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.poolSize = n
		}
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithRetry sets the attempt cap and base backoff delay used for every
// external call (store upsert, embedding, vector upsert, id write-back).
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(p *Pipeline) {
		if maxAttempts > 0 {
			p.maxAttempts = maxAttempts
		}
		if baseDelay > 0 {
			p.baseDelay = baseDelay
		}
	}
}

// WithSchemaTable replaces the default header rename table.
func WithSchemaTable(table schema.Table) Option {
	return func(p *Pipeline) {
		if len(table) > 0 {
			p.table = table
		}
	}
}

// NewPipeline wires an ingestion pipeline over the given stores.
func NewPipeline(repo storage.PolicyRepository, embedder ai.Embedder, index vectorindex.Index, opts ...Option) (*Pipeline, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if index == nil {
		return nil, ErrIndexRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	p := &Pipeline{
		repo:        repo,
		embedder:    embedder,
		index:       index,
		table:       schema.DefaultTable(),
		poolSize:    poolSize,
		maxAttempts: 3,
		baseDelay:   time.Second,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.upsert = newUpsertCoordinator(repo, p.maxAttempts, p.baseDelay, p.logger)

	sync, err := NewEmbeddingSync(repo, embedder, index, p.maxAttempts, p.baseDelay, p.logger)
	if err != nil {
		return nil, err
	}
	p.sync = sync

	return p, nil
}

// rowTask is one normalized record awaiting ingestion, tagged with its
// batch-wide row ordinal for the ledger.
type rowTask struct {
	sheet  string
	row    int
	record *core.PolicyRecord
}

// Run ingests a batch of sheets and reports one outcome per input row.
//
// An unresolvable header set is a schema error and fails the whole batch
// before any write. Past that point failures are isolated: each row either
// succeeds, is skipped (no usable business key), or fails, and the batch
// runs to the end regardless. Rows sharing a policy number are applied
// serially in input order so the last row wins; distinct policy numbers
// proceed concurrently on the worker pool.
//
// An empty batch yields an empty summary and no error. A non-empty batch
// in which no row succeeded yields the summary alongside
// ErrAllRecordsFailed.
func (p *Pipeline) Run(ctx context.Context, sheets []Sheet) (*Summary, error) {
	ledger := NewLedger()
	groups := make(map[string][]rowTask)

	rowOrdinal := 0
	total := 0
	for _, sheet := range sheets {
		if len(sheet.Rows) == 0 {
			continue
		}

		mapping, err := p.table.Reconcile(headerUnion(sheet.Rows))
		if err != nil {
			return nil, fmt.Errorf("reconcile headers of sheet %q: %w", sheet.Name, err)
		}
		if unmapped := mapping.Unmapped(); len(unmapped) > 0 {
			p.logger.Warn("ignoring unmapped columns", "sheet", sheet.Name, "columns", unmapped)
		}

		for _, raw := range sheet.Rows {
			row := rowOrdinal
			rowOrdinal++
			total++

			record, err := normalize.Normalize(mapping.Rename(raw))
			if err != nil {
				ledger.Record(normalizationOutcome(sheet.Name, row, err))
				continue
			}

			groups[record.PolicyNumber] = append(groups[record.PolicyNumber], rowTask{
				sheet:  sheet.Name,
				row:    row,
				record: record,
			})
		}
	}

	if total == 0 {
		p.logger.Info("empty batch, nothing to ingest")
		return &Summary{}, nil
	}

	if err := p.ingestGroups(ctx, groups, ledger); err != nil {
		return nil, err
	}

	summary := ledger.Summary()
	p.logger.Info("batch finished",
		"records_processed", summary.RecordsProcessed,
		"succeeded", summary.Succeeded,
		"skipped", summary.Skipped,
		"failed", summary.Failed)

	if summary.Succeeded == 0 {
		return summary, fmt.Errorf("%w: %d rows (%d failed, %d skipped)",
			ErrAllRecordsFailed, summary.RecordsProcessed, summary.Failed, summary.Skipped)
	}
	return summary, nil
}

// ingestGroups fans the per-key task groups out onto the worker pool and
// waits for all of them.
func (p *Pipeline) ingestGroups(ctx context.Context, groups map[string][]rowTask, ledger *Ledger) error {
	if len(groups) == 0 {
		return nil
	}

	pool, err := ants.NewPool(p.poolSize)
	if err != nil {
		return fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for _, tasks := range groups {
		tasks := tasks
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			p.ingestGroup(ctx, tasks, ledger)
		}); err != nil {
			// Pool rejected the task; run it on the caller instead of
			// losing the group.
			p.ingestGroup(ctx, tasks, ledger)
			wg.Done()
		}
	}
	wg.Wait()
	return nil
}

// ingestGroup applies one policy number's rows serially in input order.
// Cancellation is honored between rows only: a row whose writes have begun
// runs to completion so the relational store and the vector index are not
// left mid-record.
func (p *Pipeline) ingestGroup(ctx context.Context, tasks []rowTask, ledger *Ledger) {
	for i, task := range tasks {
		if ctx.Err() != nil {
			for _, remaining := range tasks[i:] {
				ledger.Record(Outcome{
					Sheet:        remaining.sheet,
					Row:          remaining.row,
					PolicyNumber: remaining.record.PolicyNumber,
					Status:       StatusFailed,
					Reason:       ReasonCancelled,
				})
			}
			return
		}

		ledger.Record(p.ingestRecord(context.WithoutCancel(ctx), task))
	}
}

// ingestRecord runs the upsert and vector sync stages for one record and
// returns its outcome.
func (p *Pipeline) ingestRecord(ctx context.Context, task rowTask) Outcome {
	outcome := Outcome{
		Sheet:        task.sheet,
		Row:          task.row,
		PolicyNumber: task.record.PolicyNumber,
	}

	if err := p.upsert.apply(ctx, task.record); err != nil {
		outcome.Status = StatusFailed
		outcome.Reason = fmt.Sprintf("store: %v", err)
		return outcome
	}

	if _, err := p.sync.Sync(ctx, task.record); err != nil {
		outcome.Status = StatusFailed
		outcome.Reason = fmt.Sprintf("vector sync: %v", err)
		return outcome
	}

	outcome.Status = StatusSucceeded
	return outcome
}

// normalizationOutcome maps a normalization error onto a ledger outcome. A
// missing business key is a skip; everything else is a failure.
func normalizationOutcome(sheet string, row int, err error) Outcome {
	outcome := Outcome{Sheet: sheet, Row: row}
	switch {
	case errors.Is(err, core.ErrEmptyPolicyNumber):
		outcome.Status = StatusSkipped
		outcome.Reason = ReasonEmptyKey
	case errors.Is(err, core.ErrPeriodOrder):
		outcome.Status = StatusFailed
		outcome.Reason = ReasonInvalidPeriod
	default:
		outcome.Status = StatusFailed
		outcome.Reason = err.Error()
	}
	return outcome
}

// headerUnion collects every header observed across the sheet's rows,
// sorted for stable reconciliation errors.
func headerUnion(rows []core.RawRecord) []string {
	seen := make(map[string]struct{})
	var headers []string
	for _, row := range rows {
		for header := range row {
			if _, ok := seen[header]; ok {
				continue
			}
			seen[header] = struct{}{}
			headers = append(headers, header)
		}
	}
	sort.Strings(headers)
	return headers
}
