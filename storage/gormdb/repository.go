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


package gormdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/poiesic/policysync/core"
	"github.com/poiesic/policysync/storage"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

// NewPolicyRepository creates a PolicyRepository over an open gorm handle.
//
// Returns the storage interface to enforce abstraction.
func NewPolicyRepository(db *gorm.DB) (storage.PolicyRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("gorm handle required")
	}
	return &repository{db: db}, nil
}

// txKey carries an open transaction handle through a context.
type txKey struct{}

// handle returns the transaction bound to ctx, or the base handle.
func (r *repository) handle(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

// updatableColumns are the columns overwritten on conflict. The key is
// never touched; vector_id is appended only when the incoming record
// supplies one, so a stored vector id survives plain re-ingestion.
var updatableColumns = []string{
	core.FieldInsuredName,
	core.FieldSumInsured,
	core.FieldPremium,
	core.FieldOwnRetentionPPN,
	core.FieldOwnRetentionSumInsured,
	core.FieldOwnRetentionPremium,
	core.FieldTreatyRetentionPPN,
	core.FieldTreatySumInsured,
	core.FieldTreatyPremium,
	core.FieldFacultativeOutwardPPN,
	core.FieldFacultativeOutwardSumInsured,
	core.FieldFacultativeOutwardPremium,
	core.FieldPeriodStart,
	core.FieldPeriodEnd,
	"updated_at",
}

func (r *repository) Upsert(ctx context.Context, record *core.PolicyRecord) error {
	if record == nil || record.PolicyNumber == "" {
		return fmt.Errorf("%w: %w", storage.ErrInvalidQuery, core.ErrEmptyPolicyNumber)
	}

	columns := updatableColumns
	if record.VectorID != nil {
		columns = append(append([]string{}, updatableColumns...), core.FieldVectorID)
	}

	row := rowFromRecord(record)
	err := r.handle(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: core.FieldPolicyNumber}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("upsert policy %s: %w", record.PolicyNumber, err)
	}

	// Reflect the persisted vector id back onto the record so the embedding
	// stage can overwrite in place instead of duplicating.
	var stored policyRow
	err = r.handle(ctx).
		Select(core.FieldVectorID).
		Where(core.FieldPolicyNumber+" = ?", record.PolicyNumber).
		Take(&stored).Error
	if err != nil {
		return fmt.Errorf("read back vector id for %s: %w", record.PolicyNumber, err)
	}
	record.VectorID = stored.VectorID

	return nil
}

func (r *repository) SetVectorID(ctx context.Context, policyNumber, vectorID string) error {
	result := r.handle(ctx).
		Model(&policyRow{}).
		Where(core.FieldPolicyNumber+" = ?", policyNumber).
		Update(core.FieldVectorID, vectorID)
	if result.Error != nil {
		return fmt.Errorf("set vector id for %s: %w", policyNumber, result.Error)
	}
	if result.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *repository) GetPolicy(ctx context.Context, policyNumber string) (*core.PolicyRecord, error) {
	var row policyRow
	err := r.handle(ctx).
		Where(core.FieldPolicyNumber+" = ?", policyNumber).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get policy %s: %w", policyNumber, err)
	}
	return row.toRecord(), nil
}

func (r *repository) ListMissingVectorID(ctx context.Context, after string, limit int) ([]*core.PolicyRecord, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	var rows []policyRow
	err := r.handle(ctx).
		Where(core.FieldVectorID+" IS NULL").
		Where(core.FieldPolicyNumber+" > ?", after).
		Order(core.FieldPolicyNumber).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list missing vector ids: %w", err)
	}

	records := make([]*core.PolicyRecord, len(rows))
	for i := range rows {
		records[i] = rows[i].toRecord()
	}
	return records, nil
}

func (r *repository) CountMissingVectorID(ctx context.Context) (int64, error) {
	var n int64
	err := r.handle(ctx).
		Model(&policyRow{}).
		Where(core.FieldVectorID + " IS NULL").
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count missing vector ids: %w", err)
	}
	return n, nil
}

func (r *repository) CountPolicies(ctx context.Context) (int64, error) {
	var n int64
	if err := r.handle(ctx).Model(&policyRow{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count policies: %w", err)
	}
	return n, nil
}

func (r *repository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
	if err != nil {
		return fmt.Errorf("%w: %w", storage.ErrTransactionFailed, err)
	}
	return nil
}

func (r *repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
