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


package resync

import (
	"context"

	"github.com/poiesic/policysync/core"
	"github.com/poiesic/policysync/storage"
)

const (
	// DefaultBatchSize is the default number of records to fetch per page.
	DefaultBatchSize = 100
)

// PolicyIterator pages through the records that still lack a vector id,
// using keyset pagination on the policy number so a sweep never rescans
// records it has already passed, even when some of them stay unrepaired.
type PolicyIterator struct {
	repo      storage.PolicyRepository
	batchSize int
}

// NewPolicyIterator creates an iterator over records missing a vector id.
// batchSize: number of records to fetch per page (must be > 0)
func NewPolicyIterator(repo storage.PolicyRepository, batchSize int) *PolicyIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &PolicyIterator{
		repo:      repo,
		batchSize: batchSize,
	}
}

// ForEach calls fn for each page of records missing a vector id, in policy
// number order. Iteration stops on the first error from fn or the store.
// Context cancellation is checked between pages.
func (it *PolicyIterator) ForEach(ctx context.Context, fn func([]*core.PolicyRecord) error) error {
	after := ""
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		records, err := it.repo.ListMissingVectorID(ctx, after, it.batchSize)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}

		if err := fn(records); err != nil {
			return err
		}

		// Advance past the page regardless of per-record outcomes; a record
		// that stays unrepaired is picked up by the next sweep, not retried
		// within this one.
		after = records[len(records)-1].PolicyNumber
		if len(records) < it.batchSize {
			return nil
		}
	}
}
