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
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aimock "github.com/poiesic/policysync/ai/mock"
	"github.com/poiesic/policysync/core"
	"github.com/poiesic/policysync/storage/memory"
	indexmock "github.com/poiesic/policysync/vectorindex/mock"
)

func seedPolicies(t *testing.T, repo *memory.Repository, n int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		record := &core.PolicyRecord{
			PolicyNumber: fmt.Sprintf("P-%03d", i),
			InsuredName:  "Insured",
			SumInsured:   100000,
		}
		require.NoError(t, repo.Upsert(ctx, record))
	}
}

func testConfig() *Config {
	return &Config{
		BatchSize:      3,
		ReportInterval: 1,
		MaxRetries:     1,
		RetryDelay:     time.Millisecond,
	}
}

func TestSweeperRun(t *testing.T) {
	ctx := context.Background()

	t.Run("repairs every record missing a vector id", func(t *testing.T) {
		repo := memory.NewRepository()
		seedPolicies(t, repo, 10)

		var out bytes.Buffer
		sweeper, err := NewSweeper(repo, aimock.NewEmbedder(), indexmock.NewIndex(), testConfig(), &out, nil)
		require.NoError(t, err)

		require.NoError(t, sweeper.Run(ctx))

		missing, err := repo.CountMissingVectorID(ctx)
		require.NoError(t, err)
		assert.Zero(t, missing)
		assert.Contains(t, out.String(), "Starting vector sync of 10 records")
		assert.Contains(t, out.String(), "Vector sync complete")
	})

	t.Run("nothing to do is not an error", func(t *testing.T) {
		var out bytes.Buffer
		sweeper, err := NewSweeper(memory.NewRepository(), aimock.NewEmbedder(), indexmock.NewIndex(), testConfig(), &out, nil)
		require.NoError(t, err)

		require.NoError(t, sweeper.Run(ctx))
		assert.Contains(t, out.String(), "Vector index is current")
	})

	t.Run("a record that cannot sync is left for the next sweep", func(t *testing.T) {
		repo := memory.NewRepository()
		seedPolicies(t, repo, 5)

		embedder := aimock.NewEmbedder()
		embedder.EmbedTextFunc = func(_ context.Context, text string) ([]float32, error) {
			if strings.Contains(text, "P-002") {
				return nil, errors.New("embedding service down")
			}
			return []float32{0.1, 0.2, 0.3}, nil
		}

		sweeper, err := NewSweeper(repo, embedder, indexmock.NewIndex(), testConfig(), nil, nil)
		require.NoError(t, err)

		require.NoError(t, sweeper.Run(ctx))

		missing, err := repo.CountMissingVectorID(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 1, missing)

		left, err := repo.ListMissingVectorID(ctx, "", 10)
		require.NoError(t, err)
		require.Len(t, left, 1)
		assert.Equal(t, "P-002", left[0].PolicyNumber)
	})

	t.Run("a sweep where every record fails is an error", func(t *testing.T) {
		repo := memory.NewRepository()
		seedPolicies(t, repo, 3)

		embedder := aimock.NewEmbedder()
		embedder.EmbedTextFunc = func(context.Context, string) ([]float32, error) {
			return nil, errors.New("embedding service down")
		}

		sweeper, err := NewSweeper(repo, embedder, indexmock.NewIndex(), testConfig(), nil, nil)
		require.NoError(t, err)

		require.ErrorIs(t, sweeper.Run(ctx), ErrAllSyncFailed)
	})

	t.Run("cancellation stops the sweep between records", func(t *testing.T) {
		repo := memory.NewRepository()
		seedPolicies(t, repo, 5)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		sweeper, err := NewSweeper(repo, aimock.NewEmbedder(), indexmock.NewIndex(), testConfig(), nil, nil)
		require.NoError(t, err)

		require.ErrorIs(t, sweeper.Run(cancelled), context.Canceled)
	})
}

func TestPolicyIterator(t *testing.T) {
	ctx := context.Background()

	t.Run("pages through in policy number order", func(t *testing.T) {
		repo := memory.NewRepository()
		seedPolicies(t, repo, 7)

		var seen []string
		iterator := NewPolicyIterator(repo, 3)
		err := iterator.ForEach(ctx, func(records []*core.PolicyRecord) error {
			for _, record := range records {
				seen = append(seen, record.PolicyNumber)
			}
			return nil
		})
		require.NoError(t, err)

		require.Len(t, seen, 7)
		for i := 1; i < len(seen); i++ {
			assert.Less(t, seen[i-1], seen[i])
		}
	})

	t.Run("stops on the first callback error", func(t *testing.T) {
		repo := memory.NewRepository()
		seedPolicies(t, repo, 7)

		pages := 0
		boom := errors.New("boom")
		iterator := NewPolicyIterator(repo, 3)
		err := iterator.ForEach(ctx, func([]*core.PolicyRecord) error {
			pages++
			return boom
		})
		require.ErrorIs(t, err, boom)
		assert.Equal(t, 1, pages)
	})

	t.Run("empty store yields no callbacks", func(t *testing.T) {
		iterator := NewPolicyIterator(memory.NewRepository(), 3)
		err := iterator.ForEach(ctx, func([]*core.PolicyRecord) error {
			t.Fatal("callback should not run")
			return nil
		})
		require.NoError(t, err)
	})
}
