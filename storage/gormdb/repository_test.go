package gormdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/policysync/core"
	"github.com/poiesic/policysync/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepository(t *testing.T) storage.PolicyRepository {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "policies.db"))
	require.NoError(t, err)

	repo, err := NewPolicyRepository(db)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	return repo
}

func testRecord(policyNumber string) *core.PolicyRecord {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	return &core.PolicyRecord{
		PolicyNumber: policyNumber,
		InsuredName:  "Acme Holdings",
		SumInsured:   1000000,
		Premium:      2500.50,
		PeriodStart:  &start,
		PeriodEnd:    &end,
	}
}

func TestRepository_Upsert(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	t.Run("insert then read back", func(t *testing.T) {
		require.NoError(t, repo.Upsert(ctx, testRecord("P-001")))

		stored, err := repo.GetPolicy(ctx, "P-001")
		require.NoError(t, err)
		assert.Equal(t, "Acme Holdings", stored.InsuredName)
		assert.Equal(t, 1000000.0, stored.SumInsured)
		assert.Nil(t, stored.VectorID)
	})

	t.Run("same key overwrites, never duplicates", func(t *testing.T) {
		require.NoError(t, repo.Upsert(ctx, testRecord("P-002")))

		updated := testRecord("P-002")
		updated.InsuredName = "Borealis Marine"
		updated.Premium = 9000
		require.NoError(t, repo.Upsert(ctx, updated))

		stored, err := repo.GetPolicy(ctx, "P-002")
		require.NoError(t, err)
		assert.Equal(t, "Borealis Marine", stored.InsuredName)
		assert.Equal(t, 9000.0, stored.Premium)

		count, err := repo.CountPolicies(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("re-upsert without vector id preserves stored one", func(t *testing.T) {
		require.NoError(t, repo.Upsert(ctx, testRecord("P-003")))
		require.NoError(t, repo.SetVectorID(ctx, "P-003", "vec-123"))

		again := testRecord("P-003")
		require.NoError(t, repo.Upsert(ctx, again))

		stored, err := repo.GetPolicy(ctx, "P-003")
		require.NoError(t, err)
		require.NotNil(t, stored.VectorID)
		assert.Equal(t, "vec-123", *stored.VectorID)

		// And the caller sees the persisted vector id after the call.
		require.NotNil(t, again.VectorID)
		assert.Equal(t, "vec-123", *again.VectorID)
	})

	t.Run("upsert carrying a vector id overwrites stored one", func(t *testing.T) {
		require.NoError(t, repo.Upsert(ctx, testRecord("P-004")))
		require.NoError(t, repo.SetVectorID(ctx, "P-004", "vec-old"))

		fresh := "vec-new"
		incoming := testRecord("P-004")
		incoming.VectorID = &fresh
		require.NoError(t, repo.Upsert(ctx, incoming))

		stored, err := repo.GetPolicy(ctx, "P-004")
		require.NoError(t, err)
		require.NotNil(t, stored.VectorID)
		assert.Equal(t, "vec-new", *stored.VectorID)
	})

	t.Run("empty key rejected", func(t *testing.T) {
		err := repo.Upsert(ctx, &core.PolicyRecord{})
		require.Error(t, err)
		assert.ErrorIs(t, err, storage.ErrInvalidQuery)
	})
}

func TestRepository_SetVectorID(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	t.Run("unknown policy", func(t *testing.T) {
		err := repo.SetVectorID(ctx, "P-404", "vec-1")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("sets only the vector id", func(t *testing.T) {
		require.NoError(t, repo.Upsert(ctx, testRecord("P-010")))
		require.NoError(t, repo.SetVectorID(ctx, "P-010", "vec-42"))

		stored, err := repo.GetPolicy(ctx, "P-010")
		require.NoError(t, err)
		require.NotNil(t, stored.VectorID)
		assert.Equal(t, "vec-42", *stored.VectorID)
		assert.Equal(t, "Acme Holdings", stored.InsuredName)
	})
}

func TestRepository_ListMissingVectorID(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	for _, key := range []string{"P-100", "P-101", "P-102", "P-103"} {
		require.NoError(t, repo.Upsert(ctx, testRecord(key)))
	}
	require.NoError(t, repo.SetVectorID(ctx, "P-101", "vec-a"))

	t.Run("counts only unset vector ids", func(t *testing.T) {
		n, err := repo.CountMissingVectorID(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})

	t.Run("keyset pagination", func(t *testing.T) {
		first, err := repo.ListMissingVectorID(ctx, "", 2)
		require.NoError(t, err)
		require.Len(t, first, 2)
		assert.Equal(t, "P-100", first[0].PolicyNumber)
		assert.Equal(t, "P-102", first[1].PolicyNumber)

		rest, err := repo.ListMissingVectorID(ctx, first[1].PolicyNumber, 2)
		require.NoError(t, err)
		require.Len(t, rest, 1)
		assert.Equal(t, "P-103", rest[0].PolicyNumber)
	})

	t.Run("invalid limit", func(t *testing.T) {
		_, err := repo.ListMissingVectorID(ctx, "", 0)
		assert.ErrorIs(t, err, storage.ErrInvalidQuery)
	})
}

func TestRepository_WithTransaction(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	t.Run("commit", func(t *testing.T) {
		err := repo.WithTransaction(ctx, func(txCtx context.Context) error {
			if err := repo.Upsert(txCtx, testRecord("P-200")); err != nil {
				return err
			}
			return repo.Upsert(txCtx, testRecord("P-201"))
		})
		require.NoError(t, err)

		count, err := repo.CountPolicies(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("rollback on error", func(t *testing.T) {
		err := repo.WithTransaction(ctx, func(txCtx context.Context) error {
			if err := repo.Upsert(txCtx, testRecord("P-202")); err != nil {
				return err
			}
			return assert.AnError
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, storage.ErrTransactionFailed)

		_, err = repo.GetPolicy(ctx, "P-202")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}
