package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/mfgerp/backend/internal/domain/shared"
	"github.com/mfgerp/backend/internal/domain/stock"
	"github.com/mfgerp/backend/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appendEntry(t *testing.T, repo *GormLedgerRepository, productID uint, txType stock.TransactionType, qty int64, ref string, at time.Time) *stock.LedgerEntry {
	t.Helper()
	e, err := stock.NewLedgerEntry(productID, txType, qty, decimal.NewFromInt(10))
	require.NoError(t, err)
	e.WithReference(ref, nil)
	e.TransactionDate = at
	require.NoError(t, repo.Create(context.Background(), e))
	return e
}

func TestGormLedgerRepository_FindByProductIsChronological(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewGormLedgerRepository(db)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	appendEntry(t, repo, 1, stock.TransactionTypeOut, 3, "MO2024010001", base.Add(2*time.Minute))
	appendEntry(t, repo, 1, stock.TransactionTypeIn, 10, "", base)
	appendEntry(t, repo, 2, stock.TransactionTypeIn, 4, "", base)

	entries, err := repo.FindByProduct(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, stock.TransactionTypeIn, entries[0].TransactionType)
	assert.Equal(t, stock.TransactionTypeOut, entries[1].TransactionType)
	assert.True(t, decimal.NewFromInt(30).Equal(entries[1].TotalValue))

	byRef, err := repo.FindByReference(ctx, "MO2024010001")
	require.NoError(t, err)
	assert.Len(t, byRef, 1)
}

func TestGormLedgerRepository_FindAllFilters(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewGormLedgerRepository(db)
	ctx := context.Background()
	now := time.Now()

	appendEntry(t, repo, 1, stock.TransactionTypeIn, 10, "", now.Add(-48*time.Hour))
	appendEntry(t, repo, 1, stock.TransactionTypeOut, 2, "MO1", now.Add(-time.Hour))
	appendEntry(t, repo, 1, stock.TransactionTypeOut, 1, "MO2", now)
	appendEntry(t, repo, 2, stock.TransactionTypeOut, 5, "MO1", now)

	productID := uint(1)
	out := stock.TransactionTypeOut
	since := now.Add(-2 * time.Hour)
	entries, total, err := repo.FindAll(ctx, stock.LedgerFilter{
		Filter:          shared.Filter{Page: 1, PageSize: 1, OrderBy: "transaction_date", OrderDir: "desc"},
		ProductID:       &productID,
		TransactionType: &out,
		StartDate:       &since,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, entries, 1)
	assert.Equal(t, "MO2", entries[0].Reference)

	count, err := repo.CountSince(ctx, stock.TransactionTypeOut, since)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestGormLedgerRepository_FindAllDateRangeCoversWholeDays(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewGormLedgerRepository(db)
	ctx := context.Background()
	day := time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)

	appendEntry(t, repo, 1, stock.TransactionTypeIn, 1, "before", day.Add(-30*time.Minute))
	appendEntry(t, repo, 1, stock.TransactionTypeIn, 2, "morning", day.Add(8*time.Hour))
	appendEntry(t, repo, 1, stock.TransactionTypeIn, 3, "late", day.Add(23*time.Hour+59*time.Minute))
	appendEntry(t, repo, 1, stock.TransactionTypeIn, 4, "after", day.Add(24*time.Hour))

	entries, total, err := repo.FindAll(ctx, stock.LedgerFilter{
		Filter:    shared.Filter{Page: 1, PageSize: 10, OrderBy: "transaction_date", OrderDir: "asc"},
		StartDate: &day,
		EndDate:   &day,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, entries, 2)
	assert.Equal(t, "morning", entries[0].Reference)
	assert.Equal(t, "late", entries[1].Reference)

	nextDay := day.AddDate(0, 0, 1)
	_, total, err = repo.FindAll(ctx, stock.LedgerFilter{
		Filter:    shared.Filter{Page: 1, PageSize: 10},
		StartDate: &day,
		EndDate:   &nextDay,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestGormLedgerRepository_UpdateAndDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewGormLedgerRepository(db)
	ctx := context.Background()

	e := appendEntry(t, repo, 1, stock.TransactionTypeIn, 10, "", time.Now())
	require.NoError(t, e.Correct(stock.TransactionTypeIn, 12, decimal.NewFromInt(5), "fix", "counted again"))
	require.NoError(t, repo.Update(ctx, e))

	found, err := repo.FindByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(12), found.Quantity)
	assert.True(t, decimal.NewFromInt(60).Equal(found.TotalValue))

	require.NoError(t, repo.Delete(ctx, e.ID))
	_, err = repo.FindByID(ctx, e.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, e.ID), shared.ErrNotFound)
}
