package stock

import (
	"testing"
	"time"

	"github.com/mfgerp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionType_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		txType   TransactionType
		expected bool
	}{
		{"IN is valid", TransactionTypeIn, true},
		{"OUT is valid", TransactionTypeOut, true},
		{"ADJUSTMENT is valid", TransactionTypeAdjustment, true},
		{"lowercase is not valid", TransactionType("in"), false},
		{"empty is not valid", TransactionType(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.txType.IsValid())
		})
	}
}

func TestNewLedgerEntry(t *testing.T) {
	t.Run("computes total value", func(t *testing.T) {
		entry, err := NewLedgerEntry(1, TransactionTypeOut, 10, decimal.NewFromInt(10))
		require.NoError(t, err)
		assert.Equal(t, int64(10), entry.Quantity)
		assert.True(t, decimal.NewFromInt(100).Equal(entry.TotalValue))
		assert.False(t, entry.TransactionDate.IsZero())
	})

	t.Run("zero adjustment is allowed", func(t *testing.T) {
		entry, err := NewLedgerEntry(1, TransactionTypeAdjustment, 0, decimal.Zero)
		require.NoError(t, err)
		assert.Equal(t, int64(0), entry.Quantity)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		tests := []struct {
			name      string
			productID uint
			txType    TransactionType
			qty       int64
			cost      decimal.Decimal
			code      string
		}{
			{"missing product", 0, TransactionTypeIn, 1, decimal.Zero, "INVALID_PRODUCT"},
			{"unknown type", 1, TransactionType("MOVE"), 1, decimal.Zero, "INVALID_TRANSACTION_TYPE"},
			{"zero IN", 1, TransactionTypeIn, 0, decimal.Zero, "INVALID_QUANTITY"},
			{"negative OUT", 1, TransactionTypeOut, -3, decimal.Zero, "INVALID_QUANTITY"},
			{"negative adjustment", 1, TransactionTypeAdjustment, -1, decimal.Zero, "INVALID_QUANTITY"},
			{"negative cost", 1, TransactionTypeIn, 1, decimal.NewFromInt(-1), "INVALID_COST"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := NewLedgerEntry(tt.productID, tt.txType, tt.qty, tt.cost)
				require.Error(t, err)
				var de *shared.DomainError
				require.ErrorAs(t, err, &de)
				assert.Equal(t, tt.code, de.Code)
			})
		}
	})
}

func TestLedgerEntry_Correct(t *testing.T) {
	entry, err := NewLedgerEntry(1, TransactionTypeIn, 5, decimal.NewFromInt(2))
	require.NoError(t, err)

	require.NoError(t, entry.Correct(TransactionTypeIn, 7, decimal.NewFromInt(3), "FIX-1", "recount"))
	assert.Equal(t, int64(7), entry.Quantity)
	assert.True(t, decimal.NewFromInt(21).Equal(entry.TotalValue))
	assert.Equal(t, "FIX-1", entry.Reference)

	assert.Error(t, entry.Correct(TransactionTypeOut, 0, decimal.Zero, "", ""))
}

func entryAt(id uint, txType TransactionType, qty int64, at time.Time) LedgerEntry {
	e, _ := NewLedgerEntry(1, txType, qty, decimal.NewFromInt(1))
	e.ID = id
	e.TransactionDate = at
	return *e
}

func TestReplay(t *testing.T) {
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	t.Run("IN adds, OUT subtracts, ADJUSTMENT sets", func(t *testing.T) {
		entries := []LedgerEntry{
			entryAt(1, TransactionTypeIn, 100, base),
			entryAt(2, TransactionTypeOut, 30, base.Add(time.Hour)),
			entryAt(3, TransactionTypeAdjustment, 50, base.Add(2*time.Hour)),
			entryAt(4, TransactionTypeIn, 5, base.Add(3*time.Hour)),
		}
		points := Replay(entries)
		require.Len(t, points, 4)
		assert.Equal(t, []int64{100, 70, 50, 55}, runningTotals(points))
		assert.Equal(t, int64(55), ReplayTotal(entries))
	})

	t.Run("orders chronologically regardless of input order", func(t *testing.T) {
		entries := []LedgerEntry{
			entryAt(2, TransactionTypeAdjustment, 10, base.Add(time.Hour)),
			entryAt(1, TransactionTypeIn, 100, base),
		}
		assert.Equal(t, int64(10), ReplayTotal(entries))
		assert.Equal(t, uint(2), entries[0].ID, "input must not be reordered")
	})

	t.Run("ties on timestamp fall back to ID", func(t *testing.T) {
		entries := []LedgerEntry{
			entryAt(2, TransactionTypeOut, 4, base),
			entryAt(1, TransactionTypeAdjustment, 10, base),
		}
		assert.Equal(t, []int64{10, 6}, runningTotals(Replay(entries)))
	})

	t.Run("empty ledger", func(t *testing.T) {
		assert.Empty(t, Replay(nil))
		assert.Equal(t, int64(0), ReplayTotal(nil))
	})

	t.Run("replaying twice yields the same sequence", func(t *testing.T) {
		entries := []LedgerEntry{
			entryAt(1, TransactionTypeIn, 8, base),
			entryAt(2, TransactionTypeOut, 3, base.Add(time.Minute)),
			entryAt(3, TransactionTypeAdjustment, 1, base.Add(2*time.Minute)),
		}
		first := runningTotals(Replay(entries))
		second := runningTotals(Replay(entries))
		assert.Equal(t, first, second)
	})

	t.Run("replay until an instant", func(t *testing.T) {
		entries := []LedgerEntry{
			entryAt(1, TransactionTypeIn, 10, base),
			entryAt(2, TransactionTypeOut, 4, base.Add(2*time.Hour)),
		}
		assert.Equal(t, int64(10), ReplayUntil(entries, base.Add(time.Hour)))
		assert.Equal(t, int64(6), ReplayUntil(entries, base.Add(2*time.Hour)))
		assert.Equal(t, int64(0), ReplayUntil(entries, base.Add(-time.Hour)))
	})
}

func runningTotals(points []ReplayPoint) []int64 {
	out := make([]int64, len(points))
	for i, p := range points {
		out[i] = p.RunningStock
	}
	return out
}

func TestCheckConsistency(t *testing.T) {
	base := time.Now()
	entries := []LedgerEntry{
		entryAt(1, TransactionTypeIn, 10, base),
		entryAt(2, TransactionTypeOut, 3, base.Add(time.Second)),
	}

	ok := CheckConsistency(1, "Steel", 7, entries)
	assert.True(t, ok.IsConsistent())
	assert.Equal(t, 2, ok.EntryCount)

	drift := CheckConsistency(1, "Steel", 9, entries)
	assert.False(t, drift.IsConsistent())
	assert.Equal(t, int64(2), drift.Drift())
}
