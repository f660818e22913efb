package stock

import (
	"sort"
	"time"
)

// ReplayPoint is the running stock right after one ledger entry
type ReplayPoint struct {
	Entry        LedgerEntry
	RunningStock int64
}

// Replay reconstructs running stock from ledger entries in chronological order.
// IN adds, OUT subtracts, ADJUSTMENT sets. The input slice is not modified.
func Replay(entries []LedgerEntry) []ReplayPoint {
	ordered := make([]LedgerEntry, len(entries))
	copy(ordered, entries)
	SortChronologically(ordered)

	points := make([]ReplayPoint, 0, len(ordered))
	var running int64
	for i := range ordered {
		running = ordered[i].Apply(running)
		points = append(points, ReplayPoint{Entry: ordered[i], RunningStock: running})
	}
	return points
}

// ReplayTotal returns only the final running stock
func ReplayTotal(entries []LedgerEntry) int64 {
	points := Replay(entries)
	if len(points) == 0 {
		return 0
	}
	return points[len(points)-1].RunningStock
}

// ReplayUntil returns the running stock as of the given instant (inclusive)
func ReplayUntil(entries []LedgerEntry, at time.Time) int64 {
	var running int64
	for _, p := range Replay(entries) {
		if p.Entry.TransactionDate.After(at) {
			break
		}
		running = p.RunningStock
	}
	return running
}

// SortChronologically orders entries by transaction date, then by ID for entries
// sharing a timestamp.
func SortChronologically(entries []LedgerEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.TransactionDate.Equal(b.TransactionDate) {
			return a.TransactionDate.Before(b.TransactionDate)
		}
		return a.ID < b.ID
	})
}
