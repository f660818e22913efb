package stock

// ConsistencyReport compares the cached product counter with the ledger replay
type ConsistencyReport struct {
	ProductID     uint
	ProductName   string
	CachedStock   int64
	ReplayedStock int64
	EntryCount    int
}

// Drift is cached minus replayed; zero means the two agree
func (r ConsistencyReport) Drift() int64 {
	return r.CachedStock - r.ReplayedStock
}

// IsConsistent returns true when cache and ledger agree
func (r ConsistencyReport) IsConsistent() bool {
	return r.Drift() == 0
}

// CheckConsistency builds a report for one product from its cached counter and ledger
func CheckConsistency(productID uint, productName string, cached int64, entries []LedgerEntry) ConsistencyReport {
	return ConsistencyReport{
		ProductID:     productID,
		ProductName:   productName,
		CachedStock:   cached,
		ReplayedStock: ReplayTotal(entries),
		EntryCount:    len(entries),
	}
}
