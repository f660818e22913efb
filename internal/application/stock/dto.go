package stock

import (
	"time"

	"github.com/mfgerp/backend/internal/domain/stock"
	"github.com/shopspring/decimal"
)

// LedgerEntryResponse represents a stock ledger entry in API responses
type LedgerEntryResponse struct {
	ID              uint            `json:"id"`
	ProductID       uint            `json:"product_id"`
	TransactionType string          `json:"transaction_type"`
	Quantity        int64           `json:"quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	TotalValue      decimal.Decimal `json:"total_value"`
	Reference       string          `json:"reference,omitempty"`
	ReferenceID     *uint           `json:"reference_id,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	TransactionDate time.Time       `json:"transaction_date"`
	CreatedAt       time.Time       `json:"created_at"`
}

// HistoryEntryResponse is a ledger entry with the running stock after it
type HistoryEntryResponse struct {
	LedgerEntryResponse
	RunningStock int64 `json:"running_stock"`
}

// ProductStockResponse reports both stock access patterns for one product
type ProductStockResponse struct {
	ProductID     uint                   `json:"product_id"`
	ProductName   string                 `json:"product_name"`
	UnitOfMeasure string                 `json:"unit_of_measure"`
	CurrentStock  int64                  `json:"current_stock"`
	ReplayedStock int64                  `json:"replayed_stock"`
	Consistent    bool                   `json:"consistent"`
	History       []HistoryEntryResponse `json:"history"`
}

// ConsistencyResponse is the cache versus replay comparison of one product
type ConsistencyResponse struct {
	ProductID     uint   `json:"product_id"`
	ProductName   string `json:"product_name"`
	CachedStock   int64  `json:"cached_stock"`
	ReplayedStock int64  `json:"replayed_stock"`
	Drift         int64  `json:"drift"`
	EntryCount    int    `json:"entry_count"`
	Consistent    bool   `json:"consistent"`
}

// ConsistencySummaryResponse aggregates consistency reports
type ConsistencySummaryResponse struct {
	Checked      int                   `json:"checked"`
	Inconsistent int                   `json:"inconsistent"`
	Products     []ConsistencyResponse `json:"products"`
}

// LedgerListFilter represents filter options for the ledger list
type LedgerListFilter struct {
	ProductID       *uint      `form:"product_id"`
	TransactionType string     `form:"transaction_type" binding:"omitempty,oneof=IN OUT ADJUSTMENT"`
	Reference       string     `form:"reference"`
	StartDate       *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate         *time.Time `form:"end_date" time_format:"2006-01-02"`
	Page            int        `form:"page" binding:"omitempty,min=1"`
	PageSize        int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderDir        string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// RecordMovementRequest represents a manual stock movement
type RecordMovementRequest struct {
	ProductID       uint             `json:"product_id" binding:"required"`
	TransactionType string           `json:"transaction_type" binding:"required,oneof=IN OUT ADJUSTMENT"`
	Quantity        int64            `json:"quantity" binding:"min=0"`
	UnitCost        *decimal.Decimal `json:"unit_cost"`
	Reference       string           `json:"reference" binding:"max=100"`
	Notes           string           `json:"notes" binding:"max=500"`
}

// UpdateLedgerEntryRequest represents an administrative correction of a ledger entry
type UpdateLedgerEntryRequest struct {
	TransactionType string          `json:"transaction_type" binding:"required,oneof=IN OUT ADJUSTMENT"`
	Quantity        int64           `json:"quantity" binding:"min=0"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	Reference       string          `json:"reference" binding:"max=100"`
	Notes           string          `json:"notes" binding:"max=500"`
}

// ExportResponse points at a stored ledger export
type ExportResponse struct {
	Key      string `json:"key"`
	Location string `json:"location"`
	Rows     int    `json:"rows"`
}

// ToLedgerEntryResponse converts a domain ledger entry to a response
func ToLedgerEntryResponse(e *stock.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:              e.ID,
		ProductID:       e.ProductID,
		TransactionType: e.TransactionType.String(),
		Quantity:        e.Quantity,
		UnitCost:        e.UnitCost,
		TotalValue:      e.TotalValue,
		Reference:       e.Reference,
		ReferenceID:     e.ReferenceID,
		Notes:           e.Notes,
		TransactionDate: e.TransactionDate,
		CreatedAt:       e.CreatedAt,
	}
}

// ToLedgerEntryResponses converts a slice of ledger entries
func ToLedgerEntryResponses(entries []stock.LedgerEntry) []LedgerEntryResponse {
	out := make([]LedgerEntryResponse, len(entries))
	for i := range entries {
		out[i] = ToLedgerEntryResponse(&entries[i])
	}
	return out
}

// ToConsistencyResponse converts a consistency report to a response
func ToConsistencyResponse(r stock.ConsistencyReport) ConsistencyResponse {
	return ConsistencyResponse{
		ProductID:     r.ProductID,
		ProductName:   r.ProductName,
		CachedStock:   r.CachedStock,
		ReplayedStock: r.ReplayedStock,
		Drift:         r.Drift(),
		EntryCount:    r.EntryCount,
		Consistent:    r.IsConsistent(),
	}
}
