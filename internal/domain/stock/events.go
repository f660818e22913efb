package stock

import "github.com/mfgerp/backend/internal/domain/shared"

// Aggregate type and event names
const (
	AggregateTypeProductStock = "ProductStock"

	EventTypeStockChanged  = "StockChanged"
	EventTypeStockBelowMin = "StockBelowMinimum"
)

// StockChangedEvent is published after a ledger entry and the cached counter were written
type StockChangedEvent struct {
	shared.BaseDomainEvent
	ProductID       uint            `json:"product_id"`
	ProductName     string          `json:"product_name"`
	TransactionType TransactionType `json:"transaction_type"`
	Quantity        int64           `json:"quantity"`
	NewStock        int64           `json:"new_stock"`
	Reference       string          `json:"reference,omitempty"`
}

// NewStockChangedEvent creates a StockChangedEvent
func NewStockChangedEvent(productID uint, productName string, txType TransactionType, quantity, newStock int64, reference string) *StockChangedEvent {
	return &StockChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockChanged, AggregateTypeProductStock, productID),
		ProductID:       productID,
		ProductName:     productName,
		TransactionType: txType,
		Quantity:        quantity,
		NewStock:        newStock,
		Reference:       reference,
	}
}

// StockBelowMinimumEvent is published when a product drops to or below its reorder threshold
type StockBelowMinimumEvent struct {
	shared.BaseDomainEvent
	ProductID    uint   `json:"product_id"`
	ProductName  string `json:"product_name"`
	CurrentStock int64  `json:"current_stock"`
	MinimumStock int64  `json:"minimum_stock"`
}

// NewStockBelowMinimumEvent creates a StockBelowMinimumEvent
func NewStockBelowMinimumEvent(productID uint, productName string, current, minimum int64) *StockBelowMinimumEvent {
	return &StockBelowMinimumEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowMin, AggregateTypeProductStock, productID),
		ProductID:       productID,
		ProductName:     productName,
		CurrentStock:    current,
		MinimumStock:    minimum,
	}
}
