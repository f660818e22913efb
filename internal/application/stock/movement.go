package stock

import (
	"context"
	"fmt"

	"github.com/mfgerp/backend/internal/domain/product"
	"github.com/mfgerp/backend/internal/domain/stock"
	"github.com/shopspring/decimal"
)

// Movement describes one stock movement to write
type Movement struct {
	Product     *product.Product
	Type        stock.TransactionType
	Quantity    int64
	UnitCost    *decimal.Decimal // defaults to the product's unit cost
	Reference   string
	ReferenceID *uint
	Notes       string
}

// MovementResult is what a written movement produced
type MovementResult struct {
	Entry    *stock.LedgerEntry
	NewStock int64
}

// WriteMovement updates the cached product counter and appends the matching
// ledger entry, in that order. It does not open a transaction; callers choose
// whether the two writes share one.
func WriteMovement(ctx context.Context, products product.ProductRepository, ledger stock.LedgerRepository, m Movement) (*MovementResult, error) {
	unitCost := m.Product.UnitCost
	if m.UnitCost != nil {
		unitCost = *m.UnitCost
	}

	entry, err := stock.NewLedgerEntry(m.Product.ID, m.Type, m.Quantity, unitCost)
	if err != nil {
		return nil, err
	}
	entry.WithReference(m.Reference, m.ReferenceID).WithNotes(m.Notes)

	var newStock int64
	switch m.Type {
	case stock.TransactionTypeIn:
		newStock, err = products.IncrementStock(ctx, m.Product.ID, m.Quantity)
	case stock.TransactionTypeOut:
		newStock, err = products.IncrementStock(ctx, m.Product.ID, -m.Quantity)
	case stock.TransactionTypeAdjustment:
		newStock = m.Quantity
		err = products.SetStock(ctx, m.Product.ID, m.Quantity)
	}
	if err != nil {
		return nil, fmt.Errorf("update stock of product %d: %w", m.Product.ID, err)
	}

	if err := ledger.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("append ledger entry for product %d: %w", m.Product.ID, err)
	}

	m.Product.CurrentStock = newStock
	return &MovementResult{Entry: entry, NewStock: newStock}, nil
}
