package stock

import (
	"time"

	"github.com/mfgerp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a stock movement
type TransactionType string

const (
	// TransactionTypeIn adds quantity to stock
	TransactionTypeIn TransactionType = "IN"
	// TransactionTypeOut removes quantity from stock
	TransactionTypeOut TransactionType = "OUT"
	// TransactionTypeAdjustment overwrites the running stock with quantity
	TransactionTypeAdjustment TransactionType = "ADJUSTMENT"
)

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// IsValid returns true if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeIn, TransactionTypeOut, TransactionTypeAdjustment:
		return true
	}
	return false
}

// LedgerEntry is an immutable record of one stock movement.
// Quantity is always a magnitude; direction comes from TransactionType.
type LedgerEntry struct {
	shared.BaseEntity
	ProductID       uint
	TransactionType TransactionType
	Quantity        int64
	UnitCost        decimal.Decimal
	TotalValue      decimal.Decimal
	Reference       string
	ReferenceID     *uint
	Notes           string
	TransactionDate time.Time
}

// NewLedgerEntry creates a ledger entry and computes its total value
func NewLedgerEntry(productID uint, txType TransactionType, quantity int64, unitCost decimal.Decimal) (*LedgerEntry, error) {
	if productID == 0 {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Invalid transaction type")
	}
	if err := validateQuantity(txType, quantity); err != nil {
		return nil, err
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	now := time.Now()
	return &LedgerEntry{
		BaseEntity:      shared.NewBaseEntity(),
		ProductID:       productID,
		TransactionType: txType,
		Quantity:        quantity,
		UnitCost:        unitCost,
		TotalValue:      unitCost.Mul(decimal.NewFromInt(quantity)),
		TransactionDate: now,
	}, nil
}

// ADJUSTMENT may set stock to zero, movements must move something.
func validateQuantity(txType TransactionType, quantity int64) error {
	if txType == TransactionTypeAdjustment {
		if quantity < 0 {
			return shared.NewDomainError("INVALID_QUANTITY", "Adjustment quantity cannot be negative")
		}
		return nil
	}
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	return nil
}

// WithReference sets the business reference, typically a manufacturing order number
func (e *LedgerEntry) WithReference(reference string, referenceID *uint) *LedgerEntry {
	e.Reference = reference
	e.ReferenceID = referenceID
	return e
}

// WithNotes sets free-form notes
func (e *LedgerEntry) WithNotes(notes string) *LedgerEntry {
	e.Notes = notes
	return e
}

// Correct replaces the movement data of an existing entry.
// Used only by administrative corrections; the cached product stock is not recomputed.
func (e *LedgerEntry) Correct(txType TransactionType, quantity int64, unitCost decimal.Decimal, reference, notes string) error {
	if !txType.IsValid() {
		return shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Invalid transaction type")
	}
	if err := validateQuantity(txType, quantity); err != nil {
		return err
	}
	if unitCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}
	e.TransactionType = txType
	e.Quantity = quantity
	e.UnitCost = unitCost
	e.TotalValue = unitCost.Mul(decimal.NewFromInt(quantity))
	e.Reference = reference
	e.Notes = notes
	e.Touch()
	return nil
}

// Apply returns the running stock after this entry is applied to running
func (e *LedgerEntry) Apply(running int64) int64 {
	switch e.TransactionType {
	case TransactionTypeIn:
		return running + e.Quantity
	case TransactionTypeOut:
		return running - e.Quantity
	case TransactionTypeAdjustment:
		return e.Quantity
	}
	return running
}
