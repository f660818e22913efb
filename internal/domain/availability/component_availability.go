package availability

import (
	"fmt"
	"time"

	"github.com/mfgerp/backend/internal/domain/shared"
	"github.com/mfgerp/backend/internal/domain/stock"
)

// ComponentAvailability is the reservation-oriented stock view of one product.
// It is maintained independently of Product.CurrentStock and the stock ledger.
type ComponentAvailability struct {
	shared.BaseEntity
	ProductID   uint
	Available   int64
	Reserved    int64
	Incoming    int64
	Outgoing    int64
	LastUpdated time.Time
}

// NewComponentAvailability creates an empty row for a product
func NewComponentAvailability(productID uint) *ComponentAvailability {
	now := time.Now()
	return &ComponentAvailability{
		BaseEntity:  shared.NewBaseEntity(),
		ProductID:   productID,
		LastUpdated: now,
	}
}

// ApplyMovement records a stock movement.
// IN raises available and incoming; OUT lowers available (never below zero) and raises outgoing.
func (c *ComponentAvailability) ApplyMovement(txType stock.TransactionType, qty int64) error {
	if qty <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	switch txType {
	case stock.TransactionTypeIn:
		c.Available += qty
		c.Incoming += qty
	case stock.TransactionTypeOut:
		c.Available -= qty
		if c.Available < 0 {
			c.Available = 0
		}
		c.Outgoing += qty
	default:
		return shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Availability only accepts IN or OUT movements")
	}
	c.stamp()
	return nil
}

// Reserve shifts qty from available to reserved
func (c *ComponentAvailability) Reserve(qty int64) error {
	if qty < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if c.Available < qty {
		return NewInsufficientStockError(c.ProductID, qty, c.Available)
	}
	c.Available -= qty
	c.Reserved += qty
	c.stamp()
	return nil
}

// Release shifts up to qty from reserved back to available and returns the amount moved
func (c *ComponentAvailability) Release(qty int64) int64 {
	if qty <= 0 {
		return 0
	}
	released := qty
	if released > c.Reserved {
		released = c.Reserved
	}
	c.Reserved -= released
	c.Available += released
	c.stamp()
	return released
}

func (c *ComponentAvailability) stamp() {
	c.LastUpdated = time.Now()
	c.Touch()
}

// NewInsufficientStockError describes a reservation shortfall for one product
func NewInsufficientStockError(productID uint, required, available int64) *shared.DomainError {
	return shared.NewDomainError(shared.ErrInsufficientStock.Code, fmt.Sprintf(
		"Insufficient stock for product %d: required %d, available %d", productID, required, available))
}

// ComponentCheck is the read-only availability verdict for one BOM component
type ComponentCheck struct {
	ProductID uint
	Required  int64
	Available int64
	Shortfall int64
}

// Sufficient returns true when nothing is missing
func (c ComponentCheck) Sufficient() bool {
	return c.Shortfall == 0
}

// NewComponentCheck computes the shortfall of required against available
func NewComponentCheck(productID uint, required, available int64) ComponentCheck {
	shortfall := required - available
	if shortfall < 0 {
		shortfall = 0
	}
	return ComponentCheck{
		ProductID: productID,
		Required:  required,
		Available: available,
		Shortfall: shortfall,
	}
}
