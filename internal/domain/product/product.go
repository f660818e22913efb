package product

import (
	"strings"

	"github.com/mfgerp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductType classifies a product by its role in production
type ProductType string

const (
	ProductTypeRawMaterial  ProductType = "RAW_MATERIAL"
	ProductTypeSemiFinished ProductType = "SEMI_FINISHED"
	ProductTypeFinishedGood ProductType = "FINISHED_GOOD"
)

// IsValid returns true if the product type is known
func (t ProductType) IsValid() bool {
	switch t {
	case ProductTypeRawMaterial, ProductTypeSemiFinished, ProductTypeFinishedGood:
		return true
	}
	return false
}

// String returns the string representation of ProductType
func (t ProductType) String() string {
	return string(t)
}

// Product is the aggregate root for anything that can be stocked, consumed or produced.
// CurrentStock is a denormalized counter; it is only mutated alongside stock ledger writes.
type Product struct {
	shared.BaseAggregateRoot
	Name          string
	Type          ProductType
	UnitOfMeasure string
	UnitCost      decimal.Decimal
	CurrentStock  int64
	MinimumStock  int64
}

// NewProduct creates a new product with zero stock
func NewProduct(name string, productType ProductType, uom string, unitCost decimal.Decimal) (*Product, error) {
	p := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
	}
	if err := p.setDetails(name, productType, uom, unitCost); err != nil {
		return nil, err
	}
	return p, nil
}

// Update changes the descriptive fields of the product.
// CurrentStock is deliberately not touched here.
func (p *Product) Update(name string, productType ProductType, uom string, unitCost decimal.Decimal) error {
	if err := p.setDetails(name, productType, uom, unitCost); err != nil {
		return err
	}
	p.Touch()
	p.IncrementVersion()
	return nil
}

func (p *Product) setDetails(name string, productType ProductType, uom string, unitCost decimal.Decimal) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	if !productType.IsValid() {
		return shared.NewDomainError("INVALID_PRODUCT_TYPE", "Invalid product type")
	}
	if strings.TrimSpace(uom) == "" {
		return shared.NewDomainError("INVALID_UNIT", "Unit of measure cannot be empty")
	}
	if unitCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}
	p.Name = name
	p.Type = productType
	p.UnitOfMeasure = strings.TrimSpace(uom)
	p.UnitCost = unitCost
	return nil
}

// SetMinimumStock sets the reorder threshold used by low stock alerts
func (p *Product) SetMinimumStock(min int64) error {
	if min < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Minimum stock cannot be negative")
	}
	p.MinimumStock = min
	p.Touch()
	return nil
}

// IsLowStock returns true when current stock is at or below the reorder threshold
func (p *Product) IsLowStock() bool {
	return p.MinimumStock > 0 && p.CurrentStock <= p.MinimumStock
}

// StockValue returns the value of positive on-hand stock at the current unit cost
func (p *Product) StockValue() decimal.Decimal {
	if p.CurrentStock <= 0 {
		return decimal.Zero
	}
	return p.UnitCost.Mul(decimal.NewFromInt(p.CurrentStock))
}
