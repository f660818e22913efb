package bom

import (
	"strings"

	"github.com/mfgerp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Component is one line of a bill of materials: the amount of a component
// product needed to make one unit of the BOM's output.
type Component struct {
	shared.BaseEntity
	BOMID         uint
	ProductID     uint
	Quantity      decimal.Decimal
	UnitOfMeasure string
	UnitCost      decimal.Decimal
	Sequence      int
}

// Total returns quantity × unit cost
func (c Component) Total() decimal.Decimal {
	return c.Quantity.Mul(c.UnitCost)
}

// ComponentInput describes a component line on create or update
type ComponentInput struct {
	ProductID     uint
	Quantity      decimal.Decimal
	UnitOfMeasure string
	UnitCost      decimal.Decimal
}

// BillOfMaterial maps one product to the components required to produce a unit of it.
// At most one active BOM per product is expected; that is checked on creation only.
type BillOfMaterial struct {
	shared.BaseAggregateRoot
	ProductID  uint
	Revision   string
	Reference  string
	IsActive   bool
	Components []Component
}

// NewBillOfMaterial creates a BOM with its components
func NewBillOfMaterial(productID uint, revision, reference string, active bool, components []ComponentInput) (*BillOfMaterial, error) {
	if productID == 0 {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	b := &BillOfMaterial{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		IsActive:          active,
	}
	if err := b.setHeader(revision, reference); err != nil {
		return nil, err
	}
	if err := b.ReplaceComponents(components); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *BillOfMaterial) setHeader(revision, reference string) error {
	revision = strings.TrimSpace(revision)
	if revision == "" {
		revision = "1.0"
	}
	if len(revision) > 20 {
		return shared.NewDomainError("INVALID_VERSION", "BOM version cannot exceed 20 characters")
	}
	b.Revision = revision
	b.Reference = strings.TrimSpace(reference)
	return nil
}

// Update rewrites the header and replaces the component list wholesale
func (b *BillOfMaterial) Update(revision, reference string, components []ComponentInput) error {
	if err := b.setHeader(revision, reference); err != nil {
		return err
	}
	if err := b.ReplaceComponents(components); err != nil {
		return err
	}
	b.Touch()
	b.IncrementVersion()
	return nil
}

// ReplaceComponents validates and replaces all components, preserving input order
func (b *BillOfMaterial) ReplaceComponents(inputs []ComponentInput) error {
	components := make([]Component, 0, len(inputs))
	seen := make(map[uint]struct{}, len(inputs))
	for i, in := range inputs {
		if in.ProductID == 0 {
			return shared.NewDomainError("INVALID_COMPONENT", "Component product ID cannot be empty")
		}
		if in.ProductID == b.ProductID {
			return shared.NewDomainError("INVALID_COMPONENT", "A product cannot be a component of itself")
		}
		if _, dup := seen[in.ProductID]; dup {
			return shared.NewDomainError("DUPLICATE_COMPONENT", "Component product appears more than once")
		}
		seen[in.ProductID] = struct{}{}
		if !in.Quantity.IsPositive() {
			return shared.NewDomainError("INVALID_QUANTITY", "Component quantity must be positive")
		}
		if in.UnitCost.IsNegative() {
			return shared.NewDomainError("INVALID_COST", "Component unit cost cannot be negative")
		}
		components = append(components, Component{
			BaseEntity:    shared.NewBaseEntity(),
			BOMID:         b.ID,
			ProductID:     in.ProductID,
			Quantity:      in.Quantity,
			UnitOfMeasure: strings.TrimSpace(in.UnitOfMeasure),
			UnitCost:      in.UnitCost,
			Sequence:      i + 1,
		})
	}
	b.Components = components
	return nil
}

// Activate marks the BOM active. The one-active-per-product rule is not re-checked.
func (b *BillOfMaterial) Activate() {
	b.IsActive = true
	b.Touch()
	b.IncrementVersion()
}

// Deactivate marks the BOM inactive
func (b *BillOfMaterial) Deactivate() {
	b.IsActive = false
	b.Touch()
	b.IncrementVersion()
}

// TotalCost sums the component totals for one unit of output
func (b *BillOfMaterial) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, c := range b.Components {
		total = total.Add(c.Total())
	}
	return total
}
