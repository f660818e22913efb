package bom

import (
	"github.com/mfgerp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ResolvedComponent is the absolute requirement of one component for a production run
type ResolvedComponent struct {
	ProductID     uint
	UnitOfMeasure string
	PerUnit       decimal.Decimal
	Quantity      decimal.Decimal
	UnitCost      decimal.Decimal
}

// Units returns Quantity rounded to whole stock units, half away from zero
func (r ResolvedComponent) Units() int64 {
	return r.Quantity.Round(0).IntPart()
}

// ErrInvalidProductionQuantity is returned when a BOM is resolved for N <= 0
var ErrInvalidProductionQuantity = shared.NewDomainError("INVALID_QUANTITY", "Production quantity must be positive")

// Resolve expands per-unit component quantities into absolute quantities for n units
// of output: component.Quantity × n. It has no side effects.
func (b *BillOfMaterial) Resolve(n int64) ([]ResolvedComponent, error) {
	if n <= 0 {
		return nil, ErrInvalidProductionQuantity
	}
	factor := decimal.NewFromInt(n)
	resolved := make([]ResolvedComponent, 0, len(b.Components))
	for _, c := range b.Components {
		resolved = append(resolved, ResolvedComponent{
			ProductID:     c.ProductID,
			UnitOfMeasure: c.UnitOfMeasure,
			PerUnit:       c.Quantity,
			Quantity:      c.Quantity.Mul(factor),
			UnitCost:      c.UnitCost,
		})
	}
	return resolved, nil
}
