package bom

import (
	"context"

	"github.com/mfgerp/backend/internal/domain/shared"
)

// BOMRepository persists bills of materials together with their components
type BOMRepository interface {
	// FindByID finds a BOM with its components
	FindByID(ctx context.Context, id uint) (*BillOfMaterial, error)

	// FindAll finds BOMs matching the filter (product_id, is_active)
	FindAll(ctx context.Context, filter shared.Filter) ([]BillOfMaterial, error)

	// Count counts BOMs matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsActiveForProduct checks whether the product already has an active BOM
	ExistsActiveForProduct(ctx context.Context, productID uint) (bool, error)

	// Create inserts the BOM and its components
	Create(ctx context.Context, b *BillOfMaterial) error

	// Update rewrites the header, deleting and recreating components
	Update(ctx context.Context, b *BillOfMaterial) error

	// Delete removes a BOM and its components
	Delete(ctx context.Context, id uint) error
}
