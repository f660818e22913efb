package product

import (
	"context"

	"github.com/mfgerp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductRepository defines the persistence contract for products
type ProductRepository interface {
	// FindByID finds a product by ID
	FindByID(ctx context.Context, id uint) (*Product, error)

	// FindByIDs finds products by IDs, missing IDs are skipped
	FindByIDs(ctx context.Context, ids []uint) ([]Product, error)

	// FindByName finds a product by its unique name
	FindByName(ctx context.Context, name string) (*Product, error)

	// FindAll finds products matching the filter (type, search)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// FindLowStock finds products at or below their minimum stock
	FindLowStock(ctx context.Context) ([]Product, error)

	// ExistsByName checks whether a product name is taken
	ExistsByName(ctx context.Context, name string) (bool, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// SaveWithLock updates a product using optimistic locking on version
	SaveWithLock(ctx context.Context, product *Product) error

	// Delete deletes a product
	Delete(ctx context.Context, id uint) error

	// IncrementStock atomically adds delta (may be negative) to current stock
	// and returns the stock after the update
	IncrementStock(ctx context.Context, id uint, delta int64) (int64, error)

	// SetStock overwrites current stock
	SetStock(ctx context.Context, id uint, value int64) error

	// SumStockValue returns Σ current_stock × unit_cost over products with positive stock
	SumStockValue(ctx context.Context) (decimal.Decimal, error)
}
