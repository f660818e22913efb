package availability

import (
	"context"

	"github.com/mfgerp/backend/internal/domain/shared"
)

// Repository persists component availability rows, one per product
type Repository interface {
	// FindByProduct returns the row for a product, ErrNotFound if none exists
	FindByProduct(ctx context.Context, productID uint) (*ComponentAvailability, error)

	// FindByProducts returns rows keyed by product ID, missing products are absent
	FindByProducts(ctx context.Context, productIDs []uint) (map[uint]*ComponentAvailability, error)

	// FindAll lists rows with pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]ComponentAvailability, int64, error)

	// Save creates or updates a row
	Save(ctx context.Context, row *ComponentAvailability) error
}
