package product

import (
	"time"

	"github.com/mfgerp/backend/internal/domain/product"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name          string          `json:"name" binding:"required,min=1,max=200"`
	Type          string          `json:"type" binding:"required,oneof=RAW_MATERIAL SEMI_FINISHED FINISHED_GOOD"`
	UnitOfMeasure string          `json:"unit_of_measure" binding:"required,max=20"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	MinimumStock  int64           `json:"minimum_stock" binding:"min=0"`
}

// UpdateProductRequest represents a request to update a product.
// Current stock is not updatable here.
type UpdateProductRequest struct {
	Name          string          `json:"name" binding:"required,min=1,max=200"`
	Type          string          `json:"type" binding:"required,oneof=RAW_MATERIAL SEMI_FINISHED FINISHED_GOOD"`
	UnitOfMeasure string          `json:"unit_of_measure" binding:"required,max=20"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	MinimumStock  int64           `json:"minimum_stock" binding:"min=0"`
	// Version enables optimistic locking when non-zero
	Version int `json:"version"`
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search   string `form:"search"`
	Type     string `form:"type" binding:"omitempty,oneof=RAW_MATERIAL SEMI_FINISHED FINISHED_GOOD"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID            uint            `json:"id"`
	Name          string          `json:"name"`
	Type          string          `json:"type"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	CurrentStock  int64           `json:"current_stock"`
	MinimumStock  int64           `json:"minimum_stock"`
	LowStock      bool            `json:"low_stock"`
	Version       int             `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToProductResponse converts a domain product to a response
func ToProductResponse(p *product.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Type:          string(p.Type),
		UnitOfMeasure: p.UnitOfMeasure,
		UnitCost:      p.UnitCost,
		CurrentStock:  p.CurrentStock,
		MinimumStock:  p.MinimumStock,
		LowStock:      p.IsLowStock(),
		Version:       p.Version,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ToProductResponses converts a slice of products
func ToProductResponses(products []product.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = ToProductResponse(&products[i])
	}
	return out
}
