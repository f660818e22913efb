package bom

import (
	"time"

	"github.com/mfgerp/backend/internal/domain/bom"
	"github.com/shopspring/decimal"
)

// ComponentRequest is one component line of a create or update request
type ComponentRequest struct {
	ProductID     uint            `json:"product_id" binding:"required"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required"`
	UnitOfMeasure string          `json:"unit_of_measure" binding:"max=20"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
}

// CreateBOMRequest represents a request to create a BOM
type CreateBOMRequest struct {
	ProductID  uint               `json:"product_id" binding:"required"`
	Version    string             `json:"version" binding:"max=20"`
	Reference  string             `json:"reference" binding:"max=100"`
	IsActive   *bool              `json:"is_active"`
	Components []ComponentRequest `json:"components" binding:"dive"`
}

// UpdateBOMRequest represents a request to update a BOM; components are replaced wholesale
type UpdateBOMRequest struct {
	Version    string             `json:"version" binding:"max=20"`
	Reference  string             `json:"reference" binding:"max=100"`
	Components []ComponentRequest `json:"components" binding:"dive"`
}

// BOMListFilter represents filter options for the BOM list
type BOMListFilter struct {
	ProductID *uint `form:"product_id"`
	IsActive  *bool `form:"is_active"`
	Page      int   `form:"page" binding:"omitempty,min=1"`
	PageSize  int   `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ComponentResponse represents a BOM component in API responses
type ComponentResponse struct {
	ID            uint            `json:"id"`
	ProductID     uint            `json:"product_id"`
	ProductName   string          `json:"product_name,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	Total         decimal.Decimal `json:"total"`
}

// BOMResponse represents a BOM in API responses
type BOMResponse struct {
	ID         uint                `json:"id"`
	ProductID  uint                `json:"product_id"`
	Version    string              `json:"version"`
	Reference  string              `json:"reference"`
	IsActive   bool                `json:"is_active"`
	TotalCost  decimal.Decimal     `json:"total_cost"`
	Components []ComponentResponse `json:"components"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// ResolvedComponentResponse is one line of a BOM resolution
type ResolvedComponentResponse struct {
	ProductID     uint            `json:"product_id"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	PerUnit       decimal.Decimal `json:"per_unit"`
	Quantity      decimal.Decimal `json:"quantity"`
	Units         int64           `json:"units"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	TotalCost     decimal.Decimal `json:"total_cost"`
}

// ResolutionResponse is the result of resolving a BOM for N units
type ResolutionResponse struct {
	BOMID      uint                        `json:"bom_id"`
	Quantity   int64                       `json:"quantity"`
	Components []ResolvedComponentResponse `json:"components"`
}

// ToBOMResponse converts a domain BOM to a response
func ToBOMResponse(b *bom.BillOfMaterial) BOMResponse {
	components := make([]ComponentResponse, len(b.Components))
	for i, c := range b.Components {
		components[i] = ComponentResponse{
			ID:            c.ID,
			ProductID:     c.ProductID,
			Quantity:      c.Quantity,
			UnitOfMeasure: c.UnitOfMeasure,
			UnitCost:      c.UnitCost,
			Total:         c.Total(),
		}
	}
	return BOMResponse{
		ID:         b.ID,
		ProductID:  b.ProductID,
		Version:    b.Revision,
		Reference:  b.Reference,
		IsActive:   b.IsActive,
		TotalCost:  b.TotalCost(),
		Components: components,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

func toComponentInputs(reqs []ComponentRequest) []bom.ComponentInput {
	inputs := make([]bom.ComponentInput, len(reqs))
	for i, r := range reqs {
		inputs[i] = bom.ComponentInput{
			ProductID:     r.ProductID,
			Quantity:      r.Quantity,
			UnitOfMeasure: r.UnitOfMeasure,
			UnitCost:      r.UnitCost,
		}
	}
	return inputs
}
