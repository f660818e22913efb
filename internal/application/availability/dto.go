package availability

import (
	"time"

	"github.com/mfgerp/backend/internal/domain/availability"
)

// MovementRequest records an IN or OUT movement against availability
type MovementRequest struct {
	ProductID       uint   `json:"product_id" binding:"required"`
	TransactionType string `json:"transaction_type" binding:"required,oneof=IN OUT"`
	Quantity        int64  `json:"quantity" binding:"required,min=1"`
}

// ListFilter represents filter options for availability rows
type ListFilter struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// AvailabilityResponse represents one availability row
type AvailabilityResponse struct {
	ProductID   uint      `json:"product_id"`
	Available   int64     `json:"available"`
	Reserved    int64     `json:"reserved"`
	Incoming    int64     `json:"incoming"`
	Outgoing    int64     `json:"outgoing"`
	LastUpdated time.Time `json:"last_updated"`
}

// ComponentCheckResponse is the availability verdict for one component
type ComponentCheckResponse struct {
	ProductID  uint  `json:"product_id"`
	Required   int64 `json:"required"`
	Available  int64 `json:"available"`
	Shortfall  int64 `json:"shortfall"`
	Sufficient bool  `json:"sufficient"`
}

// CheckResponse is the availability verdict for a BOM and quantity
type CheckResponse struct {
	BOMID      uint                     `json:"bom_id"`
	Quantity   int64                    `json:"quantity"`
	Sufficient bool                     `json:"sufficient"`
	Components []ComponentCheckResponse `json:"components"`
}

// ReservationResponse lists the rows touched by a reserve or release
type ReservationResponse struct {
	ManufacturingOrderID uint                   `json:"manufacturing_order_id"`
	Rows                 []AvailabilityResponse `json:"rows"`
}

// ToAvailabilityResponse converts a domain row to a response
func ToAvailabilityResponse(c *availability.ComponentAvailability) AvailabilityResponse {
	return AvailabilityResponse{
		ProductID:   c.ProductID,
		Available:   c.Available,
		Reserved:    c.Reserved,
		Incoming:    c.Incoming,
		Outgoing:    c.Outgoing,
		LastUpdated: c.LastUpdated,
	}
}

func toCheckResponse(c availability.ComponentCheck) ComponentCheckResponse {
	return ComponentCheckResponse{
		ProductID:  c.ProductID,
		Required:   c.Required,
		Available:  c.Available,
		Shortfall:  c.Shortfall,
		Sufficient: c.Sufficient(),
	}
}
