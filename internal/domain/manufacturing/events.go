package manufacturing

import "github.com/mfgerp/backend/internal/domain/shared"

const (
	AggregateTypeWorkOrder = "WorkOrder"

	EventTypeProductionCompleted = "ProductionCompleted"
)

// ProductionCompletedEvent is published after a work order completion moved stock
type ProductionCompletedEvent struct {
	shared.BaseDomainEvent
	WorkOrderID          uint   `json:"work_order_id"`
	ManufacturingOrderID uint   `json:"manufacturing_order_id"`
	OrderNumber          string `json:"order_number"`
	ProductID            uint   `json:"product_id"`
	Quantity             int64  `json:"quantity"`
	ComponentsConsumed   int    `json:"components_consumed"`
}

// NewProductionCompletedEvent creates a ProductionCompletedEvent
func NewProductionCompletedEvent(wo *WorkOrder, mo *ManufacturingOrder, components int) *ProductionCompletedEvent {
	return &ProductionCompletedEvent{
		BaseDomainEvent:      shared.NewBaseDomainEvent(EventTypeProductionCompleted, AggregateTypeWorkOrder, wo.ID),
		WorkOrderID:          wo.ID,
		ManufacturingOrderID: mo.ID,
		OrderNumber:          mo.Number,
		ProductID:            mo.ProductID,
		Quantity:             mo.Quantity,
		ComponentsConsumed:   components,
	}
}
