package manufacturing

import (
	"fmt"
	"time"

	"github.com/mfgerp/backend/internal/domain/shared"
)

// OrderStatus is the lifecycle status of a manufacturing order
type OrderStatus string

const (
	OrderStatusDraft      OrderStatus = "DRAFT"
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusInProgress OrderStatus = "IN_PROGRESS"
	OrderStatusToClose    OrderStatus = "TO_CLOSE"
	OrderStatusClosed     OrderStatus = "CLOSED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
	OrderStatusDeleted    OrderStatus = "DELETED"
)

// IsValid returns true if the status is known
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusConfirmed, OrderStatusInProgress, OrderStatusToClose,
		OrderStatusClosed, OrderStatusCancelled, OrderStatusDeleted:
		return true
	}
	return false
}

// IsTerminal returns true for statuses that allow no further transitions
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusClosed || s == OrderStatusCancelled || s == OrderStatusDeleted
}

// AllOrderStatuses lists every status, in lifecycle order
func AllOrderStatuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusDraft, OrderStatusConfirmed, OrderStatusInProgress, OrderStatusToClose,
		OrderStatusClosed, OrderStatusCancelled, OrderStatusDeleted,
	}
}

// ManufacturingOrder is an instruction to produce Quantity units of a finished product
type ManufacturingOrder struct {
	shared.BaseAggregateRoot
	Number        string
	ProductID     uint
	Quantity      int64
	BOMID         *uint
	AssigneeID    *uint
	Status        OrderStatus
	ScheduledDate *time.Time
	StartDate     *time.Time
	EndDate       *time.Time
	Notes         string
	WorkOrders    []WorkOrder
}

// NewManufacturingOrder creates a DRAFT order; Number is assigned by the numbering sequence.
func NewManufacturingOrder(number string, productID uint, quantity int64, bomID *uint) (*ManufacturingOrder, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Manufacturing order number cannot be empty")
	}
	if productID == 0 {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	mo := &ManufacturingOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		ProductID:         productID,
		Quantity:          quantity,
		BOMID:             bomID,
		Status:            OrderStatusDraft,
	}
	return mo, nil
}

// HasBOM returns true if a BOM is attached
func (m *ManufacturingOrder) HasBOM() bool {
	return m.BOMID != nil && *m.BOMID != 0
}

// IsEditable returns true while the order has not started
func (m *ManufacturingOrder) IsEditable() bool {
	return m.Status == OrderStatusDraft || m.Status == OrderStatusConfirmed
}

// Update changes planning fields; only allowed before production starts
func (m *ManufacturingOrder) Update(quantity int64, bomID, assigneeID *uint, scheduled *time.Time, notes string) error {
	if !m.IsEditable() {
		return shared.NewInvalidStateTransitionError("Only DRAFT or CONFIRMED manufacturing orders can be edited")
	}
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	m.Quantity = quantity
	m.BOMID = bomID
	m.AssigneeID = assigneeID
	m.ScheduledDate = scheduled
	m.Notes = notes
	m.Touch()
	m.IncrementVersion()
	return nil
}

// Confirm moves DRAFT to CONFIRMED
func (m *ManufacturingOrder) Confirm() error {
	return m.transition(OrderStatusConfirmed, OrderStatusDraft)
}

// Start moves CONFIRMED to IN_PROGRESS and stamps the start date
func (m *ManufacturingOrder) Start() error {
	if err := m.transition(OrderStatusInProgress, OrderStatusConfirmed); err != nil {
		return err
	}
	now := time.Now()
	m.StartDate = &now
	return nil
}

// MarkToClose moves IN_PROGRESS to TO_CLOSE
func (m *ManufacturingOrder) MarkToClose() error {
	return m.transition(OrderStatusToClose, OrderStatusInProgress)
}

// Close moves TO_CLOSE or IN_PROGRESS to CLOSED and stamps the end date
func (m *ManufacturingOrder) Close() error {
	if err := m.transition(OrderStatusClosed, OrderStatusToClose, OrderStatusInProgress); err != nil {
		return err
	}
	now := time.Now()
	m.EndDate = &now
	return nil
}

// Cancel moves any non-terminal order to CANCELLED
func (m *ManufacturingOrder) Cancel() error {
	if m.Status.IsTerminal() {
		return shared.NewInvalidStateTransitionError(
			fmt.Sprintf("Cannot cancel a manufacturing order in %s status", m.Status))
	}
	m.Status = OrderStatusCancelled
	m.Touch()
	m.IncrementVersion()
	return nil
}

// MarkDeleted soft-deletes the order
func (m *ManufacturingOrder) MarkDeleted() error {
	if m.Status == OrderStatusDeleted {
		return shared.NewInvalidStateTransitionError("Manufacturing order is already deleted")
	}
	if m.Status == OrderStatusInProgress || m.Status == OrderStatusToClose {
		return shared.NewInvalidStateTransitionError("Cannot delete a manufacturing order in production")
	}
	m.Status = OrderStatusDeleted
	m.Touch()
	m.IncrementVersion()
	return nil
}

func (m *ManufacturingOrder) transition(to OrderStatus, from ...OrderStatus) error {
	for _, f := range from {
		if m.Status == f {
			m.Status = to
			m.Touch()
			m.IncrementVersion()
			return nil
		}
	}
	return shared.NewInvalidStateTransitionError(
		fmt.Sprintf("Cannot move manufacturing order from %s to %s", m.Status, to))
}
