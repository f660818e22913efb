package manufacturing

import (
	"fmt"
	"strings"
	"time"

	"github.com/mfgerp/backend/internal/domain/shared"
)

// WorkOrderStatus is the lifecycle status of a work order
type WorkOrderStatus string

const (
	WorkOrderStatusPlanned   WorkOrderStatus = "PLANNED"
	WorkOrderStatusStarted   WorkOrderStatus = "STARTED"
	WorkOrderStatusPaused    WorkOrderStatus = "PAUSED"
	WorkOrderStatusCompleted WorkOrderStatus = "COMPLETED"
	WorkOrderStatusCancelled WorkOrderStatus = "CANCELLED"
)

// legacy spellings still sent by older clients
var workOrderStatusAliases = map[string]WorkOrderStatus{
	"PENDING":     WorkOrderStatusPlanned,
	"IN_PROGRESS": WorkOrderStatusStarted,
	"ON_HOLD":     WorkOrderStatusPaused,
	"DONE":        WorkOrderStatusCompleted,
	"CANCELED":    WorkOrderStatusCancelled,
}

// ParseWorkOrderStatus normalizes a status string, accepting legacy aliases
func ParseWorkOrderStatus(s string) (WorkOrderStatus, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	st := WorkOrderStatus(v)
	if st.IsValid() {
		return st, nil
	}
	if alias, ok := workOrderStatusAliases[v]; ok {
		return alias, nil
	}
	return "", shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown work order status %q", s))
}

// IsValid returns true if the status is canonical
func (s WorkOrderStatus) IsValid() bool {
	switch s {
	case WorkOrderStatusPlanned, WorkOrderStatusStarted, WorkOrderStatusPaused,
		WorkOrderStatusCompleted, WorkOrderStatusCancelled:
		return true
	}
	return false
}

// CanComplete returns true for the statuses production completion accepts
func (s WorkOrderStatus) CanComplete() bool {
	return s == WorkOrderStatusStarted || s == WorkOrderStatusPaused
}

// AllWorkOrderStatuses lists every canonical status
func AllWorkOrderStatuses() []WorkOrderStatus {
	return []WorkOrderStatus{
		WorkOrderStatusPlanned, WorkOrderStatusStarted, WorkOrderStatusPaused,
		WorkOrderStatusCompleted, WorkOrderStatusCancelled,
	}
}

// ErrWorkOrderNotCompletable is returned when completion is attempted outside STARTED/PAUSED
var ErrWorkOrderNotCompletable = shared.NewInvalidStateTransitionError("Only STARTED or PAUSED work orders can be completed")

// WorkOrder is one operation of a manufacturing order performed at a work center.
// Durations are in minutes.
type WorkOrder struct {
	shared.BaseAggregateRoot
	ManufacturingOrderID uint
	WorkCenterID         uint
	Operation            string
	ExpectedDuration     int
	RealDuration         int
	Status               WorkOrderStatus
	AssigneeID           *uint
	StartedAt            *time.Time
	CompletedAt          *time.Time
	Notes                string
}

// NewWorkOrder creates a PLANNED work order
func NewWorkOrder(moID, workCenterID uint, operation string, expectedDuration int) (*WorkOrder, error) {
	if moID == 0 {
		return nil, shared.NewDomainError("INVALID_MANUFACTURING_ORDER", "Manufacturing order ID cannot be empty")
	}
	if workCenterID == 0 {
		return nil, shared.NewDomainError("INVALID_WORK_CENTER", "Work center ID cannot be empty")
	}
	operation = strings.TrimSpace(operation)
	if operation == "" {
		return nil, shared.NewDomainError("INVALID_OPERATION", "Operation name cannot be empty")
	}
	if expectedDuration < 0 {
		return nil, shared.NewDomainError("INVALID_DURATION", "Expected duration cannot be negative")
	}
	return &WorkOrder{
		BaseAggregateRoot:    shared.NewBaseAggregateRoot(),
		ManufacturingOrderID: moID,
		WorkCenterID:         workCenterID,
		Operation:            operation,
		ExpectedDuration:     expectedDuration,
		Status:               WorkOrderStatusPlanned,
	}, nil
}

// Start moves PLANNED or PAUSED to STARTED
func (w *WorkOrder) Start() error {
	if w.Status != WorkOrderStatusPlanned && w.Status != WorkOrderStatusPaused {
		return shared.NewInvalidStateTransitionError("Only PLANNED or PAUSED work orders can be started")
	}
	if w.StartedAt == nil {
		now := time.Now()
		w.StartedAt = &now
	}
	w.setStatus(WorkOrderStatusStarted)
	return nil
}

// Pause moves STARTED to PAUSED
func (w *WorkOrder) Pause() error {
	if w.Status != WorkOrderStatusStarted {
		return shared.NewInvalidStateTransitionError("Only STARTED work orders can be paused")
	}
	w.setStatus(WorkOrderStatusPaused)
	return nil
}

// Complete marks the work order COMPLETED. realDuration defaults to the expected duration.
func (w *WorkOrder) Complete(realDuration *int, notes string) error {
	if !w.Status.CanComplete() {
		return ErrWorkOrderNotCompletable
	}
	if realDuration != nil && *realDuration < 0 {
		return shared.NewDomainError("INVALID_DURATION", "Real duration cannot be negative")
	}
	if realDuration != nil {
		w.RealDuration = *realDuration
	} else {
		w.RealDuration = w.ExpectedDuration
	}
	if notes != "" {
		w.Notes = notes
	}
	now := time.Now()
	w.CompletedAt = &now
	w.setStatus(WorkOrderStatusCompleted)
	return nil
}

// Cancel moves any non-completed work order to CANCELLED
func (w *WorkOrder) Cancel() error {
	if w.Status == WorkOrderStatusCompleted || w.Status == WorkOrderStatusCancelled {
		return shared.NewInvalidStateTransitionError(
			fmt.Sprintf("Cannot cancel a work order in %s status", w.Status))
	}
	w.setStatus(WorkOrderStatusCancelled)
	return nil
}

// Assign sets the operator responsible for the work order
func (w *WorkOrder) Assign(userID *uint) {
	w.AssigneeID = userID
	w.Touch()
}

func (w *WorkOrder) setStatus(s WorkOrderStatus) {
	w.Status = s
	w.Touch()
	w.IncrementVersion()
}
