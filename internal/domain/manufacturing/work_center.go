package manufacturing

import (
	"strings"

	"github.com/mfgerp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// WorkCenterStatus is the availability of a work center
type WorkCenterStatus string

const (
	WorkCenterStatusActive           WorkCenterStatus = "ACTIVE"
	WorkCenterStatusUnderMaintenance WorkCenterStatus = "UNDER_MAINTENANCE"
	WorkCenterStatusInactive         WorkCenterStatus = "INACTIVE"
)

// IsValid returns true if the status is known
func (s WorkCenterStatus) IsValid() bool {
	switch s {
	case WorkCenterStatusActive, WorkCenterStatusUnderMaintenance, WorkCenterStatusInactive:
		return true
	}
	return false
}

// WorkCenter is a station or line where work orders are performed
type WorkCenter struct {
	shared.BaseAggregateRoot
	Name        string
	Capacity    decimal.Decimal // hours per day
	CostPerHour decimal.Decimal
	Status      WorkCenterStatus
}

// NewWorkCenter creates an ACTIVE work center
func NewWorkCenter(name string, capacity, costPerHour decimal.Decimal) (*WorkCenter, error) {
	wc := &WorkCenter{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Status:            WorkCenterStatusActive,
	}
	if err := wc.setAttributes(name, capacity, costPerHour, WorkCenterStatusActive); err != nil {
		return nil, err
	}
	return wc, nil
}

// Update replaces the work center's attributes
func (w *WorkCenter) Update(name string, capacity, costPerHour decimal.Decimal, status WorkCenterStatus) error {
	if err := w.setAttributes(name, capacity, costPerHour, status); err != nil {
		return err
	}
	w.Touch()
	w.IncrementVersion()
	return nil
}

func (w *WorkCenter) setAttributes(name string, capacity, costPerHour decimal.Decimal, status WorkCenterStatus) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Work center name cannot be empty")
	}
	if capacity.IsNegative() || capacity.GreaterThan(decimal.NewFromInt(24)) {
		return shared.NewDomainError("INVALID_CAPACITY", "Capacity must be between 0 and 24 hours per day")
	}
	if costPerHour.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Cost per hour cannot be negative")
	}
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Invalid work center status")
	}
	w.Name = name
	w.Capacity = capacity
	w.CostPerHour = costPerHour
	w.Status = status
	return nil
}

// CostFor returns the cost of running the center for the given minutes
func (w *WorkCenter) CostFor(minutes int) decimal.Decimal {
	return w.CostPerHour.Mul(decimal.NewFromInt(int64(minutes))).Div(decimal.NewFromInt(60))
}
