package manufacturing

import (
	"errors"
	"testing"

	"github.com/mfgerp/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorkOrder(t *testing.T, status WorkOrderStatus) *WorkOrder {
	t.Helper()
	wo, err := NewWorkOrder(1, 1, "Assembly", 60)
	require.NoError(t, err)
	wo.Status = status
	return wo
}

func TestParseWorkOrderStatus(t *testing.T) {
	tests := []struct {
		in       string
		expected WorkOrderStatus
	}{
		{"PLANNED", WorkOrderStatusPlanned},
		{"started", WorkOrderStatusStarted},
		{"PENDING", WorkOrderStatusPlanned},
		{"IN_PROGRESS", WorkOrderStatusStarted},
		{"ON_HOLD", WorkOrderStatusPaused},
		{"DONE", WorkOrderStatusCompleted},
		{"CANCELED", WorkOrderStatusCancelled},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWorkOrderStatus(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := ParseWorkOrderStatus("FINISHED")
	assert.Error(t, err)
}

func TestWorkOrder_Complete(t *testing.T) {
	t.Run("from STARTED uses expected duration by default", func(t *testing.T) {
		wo := newTestWorkOrder(t, WorkOrderStatusStarted)
		require.NoError(t, wo.Complete(nil, ""))
		assert.Equal(t, WorkOrderStatusCompleted, wo.Status)
		assert.Equal(t, 60, wo.RealDuration)
		assert.NotNil(t, wo.CompletedAt)
	})

	t.Run("from PAUSED records real duration and notes", func(t *testing.T) {
		wo := newTestWorkOrder(t, WorkOrderStatusPaused)
		d := 75
		require.NoError(t, wo.Complete(&d, "slow press"))
		assert.Equal(t, 75, wo.RealDuration)
		assert.Equal(t, "slow press", wo.Notes)
	})

	for _, status := range []WorkOrderStatus{WorkOrderStatusPlanned, WorkOrderStatusCancelled, WorkOrderStatusCompleted} {
		t.Run("rejects "+string(status), func(t *testing.T) {
			wo := newTestWorkOrder(t, status)
			err := wo.Complete(nil, "")
			require.Error(t, err)
			assert.True(t, errors.Is(err, shared.ErrInvalidStateTransition))
			assert.Equal(t, "Only STARTED or PAUSED work orders can be completed", err.Error())
			assert.Equal(t, status, wo.Status)
		})
	}
}

func TestWorkOrder_Lifecycle(t *testing.T) {
	wo := newTestWorkOrder(t, WorkOrderStatusPlanned)

	require.NoError(t, wo.Start())
	assert.NotNil(t, wo.StartedAt)
	require.NoError(t, wo.Pause())
	assert.Error(t, wo.Pause())
	require.NoError(t, wo.Start())
	require.NoError(t, wo.Cancel())
	assert.Error(t, wo.Cancel())
	assert.Error(t, wo.Start())
}

func TestManufacturingOrder_Transitions(t *testing.T) {
	mo, err := NewManufacturingOrder("MO2024030001", 1, 5, nil)
	require.NoError(t, err)
	assert.Equal(t, OrderStatusDraft, mo.Status)
	assert.False(t, mo.HasBOM())

	assert.True(t, errors.Is(mo.Start(), shared.ErrInvalidStateTransition))
	require.NoError(t, mo.Confirm())
	require.NoError(t, mo.Start())
	assert.NotNil(t, mo.StartDate)
	assert.Error(t, mo.Update(10, nil, nil, nil, ""))
	require.NoError(t, mo.MarkToClose())
	require.NoError(t, mo.Close())
	assert.NotNil(t, mo.EndDate)
	assert.Error(t, mo.Cancel())
}

func TestManufacturingOrder_DeleteAndCancel(t *testing.T) {
	mo, err := NewManufacturingOrder("MO2024030002", 1, 1, nil)
	require.NoError(t, err)
	require.NoError(t, mo.Cancel())
	assert.Equal(t, OrderStatusCancelled, mo.Status)
	require.NoError(t, mo.MarkDeleted())
	assert.Error(t, mo.MarkDeleted())

	_, err = NewManufacturingOrder("MO2024030003", 1, 0, nil)
	assert.Error(t, err)
}

func TestFormatOrderNumber(t *testing.T) {
	at := mustDate(2024, 3)
	assert.Equal(t, "202403", SequencePeriod(at))
	assert.Equal(t, "MO2024030007", FormatOrderNumber(at, 7))
	assert.Equal(t, "MO20240312345", FormatOrderNumber(at, 12345))
}

func TestIssue_Resolve(t *testing.T) {
	issue, err := NewIssue(1, nil, "Jammed feeder", "", "")
	require.NoError(t, err)
	assert.Equal(t, IssueSeverityMedium, issue.Severity)
	require.NoError(t, issue.Resolve())
	assert.True(t, issue.IsResolved())
	assert.Error(t, issue.Resolve())

	_, err = NewComment(1, nil, "   ")
	assert.Error(t, err)
}
