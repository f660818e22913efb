package availability

import (
	"errors"
	"testing"

	"github.com/mfgerp/backend/internal/domain/shared"
	"github.com/mfgerp/backend/internal/domain/stock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyMovement(t *testing.T) {
	row := NewComponentAvailability(1)

	require.NoError(t, row.ApplyMovement(stock.TransactionTypeIn, 10))
	assert.Equal(t, int64(10), row.Available)
	assert.Equal(t, int64(10), row.Incoming)

	require.NoError(t, row.ApplyMovement(stock.TransactionTypeOut, 4))
	assert.Equal(t, int64(6), row.Available)
	assert.Equal(t, int64(4), row.Outgoing)

	// floored at zero
	require.NoError(t, row.ApplyMovement(stock.TransactionTypeOut, 20))
	assert.Equal(t, int64(0), row.Available)
	assert.Equal(t, int64(24), row.Outgoing)

	assert.Error(t, row.ApplyMovement(stock.TransactionTypeAdjustment, 1))
	assert.Error(t, row.ApplyMovement(stock.TransactionTypeIn, 0))
}

func TestReserveAndRelease(t *testing.T) {
	row := NewComponentAvailability(1)
	row.Available = 10

	require.NoError(t, row.Reserve(7))
	assert.Equal(t, int64(3), row.Available)
	assert.Equal(t, int64(7), row.Reserved)

	err := row.Reserve(4)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInsufficientStock))
	assert.Equal(t, int64(3), row.Available, "failed reservation must not mutate")

	assert.Equal(t, int64(7), row.Release(100))
	assert.Equal(t, int64(0), row.Reserved)
	assert.Equal(t, int64(10), row.Available)
}

func TestNewComponentCheck(t *testing.T) {
	short := NewComponentCheck(1, 10, 4)
	assert.Equal(t, int64(6), short.Shortfall)
	assert.False(t, short.Sufficient())

	enough := NewComponentCheck(1, 3, 4)
	assert.Equal(t, int64(0), enough.Shortfall)
	assert.True(t, enough.Sufficient())
}
