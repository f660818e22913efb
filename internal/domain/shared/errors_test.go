package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Is(t *testing.T) {
	err := NewNotFoundError("Product")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, "Product not found", err.Error())

	wrapped := fmt.Errorf("load: %w", NewInvalidStateTransitionError("nope"))
	assert.True(t, errors.Is(wrapped, ErrInvalidStateTransition))
}

func TestFilterNormalize(t *testing.T) {
	f := Filter{PageSize: 500, OrderDir: "sideways"}
	f.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, MaxPageSize, f.PageSize)
	assert.Equal(t, "desc", f.OrderDir)
	assert.NotNil(t, f.Filters)
	assert.Equal(t, 0, f.Offset())

	f = Filter{Page: 3, OrderDir: "asc"}
	f.Normalize()
	assert.Equal(t, DefaultPageSize, f.PageSize)
	assert.Equal(t, "asc", f.OrderDir)
	assert.Equal(t, 40, f.Offset())
}
