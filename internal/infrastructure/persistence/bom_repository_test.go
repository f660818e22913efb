package persistence

import (
	"context"
	"testing"

	"github.com/mfgerp/backend/internal/domain/bom"
	"github.com/mfgerp/backend/internal/domain/shared"
	"github.com/mfgerp/backend/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormBOMRepository_Lifecycle(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewGormBOMRepository(db)
	ctx := context.Background()

	b, err := bom.NewBillOfMaterial(10, "1.0", "BOM-A", true, []bom.ComponentInput{
		{ProductID: 11, Quantity: decimal.NewFromInt(2), UnitOfMeasure: "pcs", UnitCost: decimal.NewFromInt(10)},
		{ProductID: 12, Quantity: decimal.RequireFromString("0.25"), UnitOfMeasure: "kg", UnitCost: decimal.NewFromInt(4)},
	})
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, b))
	require.NotZero(t, b.ID)

	found, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, found.Components, 2)
	assert.Equal(t, uint(11), found.Components[0].ProductID)
	assert.True(t, decimal.RequireFromString("0.25").Equal(found.Components[1].Quantity))
	assert.Equal(t, "1.0", found.Revision)

	active, err := repo.ExistsActiveForProduct(ctx, 10)
	require.NoError(t, err)
	assert.True(t, active)

	require.NoError(t, found.Update("2.0", "BOM-A", []bom.ComponentInput{
		{ProductID: 13, Quantity: decimal.NewFromInt(1), UnitCost: decimal.NewFromInt(7)},
	}))
	require.NoError(t, repo.Update(ctx, found))

	updated, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, updated.Components, 1)
	assert.Equal(t, uint(13), updated.Components[0].ProductID)
	assert.Equal(t, "2.0", updated.Revision)

	// a stale copy loses
	require.NoError(t, b.Update("3.0", "", nil))
	assert.ErrorIs(t, repo.Update(ctx, b), shared.ErrConcurrencyConflict)

	f := shared.DefaultFilter()
	f.Filters["product_id"] = uint(10)
	list, err := repo.FindAll(ctx, f)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, b.ID))
	_, err = repo.FindByID(ctx, b.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	var remaining int64
	require.NoError(t, db.Table("bom_components").Count(&remaining).Error)
	assert.Zero(t, remaining)
}
