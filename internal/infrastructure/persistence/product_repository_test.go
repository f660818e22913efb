package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mfgerp/backend/internal/domain/product"
	"github.com/mfgerp/backend/internal/domain/shared"
	"github.com/mfgerp/backend/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createProduct(t *testing.T, repo *GormProductRepository, name string, cost int64, stock, min int64) *product.Product {
	t.Helper()
	p, err := product.NewProduct(name, product.ProductTypeRawMaterial, "pcs", decimal.NewFromInt(cost))
	require.NoError(t, err)
	p.CurrentStock = stock
	p.MinimumStock = min
	require.NoError(t, repo.Save(context.Background(), p))
	require.NotZero(t, p.ID)
	return p
}

func TestGormProductRepository_SaveAndFind(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	p := createProduct(t, repo, "Steel Plate", 12, 40, 0)

	found, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Steel Plate", found.Name)
	assert.Equal(t, int64(40), found.CurrentStock)
	assert.True(t, decimal.NewFromInt(12).Equal(found.UnitCost))
	assert.Equal(t, 1, found.Version)

	byName, err := repo.FindByName(ctx, "Steel Plate")
	require.NoError(t, err)
	assert.Equal(t, p.ID, byName.ID)

	exists, err := repo.ExistsByName(ctx, "Steel Plate")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.FindByID(ctx, 9999)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormProductRepository_IncrementStock(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	p := createProduct(t, repo, "Bolt", 1, 10, 0)

	after, err := repo.IncrementStock(ctx, p.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(15), after)

	after, err = repo.IncrementStock(ctx, p.ID, -20)
	require.NoError(t, err)
	assert.Equal(t, int64(-5), after, "the counter is allowed to go negative")

	_, err = repo.IncrementStock(ctx, 9999, 1)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	require.NoError(t, repo.SetStock(ctx, p.ID, 3))
	found, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), found.CurrentStock)
}

func TestGormProductRepository_SaveWithLock(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	p := createProduct(t, repo, "Nut", 1, 0, 0)
	first, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)

	require.NoError(t, first.Update("Nut M8", product.ProductTypeRawMaterial, "pcs", decimal.NewFromInt(2)))
	require.NoError(t, repo.SaveWithLock(ctx, first))

	require.NoError(t, second.Update("Nut M10", product.ProductTypeRawMaterial, "pcs", decimal.NewFromInt(3)))
	err = repo.SaveWithLock(ctx, second)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

	found, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nut M8", found.Name)
	assert.Equal(t, 2, found.Version)
}

func TestGormProductRepository_Queries(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	createProduct(t, repo, "Copper Wire", 3, 2, 5)  // low
	createProduct(t, repo, "Copper Sheet", 10, 5, 5) // low, at threshold
	createProduct(t, repo, "Rubber Seal", 2, 50, 5)
	createProduct(t, repo, "Scrap", 4, -3, 0) // no threshold, never low

	low, err := repo.FindLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "Copper Wire", low[0].Name)

	f := shared.DefaultFilter()
	f.Search = "copper"
	f.OrderBy = "name"
	f.OrderDir = "asc"
	items, err := repo.FindAll(ctx, f)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Copper Sheet", items[0].Name)

	count, err := repo.Count(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// 2×3 + 5×10 + 50×2, negative stock excluded
	value, err := repo.SumStockValue(ctx)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(156).Equal(value), "got %s", value)
}

func TestGormProductRepository_IncrementStock_SQL(t *testing.T) {
	mock := testutil.NewMockDB(t)
	repo := NewGormProductRepository(mock.DB)

	mock.Mock.ExpectExec(`UPDATE "products" SET "current_stock"=current_stock \+ \$1,"updated_at"=\$2 WHERE id = \$3`).
		WithArgs(int64(-4), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.Mock.ExpectQuery(`SELECT "current_stock" FROM "products" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"current_stock"}).AddRow(6))

	after, err := repo.IncrementStock(context.Background(), 7, -4)
	require.NoError(t, err)
	assert.Equal(t, int64(6), after)
	mock.ExpectationsWereMet(t)
}
