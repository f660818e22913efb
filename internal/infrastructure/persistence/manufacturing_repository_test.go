package persistence

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	appstock "github.com/mfgerp/backend/internal/application/stock"
	"github.com/mfgerp/backend/internal/domain/manufacturing"
	"github.com/mfgerp/backend/internal/domain/shared"
	"github.com/mfgerp/backend/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormManufacturingOrderRepository(t *testing.T) {
	db := testutil.NewTestDB(t)
	moRepo := NewGormManufacturingOrderRepository(db)
	woRepo := NewGormWorkOrderRepository(db)
	ctx := context.Background()

	mo, err := manufacturing.NewManufacturingOrder("MO2024010001", 5, 10, nil)
	require.NoError(t, err)
	require.NoError(t, moRepo.Save(ctx, mo))
	require.NotZero(t, mo.ID)

	other, err := manufacturing.NewManufacturingOrder("MO2024010002", 5, 3, nil)
	require.NoError(t, err)
	require.NoError(t, other.Confirm())
	require.NoError(t, moRepo.Save(ctx, other))

	for _, op := range []string{"cut", "weld"} {
		wo, err := manufacturing.NewWorkOrder(mo.ID, 1, op, 30)
		require.NoError(t, err)
		require.NoError(t, woRepo.Save(ctx, wo))
	}

	loaded, err := moRepo.FindByIDWithWorkOrders(ctx, mo.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.WorkOrders, 2)
	assert.False(t, loaded.HasBOM())

	byNumber, err := moRepo.FindByNumber(ctx, "MO2024010002")
	require.NoError(t, err)
	assert.Equal(t, manufacturing.OrderStatusConfirmed, byNumber.Status)

	counts, err := moRepo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[manufacturing.OrderStatusDraft])
	assert.Equal(t, int64(1), counts[manufacturing.OrderStatusConfirmed])

	f := shared.DefaultFilter()
	f.Filters["status"] = "CONFIRMED"
	list, err := moRepo.FindAll(ctx, f)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, other.ID, list[0].ID)

	_, err = moRepo.FindByNumber(ctx, "MO1999010001")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormWorkOrderRepository_CompletedCounts(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewGormWorkOrderRepository(db)
	ctx := context.Background()

	done, err := manufacturing.NewWorkOrder(1, 1, "assemble", 15)
	require.NoError(t, err)
	require.NoError(t, done.Start())
	require.NoError(t, done.Complete(nil, ""))
	require.NoError(t, repo.Save(ctx, done))

	open, err := manufacturing.NewWorkOrder(1, 1, "paint", 15)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, open))

	completed, err := repo.CountCompletedSince(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), completed)

	byStatus, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), byStatus[manufacturing.WorkOrderStatusPlanned])
	assert.Equal(t, int64(1), byStatus[manufacturing.WorkOrderStatusCompleted])

	reloaded, err := repo.FindByID(ctx, done.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, reloaded.RealDuration)
	require.NotNil(t, reloaded.CompletedAt)

	require.NoError(t, repo.Delete(ctx, open.ID))
	_, err = repo.FindByID(ctx, open.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormWorkCenterRepository(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewGormWorkCenterRepository(db)
	ctx := context.Background()

	wc, err := manufacturing.NewWorkCenter("Press 1", decimal.NewFromInt(2), decimal.NewFromInt(60))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, wc))

	exists, err := repo.ExistsByName(ctx, "Press 1")
	require.NoError(t, err)
	assert.True(t, exists)

	found, err := repo.FindByID(ctx, wc.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(30).Equal(found.CostFor(30)))
}

func TestGormNumberSequence_Next(t *testing.T) {
	db := testutil.NewTestDB(t)
	seq := NewGormNumberSequence(db)
	ctx := context.Background()

	first, err := seq.Next(ctx, "202401")
	require.NoError(t, err)
	second, err := seq.Next(ctx, "202401")
	require.NoError(t, err)
	otherPeriod, err := seq.Next(ctx, "202402")
	require.NoError(t, err)

	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)
	assert.Equal(t, int64(1), otherPeriod)
}

func TestGormNumberSequence_ConcurrentCallersGetDistinctValues(t *testing.T) {
	db := testutil.NewTestDB(t)
	seq := NewGormNumberSequence(db)
	ctx := context.Background()

	const callers = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[int64]bool)
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := seq.Next(ctx, "202403")
			assert.NoError(t, err)
			mu.Lock()
			seen[v] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, callers)
}

func TestGormTransactionScope_RollsBackOnError(t *testing.T) {
	db := testutil.NewTestDB(t)
	products := NewGormProductRepository(db)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()

	p := createProduct(t, products, "Gear", 5, 10, 0)
	boom := errors.New("boom")

	err := scope.Execute(ctx, func(repos appstock.TransactionalRepositories) error {
		if _, err := repos.ProductRepo().IncrementStock(ctx, p.ID, -4); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	found, err := products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), found.CurrentStock)

	err = scope.Execute(ctx, func(repos appstock.TransactionalRepositories) error {
		_, err := repos.ProductRepo().IncrementStock(ctx, p.ID, -4)
		return err
	})
	require.NoError(t, err)
	found, err = products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(6), found.CurrentStock)
}

func TestGormWorkOrderRepository_SaveWithLock(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewGormWorkOrderRepository(db)
	ctx := context.Background()

	wo, err := manufacturing.NewWorkOrder(1, 1, "assemble", 15)
	require.NoError(t, err)
	require.NoError(t, wo.Start())
	require.NoError(t, repo.Save(ctx, wo))

	first, err := repo.FindByID(ctx, wo.ID)
	require.NoError(t, err)
	stale, err := repo.FindByID(ctx, wo.ID)
	require.NoError(t, err)

	require.NoError(t, first.Complete(nil, "done"))
	require.NoError(t, repo.SaveWithLock(ctx, first))

	require.NoError(t, stale.Pause())
	err = repo.SaveWithLock(ctx, stale)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

	stored, err := repo.FindByID(ctx, wo.ID)
	require.NoError(t, err)
	assert.Equal(t, manufacturing.WorkOrderStatusCompleted, stored.Status)
	assert.Equal(t, first.Version, stored.Version)
	assert.Equal(t, "done", stored.Notes)
	assert.Equal(t, 15, stored.RealDuration)
}
