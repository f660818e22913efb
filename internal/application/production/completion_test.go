package production_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mfgerp/backend/internal/application/production"
	"github.com/mfgerp/backend/internal/domain/bom"
	"github.com/mfgerp/backend/internal/domain/manufacturing"
	"github.com/mfgerp/backend/internal/domain/product"
	"github.com/mfgerp/backend/internal/domain/shared"
	"github.com/mfgerp/backend/internal/domain/stock"
	"github.com/mfgerp/backend/internal/infrastructure/persistence"
	"github.com/mfgerp/backend/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type recordedCompletion struct {
	mode    string
	outcome string
}

type fakeMetrics struct {
	mu      sync.Mutex
	records []recordedCompletion
}

func (m *fakeMetrics) RecordCompletion(_ context.Context, mode, outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, recordedCompletion{mode: mode, outcome: outcome})
}

func (m *fakeMetrics) outcomes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.records))
	for i, r := range m.records {
		out[i] = r.outcome
	}
	return out
}

// fixture wires a completion service to real repositories on sqlite
type fixture struct {
	t         *testing.T
	db        *gorm.DB
	products  *persistence.GormProductRepository
	ledger    *persistence.GormLedgerRepository
	boms      *persistence.GormBOMRepository
	orders    *persistence.GormManufacturingOrderRepository
	workOrder *persistence.GormWorkOrderRepository
	publisher *testutil.RecordingPublisher
	metrics   *fakeMetrics
	service   *production.CompletionService
}

func newFixture(t *testing.T, mode production.CompletionMode) *fixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	f := &fixture{
		t:         t,
		db:        db,
		products:  persistence.NewGormProductRepository(db),
		ledger:    persistence.NewGormLedgerRepository(db),
		boms:      persistence.NewGormBOMRepository(db),
		orders:    persistence.NewGormManufacturingOrderRepository(db),
		workOrder: persistence.NewGormWorkOrderRepository(db),
		publisher: &testutil.RecordingPublisher{},
		metrics:   &fakeMetrics{},
	}
	f.service = production.NewCompletionService(
		f.workOrder, f.orders, f.boms, f.products, f.ledger,
		persistence.NewGormTransactionScope(db), mode, zaptest.NewLogger(t),
	)
	f.service.SetEventPublisher(f.publisher)
	f.service.SetMetrics(f.metrics)
	return f
}

func (f *fixture) product(name string, typ product.ProductType, cost, stockLevel int64) *product.Product {
	f.t.Helper()
	p, err := product.NewProduct(name, typ, "pcs", decimal.NewFromInt(cost))
	require.NoError(f.t, err)
	p.CurrentStock = stockLevel
	require.NoError(f.t, f.products.Save(context.Background(), p))
	return p
}

func (f *fixture) bom(output *product.Product, lines map[*product.Product]int64) *bom.BillOfMaterial {
	f.t.Helper()
	inputs := make([]bom.ComponentInput, 0, len(lines))
	for p, qty := range lines {
		inputs = append(inputs, bom.ComponentInput{
			ProductID: p.ID,
			Quantity:  decimal.NewFromInt(qty),
			UnitCost:  p.UnitCost,
		})
	}
	b, err := bom.NewBillOfMaterial(output.ID, "1.0", "", true, inputs)
	require.NoError(f.t, err)
	require.NoError(f.t, f.boms.Create(context.Background(), b))
	return b
}

func (f *fixture) order(output *product.Product, qty int64, b *bom.BillOfMaterial) *manufacturing.ManufacturingOrder {
	f.t.Helper()
	var bomID *uint
	if b != nil {
		bomID = &b.ID
	}
	mo, err := manufacturing.NewManufacturingOrder("MO2024010001", output.ID, qty, bomID)
	require.NoError(f.t, err)
	require.NoError(f.t, mo.Confirm())
	require.NoError(f.t, mo.Start())
	require.NoError(f.t, f.orders.Save(context.Background(), mo))
	return mo
}

func (f *fixture) workOrderIn(mo *manufacturing.ManufacturingOrder, status manufacturing.WorkOrderStatus) *manufacturing.WorkOrder {
	f.t.Helper()
	wo, err := manufacturing.NewWorkOrder(mo.ID, 1, "assemble", 20)
	require.NoError(f.t, err)
	switch status {
	case manufacturing.WorkOrderStatusStarted:
		require.NoError(f.t, wo.Start())
	case manufacturing.WorkOrderStatusPaused:
		require.NoError(f.t, wo.Start())
		require.NoError(f.t, wo.Pause())
	case manufacturing.WorkOrderStatusCompleted:
		require.NoError(f.t, wo.Start())
		require.NoError(f.t, wo.Complete(nil, ""))
	case manufacturing.WorkOrderStatusCancelled:
		require.NoError(f.t, wo.Cancel())
	}
	require.NoError(f.t, f.workOrder.Save(context.Background(), wo))
	return wo
}

func (f *fixture) stockOf(p *product.Product) int64 {
	f.t.Helper()
	found, err := f.products.FindByID(context.Background(), p.ID)
	require.NoError(f.t, err)
	return found.CurrentStock
}

func (f *fixture) ledgerRows() int64 {
	f.t.Helper()
	var n int64
	require.NoError(f.t, f.db.Table("stock_ledger").Count(&n).Error)
	return n
}

func (f *fixture) statusOf(wo *manufacturing.WorkOrder) manufacturing.WorkOrderStatus {
	f.t.Helper()
	found, err := f.workOrder.FindByID(context.Background(), wo.ID)
	require.NoError(f.t, err)
	return found.Status
}

var bothModes = []production.CompletionMode{production.ModeLegacy, production.ModeStrict}

func TestComplete_RejectsNonRunningWorkOrders(t *testing.T) {
	for _, mode := range bothModes {
		for _, status := range []manufacturing.WorkOrderStatus{
			manufacturing.WorkOrderStatusPlanned,
			manufacturing.WorkOrderStatusCancelled,
			manufacturing.WorkOrderStatusCompleted,
		} {
			t.Run(string(mode)+"/"+string(status), func(t *testing.T) {
				f := newFixture(t, mode)
				a := f.product("Component A", product.ProductTypeRawMaterial, 10, 100)
				b := f.product("Product B", product.ProductTypeFinishedGood, 50, 0)
				mo := f.order(b, 5, f.bom(b, map[*product.Product]int64{a: 2}))
				wo := f.workOrderIn(mo, status)

				_, err := f.service.Complete(context.Background(), wo.ID, production.CompleteRequest{})
				require.Error(t, err)
				assert.ErrorIs(t, err, shared.ErrInvalidStateTransition)

				assert.Equal(t, status, f.statusOf(wo))
				assert.Zero(t, f.ledgerRows())
				assert.Equal(t, int64(100), f.stockOf(a))
				assert.Equal(t, int64(0), f.stockOf(b))
			})
		}
	}
}

func TestComplete_ConsumesComponentsAndProducesOutput(t *testing.T) {
	for _, mode := range bothModes {
		t.Run(string(mode), func(t *testing.T) {
			f := newFixture(t, mode)
			a := f.product("Component A", product.ProductTypeRawMaterial, 10, 100)
			b := f.product("Product B", product.ProductTypeFinishedGood, 50, 0)
			mo := f.order(b, 5, f.bom(b, map[*product.Product]int64{a: 2}))
			wo := f.workOrderIn(mo, manufacturing.WorkOrderStatusStarted)

			duration := 42
			res, err := f.service.Complete(context.Background(), wo.ID, production.CompleteRequest{RealDuration: &duration, Notes: "done"})
			require.NoError(t, err)
			assert.True(t, res.StockApplied)
			assert.NoError(t, res.StockErr)
			assert.Equal(t, mo.Number, res.OrderNumber)
			require.Len(t, res.Entries, 2)

			assert.Equal(t, manufacturing.WorkOrderStatusCompleted, f.statusOf(wo))
			assert.Equal(t, int64(90), f.stockOf(a))
			assert.Equal(t, int64(5), f.stockOf(b))

			out, err := f.ledger.FindByProduct(context.Background(), a.ID)
			require.NoError(t, err)
			require.Len(t, out, 1)
			assert.Equal(t, stock.TransactionTypeOut, out[0].TransactionType)
			assert.Equal(t, int64(10), out[0].Quantity)
			assert.True(t, decimal.NewFromInt(10).Equal(out[0].UnitCost))
			assert.True(t, decimal.NewFromInt(100).Equal(out[0].TotalValue))
			assert.Equal(t, mo.Number, out[0].Reference)
			require.NotNil(t, out[0].ReferenceID)
			assert.Equal(t, mo.ID, *out[0].ReferenceID)

			in, err := f.ledger.FindByProduct(context.Background(), b.ID)
			require.NoError(t, err)
			require.Len(t, in, 1)
			assert.Equal(t, stock.TransactionTypeIn, in[0].TransactionType)
			assert.Equal(t, int64(5), in[0].Quantity)
			assert.True(t, decimal.NewFromInt(250).Equal(in[0].TotalValue))

			// ledger replay agrees with the cached counter
			assert.Equal(t, int64(-10), stock.ReplayTotal(out))
			assert.Equal(t, int64(5), stock.ReplayTotal(in))

			assert.Len(t, f.publisher.Events(stock.EventTypeStockChanged), 2)
			assert.Len(t, f.publisher.Events(manufacturing.EventTypeProductionCompleted), 1)
			assert.Equal(t, []string{production.OutcomeStockApplied}, f.metrics.outcomes())
		})
	}
}

func TestComplete_WithoutBOMMovesNoStock(t *testing.T) {
	for _, mode := range bothModes {
		t.Run(string(mode), func(t *testing.T) {
			f := newFixture(t, mode)
			b := f.product("Product B", product.ProductTypeFinishedGood, 50, 7)
			mo := f.order(b, 5, nil)
			wo := f.workOrderIn(mo, manufacturing.WorkOrderStatusPaused)

			res, err := f.service.Complete(context.Background(), wo.ID, production.CompleteRequest{})
			require.NoError(t, err)
			assert.False(t, res.StockApplied)
			assert.Empty(t, res.Entries)

			assert.Equal(t, manufacturing.WorkOrderStatusCompleted, f.statusOf(wo))
			assert.Zero(t, f.ledgerRows())
			assert.Equal(t, int64(7), f.stockOf(b))
			assert.Empty(t, f.publisher.Events(""))
			assert.Equal(t, []string{production.OutcomeNoBOM}, f.metrics.outcomes())
		})
	}
}

func TestComplete_Legacy_PartialFailureLeavesWorkOrderCompleted(t *testing.T) {
	f := newFixture(t, production.ModeLegacy)
	a := f.product("Component A", product.ProductTypeRawMaterial, 10, 100)
	c := f.product("Component C", product.ProductTypeRawMaterial, 4, 50)
	b := f.product("Product B", product.ProductTypeFinishedGood, 50, 0)

	bm, err := bom.NewBillOfMaterial(b.ID, "1.0", "", true, []bom.ComponentInput{
		{ProductID: a.ID, Quantity: decimal.NewFromInt(2), UnitCost: a.UnitCost},
		{ProductID: c.ID, Quantity: decimal.NewFromInt(1), UnitCost: c.UnitCost},
	})
	require.NoError(t, err)
	require.NoError(t, f.boms.Create(context.Background(), bm))
	mo := f.order(b, 5, bm)
	wo := f.workOrderIn(mo, manufacturing.WorkOrderStatusStarted)

	testutil.FailNthUpdate(t, f.db, "products", 2)

	res, err := f.service.Complete(context.Background(), wo.ID, production.CompleteRequest{})
	require.NoError(t, err, "legacy mode swallows stock failures")
	require.Error(t, res.StockErr)
	assert.ErrorIs(t, res.StockErr, testutil.ErrInjected)
	assert.False(t, res.StockApplied)
	assert.Len(t, res.Entries, 1)

	assert.Equal(t, manufacturing.WorkOrderStatusCompleted, f.statusOf(wo))
	assert.Equal(t, int64(90), f.stockOf(a))
	assert.Equal(t, int64(50), f.stockOf(c))
	assert.Equal(t, int64(0), f.stockOf(b))
	assert.Equal(t, int64(1), f.ledgerRows())

	assert.Len(t, f.publisher.Events(stock.EventTypeStockChanged), 1)
	assert.Empty(t, f.publisher.Events(manufacturing.EventTypeProductionCompleted))
	assert.Equal(t, []string{production.OutcomeStockFailed}, f.metrics.outcomes())
}

func TestComplete_Strict_PartialFailureRollsBackEverything(t *testing.T) {
	f := newFixture(t, production.ModeStrict)
	a := f.product("Component A", product.ProductTypeRawMaterial, 10, 100)
	c := f.product("Component C", product.ProductTypeRawMaterial, 4, 50)
	b := f.product("Product B", product.ProductTypeFinishedGood, 50, 0)

	bm, err := bom.NewBillOfMaterial(b.ID, "1.0", "", true, []bom.ComponentInput{
		{ProductID: a.ID, Quantity: decimal.NewFromInt(2), UnitCost: a.UnitCost},
		{ProductID: c.ID, Quantity: decimal.NewFromInt(1), UnitCost: c.UnitCost},
	})
	require.NoError(t, err)
	require.NoError(t, f.boms.Create(context.Background(), bm))
	mo := f.order(b, 5, bm)
	wo := f.workOrderIn(mo, manufacturing.WorkOrderStatusStarted)

	testutil.FailNthUpdate(t, f.db, "products", 2)

	res, err := f.service.Complete(context.Background(), wo.ID, production.CompleteRequest{})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, shared.ErrPersistenceFailure)

	assert.Equal(t, manufacturing.WorkOrderStatusStarted, f.statusOf(wo))
	assert.Equal(t, int64(100), f.stockOf(a))
	assert.Equal(t, int64(50), f.stockOf(c))
	assert.Equal(t, int64(0), f.stockOf(b))
	assert.Zero(t, f.ledgerRows())

	assert.Empty(t, f.publisher.Events(""))
	assert.Equal(t, []string{production.OutcomeRolledBack}, f.metrics.outcomes())
}

// holdWorkOrderReads makes the first n work order reads wait for each other, so
// n callers all load the same stored version before any of them saves.
func holdWorkOrderReads(t *testing.T, db *gorm.DB, n int) {
	t.Helper()
	var arrived sync.WaitGroup
	arrived.Add(n)
	var seen atomic.Int32
	name := "test:hold_work_order_reads"
	err := db.Callback().Query().After("gorm:query").Register(name, func(tx *gorm.DB) {
		if tx.Statement.Table != "work_orders" || int(seen.Add(1)) > n {
			return
		}
		arrived.Done()
		arrived.Wait()
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Callback().Query().Remove(name) })
}

func TestComplete_ConcurrentCompletionsMoveStockOnce(t *testing.T) {
	for _, mode := range bothModes {
		t.Run(string(mode), func(t *testing.T) {
			f := newFixture(t, mode)
			a := f.product("Component A", product.ProductTypeRawMaterial, 10, 100)
			b := f.product("Product B", product.ProductTypeFinishedGood, 50, 0)
			mo := f.order(b, 5, f.bom(b, map[*product.Product]int64{a: 2}))
			wo := f.workOrderIn(mo, manufacturing.WorkOrderStatusStarted)

			holdWorkOrderReads(t, f.db, 2)

			errs := make([]error, 2)
			var wg sync.WaitGroup
			for i := range errs {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_, errs[i] = f.service.Complete(context.Background(), wo.ID, production.CompleteRequest{})
				}(i)
			}
			wg.Wait()

			var succeeded, conflicted int
			for _, err := range errs {
				switch {
				case err == nil:
					succeeded++
				case errors.Is(err, shared.ErrConcurrencyConflict):
					conflicted++
				}
			}
			assert.Equal(t, 1, succeeded, "errors: %v", errs)
			assert.Equal(t, 1, conflicted, "errors: %v", errs)

			assert.Equal(t, manufacturing.WorkOrderStatusCompleted, f.statusOf(wo))
			assert.Equal(t, int64(90), f.stockOf(a))
			assert.Equal(t, int64(5), f.stockOf(b))
			assert.Equal(t, int64(2), f.ledgerRows())
		})
	}
}

func TestComplete_Strict_MissingBOMSurfacesNotFound(t *testing.T) {
	f := newFixture(t, production.ModeStrict)
	b := f.product("Product B", product.ProductTypeFinishedGood, 50, 0)
	missing := uint(404)
	mo, err := manufacturing.NewManufacturingOrder("MO2024010009", b.ID, 1, &missing)
	require.NoError(t, err)
	require.NoError(t, f.orders.Save(context.Background(), mo))
	wo := f.workOrderIn(mo, manufacturing.WorkOrderStatusStarted)

	_, err = f.service.Complete(context.Background(), wo.ID, production.CompleteRequest{})
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Equal(t, manufacturing.WorkOrderStatusStarted, f.statusOf(wo))
}

func TestComplete_UnknownWorkOrder(t *testing.T) {
	f := newFixture(t, production.ModeLegacy)
	_, err := f.service.Complete(context.Background(), 999, production.CompleteRequest{})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestParseCompletionMode(t *testing.T) {
	m, err := production.ParseCompletionMode("")
	require.NoError(t, err)
	assert.Equal(t, production.ModeLegacy, m)

	m, err = production.ParseCompletionMode("strict")
	require.NoError(t, err)
	assert.Equal(t, production.ModeStrict, m)

	_, err = production.ParseCompletionMode("eventual")
	assert.Error(t, err)
}
