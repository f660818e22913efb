package integration

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/mfgerp/backend/internal/application/production"
	stockapp "github.com/mfgerp/backend/internal/application/stock"
	"github.com/mfgerp/backend/internal/domain/bom"
	"github.com/mfgerp/backend/internal/domain/manufacturing"
	"github.com/mfgerp/backend/internal/domain/product"
	"github.com/mfgerp/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type plant struct {
	t          *testing.T
	products   *persistence.GormProductRepository
	ledger     *persistence.GormLedgerRepository
	boms       *persistence.GormBOMRepository
	orders     *persistence.GormManufacturingOrderRepository
	workOrders *persistence.GormWorkOrderRepository
	completion *production.CompletionService
	stock      *stockapp.Service
}

func newPlant(t *testing.T, tdb *TestDB, mode production.CompletionMode) *plant {
	db := tdb.DB
	p := &plant{
		t:          t,
		products:   persistence.NewGormProductRepository(db),
		ledger:     persistence.NewGormLedgerRepository(db),
		boms:       persistence.NewGormBOMRepository(db),
		orders:     persistence.NewGormManufacturingOrderRepository(db),
		workOrders: persistence.NewGormWorkOrderRepository(db),
	}
	tx := persistence.NewGormTransactionScope(db)
	log := zaptest.NewLogger(t)
	p.completion = production.NewCompletionService(p.workOrders, p.orders, p.boms, p.products, p.ledger, tx, mode, log)
	p.stock = stockapp.NewService(p.products, p.ledger, tx, log)
	return p
}

func (p *plant) product(name string, typ product.ProductType, cost, onHand int64) *product.Product {
	p.t.Helper()
	prod, err := product.NewProduct(name, typ, "pcs", decimal.NewFromInt(cost))
	require.NoError(p.t, err)
	require.NoError(p.t, p.products.Save(context.Background(), prod))
	if onHand > 0 {
		_, err := p.stock.RecordMovement(context.Background(), stockapp.RecordMovementRequest{
			ProductID:       prod.ID,
			TransactionType: "IN",
			Quantity:        onHand,
			Reference:       "OPENING",
		})
		require.NoError(p.t, err)
	}
	return prod
}

func (p *plant) bom(output *product.Product, component *product.Product, qty int64) *bom.BillOfMaterial {
	p.t.Helper()
	b, err := bom.NewBillOfMaterial(output.ID, "1.0", "", true, []bom.ComponentInput{
		{ProductID: component.ID, Quantity: decimal.NewFromInt(qty), UnitCost: component.UnitCost},
	})
	require.NoError(p.t, err)
	require.NoError(p.t, p.boms.Create(context.Background(), b))
	return b
}

func (p *plant) runningWorkOrder(number string, output *product.Product, qty int64, b *bom.BillOfMaterial) *manufacturing.WorkOrder {
	p.t.Helper()
	mo, err := manufacturing.NewManufacturingOrder(number, output.ID, qty, &b.ID)
	require.NoError(p.t, err)
	require.NoError(p.t, mo.Confirm())
	require.NoError(p.t, mo.Start())
	require.NoError(p.t, p.orders.Save(context.Background(), mo))

	wo, err := manufacturing.NewWorkOrder(mo.ID, 1, "assemble", 30)
	require.NoError(p.t, err)
	require.NoError(p.t, wo.Start())
	require.NoError(p.t, p.workOrders.Save(context.Background(), wo))
	return wo
}

func TestProductionCompletion_Postgres(t *testing.T) {
	tdb := NewTestDB(t)

	for _, mode := range []production.CompletionMode{production.ModeLegacy, production.ModeStrict} {
		t.Run(string(mode), func(t *testing.T) {
			tdb.CleanTables()
			p := newPlant(t, tdb, mode)
			ctx := context.Background()

			steel := p.product("Steel "+string(mode), product.ProductTypeRawMaterial, 10, 100)
			frame := p.product("Frame "+string(mode), product.ProductTypeFinishedGood, 50, 0)
			wo := p.runningWorkOrder("MO2024010001", frame, 5, p.bom(frame, steel, 2))

			res, err := p.completion.Complete(ctx, wo.ID, production.CompleteRequest{Notes: "shift A"})
			require.NoError(t, err)
			assert.True(t, res.StockApplied)
			require.Len(t, res.Entries, 2)

			steelStock, err := p.stock.GetStockByProduct(ctx, steel.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(90), steelStock.CurrentStock)
			assert.Equal(t, int64(90), steelStock.ReplayedStock)

			summary, err := p.stock.CheckAllConsistency(ctx)
			require.NoError(t, err)
			assert.Equal(t, 2, summary.Checked)
			assert.Zero(t, summary.Inconsistent)
		})
	}
}

func TestProductionCompletion_ConcurrentOrdersKeepLedgerConsistent(t *testing.T) {
	tdb := NewTestDB(t)
	p := newPlant(t, tdb, production.ModeStrict)
	ctx := context.Background()

	steel := p.product("Steel", product.ProductTypeRawMaterial, 10, 1000)
	frame := p.product("Frame", product.ProductTypeFinishedGood, 50, 0)
	b := p.bom(frame, steel, 3)

	const orders = 8
	workOrders := make([]*manufacturing.WorkOrder, orders)
	for i := range workOrders {
		workOrders[i] = p.runningWorkOrder(fmt.Sprintf("MO20240100%02d", i+1), frame, 4, b)
	}

	var wg sync.WaitGroup
	errs := make(chan error, orders)
	for _, wo := range workOrders {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			if _, err := p.completion.Complete(ctx, id, production.CompleteRequest{}); err != nil {
				errs <- err
			}
		}(wo.ID)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	steelStock, err := p.stock.GetStockByProduct(ctx, steel.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000-orders*12), steelStock.CurrentStock)
	assert.Equal(t, steelStock.CurrentStock, steelStock.ReplayedStock)

	frameStock, err := p.stock.GetStockByProduct(ctx, frame.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(orders*4), frameStock.CurrentStock)
	assert.True(t, frameStock.Consistent)
}

func TestLedgerCorrection_DriftIsReportedNotRepaired(t *testing.T) {
	tdb := NewTestDB(t)
	p := newPlant(t, tdb, production.ModeStrict)
	ctx := context.Background()

	bolt := p.product("Bolt", product.ProductTypeRawMaterial, 1, 40)

	// A direct write to the cache bypasses the ledger
	require.NoError(t, tdb.DB.Exec("UPDATE products SET current_stock = 55 WHERE id = ?", bolt.ID).Error)

	report, err := p.stock.CheckConsistency(ctx, bolt.ID)
	require.NoError(t, err)
	assert.False(t, report.Consistent)
	assert.Equal(t, int64(55), report.CachedStock)
	assert.Equal(t, int64(40), report.ReplayedStock)
	assert.Equal(t, int64(15), report.Drift)

	again, err := p.stock.CheckConsistency(ctx, bolt.ID)
	require.NoError(t, err)
	assert.Equal(t, report.Drift, again.Drift)
}
