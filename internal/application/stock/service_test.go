package stock_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	appstock "github.com/mfgerp/backend/internal/application/stock"
	"github.com/mfgerp/backend/internal/domain/product"
	"github.com/mfgerp/backend/internal/domain/shared"
	"github.com/mfgerp/backend/internal/domain/stock"
	"github.com/mfgerp/backend/internal/infrastructure/persistence"
	"github.com/mfgerp/backend/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExporter struct{ rendered int }

func (e *fakeExporter) Render(rows []appstock.LedgerEntryResponse) ([]byte, error) {
	e.rendered = len(rows)
	return []byte("rows"), nil
}
func (e *fakeExporter) ContentType() string { return "text/plain" }
func (e *fakeExporter) Extension() string   { return "txt" }

type fakeStore struct {
	keys []string
	err  error
}

func (s *fakeStore) Put(_ context.Context, key, _ string, _ []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.keys = append(s.keys, key)
	return "mem://" + key, nil
}

type stockFixture struct {
	svc       *appstock.Service
	products  *persistence.GormProductRepository
	publisher *testutil.RecordingPublisher
}

func newStockFixture(t *testing.T) *stockFixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	products := persistence.NewGormProductRepository(db)
	svc := appstock.NewService(products, persistence.NewGormLedgerRepository(db), persistence.NewGormTransactionScope(db), nil)
	pub := &testutil.RecordingPublisher{}
	svc.SetEventPublisher(pub)
	return &stockFixture{svc: svc, products: products, publisher: pub}
}

func (f *stockFixture) newProduct(t *testing.T, minimum int64) *product.Product {
	t.Helper()
	p, err := product.NewProduct("Hex Bolt", product.ProductTypeRawMaterial, "pcs", decimal.NewFromInt(2))
	require.NoError(t, err)
	p.MinimumStock = minimum
	require.NoError(t, f.products.Save(context.Background(), p))
	return p
}

func (f *stockFixture) move(t *testing.T, productID uint, txType string, qty int64) *appstock.LedgerEntryResponse {
	t.Helper()
	resp, err := f.svc.RecordMovement(context.Background(), appstock.RecordMovementRequest{
		ProductID: productID, TransactionType: txType, Quantity: qty,
	})
	require.NoError(t, err)
	return resp
}

func TestService_ReplayMatchesCachedStock(t *testing.T) {
	f := newStockFixture(t)
	p := f.newProduct(t, 0)

	f.move(t, p.ID, "IN", 20)
	f.move(t, p.ID, "OUT", 5)
	f.move(t, p.ID, "ADJUSTMENT", 12)
	f.move(t, p.ID, "OUT", 20) // may go negative

	resp, err := f.svc.GetStockByProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(-8), resp.CurrentStock)
	assert.Equal(t, int64(-8), resp.ReplayedStock)
	assert.True(t, resp.Consistent)

	running := make([]int64, len(resp.History))
	for i, h := range resp.History {
		running[i] = h.RunningStock
	}
	assert.Equal(t, []int64{20, 15, 12, -8}, running)

	again, err := f.svc.GetStockByProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.History, again.History, "replay is a pure function of the ledger")
}

func TestService_ListLedgerSingleDay(t *testing.T) {
	f := newStockFixture(t)
	p := f.newProduct(t, 0)
	entry := f.move(t, p.ID, "IN", 5)

	y, m, d := entry.TransactionDate.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, entry.TransactionDate.Location())
	rows, total, err := f.svc.ListLedger(context.Background(), appstock.LedgerListFilter{
		ProductID: &p.ID,
		StartDate: &day,
		EndDate:   &day,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, entry.ID, rows[0].ID)

	before := day.AddDate(0, 0, -1)
	_, total, err = f.svc.ListLedger(context.Background(), appstock.LedgerListFilter{
		ProductID: &p.ID,
		EndDate:   &before,
	})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestService_RecordMovementValidation(t *testing.T) {
	f := newStockFixture(t)
	p := f.newProduct(t, 0)
	ctx := context.Background()

	_, err := f.svc.RecordMovement(ctx, appstock.RecordMovementRequest{ProductID: p.ID, TransactionType: "OUT", Quantity: 0})
	assert.Error(t, err)

	_, err = f.svc.RecordMovement(ctx, appstock.RecordMovementRequest{ProductID: 999, TransactionType: "IN", Quantity: 1})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	cost := decimal.NewFromInt(7)
	entry, err := f.svc.RecordMovement(ctx, appstock.RecordMovementRequest{ProductID: p.ID, TransactionType: "IN", Quantity: 3, UnitCost: &cost, Reference: "PO-1"})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(21).Equal(entry.TotalValue))
	assert.Equal(t, "PO-1", entry.Reference)
}

func TestService_PublishesLowStockEvents(t *testing.T) {
	f := newStockFixture(t)
	p := f.newProduct(t, 10)

	f.move(t, p.ID, "IN", 15)
	assert.Empty(t, f.publisher.Events(stock.EventTypeStockBelowMin))

	f.move(t, p.ID, "OUT", 6)
	low := f.publisher.Events(stock.EventTypeStockBelowMin)
	require.Len(t, low, 1)
	assert.Equal(t, int64(9), low[0].(*stock.StockBelowMinimumEvent).CurrentStock)
	assert.Len(t, f.publisher.Events(stock.EventTypeStockChanged), 2)
}

func TestService_CorrectionShowsAsDrift(t *testing.T) {
	f := newStockFixture(t)
	p := f.newProduct(t, 0)
	ctx := context.Background()

	entry := f.move(t, p.ID, "IN", 10)
	f.move(t, p.ID, "OUT", 4)

	_, err := f.svc.UpdateLedgerEntry(ctx, entry.ID, appstock.UpdateLedgerEntryRequest{
		TransactionType: "IN", Quantity: 12, UnitCost: decimal.NewFromInt(2), Notes: "recount",
	})
	require.NoError(t, err)

	report, err := f.svc.CheckConsistency(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, report.Consistent)
	assert.Equal(t, int64(6), report.CachedStock)
	assert.Equal(t, int64(8), report.ReplayedStock)
	assert.Equal(t, int64(-2), report.Drift)

	summary, err := f.svc.CheckAllConsistency(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Checked)
	assert.Equal(t, 1, summary.Inconsistent)

	require.NoError(t, f.svc.DeleteLedgerEntry(ctx, entry.ID))
	assert.ErrorIs(t, f.svc.DeleteLedgerEntry(ctx, entry.ID), shared.ErrNotFound)
}

func TestService_ExportLedger(t *testing.T) {
	f := newStockFixture(t)
	p := f.newProduct(t, 0)
	ctx := context.Background()

	_, err := f.svc.ExportLedger(ctx, appstock.LedgerListFilter{})
	assert.ErrorIs(t, err, appstock.ErrExportNotConfigured)

	f.move(t, p.ID, "IN", 10)
	f.move(t, p.ID, "OUT", 1)

	exporter, store := &fakeExporter{}, &fakeStore{}
	f.svc.SetExport(exporter, store)

	resp, err := f.svc.ExportLedger(ctx, appstock.LedgerListFilter{TransactionType: "OUT"})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Rows)
	assert.Equal(t, 1, exporter.rendered)
	assert.True(t, strings.HasPrefix(resp.Key, "exports/stock-ledger/"))
	assert.True(t, strings.HasSuffix(resp.Key, ".txt"))
	assert.Equal(t, "mem://"+resp.Key, resp.Location)

	store.err = errors.New("bucket missing")
	_, err = f.svc.ExportLedger(ctx, appstock.LedgerListFilter{})
	assert.Error(t, err)
}
