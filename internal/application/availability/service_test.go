package availability_test

import (
	"context"
	"testing"

	appavail "github.com/mfgerp/backend/internal/application/availability"
	"github.com/mfgerp/backend/internal/domain/bom"
	"github.com/mfgerp/backend/internal/domain/manufacturing"
	"github.com/mfgerp/backend/internal/domain/shared"
	"github.com/mfgerp/backend/internal/infrastructure/persistence"
	"github.com/mfgerp/backend/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type availabilityFixture struct {
	svc    *appavail.Service
	boms   *persistence.GormBOMRepository
	orders *persistence.GormManufacturingOrderRepository
}

func newAvailabilityFixture(t *testing.T) *availabilityFixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	f := &availabilityFixture{
		boms:   persistence.NewGormBOMRepository(db),
		orders: persistence.NewGormManufacturingOrderRepository(db),
	}
	f.svc = appavail.NewService(persistence.NewGormAvailabilityRepository(db), f.boms, f.orders, nil)
	return f
}

// orderFor creates an order of qty units of product 100 using components 1 (2/unit) and 2 (3/unit)
func (f *availabilityFixture) orderFor(t *testing.T, qty int64) (*bom.BillOfMaterial, *manufacturing.ManufacturingOrder) {
	t.Helper()
	ctx := context.Background()
	b, err := bom.NewBillOfMaterial(100, "1.0", "", true, []bom.ComponentInput{
		{ProductID: 1, Quantity: decimal.NewFromInt(2)},
		{ProductID: 2, Quantity: decimal.NewFromInt(3)},
	})
	require.NoError(t, err)
	require.NoError(t, f.boms.Create(ctx, b))

	mo, err := manufacturing.NewManufacturingOrder("MO2024050001", 100, qty, &b.ID)
	require.NoError(t, err)
	require.NoError(t, f.orders.Save(ctx, mo))
	return b, mo
}

func (f *availabilityFixture) stockIn(t *testing.T, productID uint, qty int64) {
	t.Helper()
	_, err := f.svc.UpdateAvailability(context.Background(), appavail.MovementRequest{
		ProductID: productID, TransactionType: "IN", Quantity: qty,
	})
	require.NoError(t, err)
}

func TestService_UpdateAvailability(t *testing.T) {
	f := newAvailabilityFixture(t)
	ctx := context.Background()

	f.stockIn(t, 1, 10)
	resp, err := f.svc.UpdateAvailability(ctx, appavail.MovementRequest{ProductID: 1, TransactionType: "OUT", Quantity: 25})
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.Available, "available is floored at zero")
	assert.Equal(t, int64(10), resp.Incoming)
	assert.Equal(t, int64(25), resp.Outgoing)

	_, err = f.svc.UpdateAvailability(ctx, appavail.MovementRequest{ProductID: 1, TransactionType: "ADJUSTMENT", Quantity: 5})
	assert.Error(t, err)

	got, err := f.svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(25), got.Outgoing)

	_, err = f.svc.Get(ctx, 2)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestService_ReserveAndRelease(t *testing.T) {
	f := newAvailabilityFixture(t)
	ctx := context.Background()
	_, mo := f.orderFor(t, 2)
	f.stockIn(t, 1, 10)
	f.stockIn(t, 2, 10)

	res, err := f.svc.ReserveComponents(ctx, mo.ID)
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, int64(6), res.Rows[0].Available)
	assert.Equal(t, int64(4), res.Rows[0].Reserved)
	assert.Equal(t, int64(4), res.Rows[1].Available)
	assert.Equal(t, int64(6), res.Rows[1].Reserved)

	_, err = f.svc.ReleaseReservation(ctx, mo.ID)
	require.NoError(t, err)
	row, err := f.svc.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(10), row.Available)
	assert.Zero(t, row.Reserved)
}

func TestService_ReserveShortfallKeepsEarlierReservations(t *testing.T) {
	f := newAvailabilityFixture(t)
	ctx := context.Background()
	_, mo := f.orderFor(t, 2)
	f.stockIn(t, 1, 10)
	f.stockIn(t, 2, 5) // needs 6

	_, err := f.svc.ReserveComponents(ctx, mo.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)

	first, err := f.svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(6), first.Available)
	assert.Equal(t, int64(4), first.Reserved)

	second, err := f.svc.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), second.Available)
	assert.Zero(t, second.Reserved)
}

func TestService_CheckAvailabilityDoesNotMutate(t *testing.T) {
	f := newAvailabilityFixture(t)
	ctx := context.Background()
	b, _ := f.orderFor(t, 1)
	f.stockIn(t, 1, 3)

	res, err := f.svc.CheckAvailability(ctx, b.ID, 2)
	require.NoError(t, err)
	assert.False(t, res.Sufficient)
	require.Len(t, res.Components, 2)
	assert.Equal(t, int64(4), res.Components[0].Required)
	assert.Equal(t, int64(1), res.Components[0].Shortfall)
	assert.Equal(t, int64(6), res.Components[1].Shortfall)

	row, err := f.svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), row.Available)
	assert.Zero(t, row.Reserved)

	_, err = f.svc.CheckAvailability(ctx, b.ID, 0)
	assert.ErrorIs(t, err, bom.ErrInvalidProductionQuantity)
}

func TestService_ReserveWithoutBOM(t *testing.T) {
	f := newAvailabilityFixture(t)
	mo, err := manufacturing.NewManufacturingOrder("MO2024050002", 100, 1, nil)
	require.NoError(t, err)
	require.NoError(t, f.orders.Save(context.Background(), mo))

	_, err = f.svc.ReserveComponents(context.Background(), mo.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}
