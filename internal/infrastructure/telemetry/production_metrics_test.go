package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestNewProductionMetrics_NilMeter(t *testing.T) {
	_, err := NewProductionMetrics(nil)
	assert.ErrorIs(t, err, ErrMeterNil)
}

func TestProductionMetrics_Record(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewProductionMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordCompletion(ctx, "strict", "stock_applied", 12*time.Millisecond)
	m.RecordCompletion(ctx, "strict", "stock_applied", 8*time.Millisecond)
	m.RecordCompletion(ctx, "legacy", "stock_failed", time.Millisecond)
	m.RecordMovement(ctx, "OUT", -4)
	m.SetLowStockCount(3)
	m.SetInconsistentCount(1)

	metrics := collect(t, reader)

	completions := metrics["production.work_order.completions"].Data.(metricdata.Sum[int64])
	byOutcome := map[string]int64{}
	for _, dp := range completions.DataPoints {
		outcome, _ := dp.Attributes.Value(attribute.Key("outcome"))
		byOutcome[outcome.AsString()] = dp.Value
	}
	assert.Equal(t, int64(2), byOutcome["stock_applied"])
	assert.Equal(t, int64(1), byOutcome["stock_failed"])

	hist := metrics["production.work_order.completion.duration"].Data.(metricdata.Histogram[float64])
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(3), count)

	units := metrics["inventory.ledger.units"].Data.(metricdata.Sum[int64])
	require.Len(t, units.DataPoints, 1)
	assert.Equal(t, int64(4), units.DataPoints[0].Value)

	lowStock := metrics["inventory.low_stock.products"].Data.(metricdata.Gauge[int64])
	require.Len(t, lowStock.DataPoints, 1)
	assert.Equal(t, int64(3), lowStock.DataPoints[0].Value)

	drift := metrics["inventory.ledger.inconsistent.products"].Data.(metricdata.Gauge[int64])
	assert.Equal(t, int64(1), drift.DataPoints[0].Value)
}
