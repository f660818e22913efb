package telemetry

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when a metrics type is built without a meter
var ErrMeterNil = errors.New("telemetry: meter is nil")

// ProductionMetrics records work order completions, stock movements and the
// results of the periodic low-stock and consistency scans.
type ProductionMetrics struct {
	completions        metric.Int64Counter
	completionDuration metric.Float64Histogram
	movements          metric.Int64Counter
	movedUnits         metric.Int64Counter

	lowStockCount     atomic.Int64
	inconsistentCount atomic.Int64
}

// NewProductionMetrics registers the production instruments on meter.
func NewProductionMetrics(meter metric.Meter) (*ProductionMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	m := &ProductionMetrics{}

	var err error
	if m.completions, err = meter.Int64Counter("production.work_order.completions",
		metric.WithDescription("Work order completions by mode and outcome"),
		metric.WithUnit("{completion}"),
	); err != nil {
		return nil, err
	}
	if m.completionDuration, err = meter.Float64Histogram("production.work_order.completion.duration",
		metric.WithDescription("Time spent completing a work order including stock posting"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}
	if m.movements, err = meter.Int64Counter("inventory.ledger.movements",
		metric.WithDescription("Stock ledger entries written by transaction type"),
		metric.WithUnit("{entry}"),
	); err != nil {
		return nil, err
	}
	if m.movedUnits, err = meter.Int64Counter("inventory.ledger.units",
		metric.WithDescription("Units moved through the stock ledger by transaction type"),
		metric.WithUnit("{unit}"),
	); err != nil {
		return nil, err
	}

	lowStock, err := meter.Int64ObservableGauge("inventory.low_stock.products",
		metric.WithDescription("Products at or below their minimum stock at the last scan"),
	)
	if err != nil {
		return nil, err
	}
	drift, err := meter.Int64ObservableGauge("inventory.ledger.inconsistent.products",
		metric.WithDescription("Products whose cached stock disagrees with the ledger at the last scan"),
	)
	if err != nil {
		return nil, err
	}
	if _, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveInt64(lowStock, m.lowStockCount.Load())
		o.ObserveInt64(drift, m.inconsistentCount.Load())
		return nil
	}, lowStock, drift); err != nil {
		return nil, err
	}

	return m, nil
}

// RecordCompletion records one completion attempt
func (m *ProductionMetrics) RecordCompletion(ctx context.Context, mode, outcome string, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("mode", mode),
		attribute.String("outcome", outcome),
	)
	m.completions.Add(ctx, 1, attrs)
	m.completionDuration.Record(ctx, float64(elapsed.Microseconds())/1000.0, attrs)
}

// RecordMovement records one ledger entry of the given type
func (m *ProductionMetrics) RecordMovement(ctx context.Context, transactionType string, quantity int64) {
	attrs := metric.WithAttributes(attribute.String("transaction_type", transactionType))
	m.movements.Add(ctx, 1, attrs)
	if quantity < 0 {
		quantity = -quantity
	}
	m.movedUnits.Add(ctx, quantity, attrs)
}

// SetLowStockCount stores the result of the latest low-stock scan
func (m *ProductionMetrics) SetLowStockCount(n int) {
	m.lowStockCount.Store(int64(n))
}

// SetInconsistentCount stores the result of the latest consistency scan
func (m *ProductionMetrics) SetInconsistentCount(n int) {
	m.inconsistentCount.Store(int64(n))
}
