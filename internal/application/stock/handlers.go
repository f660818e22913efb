package stock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mfgerp/backend/internal/domain/shared"
	"github.com/mfgerp/backend/internal/domain/stock"
	"go.uber.org/zap"
)

// LowStockAlert is what a notifier receives when a product runs low
type LowStockAlert struct {
	ProductID    uint      `json:"product_id"`
	ProductName  string    `json:"product_name"`
	CurrentStock int64     `json:"current_stock"`
	MinimumStock int64     `json:"minimum_stock"`
	AlertType    string    `json:"alert_type"` // low_stock, out_of_stock
	RaisedAt     time.Time `json:"raised_at"`
}

// AlertNotifier delivers low stock alerts, e.g. to connected dashboards
type AlertNotifier interface {
	SendAlert(ctx context.Context, alert LowStockAlert) error
}

// LowStockHandler logs StockBelowMinimum events and forwards them to a notifier,
// at most once per product within minInterval
type LowStockHandler struct {
	logger      *zap.Logger
	notifier    AlertNotifier
	minInterval time.Duration

	mu       sync.Mutex
	lastSent map[uint]time.Time
	now      func() time.Time
}

// NewLowStockHandler creates a LowStockHandler
func NewLowStockHandler(logger *zap.Logger, minInterval time.Duration) *LowStockHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LowStockHandler{
		logger:      logger,
		minInterval: minInterval,
		lastSent:    make(map[uint]time.Time),
		now:         time.Now,
	}
}

// WithNotifier sets the notifier alerts are sent to
func (h *LowStockHandler) WithNotifier(n AlertNotifier) *LowStockHandler {
	h.notifier = n
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *LowStockHandler) EventTypes() []string {
	return []string{stock.EventTypeStockBelowMin}
}

// Handle processes a StockBelowMinimum event
func (h *LowStockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*stock.StockBelowMinimumEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	alert := LowStockAlert{
		ProductID:    e.ProductID,
		ProductName:  e.ProductName,
		CurrentStock: e.CurrentStock,
		MinimumStock: e.MinimumStock,
		AlertType:    "low_stock",
		RaisedAt:     e.OccurredAt(),
	}
	if e.CurrentStock <= 0 {
		alert.AlertType = "out_of_stock"
	}

	h.logger.Warn("Product stock at or below minimum",
		zap.Uint("product_id", e.ProductID),
		zap.String("product_name", e.ProductName),
		zap.Int64("current_stock", e.CurrentStock),
		zap.Int64("minimum_stock", e.MinimumStock),
		zap.String("alert_type", alert.AlertType),
	)

	if h.notifier == nil || !h.claim(e.ProductID) {
		return nil
	}
	if err := h.notifier.SendAlert(ctx, alert); err != nil {
		return fmt.Errorf("send low stock alert for product %d: %w", e.ProductID, err)
	}
	return nil
}

func (h *LowStockHandler) claim(productID uint) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	now := h.now()
	if last, ok := h.lastSent[productID]; ok && now.Sub(last) < h.minInterval {
		return false
	}
	h.lastSent[productID] = now
	return true
}

// MovementRecorder counts ledger movements
type MovementRecorder interface {
	RecordMovement(ctx context.Context, transactionType string, quantity int64)
}

// MovementMetricsHandler feeds StockChanged events into a MovementRecorder
type MovementMetricsHandler struct {
	recorder MovementRecorder
}

// NewMovementMetricsHandler creates a MovementMetricsHandler
func NewMovementMetricsHandler(recorder MovementRecorder) *MovementMetricsHandler {
	return &MovementMetricsHandler{recorder: recorder}
}

// EventTypes returns the event types this handler is interested in
func (h *MovementMetricsHandler) EventTypes() []string {
	return []string{stock.EventTypeStockChanged}
}

// Handle records one movement
func (h *MovementMetricsHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*stock.StockChangedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	h.recorder.RecordMovement(ctx, e.TransactionType.String(), e.Quantity)
	return nil
}
