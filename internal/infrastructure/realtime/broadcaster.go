package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	appstock "github.com/mfgerp/backend/internal/application/stock"
	"github.com/mfgerp/backend/internal/domain/manufacturing"
	"github.com/mfgerp/backend/internal/domain/shared"
	"github.com/mfgerp/backend/internal/domain/stock"
	"github.com/mfgerp/backend/internal/infrastructure/event"
)

// EventBroadcaster forwards stock and production events to the hub as envelopes
type EventBroadcaster struct {
	hub *Hub
}

// NewEventBroadcaster creates an EventBroadcaster
func NewEventBroadcaster(hub *Hub) *EventBroadcaster {
	return &EventBroadcaster{hub: hub}
}

// EventTypes returns the event types this handler is interested in
func (b *EventBroadcaster) EventTypes() []string {
	return []string{stock.EventTypeStockChanged, manufacturing.EventTypeProductionCompleted}
}

// Handle encodes and broadcasts the event
func (b *EventBroadcaster) Handle(_ context.Context, evt shared.DomainEvent) error {
	if b.hub.ClientCount() == 0 {
		return nil
	}
	data, err := event.Encode(evt)
	if err != nil {
		return err
	}
	b.hub.Broadcast(data)
	return nil
}

type alertMessage struct {
	Type  string                 `json:"type"`
	Alert appstock.LowStockAlert `json:"alert"`
}

// AlertNotifier sends low stock alerts to connected dashboards
type AlertNotifier struct {
	hub *Hub
}

// NewAlertNotifier creates an AlertNotifier
func NewAlertNotifier(hub *Hub) *AlertNotifier {
	return &AlertNotifier{hub: hub}
}

// SendAlert broadcasts the alert
func (n *AlertNotifier) SendAlert(_ context.Context, alert appstock.LowStockAlert) error {
	data, err := json.Marshal(alertMessage{Type: "low_stock_alert", Alert: alert})
	if err != nil {
		return err
	}
	if !n.hub.Broadcast(data) {
		return fmt.Errorf("broadcast queue full")
	}
	return nil
}

var (
	_ shared.EventHandler    = (*EventBroadcaster)(nil)
	_ appstock.AlertNotifier = (*AlertNotifier)(nil)
)
