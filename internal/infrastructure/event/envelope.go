package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mfgerp/backend/internal/domain/shared"
)

// Envelope is the wire form of a domain event
type Envelope struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   uint            `json:"aggregate_id"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
}

// Encode wraps evt in an Envelope and marshals it
func Encode(evt shared.DomainEvent) ([]byte, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", evt.EventType(), err)
	}
	return json.Marshal(Envelope{
		ID:            evt.EventID().String(),
		Type:          evt.EventType(),
		AggregateType: evt.AggregateType(),
		AggregateID:   evt.AggregateID(),
		OccurredAt:    evt.OccurredAt().UTC(),
		Payload:       payload,
	})
}
