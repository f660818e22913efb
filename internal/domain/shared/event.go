package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a fact about an aggregate, published after its transaction commits
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uint
	AggregateType() string
}

// BaseDomainEvent is embedded by concrete events for the DomainEvent methods
type BaseDomainEvent struct {
	ID      uuid.UUID `json:"id"`
	Type    string    `json:"type"`
	At      time.Time `json:"occurred_at"`
	AggID   uint      `json:"aggregate_id"`
	AggType string    `json:"aggregate_type"`
}

func NewBaseDomainEvent(eventType, aggType string, aggID uint) BaseDomainEvent {
	return BaseDomainEvent{
		ID:      uuid.New(),
		Type:    eventType,
		At:      time.Now(),
		AggID:   aggID,
		AggType: aggType,
	}
}

func (e *BaseDomainEvent) EventID() uuid.UUID    { return e.ID }
func (e *BaseDomainEvent) EventType() string     { return e.Type }
func (e *BaseDomainEvent) OccurredAt() time.Time { return e.At }
func (e *BaseDomainEvent) AggregateID() uint     { return e.AggID }
func (e *BaseDomainEvent) AggregateType() string { return e.AggType }
