package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a fact recorded by an aggregate and published after the
// change that produced it has been saved.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
	// PartnerID is uuid.Nil for platform-level events
	PartnerID() uuid.UUID
}

// EventPublisher delivers domain events. Callers treat failures as non-fatal.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// BaseDomainEvent implements the DomainEvent metadata. Concrete events embed
// it and add their payload fields; the metadata travels in the envelope, so
// it is left out of the JSON payload.
type BaseDomainEvent struct {
	id            uuid.UUID
	eventType     string
	occurredAt    time.Time
	aggregateID   uuid.UUID
	aggregateType string
	partnerID     uuid.UUID
}

// NewBaseDomainEvent stamps a new event with a fresh id and the current time
func NewBaseDomainEvent(eventType, aggregateType string, aggregateID, partnerID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		id:            uuid.New(),
		eventType:     eventType,
		occurredAt:    time.Now().UTC(),
		aggregateID:   aggregateID,
		aggregateType: aggregateType,
		partnerID:     partnerID,
	}
}

func (e BaseDomainEvent) EventID() uuid.UUID     { return e.id }
func (e BaseDomainEvent) EventType() string      { return e.eventType }
func (e BaseDomainEvent) OccurredAt() time.Time  { return e.occurredAt }
func (e BaseDomainEvent) AggregateID() uuid.UUID { return e.aggregateID }
func (e BaseDomainEvent) AggregateType() string  { return e.aggregateType }
func (e BaseDomainEvent) PartnerID() uuid.UUID   { return e.partnerID }
