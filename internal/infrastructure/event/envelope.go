package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/domain/shared"
)

// Envelope is the wire form of a domain event
type Envelope struct {
	ID            uuid.UUID       `json:"id"`
	Type          string          `json:"type"`
	OccurredAt    time.Time       `json:"occurred_at"`
	AggregateID   uuid.UUID       `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	PartnerID     *uuid.UUID      `json:"partner_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// NewEnvelope wraps a domain event, embedding the event itself as payload
func NewEnvelope(e shared.DomainEvent) (*Envelope, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", e.EventType(), err)
	}
	env := &Envelope{
		ID:            e.EventID(),
		Type:          e.EventType(),
		OccurredAt:    e.OccurredAt(),
		AggregateID:   e.AggregateID(),
		AggregateType: e.AggregateType(),
		Payload:       payload,
	}
	if pid := e.PartnerID(); pid != uuid.Nil {
		env.PartnerID = &pid
	}
	return env, nil
}

// Subject returns the NATS subject for the event under prefix
func Subject(prefix, eventType string) string {
	if prefix == "" {
		return eventType
	}
	return prefix + "." + eventType
}
