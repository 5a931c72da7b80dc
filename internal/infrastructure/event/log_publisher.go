package event

import (
	"context"

	"github.com/luminform/atelier/internal/domain/shared"
	"go.uber.org/zap"
)

// LogPublisher writes events to the log. Used when NATS is not configured.
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher creates a log-only publisher
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs each event
func (p *LogPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	for _, e := range events {
		p.logger.Info("Domain event",
			zap.String("event_type", e.EventType()),
			zap.String("event_id", e.EventID().String()),
			zap.String("aggregate_type", e.AggregateType()),
			zap.String("aggregate_id", e.AggregateID().String()),
			zap.String("partner_id", e.PartnerID().String()))
	}
	return nil
}

var _ shared.EventPublisher = (*LogPublisher)(nil)
