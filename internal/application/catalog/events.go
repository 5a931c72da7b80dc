package catalog

import (
	"context"

	"github.com/luminform/atelier/internal/domain/shared"
	"go.uber.org/zap"
)

type eventSource interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}

// publishEvents hands pending events to the publisher after the save.
// Publish failures are logged and never fail the request.
func publishEvents(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, src eventSource) {
	events := src.GetDomainEvents()
	src.ClearDomainEvents()
	if len(events) == 0 || publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.Warn("Failed to publish domain events",
			zap.Int("count", len(events)),
			zap.String("first_type", events[0].EventType()),
			zap.Error(err))
	}
}
