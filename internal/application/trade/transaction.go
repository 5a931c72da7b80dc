package trade

import (
	"context"

	"github.com/luminform/atelier/internal/domain/shared"
	"go.uber.org/zap"
)

// Transactor runs fn inside a single database transaction. Repositories
// called with the context handed to fn take part in that transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// NoOpTransactor runs fn directly. Useful for tests.
type NoOpTransactor struct{}

// WithinTransaction runs fn without a transaction
func (NoOpTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type eventSource interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}

// publishEvents hands pending events to the publisher after commit.
// Publish failures are logged and never fail the request.
func publishEvents(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, sources ...eventSource) {
	var events []shared.DomainEvent
	for _, src := range sources {
		events = append(events, src.GetDomainEvents()...)
		src.ClearDomainEvents()
	}
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
