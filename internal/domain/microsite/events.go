package microsite

import "github.com/luminform/atelier/internal/domain/shared"

const (
	AggregateTypeMicrosite = "Microsite"

	EventTypeMicrositeStatusChanged = "microsite.status_changed"
)

// StatusChangedEvent is published when a microsite goes live or offline
type StatusChangedEvent struct {
	shared.BaseDomainEvent
	Slug   string `json:"slug"`
	Status Status `json:"status"`
}

// NewStatusChangedEvent creates a StatusChangedEvent
func NewStatusChangedEvent(m *Microsite) *StatusChangedEvent {
	return &StatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMicrositeStatusChanged, AggregateTypeMicrosite, m.ID, m.PartnerID),
		Slug:            m.Slug,
		Status:          m.Status,
	}
}
