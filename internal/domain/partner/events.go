package partner

import (
	"github.com/luminform/atelier/internal/domain/shared"
)

// AggregateTypePartner is the aggregate type for partner events
const AggregateTypePartner = "Partner"

const (
	EventTypePartnerRegistered    = "partner.registered"
	EventTypePartnerStatusChanged = "partner.status_changed"
)

// PartnerRegisteredEvent is published when a partner signs up
type PartnerRegisteredEvent struct {
	shared.BaseDomainEvent
	Name         string       `json:"name"`
	Slug         string       `json:"slug"`
	BusinessType BusinessType `json:"business_type"`
}

// NewPartnerRegisteredEvent creates a PartnerRegisteredEvent
func NewPartnerRegisteredEvent(p *Partner) *PartnerRegisteredEvent {
	return &PartnerRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePartnerRegistered, AggregateTypePartner, p.ID, p.ID),
		Name:            p.Name,
		Slug:            p.Slug,
		BusinessType:    p.BusinessType,
	}
}

// PartnerStatusChangedEvent is published on every lifecycle transition
type PartnerStatusChangedEvent struct {
	shared.BaseDomainEvent
	From   Status `json:"from"`
	To     Status `json:"to"`
	Reason string `json:"reason,omitempty"`
}

// NewPartnerStatusChangedEvent creates a PartnerStatusChangedEvent
func NewPartnerStatusChangedEvent(p *Partner, from Status) *PartnerStatusChangedEvent {
	return &PartnerStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePartnerStatusChanged, AggregateTypePartner, p.ID, p.ID),
		From:            from,
		To:              p.Status,
		Reason:          p.SuspendedReason,
	}
}
