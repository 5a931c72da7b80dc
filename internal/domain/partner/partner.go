package partner

import (
	"strings"
	"time"

	"github.com/luminform/atelier/internal/domain/shared"
)

// BusinessType is the kind of event business a partner runs
type BusinessType string

const (
	BusinessTypePlanner      BusinessType = "planner"
	BusinessTypeVenue        BusinessType = "venue"
	BusinessTypeFlorist      BusinessType = "florist"
	BusinessTypePhotographer BusinessType = "photographer"
	BusinessTypeCaterer      BusinessType = "caterer"
	BusinessTypeOther        BusinessType = "other"
)

// IsValid reports whether the business type is known
func (b BusinessType) IsValid() bool {
	return shared.IsOneOf(b, BusinessTypePlanner, BusinessTypeVenue, BusinessTypeFlorist,
		BusinessTypePhotographer, BusinessTypeCaterer, BusinessTypeOther)
}

// Status is the lifecycle state of a partner account
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusArchived  Status = "archived"
)

// IsValid reports whether the status is known
func (s Status) IsValid() bool {
	return shared.IsOneOf(s, StatusPending, StatusActive, StatusSuspended, StatusArchived)
}

// Partner is a tenant business account. Everything partner-owned is scoped by its ID.
type Partner struct {
	shared.BaseAggregateRoot
	Name            string       `gorm:"type:varchar(200);not null"`
	Slug            string       `gorm:"type:varchar(80);not null;uniqueIndex"`
	BusinessType    BusinessType `gorm:"type:varchar(20);not null"`
	Status          Status       `gorm:"type:varchar(20);not null;index"`
	ContactEmail    string       `gorm:"type:varchar(254);not null"`
	Phone           string       `gorm:"type:varchar(50)"`
	Website         string       `gorm:"type:varchar(500)"`
	City            string       `gorm:"type:varchar(100)"`
	Country         string       `gorm:"type:varchar(100)"`
	Notes           string       `gorm:"type:text"`
	SuspendedReason string       `gorm:"type:varchar(500)"`
	ActivatedAt     *time.Time
}

// TableName returns the table name for GORM
func (Partner) TableName() string {
	return "partners"
}

// NewPartner creates a pending partner. An empty slug is derived from the name.
func NewPartner(name, slug string, businessType BusinessType, contactEmail string) (*Partner, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	if slug == "" {
		slug = shared.Slugify(name)
	}
	if !shared.IsSlug(slug) {
		return nil, shared.NewDomainError("INVALID_SLUG", "Slug must be lowercase letters, digits and single hyphens")
	}
	if !businessType.IsValid() {
		return nil, shared.NewDomainError("INVALID_BUSINESS_TYPE", "Unknown business type")
	}
	contactEmail = shared.NormalizeEmail(contactEmail)
	if !shared.IsEmail(contactEmail) {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Invalid contact email")
	}

	p := &Partner{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Slug:              slug,
		BusinessType:      businessType,
		Status:            StatusPending,
		ContactEmail:      contactEmail,
	}
	p.AddDomainEvent(NewPartnerRegisteredEvent(p))
	return p, nil
}

// Profile holds the editable partner fields. Nil pointers are left unchanged.
type Profile struct {
	Name         *string
	BusinessType *BusinessType
	ContactEmail *string
	Phone        *string
	Website      *string
	City         *string
	Country      *string
}

// UpdateProfile applies a partial profile update
func (p *Partner) UpdateProfile(in Profile) error {
	if p.Status == StatusArchived {
		return shared.InvalidState("Archived partners cannot be edited")
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := validateName(name); err != nil {
			return err
		}
		p.Name = name
	}
	if in.BusinessType != nil {
		if !in.BusinessType.IsValid() {
			return shared.NewDomainError("INVALID_BUSINESS_TYPE", "Unknown business type")
		}
		p.BusinessType = *in.BusinessType
	}
	if in.ContactEmail != nil {
		email := shared.NormalizeEmail(*in.ContactEmail)
		if !shared.IsEmail(email) {
			return shared.NewDomainError("INVALID_EMAIL", "Invalid contact email")
		}
		p.ContactEmail = email
	}
	if in.Website != nil {
		if *in.Website != "" && !shared.IsHTTPURL(*in.Website) {
			return shared.NewDomainError("INVALID_WEBSITE", "Website must be an http(s) URL")
		}
		p.Website = *in.Website
	}
	if in.Phone != nil {
		p.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.City != nil {
		p.City = strings.TrimSpace(*in.City)
	}
	if in.Country != nil {
		p.Country = strings.TrimSpace(*in.Country)
	}
	p.MarkChanged()
	return nil
}

// SetNotes replaces the internal operator notes
func (p *Partner) SetNotes(notes string) {
	p.Notes = notes
	p.MarkChanged()
}

// Activate approves a pending partner
func (p *Partner) Activate() error {
	if p.Status != StatusPending {
		return shared.InvalidState("Only pending partners can be activated")
	}
	now := time.Now().UTC()
	p.Status = StatusActive
	p.ActivatedAt = &now
	p.MarkChanged()
	p.AddDomainEvent(NewPartnerStatusChangedEvent(p, StatusPending))
	return nil
}

// Suspend blocks an active partner from signing in
func (p *Partner) Suspend(reason string) error {
	if p.Status != StatusActive {
		return shared.InvalidState("Only active partners can be suspended")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.InvalidInput("Suspension reason is required")
	}
	p.Status = StatusSuspended
	p.SuspendedReason = reason
	p.MarkChanged()
	p.AddDomainEvent(NewPartnerStatusChangedEvent(p, StatusActive))
	return nil
}

// Reactivate lifts a suspension
func (p *Partner) Reactivate() error {
	if p.Status != StatusSuspended {
		return shared.InvalidState("Only suspended partners can be reactivated")
	}
	p.Status = StatusActive
	p.SuspendedReason = ""
	p.MarkChanged()
	p.AddDomainEvent(NewPartnerStatusChangedEvent(p, StatusSuspended))
	return nil
}

// Archive closes the account permanently
func (p *Partner) Archive() error {
	if p.Status == StatusArchived {
		return shared.InvalidState("Partner is already archived")
	}
	prev := p.Status
	p.Status = StatusArchived
	p.MarkChanged()
	p.AddDomainEvent(NewPartnerStatusChangedEvent(p, prev))
	return nil
}

// TransitionTo moves the partner to the target status using the matching operation
func (p *Partner) TransitionTo(target Status, reason string) error {
	switch target {
	case p.Status:
		return nil
	case StatusActive:
		if p.Status == StatusSuspended {
			return p.Reactivate()
		}
		return p.Activate()
	case StatusSuspended:
		return p.Suspend(reason)
	case StatusArchived:
		return p.Archive()
	default:
		return shared.InvalidState("Cannot move partner to " + string(target))
	}
}

// CanSignIn reports whether users of this partner may authenticate
func (p *Partner) CanSignIn() bool {
	return p.Status == StatusPending || p.Status == StatusActive
}

// IsActive reports whether the partner can publish and trade
func (p *Partner) IsActive() bool {
	return p.Status == StatusActive
}

func validateName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Partner name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Partner name cannot exceed 200 characters")
	}
	return nil
}
