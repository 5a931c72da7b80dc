package microsite

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/domain/shared"
)

// Status is the publication state of a microsite
type Status string

const (
	StatusDraft       Status = "draft"
	StatusPublished   Status = "published"
	StatusUnpublished Status = "unpublished"
)

// IsValid reports whether the status is known
func (s Status) IsValid() bool {
	return shared.IsOneOf(s, StatusDraft, StatusPublished, StatusUnpublished)
}

// reservedSlugs would shadow fixed routes under /m/
var reservedSlugs = map[string]struct{}{
	"admin": {}, "api": {}, "login": {}, "static": {}, "assets": {},
}

// Microsite is a partner-branded public page built from a collection
type Microsite struct {
	shared.TenantAggregateRoot
	CollectionID uuid.UUID `gorm:"type:uuid;not null;index"`
	Slug         string    `gorm:"type:varchar(80);not null;uniqueIndex"`
	Title        string    `gorm:"type:varchar(200);not null"`
	Headline     string    `gorm:"type:varchar(300)"`
	Description  string    `gorm:"type:text"`
	HeroImageURL string    `gorm:"type:varchar(500)"`
	Status       Status    `gorm:"type:varchar(20);not null;index"`
	PublishedAt  *time.Time
	ViewCount    int64 `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Microsite) TableName() string {
	return "microsites"
}

// Content holds the editable text of a microsite
type Content struct {
	Title        string
	Headline     string
	Description  string
	HeroImageURL string
}

func (c Content) validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return shared.InvalidInput("Microsite title is required")
	}
	if utf8.RuneCountInString(c.Title) > 200 {
		return shared.InvalidInput("Microsite title cannot exceed 200 characters")
	}
	if utf8.RuneCountInString(c.Headline) > 300 {
		return shared.InvalidInput("Headline cannot exceed 300 characters")
	}
	if c.HeroImageURL != "" && !shared.IsHTTPURL(c.HeroImageURL) {
		return shared.InvalidInput("Hero image must be an http(s) URL")
	}
	return nil
}

// ValidateSlug checks the public address of a microsite
func ValidateSlug(slug string) error {
	if !shared.IsSlug(slug) {
		return shared.NewDomainError("INVALID_SLUG", "Slug must be lowercase letters, digits and single hyphens")
	}
	if _, ok := reservedSlugs[slug]; ok {
		return shared.NewDomainError("INVALID_SLUG", "Slug is reserved")
	}
	return nil
}

// NewMicrosite creates a draft microsite for a collection.
// An empty slug is derived from the title.
func NewMicrosite(partnerID, collectionID uuid.UUID, slug string, content Content) (*Microsite, error) {
	if partnerID == uuid.Nil {
		return nil, shared.InvalidInput("Partner ID is required")
	}
	if collectionID == uuid.Nil {
		return nil, shared.InvalidInput("Collection is required")
	}
	if err := content.validate(); err != nil {
		return nil, err
	}
	if slug == "" {
		slug = shared.Slugify(content.Title)
	}
	if err := ValidateSlug(slug); err != nil {
		return nil, err
	}
	return &Microsite{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(partnerID),
		CollectionID:        collectionID,
		Slug:                slug,
		Title:               strings.TrimSpace(content.Title),
		Headline:            content.Headline,
		Description:         content.Description,
		HeroImageURL:        content.HeroImageURL,
		Status:              StatusDraft,
	}, nil
}

// Update replaces content and optionally the slug and source collection
func (m *Microsite) Update(slug string, collectionID uuid.UUID, content Content) error {
	if err := content.validate(); err != nil {
		return err
	}
	if slug != "" && slug != m.Slug {
		if err := ValidateSlug(slug); err != nil {
			return err
		}
		m.Slug = slug
	}
	if collectionID != uuid.Nil {
		m.CollectionID = collectionID
	}
	m.Title = strings.TrimSpace(content.Title)
	m.Headline = content.Headline
	m.Description = content.Description
	m.HeroImageURL = content.HeroImageURL
	m.MarkChanged()
	return nil
}

// Publish makes the microsite publicly reachable.
// collectionPublished reports the state of the source collection.
func (m *Microsite) Publish(collectionPublished bool, now time.Time) error {
	if m.Status == StatusPublished {
		return shared.InvalidState("Microsite is already published")
	}
	if !collectionPublished {
		return shared.InvalidState("The collection must be published first")
	}
	t := now.UTC()
	m.Status = StatusPublished
	m.PublishedAt = &t
	m.MarkChanged()
	m.AddDomainEvent(NewStatusChangedEvent(m))
	return nil
}

// Unpublish takes a published microsite offline
func (m *Microsite) Unpublish() error {
	if m.Status != StatusPublished {
		return shared.InvalidState("Only published microsites can be unpublished")
	}
	m.Status = StatusUnpublished
	m.MarkChanged()
	m.AddDomainEvent(NewStatusChangedEvent(m))
	return nil
}

// IsPublic reports whether /m/:slug should serve the page
func (m *Microsite) IsPublic() bool {
	return m.Status == StatusPublished
}
