package microsite

import (
	"time"

	"github.com/google/uuid"
	brandkitapp "github.com/luminform/atelier/internal/application/brandkit"
	"github.com/luminform/atelier/internal/domain/microsite"
	"github.com/shopspring/decimal"
)

// CreateMicrositeRequest creates a draft microsite. Slug defaults to the slugified title.
type CreateMicrositeRequest struct {
	CollectionID uuid.UUID `json:"collection_id" binding:"required"`
	Slug         string    `json:"slug" binding:"omitempty,slug,max=80"`
	Title        string    `json:"title" binding:"required,min=1,max=200"`
	Headline     string    `json:"headline" binding:"max=300"`
	Description  string    `json:"description" binding:"max=5000"`
	HeroImageURL string    `json:"hero_image_url" binding:"omitempty,url,max=500"`
}

// UpdateMicrositeRequest replaces microsite content. Empty slug and collection keep the current values.
type UpdateMicrositeRequest struct {
	CollectionID *uuid.UUID `json:"collection_id,omitempty"`
	Slug         string     `json:"slug" binding:"omitempty,slug,max=80"`
	Title        string     `json:"title" binding:"required,min=1,max=200"`
	Headline     string     `json:"headline" binding:"max=300"`
	Description  string     `json:"description" binding:"max=5000"`
	HeroImageURL string     `json:"hero_image_url" binding:"omitempty,url,max=500"`
}

// MicrositeResponse is the microsite view
type MicrositeResponse struct {
	ID           uuid.UUID  `json:"id"`
	PartnerID    uuid.UUID  `json:"partner_id"`
	CollectionID uuid.UUID  `json:"collection_id"`
	Slug         string     `json:"slug"`
	PublicPath   string     `json:"public_path"`
	Title        string     `json:"title"`
	Headline     string     `json:"headline"`
	Description  string     `json:"description"`
	HeroImageURL string     `json:"hero_image_url"`
	Status       string     `json:"status"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
	ViewCount    int64      `json:"view_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Version      int        `json:"version"`
}

// ToMicrositeResponse converts a microsite to its response
func ToMicrositeResponse(m *microsite.Microsite) MicrositeResponse {
	return MicrositeResponse{
		ID:           m.ID,
		PartnerID:    m.PartnerID,
		CollectionID: m.CollectionID,
		Slug:         m.Slug,
		PublicPath:   "/m/" + m.Slug,
		Title:        m.Title,
		Headline:     m.Headline,
		Description:  m.Description,
		HeroImageURL: m.HeroImageURL,
		Status:       string(m.Status),
		PublishedAt:  m.PublishedAt,
		ViewCount:    m.ViewCount,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		Version:      m.Version,
	}
}

// PublicItem is a product shown on a public page
type PublicItem struct {
	Name        string
	Description string
	ImageURL    string
	Note        string
	Price       decimal.Decimal
	Currency    string
}

// PublicPage is everything the public microsite template renders
type PublicPage struct {
	Slug         string
	Title        string
	Headline     string
	Description  string
	HeroImageURL string
	PartnerName  string
	PartnerEmail string
	PartnerSite  string
	Collection   string
	Items        []PublicItem
	Appearance   brandkitapp.Appearance
}
