package brandkit

import (
	"time"

	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/domain/brandkit"
)

// UpdateBrandKitRequest replaces the brand kit style
type UpdateBrandKitRequest struct {
	PrimaryColor   string `json:"primary_color" binding:"required,hexcolor_strict"`
	SecondaryColor string `json:"secondary_color" binding:"required,hexcolor_strict"`
	AccentColor    string `json:"accent_color" binding:"required,hexcolor_strict"`
	HeadingFont    string `json:"heading_font" binding:"required,max=60"`
	BodyFont       string `json:"body_font" binding:"required,max=60"`
	Tagline        string `json:"tagline" binding:"max=200"`
}

// LogoUploadRequest asks for a presigned logo upload
type LogoUploadRequest struct {
	Filename string `json:"filename" binding:"required,max=255"`
}

// LogoUploadResponse is a presigned PUT the browser uploads to directly
type LogoUploadResponse struct {
	UploadURL   string    `json:"upload_url"`
	Key         string    `json:"key"`
	ContentType string    `json:"content_type"`
	MaxBytes    int64     `json:"max_bytes"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ConfirmLogoRequest stores an uploaded logo on the brand kit
type ConfirmLogoRequest struct {
	Key string `json:"key" binding:"required,max=300"`
}

// BrandKitResponse is the brand kit view. LogoURL is a short-lived presigned GET.
type BrandKitResponse struct {
	ID             *uuid.UUID `json:"id,omitempty"`
	PartnerID      uuid.UUID  `json:"partner_id"`
	PrimaryColor   string     `json:"primary_color"`
	SecondaryColor string     `json:"secondary_color"`
	AccentColor    string     `json:"accent_color"`
	HeadingFont    string     `json:"heading_font"`
	BodyFont       string     `json:"body_font"`
	Tagline        string     `json:"tagline"`
	LogoKey        string     `json:"logo_key,omitempty"`
	LogoURL        string     `json:"logo_url,omitempty"`
	AllowedFonts   []string   `json:"allowed_fonts"`
	IsDefault      bool       `json:"is_default"`
}

// Appearance is the resolved look used by public pages and documents
type Appearance struct {
	Style   brandkit.Style
	LogoURL string
}

func toResponse(partnerID uuid.UUID, kit *brandkit.BrandKit, logoURL string) BrandKitResponse {
	style := brandkit.DefaultStyle()
	resp := BrandKitResponse{PartnerID: partnerID, IsDefault: true, AllowedFonts: brandkit.AllowedFonts}
	if kit != nil {
		id := kit.ID
		style = kit.Style()
		resp.ID = &id
		resp.LogoKey = kit.LogoKey
		resp.LogoURL = logoURL
		resp.IsDefault = false
	}
	resp.PrimaryColor = style.PrimaryColor
	resp.SecondaryColor = style.SecondaryColor
	resp.AccentColor = style.AccentColor
	resp.HeadingFont = style.HeadingFont
	resp.BodyFont = style.BodyFont
	resp.Tagline = style.Tagline
	return resp
}
