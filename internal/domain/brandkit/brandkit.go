package brandkit

import (
	"fmt"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/domain/shared"
)

const (
	MaxTaglineLength = 200

	DefaultPrimaryColor   = "#1F2937"
	DefaultSecondaryColor = "#F9FAFB"
	DefaultAccentColor    = "#B08D57"
	DefaultHeadingFont    = "Playfair Display"
	DefaultBodyFont       = "Inter"
)

// AllowedFonts are the font families the microsite and PDF templates ship
var AllowedFonts = []string{
	"Playfair Display",
	"Cormorant Garamond",
	"Libre Baskerville",
	"Lora",
	"Montserrat",
	"Inter",
	"Lato",
	"Raleway",
	"Great Vibes",
	"Dancing Script",
}

// LogoContentTypes maps accepted logo extensions to their MIME types
var LogoContentTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"svg":  "image/svg+xml",
	"webp": "image/webp",
}

// IsAllowedFont reports whether font is in the allow-list
func IsAllowedFont(font string) bool {
	return shared.IsOneOf(font, AllowedFonts...)
}

// BrandKit is a partner's visual identity. There is at most one per partner.
type BrandKit struct {
	shared.BaseAggregateRoot
	PartnerID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	LogoKey        string    `gorm:"type:varchar(300)"`
	PrimaryColor   string    `gorm:"type:varchar(7);not null"`
	SecondaryColor string    `gorm:"type:varchar(7);not null"`
	AccentColor    string    `gorm:"type:varchar(7);not null"`
	HeadingFont    string    `gorm:"type:varchar(60);not null"`
	BodyFont       string    `gorm:"type:varchar(60);not null"`
	Tagline        string    `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (BrandKit) TableName() string {
	return "brand_kits"
}

// Style is the editable look of a brand kit
type Style struct {
	PrimaryColor   string
	SecondaryColor string
	AccentColor    string
	HeadingFont    string
	BodyFont       string
	Tagline        string
}

// DefaultStyle is used until a partner saves their own kit
func DefaultStyle() Style {
	return Style{
		PrimaryColor:   DefaultPrimaryColor,
		SecondaryColor: DefaultSecondaryColor,
		AccentColor:    DefaultAccentColor,
		HeadingFont:    DefaultHeadingFont,
		BodyFont:       DefaultBodyFont,
	}
}

// Validate checks colors, fonts and tagline length
func (s Style) Validate() error {
	for name, c := range map[string]string{
		"primary_color":   s.PrimaryColor,
		"secondary_color": s.SecondaryColor,
		"accent_color":    s.AccentColor,
	} {
		if !shared.IsHexColor(c) {
			return shared.NewDomainError("INVALID_COLOR", fmt.Sprintf("%s must be a #RRGGBB color", name))
		}
	}
	if !IsAllowedFont(s.HeadingFont) {
		return shared.NewDomainError("INVALID_FONT", "Heading font is not supported")
	}
	if !IsAllowedFont(s.BodyFont) {
		return shared.NewDomainError("INVALID_FONT", "Body font is not supported")
	}
	if utf8.RuneCountInString(s.Tagline) > MaxTaglineLength {
		return shared.InvalidInput("Tagline cannot exceed 200 characters")
	}
	return nil
}

// New creates a brand kit with the default style
func New(partnerID uuid.UUID) (*BrandKit, error) {
	if partnerID == uuid.Nil {
		return nil, shared.InvalidInput("Partner ID is required")
	}
	kit := &BrandKit{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PartnerID:         partnerID,
	}
	kit.apply(DefaultStyle())
	return kit, nil
}

// ApplyStyle validates and stores a new style. Colors are stored upper-cased.
func (k *BrandKit) ApplyStyle(s Style) error {
	s.PrimaryColor = strings.ToUpper(strings.TrimSpace(s.PrimaryColor))
	s.SecondaryColor = strings.ToUpper(strings.TrimSpace(s.SecondaryColor))
	s.AccentColor = strings.ToUpper(strings.TrimSpace(s.AccentColor))
	s.Tagline = strings.TrimSpace(s.Tagline)
	if err := s.Validate(); err != nil {
		return err
	}
	k.apply(s)
	k.MarkChanged()
	return nil
}

// Style returns the current style
func (k *BrandKit) Style() Style {
	return Style{
		PrimaryColor:   k.PrimaryColor,
		SecondaryColor: k.SecondaryColor,
		AccentColor:    k.AccentColor,
		HeadingFont:    k.HeadingFont,
		BodyFont:       k.BodyFont,
		Tagline:        k.Tagline,
	}
}

// SetLogo stores a confirmed object key. The key must belong to this partner.
func (k *BrandKit) SetLogo(key string) error {
	if !IsLogoKeyFor(k.PartnerID, key) {
		return shared.NewDomainError("INVALID_LOGO_KEY", "Logo key does not belong to this partner")
	}
	k.LogoKey = key
	k.MarkChanged()
	return nil
}

// RemoveLogo clears the logo and returns the old key
func (k *BrandKit) RemoveLogo() string {
	old := k.LogoKey
	k.LogoKey = ""
	k.MarkChanged()
	return old
}

func (k *BrandKit) apply(s Style) {
	k.PrimaryColor = s.PrimaryColor
	k.SecondaryColor = s.SecondaryColor
	k.AccentColor = s.AccentColor
	k.HeadingFont = s.HeadingFont
	k.BodyFont = s.BodyFont
	k.Tagline = s.Tagline
}

// NewLogoKey builds brand-kits/<partner>/logo-<uuid>.<ext> for an upload.
// It returns the key and the content type the upload must use.
func NewLogoKey(partnerID uuid.UUID, filename string) (string, string, error) {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	contentType, ok := LogoContentTypes[ext]
	if !ok {
		return "", "", shared.NewDomainError("INVALID_FILE_TYPE", "Logo must be png, jpg, jpeg, svg or webp")
	}
	return fmt.Sprintf("%s/logo-%s.%s", logoPrefix(partnerID), uuid.New(), ext), contentType, nil
}

// IsLogoKeyFor reports whether key was issued for partnerID
func IsLogoKeyFor(partnerID uuid.UUID, key string) bool {
	prefix := logoPrefix(partnerID) + "/logo-"
	if !strings.HasPrefix(key, prefix) || strings.Contains(key, "..") {
		return false
	}
	ext := strings.TrimPrefix(path.Ext(key), ".")
	_, ok := LogoContentTypes[ext]
	return ok
}

func logoPrefix(partnerID uuid.UUID) string {
	return "brand-kits/" + partnerID.String()
}
