package shared

import (
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Guards validate untrusted input at the edges of the system. They accept
// any value and never panic.

const (
	MaxPageSize     = 100
	DefaultPageSize = 20
	maxSlugLength   = 80
)

var (
	slugPattern     = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)
	nonSlugChars    = regexp.MustCompile(`[^a-z0-9]+`)
)

// IsNonEmpty reports whether s contains something other than whitespace
func IsNonEmpty(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsUUID reports whether s is a canonical, non-nil UUID
func IsUUID(s string) bool {
	id, err := uuid.Parse(s)
	return err == nil && id != uuid.Nil
}

// IsEmail reports whether s is a bare email address (no display name)
func IsEmail(s string) bool {
	if len(s) > 254 || strings.TrimSpace(s) != s || s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndex(s, "@")
	return at > 0 && strings.Contains(s[at:], ".")
}

// IsSlug reports whether s is a lowercase, hyphen-separated slug
func IsSlug(s string) bool {
	return len(s) <= maxSlugLength && slugPattern.MatchString(s)
}

// IsHexColor reports whether s is a #RRGGBB color
func IsHexColor(s string) bool {
	return hexColorPattern.MatchString(s)
}

// IsCurrencyCode reports whether s looks like an ISO-4217 code
func IsCurrencyCode(s string) bool {
	return currencyPattern.MatchString(s)
}

// IsHTTPURL reports whether s is an absolute http(s) URL with a host
func IsHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsPositiveDecimal reports whether d is strictly greater than zero
func IsPositiveDecimal(d decimal.Decimal) bool {
	return d.GreaterThan(decimal.Zero)
}

// IsNonNegativeDecimal reports whether d is zero or greater
func IsNonNegativeDecimal(d decimal.Decimal) bool {
	return !d.IsNegative()
}

// IsOneOf reports whether v equals one of the allowed values
func IsOneOf[T comparable](v T, allowed ...T) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// ParseUUID parses s and rejects the nil UUID
func ParseUUID(s string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// ClampPage normalises paging values to 1-based pages of at most MaxPageSize
func ClampPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// Slugify turns free text into a slug, folding accents ("Crème Brûlée" -> "creme-brulee")
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(folded), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > maxSlugLength {
		slug = strings.TrimRight(slug[:maxSlugLength], "-")
	}
	return slug
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
