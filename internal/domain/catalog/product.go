package catalog

import (
	"strings"

	"github.com/luminform/atelier/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product is a platform-wide catalog item managed by admins and curated by partners
type Product struct {
	shared.BaseAggregateRoot
	SKU         string          `gorm:"column:sku;type:varchar(50);not null;uniqueIndex"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text"`
	Category    string          `gorm:"type:varchar(100);index"`
	BasePrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Currency    string          `gorm:"type:varchar(3);not null"`
	ImageURL    string          `gorm:"type:varchar(500)"`
	IsActive    bool            `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates an active product
func NewProduct(sku, name, category string, basePrice decimal.Decimal, currency string) (*Product, error) {
	sku = strings.ToUpper(strings.TrimSpace(sku))
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if !shared.IsNonNegativeDecimal(basePrice) {
		return nil, shared.NewDomainError("INVALID_PRICE", "Base price cannot be negative")
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if !shared.IsCurrencyCode(currency) {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency must be a 3-letter ISO code")
	}
	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               sku,
		Name:              name,
		Category:          strings.TrimSpace(category),
		BasePrice:         basePrice.Round(2),
		Currency:          currency,
		IsActive:          true,
	}, nil
}

// ProductUpdate holds editable product fields. Nil pointers are left unchanged.
type ProductUpdate struct {
	Name        *string
	Description *string
	Category    *string
	BasePrice   *decimal.Decimal
	ImageURL    *string
}

// Update applies a partial update
func (p *Product) Update(in ProductUpdate) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := validateProductName(name); err != nil {
			return err
		}
		p.Name = name
	}
	if in.BasePrice != nil {
		if !shared.IsNonNegativeDecimal(*in.BasePrice) {
			return shared.NewDomainError("INVALID_PRICE", "Base price cannot be negative")
		}
		p.BasePrice = in.BasePrice.Round(2)
	}
	if in.ImageURL != nil {
		if *in.ImageURL != "" && !shared.IsHTTPURL(*in.ImageURL) {
			return shared.NewDomainError("INVALID_IMAGE_URL", "Image URL must be an http(s) URL")
		}
		p.ImageURL = *in.ImageURL
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Category != nil {
		p.Category = strings.TrimSpace(*in.Category)
	}
	p.MarkChanged()
	return nil
}

// Activate makes the product available to partners
func (p *Product) Activate() {
	if p.IsActive {
		return
	}
	p.IsActive = true
	p.MarkChanged()
}

// Deactivate hides the product from partner catalogs. Existing collection items keep referencing it.
func (p *Product) Deactivate() {
	if !p.IsActive {
		return
	}
	p.IsActive = false
	p.MarkChanged()
}

func validateSKU(sku string) error {
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) > 50 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 50 characters")
	}
	for _, r := range sku {
		if !(r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_') {
			return shared.NewDomainError("INVALID_SKU", "SKU may only contain letters, digits, '-' and '_'")
		}
	}
	return nil
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
