package catalog

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CollectionStatus is the publication state of a collection
type CollectionStatus string

const (
	CollectionStatusDraft     CollectionStatus = "draft"
	CollectionStatusPublished CollectionStatus = "published"
	CollectionStatusArchived  CollectionStatus = "archived"
)

// Collection is a partner-curated set of catalog products
type Collection struct {
	shared.TenantAggregateRoot
	Name          string           `gorm:"type:varchar(200);not null"`
	Slug          string           `gorm:"type:varchar(80);not null;index"`
	Description   string           `gorm:"type:text"`
	Status        CollectionStatus `gorm:"type:varchar(20);not null;index"`
	CoverImageURL string           `gorm:"type:varchar(500)"`
	PublishedAt   *time.Time
	Items         []CollectionItem `gorm:"foreignKey:CollectionID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Collection) TableName() string {
	return "collections"
}

// CollectionItem places a product in a collection
type CollectionItem struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey"`
	CollectionID  uuid.UUID        `gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID        `gorm:"type:uuid;not null"`
	Position      int              `gorm:"not null"`
	Note          string           `gorm:"type:varchar(500)"`
	PriceOverride *decimal.Decimal `gorm:"type:decimal(18,4)"`
	CreatedAt     time.Time
}

// TableName returns the table name for GORM
func (CollectionItem) TableName() string {
	return "collection_items"
}

// NewCollection creates a draft collection. An empty slug is derived from the name.
func NewCollection(partnerID uuid.UUID, name, slug, description string) (*Collection, error) {
	if partnerID == uuid.Nil {
		return nil, shared.InvalidInput("Partner ID is required")
	}
	name = strings.TrimSpace(name)
	if err := validateCollectionName(name); err != nil {
		return nil, err
	}
	if slug == "" {
		slug = shared.Slugify(name)
	}
	if !shared.IsSlug(slug) {
		return nil, shared.NewDomainError("INVALID_SLUG", "Slug must be lowercase letters, digits and single hyphens")
	}
	return &Collection{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(partnerID),
		Name:                name,
		Slug:                slug,
		Description:         description,
		Status:              CollectionStatusDraft,
		Items:               make([]CollectionItem, 0),
	}, nil
}

// Update changes the descriptive fields of an editable collection
func (c *Collection) Update(name, slug, description, coverImageURL string) error {
	if err := c.ensureEditable(); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if err := validateCollectionName(name); err != nil {
		return err
	}
	if slug == "" {
		slug = c.Slug
	}
	if !shared.IsSlug(slug) {
		return shared.NewDomainError("INVALID_SLUG", "Slug must be lowercase letters, digits and single hyphens")
	}
	if coverImageURL != "" && !shared.IsHTTPURL(coverImageURL) {
		return shared.NewDomainError("INVALID_IMAGE_URL", "Cover image must be an http(s) URL")
	}
	c.Name = name
	c.Slug = slug
	c.Description = description
	c.CoverImageURL = coverImageURL
	c.MarkChanged()
	return nil
}

// AddItem appends an active product at the end of the collection
func (c *Collection) AddItem(product *Product, note string, priceOverride *decimal.Decimal) (*CollectionItem, error) {
	if err := c.ensureEditable(); err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, shared.InvalidState("Only active products can be added to a collection")
	}
	if c.HasProduct(product.ID) {
		return nil, shared.AlreadyExists("Product is already in this collection")
	}
	if priceOverride != nil {
		if !shared.IsNonNegativeDecimal(*priceOverride) {
			return nil, shared.NewDomainError("INVALID_PRICE", "Price override cannot be negative")
		}
		rounded := priceOverride.Round(2)
		priceOverride = &rounded
	}
	item := CollectionItem{
		ID:            uuid.New(),
		CollectionID:  c.ID,
		ProductID:     product.ID,
		Position:      len(c.Items) + 1,
		Note:          strings.TrimSpace(note),
		PriceOverride: priceOverride,
		CreatedAt:     time.Now().UTC(),
	}
	c.Items = append(c.Items, item)
	c.MarkChanged()
	return &c.Items[len(c.Items)-1], nil
}

// RemoveItem drops an item and closes the gap in positions
func (c *Collection) RemoveItem(itemID uuid.UUID) error {
	if err := c.ensureEditable(); err != nil {
		return err
	}
	idx := -1
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return shared.NotFound("Collection item")
	}
	if c.Status == CollectionStatusPublished && len(c.Items) == 1 {
		return shared.InvalidState("A published collection must keep at least one item")
	}
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	c.renumber()
	c.MarkChanged()
	return nil
}

// Reorder rewrites positions 1..n following itemIDs, which must list every item exactly once
func (c *Collection) Reorder(itemIDs []uuid.UUID) error {
	if err := c.ensureEditable(); err != nil {
		return err
	}
	if len(itemIDs) != len(c.Items) {
		return shared.InvalidInput("Reorder must list every item exactly once")
	}
	rank := make(map[uuid.UUID]int, len(itemIDs))
	for i, id := range itemIDs {
		if _, dup := rank[id]; dup {
			return shared.InvalidInput("Reorder must list every item exactly once")
		}
		rank[id] = i
	}
	for _, item := range c.Items {
		if _, ok := rank[item.ID]; !ok {
			return shared.InvalidInput("Reorder must list every item exactly once")
		}
	}
	sort.SliceStable(c.Items, func(i, j int) bool {
		return rank[c.Items[i].ID] < rank[c.Items[j].ID]
	})
	c.renumber()
	c.MarkChanged()
	return nil
}

// Publish makes the collection visible to microsites
func (c *Collection) Publish() error {
	switch c.Status {
	case CollectionStatusPublished:
		return shared.InvalidState("Collection is already published")
	case CollectionStatusArchived:
		return shared.InvalidState("Archived collections cannot be published")
	}
	if len(c.Items) == 0 {
		return shared.InvalidState("A collection needs at least one item before publishing")
	}
	now := time.Now().UTC()
	c.Status = CollectionStatusPublished
	c.PublishedAt = &now
	c.MarkChanged()
	c.AddDomainEvent(NewCollectionPublishedEvent(c))
	return nil
}

// Archive retires the collection
func (c *Collection) Archive() error {
	if c.Status == CollectionStatusArchived {
		return shared.InvalidState("Collection is already archived")
	}
	c.Status = CollectionStatusArchived
	c.MarkChanged()
	return nil
}

// HasProduct reports whether the product is already in the collection
func (c *Collection) HasProduct(productID uuid.UUID) bool {
	for _, item := range c.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

// PriceFor returns the price a partner charges for a product: the override when set, base otherwise
func (c *Collection) PriceFor(product *Product) decimal.Decimal {
	for _, item := range c.Items {
		if item.ProductID == product.ID && item.PriceOverride != nil {
			return *item.PriceOverride
		}
	}
	return product.BasePrice
}

// ProductIDs returns the product IDs in position order
func (c *Collection) ProductIDs() []uuid.UUID {
	c.SortItems()
	ids := make([]uuid.UUID, 0, len(c.Items))
	for _, item := range c.Items {
		ids = append(ids, item.ProductID)
	}
	return ids
}

// SortItems orders items by position
func (c *Collection) SortItems() {
	sort.SliceStable(c.Items, func(i, j int) bool {
		return c.Items[i].Position < c.Items[j].Position
	})
}

// IsPublished reports whether the collection is published
func (c *Collection) IsPublished() bool {
	return c.Status == CollectionStatusPublished
}

func (c *Collection) renumber() {
	for i := range c.Items {
		c.Items[i].Position = i + 1
	}
}

func (c *Collection) ensureEditable() error {
	if c.Status == CollectionStatusArchived {
		return shared.InvalidState("Archived collections cannot be edited")
	}
	return nil
}

func validateCollectionName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Collection name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Collection name cannot exceed 200 characters")
	}
	return nil
}
