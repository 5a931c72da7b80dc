package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateProductRequest creates a catalog product
type CreateProductRequest struct {
	SKU         string          `json:"sku" binding:"required,min=1,max=50"`
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Description string          `json:"description" binding:"max=5000"`
	Category    string          `json:"category" binding:"max=100"`
	BasePrice   decimal.Decimal `json:"base_price" binding:"required"`
	Currency    string          `json:"currency" binding:"required,len=3"`
	ImageURL    string          `json:"image_url" binding:"omitempty,url,max=500"`
}

// UpdateProductRequest is a partial product update
type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty" binding:"omitempty,min=1,max=200"`
	Description *string          `json:"description,omitempty" binding:"omitempty,max=5000"`
	Category    *string          `json:"category,omitempty" binding:"omitempty,max=100"`
	BasePrice   *decimal.Decimal `json:"base_price,omitempty"`
	ImageURL    *string          `json:"image_url,omitempty" binding:"omitempty,max=500"`
}

// ProductResponse is the product view
type ProductResponse struct {
	ID          uuid.UUID       `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	BasePrice   decimal.Decimal `json:"base_price"`
	Currency    string          `json:"currency"`
	ImageURL    string          `json:"image_url"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Version     int             `json:"version"`
}

// ToProductResponse converts a domain product to its response
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		BasePrice:   p.BasePrice,
		Currency:    p.Currency,
		ImageURL:    p.ImageURL,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Version:     p.Version,
	}
}

// CreateCollectionRequest creates a draft collection. Slug defaults to the slugified name.
type CreateCollectionRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Slug        string `json:"slug" binding:"omitempty,slug,max=80"`
	Description string `json:"description" binding:"max=5000"`
}

// UpdateCollectionRequest replaces the descriptive fields of a collection
type UpdateCollectionRequest struct {
	Name          string `json:"name" binding:"required,min=1,max=200"`
	Slug          string `json:"slug" binding:"omitempty,slug,max=80"`
	Description   string `json:"description" binding:"max=5000"`
	CoverImageURL string `json:"cover_image_url" binding:"omitempty,url,max=500"`
}

// AddItemRequest adds a product to a collection
type AddItemRequest struct {
	ProductID     uuid.UUID        `json:"product_id" binding:"required"`
	Note          string           `json:"note" binding:"max=500"`
	PriceOverride *decimal.Decimal `json:"price_override,omitempty"`
}

// ReorderItemsRequest lists every item id in the new order
type ReorderItemsRequest struct {
	ItemIDs []uuid.UUID `json:"item_ids" binding:"required,min=1,max=500"`
}

// CollectionItemResponse is an item with its product snapshot
type CollectionItemResponse struct {
	ID            uuid.UUID        `json:"id"`
	ProductID     uuid.UUID        `json:"product_id"`
	Position      int              `json:"position"`
	Note          string           `json:"note"`
	PriceOverride *decimal.Decimal `json:"price_override,omitempty"`
	SKU           string           `json:"sku,omitempty"`
	ProductName   string           `json:"product_name,omitempty"`
	ImageURL      string           `json:"image_url,omitempty"`
	Currency      string           `json:"currency,omitempty"`
	Price         decimal.Decimal  `json:"price"`
	IsAvailable   bool             `json:"is_available"`
}

// CollectionResponse is the full collection view
type CollectionResponse struct {
	ID            uuid.UUID                `json:"id"`
	PartnerID     uuid.UUID                `json:"partner_id"`
	Name          string                   `json:"name"`
	Slug          string                   `json:"slug"`
	Description   string                   `json:"description"`
	Status        string                   `json:"status"`
	CoverImageURL string                   `json:"cover_image_url"`
	PublishedAt   *time.Time               `json:"published_at,omitempty"`
	Items         []CollectionItemResponse `json:"items"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
	Version       int                      `json:"version"`
}

// CollectionListResponse is the collection list view
type CollectionListResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Status      string     `json:"status"`
	ItemCount   int        `json:"item_count"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToCollectionResponse converts a collection, joining item products from products
func ToCollectionResponse(c *catalog.Collection, products map[uuid.UUID]*catalog.Product) CollectionResponse {
	c.SortItems()
	items := make([]CollectionItemResponse, 0, len(c.Items))
	for _, it := range c.Items {
		item := CollectionItemResponse{
			ID:            it.ID,
			ProductID:     it.ProductID,
			Position:      it.Position,
			Note:          it.Note,
			PriceOverride: it.PriceOverride,
			Price:         decimal.Zero,
		}
		if p, ok := products[it.ProductID]; ok {
			item.SKU = p.SKU
			item.ProductName = p.Name
			item.ImageURL = p.ImageURL
			item.Currency = p.Currency
			item.Price = c.PriceFor(p)
			item.IsAvailable = p.IsActive
		}
		items = append(items, item)
	}
	return CollectionResponse{
		ID:            c.ID,
		PartnerID:     c.PartnerID,
		Name:          c.Name,
		Slug:          c.Slug,
		Description:   c.Description,
		Status:        string(c.Status),
		CoverImageURL: c.CoverImageURL,
		PublishedAt:   c.PublishedAt,
		Items:         items,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
		Version:       c.Version,
	}
}

// ToCollectionListResponse converts a collection to its list view
func ToCollectionListResponse(c *catalog.Collection) CollectionListResponse {
	return CollectionListResponse{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Status:      string(c.Status),
		ItemCount:   len(c.Items),
		PublishedAt: c.PublishedAt,
		CreatedAt:   c.CreatedAt,
	}
}
