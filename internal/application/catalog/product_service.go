package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/domain/catalog"
	"github.com/luminform/atelier/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductService manages the platform-wide product catalog
type ProductService struct {
	repo   catalog.ProductRepository
	logger *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(repo catalog.ProductRepository, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{repo: repo, logger: logger}
}

// Create adds a product. SKUs are unique across the catalog.
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(req.SKU, req.Name, req.Category, req.BasePrice, req.Currency)
	if err != nil {
		return nil, err
	}
	exists, err := s.repo.ExistsBySKU(ctx, product.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.AlreadyExists("A product with this SKU already exists")
	}
	if req.Description != "" || req.ImageURL != "" {
		if err := product.Update(catalog.ProductUpdate{Description: &req.Description, ImageURL: &req.ImageURL}); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("Product created", zap.String("product_id", product.ID.String()), zap.String("sku", product.SKU))
	resp := ToProductResponse(product)
	return &resp, nil
}

// Update applies a partial update to a product
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := product.Update(catalog.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		BasePrice:   req.BasePrice,
		ImageURL:    req.ImageURL,
	}); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, product); err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// Activate makes a product available to partners
func (s *ProductService) Activate(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	return s.setActive(ctx, id, true)
}

// Deactivate hides a product from partners. Existing collection items keep
// their reference but new quotes and orders reject it.
func (s *ProductService) Deactivate(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	return s.setActive(ctx, id, false)
}

func (s *ProductService) setActive(ctx context.Context, id uuid.UUID, active bool) (*ProductResponse, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if active {
		product.Activate()
	} else {
		product.Deactivate()
	}
	if err := s.repo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.logger.Info("Product availability changed",
		zap.String("product_id", id.String()),
		zap.Bool("active", active))
	resp := ToProductResponse(product)
	return &resp, nil
}

// GetByID returns a product
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// List returns products for the back-office
func (s *ProductService) List(ctx context.Context, filter shared.Filter) ([]ProductResponse, int64, error) {
	products, total, err := s.repo.FindAll(ctx, filter.Normalize())
	if err != nil {
		return nil, 0, err
	}
	return toProductList(products), total, nil
}

// ListActive returns the catalog partners can pick from
func (s *ProductService) ListActive(ctx context.Context, filter shared.Filter) ([]ProductResponse, int64, error) {
	filter = filter.Normalize()
	filter.Filters["is_active"] = true
	return s.List(ctx, filter)
}

func toProductList(products []catalog.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = ToProductResponse(&products[i])
	}
	return out
}
