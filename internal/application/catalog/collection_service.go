package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/domain/catalog"
	"github.com/luminform/atelier/internal/domain/shared"
	"go.uber.org/zap"
)

// MicrositeUsage reports how many published microsites show a collection
type MicrositeUsage interface {
	CountPublishedByCollection(ctx context.Context, collectionID uuid.UUID) (int64, error)
}

// ErrCollectionInUse is returned when a published microsite still shows the collection
var ErrCollectionInUse = shared.NewDomainError("COLLECTION_IN_USE", "Collection is shown by a published microsite")

// CollectionService manages partner collections and their items
type CollectionService struct {
	repo        catalog.CollectionRepository
	productRepo catalog.ProductRepository
	microsites  MicrositeUsage
	publisher   shared.EventPublisher
	logger      *zap.Logger
}

// NewCollectionService creates a new collection service
func NewCollectionService(
	repo catalog.CollectionRepository,
	productRepo catalog.ProductRepository,
	microsites MicrositeUsage,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *CollectionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CollectionService{
		repo:        repo,
		productRepo: productRepo,
		microsites:  microsites,
		publisher:   publisher,
		logger:      logger,
	}
}

// Create creates a draft collection
func (s *CollectionService) Create(ctx context.Context, partnerID, userID uuid.UUID, req CreateCollectionRequest) (*CollectionResponse, error) {
	collection, err := catalog.NewCollection(partnerID, req.Name, req.Slug, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, partnerID, collection.Slug, uuid.Nil); err != nil {
		return nil, err
	}
	collection.SetCreatedBy(userID)
	if err := s.repo.Save(ctx, collection); err != nil {
		return nil, err
	}

	s.logger.Info("Collection created",
		zap.String("partner_id", partnerID.String()),
		zap.String("collection_id", collection.ID.String()))
	return s.respond(ctx, collection)
}

// Update changes the descriptive fields of a collection
func (s *CollectionService) Update(ctx context.Context, partnerID, id uuid.UUID, req UpdateCollectionRequest) (*CollectionResponse, error) {
	collection, err := s.repo.FindByIDForPartner(ctx, partnerID, id)
	if err != nil {
		return nil, err
	}
	if err := collection.Update(req.Name, req.Slug, req.Description, req.CoverImageURL); err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, partnerID, collection.Slug, collection.ID); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, collection); err != nil {
		return nil, err
	}
	return s.respond(ctx, collection)
}

// GetByID returns a collection with its items
func (s *CollectionService) GetByID(ctx context.Context, partnerID, id uuid.UUID) (*CollectionResponse, error) {
	collection, err := s.repo.FindByIDForPartner(ctx, partnerID, id)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, collection)
}

// List returns the partner's collections
func (s *CollectionService) List(ctx context.Context, partnerID uuid.UUID, filter shared.Filter) ([]CollectionListResponse, int64, error) {
	collections, total, err := s.repo.FindAllForPartner(ctx, partnerID, filter.Normalize())
	if err != nil {
		return nil, 0, err
	}
	out := make([]CollectionListResponse, len(collections))
	for i := range collections {
		out[i] = ToCollectionListResponse(&collections[i])
	}
	return out, total, nil
}

// Delete removes a collection unless a published microsite shows it
func (s *CollectionService) Delete(ctx context.Context, partnerID, id uuid.UUID) error {
	collection, err := s.repo.FindByIDForPartner(ctx, partnerID, id)
	if err != nil {
		return err
	}
	if err := s.ensureUnused(ctx, collection.ID); err != nil {
		return err
	}
	if err := s.repo.DeleteForPartner(ctx, partnerID, id); err != nil {
		return err
	}
	s.logger.Info("Collection deleted",
		zap.String("partner_id", partnerID.String()),
		zap.String("collection_id", id.String()))
	return nil
}

// AddItem adds an active catalog product to the collection
func (s *CollectionService) AddItem(ctx context.Context, partnerID, id uuid.UUID, req AddItemRequest) (*CollectionResponse, error) {
	collection, err := s.repo.FindByIDForPartner(ctx, partnerID, id)
	if err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if _, err := collection.AddItem(product, req.Note, req.PriceOverride); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, collection); err != nil {
		return nil, err
	}
	return s.respond(ctx, collection)
}

// RemoveItem removes an item from the collection
func (s *CollectionService) RemoveItem(ctx context.Context, partnerID, id, itemID uuid.UUID) (*CollectionResponse, error) {
	return s.mutate(ctx, partnerID, id, func(c *catalog.Collection) error {
		return c.RemoveItem(itemID)
	})
}

// ReorderItems rewrites item positions in the given order
func (s *CollectionService) ReorderItems(ctx context.Context, partnerID, id uuid.UUID, req ReorderItemsRequest) (*CollectionResponse, error) {
	return s.mutate(ctx, partnerID, id, func(c *catalog.Collection) error {
		return c.Reorder(req.ItemIDs)
	})
}

// Publish makes the collection available to microsites
func (s *CollectionService) Publish(ctx context.Context, partnerID, id uuid.UUID) (*CollectionResponse, error) {
	return s.mutate(ctx, partnerID, id, (*catalog.Collection).Publish)
}

// Archive retires the collection unless a published microsite shows it
func (s *CollectionService) Archive(ctx context.Context, partnerID, id uuid.UUID) (*CollectionResponse, error) {
	return s.mutate(ctx, partnerID, id, func(c *catalog.Collection) error {
		if err := s.ensureUnused(ctx, c.ID); err != nil {
			return err
		}
		return c.Archive()
	})
}

func (s *CollectionService) mutate(ctx context.Context, partnerID, id uuid.UUID, fn func(*catalog.Collection) error) (*CollectionResponse, error) {
	collection, err := s.repo.FindByIDForPartner(ctx, partnerID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(collection); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, collection); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.publisher, s.logger, collection)
	return s.respond(ctx, collection)
}

func (s *CollectionService) ensureSlugFree(ctx context.Context, partnerID uuid.UUID, slug string, excludeID uuid.UUID) error {
	exists, err := s.repo.ExistsBySlug(ctx, partnerID, slug, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.AlreadyExists("A collection with this slug already exists")
	}
	return nil
}

func (s *CollectionService) ensureUnused(ctx context.Context, collectionID uuid.UUID) error {
	if s.microsites == nil {
		return nil
	}
	n, err := s.microsites.CountPublishedByCollection(ctx, collectionID)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrCollectionInUse
	}
	return nil
}

// respond joins item products so responses carry names and effective prices
func (s *CollectionService) respond(ctx context.Context, c *catalog.Collection) (*CollectionResponse, error) {
	products := make(map[uuid.UUID]*catalog.Product, len(c.Items))
	if ids := c.ProductIDs(); len(ids) > 0 {
		found, err := s.productRepo.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for i := range found {
			products[found[i].ID] = &found[i]
		}
	}
	resp := ToCollectionResponse(c, products)
	return &resp, nil
}
