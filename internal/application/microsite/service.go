package microsite

import (
	"context"
	"time"

	"github.com/google/uuid"
	brandkitapp "github.com/luminform/atelier/internal/application/brandkit"
	"github.com/luminform/atelier/internal/domain/catalog"
	"github.com/luminform/atelier/internal/domain/microsite"
	"github.com/luminform/atelier/internal/domain/partner"
	"github.com/luminform/atelier/internal/domain/shared"
	"github.com/luminform/atelier/internal/infrastructure/cache"
	"github.com/luminform/atelier/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// DefaultPageTTL is how long a rendered public page is reused
const DefaultPageTTL = time.Minute

// AppearanceProvider resolves a partner's brand style for rendering
type AppearanceProvider interface {
	Appearance(ctx context.Context, partnerID uuid.UUID) (*brandkitapp.Appearance, error)
}

// ServiceDeps groups the collaborators of Service
type ServiceDeps struct {
	Microsites  microsite.Repository
	Collections catalog.CollectionRepository
	Products    catalog.ProductRepository
	Partners    partner.Repository
	Appearance  AppearanceProvider
	Publisher   shared.EventPublisher
	Metrics     *telemetry.BusinessMetrics
	Logger      *zap.Logger
	// Pages caches assembled public pages; nil renders every request
	Pages   cache.Store
	PageTTL time.Duration
}

// Service manages microsites and renders their public pages
type Service struct {
	repo        microsite.Repository
	collections catalog.CollectionRepository
	products    catalog.ProductRepository
	partners    partner.Repository
	appearance  AppearanceProvider
	publisher   shared.EventPublisher
	metrics     *telemetry.BusinessMetrics
	pages       cache.Store
	pageTTL     time.Duration
	logger      *zap.Logger
	now         func() time.Time
}

// NewService creates a new microsite service
func NewService(deps ServiceDeps) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	pageTTL := deps.PageTTL
	if pageTTL <= 0 {
		pageTTL = DefaultPageTTL
	}
	return &Service{
		repo:        deps.Microsites,
		collections: deps.Collections,
		products:    deps.Products,
		partners:    deps.Partners,
		appearance:  deps.Appearance,
		publisher:   deps.Publisher,
		metrics:     deps.Metrics,
		pages:       deps.Pages,
		pageTTL:     pageTTL,
		logger:      logger,
		now:         time.Now,
	}
}

// Create creates a draft microsite for one of the partner's collections
func (s *Service) Create(ctx context.Context, partnerID, userID uuid.UUID, req CreateMicrositeRequest) (*MicrositeResponse, error) {
	if _, err := s.collections.FindByIDForPartner(ctx, partnerID, req.CollectionID); err != nil {
		return nil, err
	}
	site, err := microsite.NewMicrosite(partnerID, req.CollectionID, req.Slug, microsite.Content{
		Title:        req.Title,
		Headline:     req.Headline,
		Description:  req.Description,
		HeroImageURL: req.HeroImageURL,
	})
	if err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, site.Slug, uuid.Nil); err != nil {
		return nil, err
	}
	site.SetCreatedBy(userID)
	if err := s.repo.Save(ctx, site); err != nil {
		return nil, err
	}

	s.logger.Info("Microsite created",
		zap.String("partner_id", partnerID.String()),
		zap.String("microsite_id", site.ID.String()),
		zap.String("slug", site.Slug))
	resp := ToMicrositeResponse(site)
	return &resp, nil
}

// Update replaces content, slug or source collection. A published microsite
// can only switch to another published collection.
func (s *Service) Update(ctx context.Context, partnerID, id uuid.UUID, req UpdateMicrositeRequest) (*MicrositeResponse, error) {
	site, err := s.repo.FindByIDForPartner(ctx, partnerID, id)
	if err != nil {
		return nil, err
	}
	oldSlug := site.Slug
	collectionID := uuid.Nil
	if req.CollectionID != nil && *req.CollectionID != site.CollectionID {
		collection, err := s.collections.FindByIDForPartner(ctx, partnerID, *req.CollectionID)
		if err != nil {
			return nil, err
		}
		if site.IsPublic() && !collection.IsPublished() {
			return nil, shared.InvalidState("A published microsite needs a published collection")
		}
		collectionID = collection.ID
	}
	if err := site.Update(req.Slug, collectionID, microsite.Content{
		Title:        req.Title,
		Headline:     req.Headline,
		Description:  req.Description,
		HeroImageURL: req.HeroImageURL,
	}); err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, site.Slug, site.ID); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, site); err != nil {
		return nil, err
	}
	s.forgetPage(ctx, oldSlug, site.Slug)
	resp := ToMicrositeResponse(site)
	return &resp, nil
}

// GetByID returns one of the partner's microsites
func (s *Service) GetByID(ctx context.Context, partnerID, id uuid.UUID) (*MicrositeResponse, error) {
	site, err := s.repo.FindByIDForPartner(ctx, partnerID, id)
	if err != nil {
		return nil, err
	}
	resp := ToMicrositeResponse(site)
	return &resp, nil
}

// List returns the partner's microsites
func (s *Service) List(ctx context.Context, partnerID uuid.UUID, filter shared.Filter) ([]MicrositeResponse, int64, error) {
	sites, total, err := s.repo.FindAllForPartner(ctx, partnerID, filter.Normalize())
	if err != nil {
		return nil, 0, err
	}
	return toList(sites), total, nil
}

// Delete removes one of the partner's microsites
func (s *Service) Delete(ctx context.Context, partnerID, id uuid.UUID) error {
	site, err := s.repo.FindByIDForPartner(ctx, partnerID, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteForPartner(ctx, partnerID, id); err != nil {
		return err
	}
	s.forgetPage(ctx, site.Slug)
	return nil
}

// Publish makes the microsite public. Its collection must be published.
func (s *Service) Publish(ctx context.Context, partnerID, id uuid.UUID) (*MicrositeResponse, error) {
	site, err := s.repo.FindByIDForPartner(ctx, partnerID, id)
	if err != nil {
		return nil, err
	}
	collection, err := s.collections.FindByIDForPartner(ctx, partnerID, site.CollectionID)
	if err != nil {
		return nil, err
	}
	if err := site.Publish(collection.IsPublished(), s.now()); err != nil {
		return nil, err
	}
	return s.save(ctx, site)
}

// Unpublish takes one of the partner's microsites offline
func (s *Service) Unpublish(ctx context.Context, partnerID, id uuid.UUID) (*MicrositeResponse, error) {
	site, err := s.repo.FindByIDForPartner(ctx, partnerID, id)
	if err != nil {
		return nil, err
	}
	if err := site.Unpublish(); err != nil {
		return nil, err
	}
	return s.save(ctx, site)
}

// AdminList returns microsites across all tenants
func (s *Service) AdminList(ctx context.Context, filter shared.Filter) ([]MicrositeResponse, int64, error) {
	sites, total, err := s.repo.FindAll(ctx, filter.Normalize())
	if err != nil {
		return nil, 0, err
	}
	return toList(sites), total, nil
}

// AdminUnpublish takes any microsite offline
func (s *Service) AdminUnpublish(ctx context.Context, id uuid.UUID) (*MicrositeResponse, error) {
	site, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := site.Unpublish(); err != nil {
		return nil, err
	}
	return s.save(ctx, site)
}

// RenderPublic assembles the public page for slug and counts the view.
// Unpublished microsites and inactive partners are reported as not found.
func (s *Service) RenderPublic(ctx context.Context, slug string) (*PublicPage, error) {
	ctx, span := telemetry.StartSpan(ctx, "microsite", "render_public")
	defer span.End()

	if cached, ok := s.cachedPage(ctx, slug); ok {
		s.countView(ctx, cached.SiteID, slug)
		return &cached.Page, nil
	}

	site, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !site.IsPublic() {
		return nil, shared.NotFound("Microsite")
	}
	p, err := s.partners.FindByID(ctx, site.PartnerID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive() {
		return nil, shared.NotFound("Microsite")
	}
	collection, err := s.collections.FindByIDForPartner(ctx, site.PartnerID, site.CollectionID)
	if err != nil {
		return nil, err
	}
	items, err := s.publicItems(ctx, collection)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	page := &PublicPage{
		Slug:         site.Slug,
		Title:        site.Title,
		Headline:     site.Headline,
		Description:  site.Description,
		HeroImageURL: site.HeroImageURL,
		PartnerName:  p.Name,
		PartnerEmail: p.ContactEmail,
		PartnerSite:  p.Website,
		Collection:   collection.Name,
		Items:        items,
	}
	if s.appearance != nil {
		appearance, err := s.appearance.Appearance(ctx, site.PartnerID)
		if err != nil {
			s.logger.Warn("Falling back to default appearance", zap.String("slug", slug), zap.Error(err))
		} else {
			page.Appearance = *appearance
		}
	}

	if s.pages != nil {
		entry := cachedPage{SiteID: site.ID, Page: *page}
		if err := cache.SetJSON(ctx, s.pages, pageKey(slug), entry, s.pageTTL); err != nil {
			s.logger.Warn("Failed to cache microsite page", zap.String("slug", slug), zap.Error(err))
		}
	}
	s.countView(ctx, site.ID, slug)
	return page, nil
}

// cachedPage keeps the site id next to the page so cached hits still count
type cachedPage struct {
	SiteID uuid.UUID  `json:"site_id"`
	Page   PublicPage `json:"page"`
}

func pageKey(slug string) string {
	return "page:" + slug
}

func (s *Service) cachedPage(ctx context.Context, slug string) (cachedPage, bool) {
	if s.pages == nil {
		return cachedPage{}, false
	}
	entry, ok, err := cache.GetJSON[cachedPage](ctx, s.pages, pageKey(slug))
	if err != nil {
		s.logger.Warn("Failed to read cached microsite page", zap.String("slug", slug), zap.Error(err))
		return cachedPage{}, false
	}
	return entry, ok
}

// forgetPage drops cached pages so status and content changes show at once
func (s *Service) forgetPage(ctx context.Context, slugs ...string) {
	if s.pages == nil {
		return
	}
	keys := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		keys = append(keys, pageKey(slug))
	}
	if err := s.pages.Delete(ctx, keys...); err != nil {
		s.logger.Warn("Failed to drop cached microsite page", zap.Strings("slugs", slugs), zap.Error(err))
	}
}

func (s *Service) countView(ctx context.Context, siteID uuid.UUID, slug string) {
	if err := s.repo.IncrementViews(ctx, siteID); err != nil {
		s.logger.Warn("Failed to count microsite view", zap.String("slug", slug), zap.Error(err))
	}
	s.metrics.MicrositeViewed(ctx, slug)
}

// publicItems lists active products in position order with effective prices
func (s *Service) publicItems(ctx context.Context, collection *catalog.Collection) ([]PublicItem, error) {
	ids := collection.ProductIDs()
	if len(ids) == 0 {
		return nil, nil
	}
	found, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(found))
	for i := range found {
		byID[found[i].ID] = &found[i]
	}
	items := make([]PublicItem, 0, len(collection.Items))
	for _, it := range collection.Items {
		product, ok := byID[it.ProductID]
		if !ok || !product.IsActive {
			continue
		}
		items = append(items, PublicItem{
			Name:        product.Name,
			Description: product.Description,
			ImageURL:    product.ImageURL,
			Note:        it.Note,
			Price:       collection.PriceFor(product),
			Currency:    product.Currency,
		})
	}
	return items, nil
}

func (s *Service) save(ctx context.Context, site *microsite.Microsite) (*MicrositeResponse, error) {
	if err := s.repo.Save(ctx, site); err != nil {
		return nil, err
	}
	s.forgetPage(ctx, site.Slug)
	events := site.GetDomainEvents()
	site.ClearDomainEvents()
	if len(events) > 0 && s.publisher != nil {
		if err := s.publisher.Publish(ctx, events...); err != nil {
			s.logger.Warn("Failed to publish domain events", zap.Int("count", len(events)), zap.Error(err))
		}
	}
	s.logger.Info("Microsite status changed",
		zap.String("microsite_id", site.ID.String()),
		zap.String("status", string(site.Status)))
	resp := ToMicrositeResponse(site)
	return &resp, nil
}

func (s *Service) ensureSlugFree(ctx context.Context, slug string, excludeID uuid.UUID) error {
	exists, err := s.repo.ExistsBySlug(ctx, slug, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.AlreadyExists("A microsite with this slug already exists")
	}
	return nil
}

func toList(sites []microsite.Microsite) []MicrositeResponse {
	out := make([]MicrositeResponse, len(sites))
	for i := range sites {
		out[i] = ToMicrositeResponse(&sites[i])
	}
	return out
}
