package brandkit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/domain/brandkit"
	"github.com/luminform/atelier/internal/domain/shared"
	"go.uber.org/zap"
)

// ServiceConfig holds URL lifetimes and the logo size limit
type ServiceConfig struct {
	UploadURLTTL   time.Duration
	DownloadURLTTL time.Duration
	MaxLogoBytes   int64
}

// DefaultServiceConfig returns default configuration
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		UploadURLTTL:   15 * time.Minute,
		DownloadURLTTL: time.Hour,
		MaxLogoBytes:   2 << 20,
	}
}

// Service manages partner brand kits and their logos
type Service struct {
	repo    brandkit.Repository
	storage ObjectStorage
	config  ServiceConfig
	logger  *zap.Logger
}

// NewService creates a new brand kit service
func NewService(repo brandkit.Repository, storage ObjectStorage, config ServiceConfig, logger *zap.Logger) *Service {
	defaults := DefaultServiceConfig()
	if config.UploadURLTTL <= 0 {
		config.UploadURLTTL = defaults.UploadURLTTL
	}
	if config.DownloadURLTTL <= 0 {
		config.DownloadURLTTL = defaults.DownloadURLTTL
	}
	if config.MaxLogoBytes <= 0 {
		config.MaxLogoBytes = defaults.MaxLogoBytes
	}
	return &Service{repo: repo, storage: storage, config: config, logger: logger}
}

// Get returns the partner's brand kit, or the default style when none is saved
func (s *Service) Get(ctx context.Context, partnerID uuid.UUID) (*BrandKitResponse, error) {
	kit, err := s.find(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	resp := toResponse(partnerID, kit, s.logoURL(ctx, kit))
	return &resp, nil
}

// Upsert creates or replaces the partner's brand kit style
func (s *Service) Upsert(ctx context.Context, partnerID uuid.UUID, req UpdateBrandKitRequest) (*BrandKitResponse, error) {
	kit, err := s.findOrNew(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	if err := kit.ApplyStyle(brandkit.Style{
		PrimaryColor:   req.PrimaryColor,
		SecondaryColor: req.SecondaryColor,
		AccentColor:    req.AccentColor,
		HeadingFont:    req.HeadingFont,
		BodyFont:       req.BodyFont,
		Tagline:        req.Tagline,
	}); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, kit); err != nil {
		return nil, err
	}

	s.logger.Info("Brand kit saved", zap.String("partner_id", partnerID.String()))
	resp := toResponse(partnerID, kit, s.logoURL(ctx, kit))
	return &resp, nil
}

// CreateLogoUploadURL presigns a PUT for a new logo object. The logo is not
// attached until ConfirmLogo succeeds.
func (s *Service) CreateLogoUploadURL(ctx context.Context, partnerID uuid.UUID, req LogoUploadRequest) (*LogoUploadResponse, error) {
	key, contentType, err := brandkit.NewLogoKey(partnerID, req.Filename)
	if err != nil {
		return nil, err
	}
	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, contentType, s.config.UploadURLTTL)
	if err != nil {
		return nil, err
	}
	return &LogoUploadResponse{
		UploadURL:   url,
		Key:         key,
		ContentType: contentType,
		MaxBytes:    s.config.MaxLogoBytes,
		ExpiresAt:   expiresAt,
	}, nil
}

// ConfirmLogo checks the uploaded object and stores its key. A replaced logo
// object is deleted.
func (s *Service) ConfirmLogo(ctx context.Context, partnerID uuid.UUID, req ConfirmLogoRequest) (*BrandKitResponse, error) {
	if !brandkit.IsLogoKeyFor(partnerID, req.Key) {
		return nil, shared.NewDomainError("INVALID_LOGO_KEY", "Logo key does not belong to this partner")
	}

	info, err := s.storage.StatObject(ctx, req.Key)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return nil, shared.NewDomainError("LOGO_NOT_UPLOADED", "Logo has not been uploaded yet")
		}
		return nil, err
	}
	if info.Size > s.config.MaxLogoBytes {
		s.deleteObject(ctx, req.Key)
		return nil, shared.NewDomainError("LOGO_TOO_LARGE", "Logo exceeds the maximum size")
	}
	if info.ContentType != "" && !isLogoContentType(info.ContentType) {
		s.deleteObject(ctx, req.Key)
		return nil, shared.NewDomainError("INVALID_FILE_TYPE", "Logo must be png, jpg, jpeg, svg or webp")
	}

	kit, err := s.findOrNew(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	previous := kit.LogoKey
	if err := kit.SetLogo(req.Key); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, kit); err != nil {
		return nil, err
	}
	if previous != "" && previous != req.Key {
		s.deleteObject(ctx, previous)
	}

	s.logger.Info("Brand kit logo updated",
		zap.String("partner_id", partnerID.String()),
		zap.String("key", req.Key))
	resp := toResponse(partnerID, kit, s.logoURL(ctx, kit))
	return &resp, nil
}

// Appearance resolves the style and a presigned logo URL for rendering
func (s *Service) Appearance(ctx context.Context, partnerID uuid.UUID) (*Appearance, error) {
	kit, err := s.find(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	if kit == nil {
		return &Appearance{Style: brandkit.DefaultStyle()}, nil
	}
	return &Appearance{Style: kit.Style(), LogoURL: s.logoURL(ctx, kit)}, nil
}

// find returns nil without error when the partner has no kit yet
func (s *Service) find(ctx context.Context, partnerID uuid.UUID) (*brandkit.BrandKit, error) {
	kit, err := s.repo.FindByPartner(ctx, partnerID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	return kit, err
}

func (s *Service) findOrNew(ctx context.Context, partnerID uuid.UUID) (*brandkit.BrandKit, error) {
	kit, err := s.find(ctx, partnerID)
	if err != nil || kit != nil {
		return kit, err
	}
	return brandkit.New(partnerID)
}

func (s *Service) logoURL(ctx context.Context, kit *brandkit.BrandKit) string {
	if kit == nil || kit.LogoKey == "" {
		return ""
	}
	url, _, err := s.storage.GenerateDownloadURL(ctx, kit.LogoKey, s.config.DownloadURLTTL)
	if err != nil {
		s.logger.Warn("Failed to presign logo URL", zap.String("key", kit.LogoKey), zap.Error(err))
		return ""
	}
	return url
}

func (s *Service) deleteObject(ctx context.Context, key string) {
	if err := s.storage.DeleteObject(ctx, key); err != nil {
		s.logger.Warn("Failed to delete logo object", zap.String("key", key), zap.Error(err))
	}
}

func isLogoContentType(contentType string) bool {
	for _, ct := range brandkit.LogoContentTypes {
		if ct == contentType {
			return true
		}
	}
	return false
}
