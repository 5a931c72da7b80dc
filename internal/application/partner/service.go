package partner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/domain/partner"
	"github.com/luminform/atelier/internal/domain/shared"
	"go.uber.org/zap"
)

// Transactor runs fn inside a single database transaction
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// NoOpTransactor runs fn directly. Useful for tests.
type NoOpTransactor struct{}

// WithinTransaction runs fn without a transaction
func (NoOpTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// SessionRevoker invalidates every token issued to a user before now
type SessionRevoker interface {
	RevokeUser(ctx context.Context, userID string, ttl time.Duration) error
}

// Service handles partner registration, profiles and back-office management
type Service struct {
	repo      partner.Repository
	userRepo  partner.UserRepository
	tx        Transactor
	publisher shared.EventPublisher
	revoker   SessionRevoker
	revokeTTL time.Duration
	logger    *zap.Logger
}

// NewService creates a new partner service. revokeTTL should match the
// refresh token lifetime so revocations outlive every issued token.
func NewService(
	repo partner.Repository,
	userRepo partner.UserRepository,
	tx Transactor,
	publisher shared.EventPublisher,
	revoker SessionRevoker,
	revokeTTL time.Duration,
	logger *zap.Logger,
) *Service {
	if tx == nil {
		tx = NoOpTransactor{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:      repo,
		userRepo:  userRepo,
		tx:        tx,
		publisher: publisher,
		revoker:   revoker,
		revokeTTL: revokeTTL,
		logger:    logger,
	}
}

// Register creates a pending partner and its owner user in one transaction
func (s *Service) Register(ctx context.Context, req RegisterPartnerRequest) (*RegistrationResponse, error) {
	contactEmail := req.ContactEmail
	if contactEmail == "" {
		contactEmail = req.OwnerEmail
	}
	p, err := partner.NewPartner(req.Name, req.Slug, partner.BusinessType(req.BusinessType), contactEmail)
	if err != nil {
		return nil, err
	}
	owner, err := partner.NewUser(p.ID, req.OwnerEmail, req.Password, req.OwnerName, partner.UserRoleOwner)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.repo.ExistsBySlug(ctx, p.Slug)
		if err != nil {
			return err
		}
		if exists {
			return shared.AlreadyExists("A partner with this slug already exists")
		}
		exists, err = s.userRepo.ExistsByEmail(ctx, owner.Email)
		if err != nil {
			return err
		}
		if exists {
			return shared.AlreadyExists("An account with this email already exists")
		}
		if err := s.repo.Save(ctx, p); err != nil {
			return err
		}
		return s.userRepo.Save(ctx, owner)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, p)
	s.logger.Info("Partner registered",
		zap.String("partner_id", p.ID.String()),
		zap.String("slug", p.Slug),
		zap.String("business_type", string(p.BusinessType)))
	return &RegistrationResponse{Partner: ToPartnerResponse(p), Owner: ToUserResponse(owner)}, nil
}

// GetProfile returns the partner's own profile
func (s *Service) GetProfile(ctx context.Context, partnerID uuid.UUID) (*PartnerResponse, error) {
	p, err := s.repo.FindByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	resp := ToPartnerResponse(p)
	return &resp, nil
}

// UpdateProfile applies a partial profile update made by the partner
func (s *Service) UpdateProfile(ctx context.Context, partnerID uuid.UUID, req UpdateProfileRequest) (*PartnerResponse, error) {
	p, err := s.repo.FindByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	if err := p.UpdateProfile(req.toProfile()); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	resp := ToPartnerResponse(p)
	return &resp, nil
}

// List returns partners across all tenants
func (s *Service) List(ctx context.Context, filter shared.Filter) ([]PartnerResponse, int64, error) {
	partners, total, err := s.repo.FindAll(ctx, filter.Normalize())
	if err != nil {
		return nil, 0, err
	}
	out := make([]PartnerResponse, len(partners))
	for i := range partners {
		out[i] = ToPartnerResponse(&partners[i])
	}
	return out, total, nil
}

// AdminGet returns a partner with notes and users
func (s *Service) AdminGet(ctx context.Context, id uuid.UUID) (*AdminPartnerResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.FindByPartner(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToAdminPartnerResponse(p, users)
	return &resp, nil
}

// AdminUpdate edits the profile and internal notes of any partner
func (s *Service) AdminUpdate(ctx context.Context, id uuid.UUID, req AdminUpdatePartnerRequest) (*AdminPartnerResponse, error) {
	if req.Notes == nil && req.isEmpty() {
		return nil, shared.InvalidInput("Nothing to update")
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !req.isEmpty() {
		if err := p.UpdateProfile(req.toProfile()); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		p.SetNotes(*req.Notes)
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	resp := ToAdminPartnerResponse(p, nil)
	return &resp, nil
}

// Transition moves a partner to target and returns the previous status.
// When allowedFrom is given the current status must be one of them.
// Suspending or archiving revokes every session of the partner's users.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, target partner.Status, reason string, allowedFrom ...partner.Status) (*AdminPartnerResponse, partner.Status, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	from := p.Status
	if from == target {
		return nil, from, shared.InvalidState("Partner is already " + string(target))
	}
	if len(allowedFrom) > 0 && !shared.IsOneOf(from, allowedFrom...) {
		return nil, from, shared.InvalidState("Partner cannot move from " + string(from) + " to " + string(target))
	}
	if err := p.TransitionTo(target, reason); err != nil {
		return nil, from, err
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, from, err
	}
	s.publish(ctx, p)

	if !p.CanSignIn() {
		s.revokeSessions(ctx, p.ID)
	}
	s.logger.Info("Partner status changed",
		zap.String("partner_id", p.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(p.Status)))
	resp := ToAdminPartnerResponse(p, nil)
	return &resp, from, nil
}

func (s *Service) revokeSessions(ctx context.Context, partnerID uuid.UUID) {
	if s.revoker == nil {
		return
	}
	users, err := s.userRepo.FindByPartner(ctx, partnerID)
	if err != nil {
		s.logger.Warn("Failed to load partner users for revocation",
			zap.String("partner_id", partnerID.String()), zap.Error(err))
		return
	}
	for _, u := range users {
		if err := s.revoker.RevokeUser(ctx, u.ID.String(), s.revokeTTL); err != nil {
			s.logger.Warn("Failed to revoke user sessions",
				zap.String("user_id", u.ID.String()), zap.Error(err))
		}
	}
	s.logger.Debug("Revoked partner sessions",
		zap.String("partner_id", partnerID.String()),
		zap.Int("users", len(users)))
}

func (s *Service) publish(ctx context.Context, p *partner.Partner) {
	events := p.GetDomainEvents()
	p.ClearDomainEvents()
	if len(events) == 0 || s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish domain events", zap.Int("count", len(events)), zap.Error(err))
	}
}
