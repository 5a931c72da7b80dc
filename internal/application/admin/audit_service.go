package admin

import (
	"context"

	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/domain/admin"
	"github.com/luminform/atelier/internal/domain/shared"
	"go.uber.org/zap"
)

// AuditService writes and lists back-office audit rows
type AuditService struct {
	repo   admin.AuditLogRepository
	logger *zap.Logger
}

// NewAuditService creates a new audit service
func NewAuditService(repo admin.AuditLogRepository, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{repo: repo, logger: logger}
}

// Record appends an audit row. The mutation it describes has already been
// committed, so failures are logged and not returned.
func (s *AuditService) Record(ctx context.Context, adminID uuid.UUID, entry admin.AuditEntry, req admin.RequestInfo) {
	log, err := admin.NewAuditLog(adminID, entry, req)
	if err == nil {
		err = s.repo.Create(ctx, log)
	}
	if err != nil {
		s.logger.Error("Failed to write audit log",
			zap.String("admin_user_id", adminID.String()),
			zap.String("action", entry.Action),
			zap.String("target_type", entry.TargetType),
			zap.Error(err))
	}
}

// List returns audit rows, newest first
func (s *AuditService) List(ctx context.Context, filter shared.Filter) ([]AuditLogResponse, int64, error) {
	filter = filter.Normalize()
	filter.OrderBy = "created_at"
	logs, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]AuditLogResponse, len(logs))
	for i := range logs {
		out[i] = ToAuditLogResponse(&logs[i])
	}
	return out, total, nil
}
