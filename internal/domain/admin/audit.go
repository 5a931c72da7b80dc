package admin

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/domain/shared"
)

// Audit actions written by back-office mutations
const (
	ActionPartnerUpdate   = "partner.update"
	ActionPartnerStatus   = "partner.status"
	ActionOrderCreate     = "order.create"
	ActionOrderStatus     = "order.status"
	ActionOrderUpdate     = "order.update"
	ActionProductCreate   = "product.create"
	ActionProductUpdate   = "product.update"
	ActionProductStatus   = "product.status"
	ActionMicrositeUnpub  = "microsite.unpublish"
	ActionAdminCreate     = "admin_user.create"
	ActionAdminUpdate     = "admin_user.update"
	ActionAdminDeactivate = "admin_user.deactivate"
	ActionAdminReactivate = "admin_user.reactivate"
	ActionAdminLogin      = "admin.login"
)

// Audit target types
const (
	TargetTypePartner   = "partner"
	TargetTypeOrder     = "order"
	TargetTypeProduct   = "product"
	TargetTypeMicrosite = "microsite"
	TargetTypeAdminUser = "admin_user"
)

const maxAuditUserAgentLength = 500

// Metadata is free-form JSON attached to an audit row
type Metadata map[string]any

// Scan implements the sql.Scanner interface
func (m *Metadata) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("admin: cannot scan type %T into Metadata", value)
	}
	if len(raw) == 0 {
		*m = nil
		return nil
	}
	return json.Unmarshal(raw, m)
}

// Value implements the driver.Valuer interface
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// AuditLog is an append-only record of an admin mutation
type AuditLog struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	AdminUserID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Action      string     `gorm:"type:varchar(60);not null;index"`
	TargetType  string     `gorm:"type:varchar(40);not null;index"`
	TargetID    *uuid.UUID `gorm:"type:uuid;index"`
	Metadata    Metadata   `gorm:"type:jsonb"`
	IPAddress   string     `gorm:"type:varchar(45)"`
	UserAgent   string     `gorm:"type:varchar(500)"`
	CreatedAt   time.Time  `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (AuditLog) TableName() string {
	return "admin_audit_logs"
}

// AuditEntry carries what a mutation wants to record
type AuditEntry struct {
	Action     string
	TargetType string
	TargetID   *uuid.UUID
	Metadata   Metadata
}

// RequestInfo identifies where an admin request came from
type RequestInfo struct {
	IPAddress string
	UserAgent string
}

// NewAuditLog builds an audit row for adminID
func NewAuditLog(adminID uuid.UUID, entry AuditEntry, req RequestInfo) (*AuditLog, error) {
	if adminID == uuid.Nil {
		return nil, shared.InvalidInput("Admin user is required")
	}
	if strings.TrimSpace(entry.Action) == "" || strings.TrimSpace(entry.TargetType) == "" {
		return nil, shared.InvalidInput("Audit action and target type are required")
	}
	ua := req.UserAgent
	if len(ua) > maxAuditUserAgentLength {
		ua = ua[:maxAuditUserAgentLength]
	}
	return &AuditLog{
		ID:          uuid.New(),
		AdminUserID: adminID,
		Action:      entry.Action,
		TargetType:  entry.TargetType,
		TargetID:    entry.TargetID,
		Metadata:    entry.Metadata,
		IPAddress:   req.IPAddress,
		UserAgent:   ua,
		CreatedAt:   time.Now().UTC(),
	}, nil
}
