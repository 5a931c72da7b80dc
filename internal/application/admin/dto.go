package admin

import (
	"time"

	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/domain/admin"
)

// CreateUserRequest creates an admin user
type CreateUserRequest struct {
	Email       string `json:"email" binding:"required,email,max=254"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	DisplayName string `json:"display_name" binding:"required,min=1,max=100"`
	Role        string `json:"role" binding:"required,oneof=super_admin operations support finance"`
}

// UpdateUserRequest changes the role or name of an admin user
type UpdateUserRequest struct {
	DisplayName *string `json:"display_name,omitempty" binding:"omitempty,min=1,max=100"`
	Role        *string `json:"role,omitempty" binding:"omitempty,oneof=super_admin operations support finance"`
}

// UserResponse is the admin user view
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	Role        string     `json:"role"`
	Permissions []string   `json:"permissions"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToUserResponse converts an admin user to its response
func ToUserResponse(u *admin.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        string(u.Role),
		Permissions: u.Role.PermissionStrings(),
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// AuditLogResponse is an audit row
type AuditLogResponse struct {
	ID          uuid.UUID      `json:"id"`
	AdminUserID uuid.UUID      `json:"admin_user_id"`
	Action      string         `json:"action"`
	TargetType  string         `json:"target_type"`
	TargetID    *uuid.UUID     `json:"target_id,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	IPAddress   string         `json:"ip_address"`
	UserAgent   string         `json:"user_agent"`
	CreatedAt   time.Time      `json:"created_at"`
}

// ToAuditLogResponse converts an audit row
func ToAuditLogResponse(l *admin.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:          l.ID,
		AdminUserID: l.AdminUserID,
		Action:      l.Action,
		TargetType:  l.TargetType,
		TargetID:    l.TargetID,
		Metadata:    l.Metadata,
		IPAddress:   l.IPAddress,
		UserAgent:   l.UserAgent,
		CreatedAt:   l.CreatedAt,
	}
}
