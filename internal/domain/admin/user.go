package admin

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/domain/shared"
)

// User is a platform operator with role-scoped access to every tenant
type User struct {
	shared.BaseAggregateRoot
	Email        string `gorm:"type:varchar(254);not null;uniqueIndex"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	DisplayName  string `gorm:"type:varchar(100);not null"`
	Role         Role   `gorm:"type:varchar(30);not null;index"`
	IsActive     bool   `gorm:"not null;default:true"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "admin_users"
}

// NewUser creates an active admin user
func NewUser(email, password, displayName string, role Role) (*User, error) {
	email = shared.NormalizeEmail(email)
	if !shared.IsEmail(email) {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Invalid email address")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown admin role")
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, shared.InvalidInput("Display name is required")
	}
	if len(displayName) > 100 {
		return nil, shared.InvalidInput("Display name cannot exceed 100 characters")
	}
	hash, err := shared.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		PasswordHash:      hash,
		DisplayName:       displayName,
		Role:              role,
		IsActive:          true,
	}, nil
}

// VerifyPassword reports whether password matches the stored hash
func (u *User) VerifyPassword(password string) bool {
	return shared.CheckPassword(u.PasswordHash, password)
}

// Can reports whether the admin may use perm. Inactive admins hold nothing.
func (u *User) Can(perm Permission) bool {
	return u.IsActive && u.Role.Has(perm)
}

// IsSuperAdmin reports whether the admin is an active super admin
func (u *User) IsSuperAdmin() bool {
	return u.IsActive && u.Role == RoleSuperAdmin
}

// SetDisplayName renames the admin
func (u *User) SetDisplayName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return shared.InvalidInput("Display name must be 1-100 characters")
	}
	u.DisplayName = name
	u.MarkChanged()
	return nil
}

// ChangeRole moves the admin to another role.
// activeSuperAdmins is the current number of active super admins.
func (u *User) ChangeRole(role Role, activeSuperAdmins int64) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Unknown admin role")
	}
	if u.IsSuperAdmin() && role != RoleSuperAdmin && activeSuperAdmins <= 1 {
		return shared.InvalidState("The last active super admin cannot be demoted")
	}
	u.Role = role
	u.MarkChanged()
	return nil
}

// Deactivate blocks the admin from the back-office.
// actorID is the admin performing the change.
func (u *User) Deactivate(actorID uuid.UUID, activeSuperAdmins int64) error {
	if u.ID == actorID {
		return shared.InvalidState("You cannot deactivate your own account")
	}
	if !u.IsActive {
		return shared.InvalidState("Admin user is already inactive")
	}
	if u.IsSuperAdmin() && activeSuperAdmins <= 1 {
		return shared.InvalidState("The last active super admin cannot be deactivated")
	}
	u.IsActive = false
	u.MarkChanged()
	return nil
}

// Reactivate restores access for an inactive admin
func (u *User) Reactivate() error {
	if u.IsActive {
		return shared.InvalidState("Admin user is already active")
	}
	u.IsActive = true
	u.MarkChanged()
	return nil
}

// ChangePassword replaces the password after verifying the current one
func (u *User) ChangePassword(current, next string) error {
	if !u.VerifyPassword(current) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	hash, err := shared.HashPassword(next)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.MarkChanged()
	return nil
}

// RecordLogin stamps the last successful sign-in
func (u *User) RecordLogin(now time.Time) {
	t := now.UTC()
	u.LastLoginAt = &t
	u.Touch()
}
