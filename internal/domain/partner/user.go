package partner

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/domain/shared"
)

// UserRole is a partner user's role inside their own account
type UserRole string

const (
	UserRoleOwner  UserRole = "owner"
	UserRoleMember UserRole = "member"
)

// User is a login belonging to a partner
type User struct {
	shared.BaseEntity
	PartnerID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Email        string    `gorm:"type:varchar(254);not null;uniqueIndex"`
	PasswordHash string    `gorm:"type:varchar(100);not null"`
	DisplayName  string    `gorm:"type:varchar(100)"`
	Role         UserRole  `gorm:"type:varchar(20);not null"`
	IsActive     bool      `gorm:"not null;default:true"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "partner_users"
}

// NewUser creates an active partner user with a hashed password
func NewUser(partnerID uuid.UUID, email, password, displayName string, role UserRole) (*User, error) {
	if partnerID == uuid.Nil {
		return nil, shared.InvalidInput("Partner ID is required")
	}
	email = shared.NormalizeEmail(email)
	if !shared.IsEmail(email) {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Invalid email address")
	}
	if role != UserRoleOwner && role != UserRoleMember {
		return nil, shared.NewDomainError("INVALID_ROLE", "Role must be owner or member")
	}
	hash, err := shared.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return &User{
		BaseEntity:   shared.NewBaseEntity(),
		PartnerID:    partnerID,
		Email:        email,
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(displayName),
		Role:         role,
		IsActive:     true,
	}, nil
}

// VerifyPassword checks a login attempt
func (u *User) VerifyPassword(password string) bool {
	return shared.CheckPassword(u.PasswordHash, password)
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
	u.Touch()
	return nil
}

// RecordLogin stamps the last successful login time
func (u *User) RecordLogin() {
	now := time.Now().UTC()
	u.LastLoginAt = &now
	u.Touch()
}

// Deactivate prevents the user from signing in
func (u *User) Deactivate() {
	u.IsActive = false
	u.Touch()
}
