package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/domain/partner"
)

// RegisterPartnerRequest signs up a partner together with its owner login
type RegisterPartnerRequest struct {
	Name         string `json:"name" binding:"required,min=2,max=200"`
	Slug         string `json:"slug" binding:"omitempty,slug,max=80"`
	BusinessType string `json:"business_type" binding:"required,oneof=planner venue florist photographer caterer other"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email,max=254"`
	OwnerEmail   string `json:"owner_email" binding:"required,email,max=254"`
	OwnerName    string `json:"owner_name" binding:"max=100"`
	Password     string `json:"password" binding:"required,min=8,max=72"`
}

// UpdateProfileRequest is a partial profile update made by the partner
type UpdateProfileRequest struct {
	Name         *string `json:"name,omitempty" binding:"omitempty,min=2,max=200"`
	BusinessType *string `json:"business_type,omitempty" binding:"omitempty,oneof=planner venue florist photographer caterer other"`
	ContactEmail *string `json:"contact_email,omitempty" binding:"omitempty,email,max=254"`
	Phone        *string `json:"phone,omitempty" binding:"omitempty,max=50"`
	Website      *string `json:"website,omitempty" binding:"omitempty,max=500"`
	City         *string `json:"city,omitempty" binding:"omitempty,max=100"`
	Country      *string `json:"country,omitempty" binding:"omitempty,max=100"`
}

// AdminUpdatePartnerRequest lets operators edit the profile and internal notes
type AdminUpdatePartnerRequest struct {
	UpdateProfileRequest
	Notes *string `json:"notes,omitempty" binding:"omitempty,max=5000"`
}

// TransitionRequest carries the reason for a suspension
type TransitionRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// PartnerResponse is the partner view
type PartnerResponse struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	Slug            string     `json:"slug"`
	BusinessType    string     `json:"business_type"`
	Status          string     `json:"status"`
	ContactEmail    string     `json:"contact_email"`
	Phone           string     `json:"phone"`
	Website         string     `json:"website"`
	City            string     `json:"city"`
	Country         string     `json:"country"`
	SuspendedReason string     `json:"suspended_reason,omitempty"`
	ActivatedAt     *time.Time `json:"activated_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	Version         int        `json:"version"`
}

// AdminPartnerResponse adds operator-only fields
type AdminPartnerResponse struct {
	PartnerResponse
	Notes string         `json:"notes"`
	Users []UserResponse `json:"users,omitempty"`
}

// UserResponse is a partner login view
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	PartnerID   uuid.UUID  `json:"partner_id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// RegistrationResponse is returned after signup
type RegistrationResponse struct {
	Partner PartnerResponse `json:"partner"`
	Owner   UserResponse    `json:"owner"`
}

// ToPartnerResponse converts a domain partner to its response
func ToPartnerResponse(p *partner.Partner) PartnerResponse {
	return PartnerResponse{
		ID:              p.ID,
		Name:            p.Name,
		Slug:            p.Slug,
		BusinessType:    string(p.BusinessType),
		Status:          string(p.Status),
		ContactEmail:    p.ContactEmail,
		Phone:           p.Phone,
		Website:         p.Website,
		City:            p.City,
		Country:         p.Country,
		SuspendedReason: p.SuspendedReason,
		ActivatedAt:     p.ActivatedAt,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
		Version:         p.Version,
	}
}

// ToAdminPartnerResponse converts a partner and its users for operators
func ToAdminPartnerResponse(p *partner.Partner, users []partner.User) AdminPartnerResponse {
	resp := AdminPartnerResponse{PartnerResponse: ToPartnerResponse(p), Notes: p.Notes}
	for i := range users {
		resp.Users = append(resp.Users, ToUserResponse(&users[i]))
	}
	return resp
}

// ToUserResponse converts a partner user to its response
func ToUserResponse(u *partner.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		PartnerID:   u.PartnerID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        string(u.Role),
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

func (r UpdateProfileRequest) toProfile() partner.Profile {
	profile := partner.Profile{
		Name:         r.Name,
		ContactEmail: r.ContactEmail,
		Phone:        r.Phone,
		Website:      r.Website,
		City:         r.City,
		Country:      r.Country,
	}
	if r.BusinessType != nil {
		bt := partner.BusinessType(*r.BusinessType)
		profile.BusinessType = &bt
	}
	return profile
}

func (r UpdateProfileRequest) isEmpty() bool {
	return r.Name == nil && r.BusinessType == nil && r.ContactEmail == nil &&
		r.Phone == nil && r.Website == nil && r.City == nil && r.Country == nil
}
