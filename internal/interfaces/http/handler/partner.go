package handler

import (
	"github.com/gin-gonic/gin"
	adminapp "github.com/luminform/atelier/internal/application/admin"
	partnerapp "github.com/luminform/atelier/internal/application/partner"
	"github.com/luminform/atelier/internal/domain/admin"
	"github.com/luminform/atelier/internal/domain/partner"
)

// PartnerHandler handles partner signup, profile and back-office partner endpoints
type PartnerHandler struct {
	BaseHandler
	partnerService *partnerapp.Service
	auditService   *adminapp.AuditService
}

// NewPartnerHandler creates a new PartnerHandler
func NewPartnerHandler(partnerService *partnerapp.Service, auditService *adminapp.AuditService) *PartnerHandler {
	return &PartnerHandler{
		partnerService: partnerService,
		auditService:   auditService,
	}
}

// Register godoc
// @Summary      Register a partner
// @Description  Create a pending partner account together with its owner login
// @Tags         partners
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.RegisterPartnerRequest true "Partner signup"
// @Success      201 {object} APIResponse[partnerapp.RegistrationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /partners/register [post]
func (h *PartnerHandler) Register(c *gin.Context) {
	var req partnerapp.RegisterPartnerRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.partnerService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetProfile godoc
// @Summary      Get own partner profile
// @Tags         partners
// @Produce      json
// @Success      200 {object} APIResponse[partnerapp.PartnerResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /partner/profile [get]
func (h *PartnerHandler) GetProfile(c *gin.Context) {
	partnerID, _, ok := h.partnerSession(c)
	if !ok {
		return
	}
	resp, err := h.partnerService.GetProfile(c.Request.Context(), partnerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateProfile godoc
// @Summary      Update own partner profile
// @Tags         partners
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.UpdateProfileRequest true "Profile fields"
// @Success      200 {object} APIResponse[partnerapp.PartnerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /partner/profile [put]
func (h *PartnerHandler) UpdateProfile(c *gin.Context) {
	partnerID, _, ok := h.partnerSession(c)
	if !ok {
		return
	}
	var req partnerapp.UpdateProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.partnerService.UpdateProfile(c.Request.Context(), partnerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AdminList godoc
// @Summary      List partners
// @Tags         admin-partners
// @Produce      json
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Param        search query string false "Name, slug or email"
// @Param        status query string false "pending, active, suspended or archived"
// @Param        business_type query string false "Business type"
// @Param        from query string false "Created on or after (YYYY-MM-DD)"
// @Param        to query string false "Created on or before (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[[]partnerapp.PartnerResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/partners [get]
func (h *PartnerHandler) AdminList(c *gin.Context) {
	filter, ok := h.listFilter(c, "business_type")
	if !ok {
		return
	}
	items, total, err := h.partnerService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// AdminGet godoc
// @Summary      Get a partner with notes and users
// @Tags         admin-partners
// @Produce      json
// @Param        id path string true "Partner ID"
// @Success      200 {object} APIResponse[partnerapp.AdminPartnerResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/partners/{id} [get]
func (h *PartnerHandler) AdminGet(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.partnerService.AdminGet(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AdminUpdate godoc
// @Summary      Edit a partner
// @Tags         admin-partners
// @Accept       json
// @Produce      json
// @Param        id path string true "Partner ID"
// @Param        request body partnerapp.AdminUpdatePartnerRequest true "Profile fields and notes"
// @Success      200 {object} APIResponse[partnerapp.AdminPartnerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/partners/{id} [patch]
func (h *PartnerHandler) AdminUpdate(c *gin.Context) {
	actor, ok := h.currentAdmin(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req partnerapp.AdminUpdatePartnerRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.partnerService.AdminUpdate(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.auditService.Record(c.Request.Context(), actor.ID, admin.AuditEntry{
		Action:     admin.ActionPartnerUpdate,
		TargetType: admin.TargetTypePartner,
		TargetID:   &id,
		Metadata:   admin.Metadata{"notes_changed": req.Notes != nil},
	}, requestInfo(c))
	h.Success(c, resp)
}

// Activate godoc
// @Summary      Activate a pending partner
// @Tags         admin-partners
// @Produce      json
// @Param        id path string true "Partner ID"
// @Success      200 {object} APIResponse[partnerapp.AdminPartnerResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/partners/{id}/activate [post]
func (h *PartnerHandler) Activate(c *gin.Context) {
	h.transition(c, partner.StatusActive, partner.StatusPending)
}

// Suspend godoc
// @Summary      Suspend a partner
// @Description  Suspending revokes the sessions of every partner user. A reason is required.
// @Tags         admin-partners
// @Accept       json
// @Produce      json
// @Param        id path string true "Partner ID"
// @Param        request body partnerapp.TransitionRequest true "Reason"
// @Success      200 {object} APIResponse[partnerapp.AdminPartnerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/partners/{id}/suspend [post]
func (h *PartnerHandler) Suspend(c *gin.Context) {
	h.transition(c, partner.StatusSuspended)
}

// Reactivate godoc
// @Summary      Reactivate a suspended partner
// @Tags         admin-partners
// @Produce      json
// @Param        id path string true "Partner ID"
// @Success      200 {object} APIResponse[partnerapp.AdminPartnerResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/partners/{id}/reactivate [post]
func (h *PartnerHandler) Reactivate(c *gin.Context) {
	h.transition(c, partner.StatusActive, partner.StatusSuspended)
}

// Archive godoc
// @Summary      Archive a partner
// @Tags         admin-partners
// @Produce      json
// @Param        id path string true "Partner ID"
// @Success      200 {object} APIResponse[partnerapp.AdminPartnerResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/partners/{id}/archive [post]
func (h *PartnerHandler) Archive(c *gin.Context) {
	h.transition(c, partner.StatusArchived)
}

func (h *PartnerHandler) transition(c *gin.Context, target partner.Status, allowedFrom ...partner.Status) {
	actor, ok := h.currentAdmin(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req partnerapp.TransitionRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}
	resp, from, err := h.partnerService.Transition(c.Request.Context(), id, target, req.Reason, allowedFrom...)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	meta := admin.Metadata{"from": string(from), "to": string(target)}
	if req.Reason != "" {
		meta["reason"] = req.Reason
	}
	h.auditService.Record(c.Request.Context(), actor.ID, admin.AuditEntry{
		Action:     admin.ActionPartnerStatus,
		TargetType: admin.TargetTypePartner,
		TargetID:   &id,
		Metadata:   meta,
	}, requestInfo(c))
	h.Success(c, resp)
}
