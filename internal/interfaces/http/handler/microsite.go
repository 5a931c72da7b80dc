package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	adminapp "github.com/luminform/atelier/internal/application/admin"
	micrositeapp "github.com/luminform/atelier/internal/application/microsite"
	"github.com/luminform/atelier/internal/domain/admin"
)

// MicrositeHandler handles partner microsites and their back-office moderation
type MicrositeHandler struct {
	BaseHandler
	micrositeService *micrositeapp.Service
	auditService     *adminapp.AuditService
}

// NewMicrositeHandler creates a new MicrositeHandler
func NewMicrositeHandler(micrositeService *micrositeapp.Service, auditService *adminapp.AuditService) *MicrositeHandler {
	return &MicrositeHandler{
		micrositeService: micrositeService,
		auditService:     auditService,
	}
}

// List godoc
// @Summary      List microsites
// @Tags         microsites
// @Produce      json
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Param        status query string false "draft, published or unpublished"
// @Success      200 {object} APIResponse[[]micrositeapp.MicrositeResponse]
// @Security     BearerAuth
// @Router       /microsites [get]
func (h *MicrositeHandler) List(c *gin.Context) {
	partnerID, _, ok := h.partnerSession(c)
	if !ok {
		return
	}
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	items, total, err := h.micrositeService.List(c.Request.Context(), partnerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// Create godoc
// @Summary      Create a draft microsite
// @Description  The slug is unique across all partners
// @Tags         microsites
// @Accept       json
// @Produce      json
// @Param        request body micrositeapp.CreateMicrositeRequest true "Microsite"
// @Success      201 {object} APIResponse[micrositeapp.MicrositeResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /microsites [post]
func (h *MicrositeHandler) Create(c *gin.Context) {
	partnerID, userID, ok := h.partnerSession(c)
	if !ok {
		return
	}
	var req micrositeapp.CreateMicrositeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.micrositeService.Create(c.Request.Context(), partnerID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get godoc
// @Summary      Get a microsite
// @Tags         microsites
// @Produce      json
// @Param        id path string true "Microsite ID"
// @Success      200 {object} APIResponse[micrositeapp.MicrositeResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /microsites/{id} [get]
func (h *MicrositeHandler) Get(c *gin.Context) {
	partnerID, _, ok := h.partnerSession(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.micrositeService.GetByID(c.Request.Context(), partnerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update godoc
// @Summary      Update a microsite
// @Tags         microsites
// @Accept       json
// @Produce      json
// @Param        id path string true "Microsite ID"
// @Param        request body micrositeapp.UpdateMicrositeRequest true "Microsite fields"
// @Success      200 {object} APIResponse[micrositeapp.MicrositeResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /microsites/{id} [put]
func (h *MicrositeHandler) Update(c *gin.Context) {
	partnerID, _, ok := h.partnerSession(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req micrositeapp.UpdateMicrositeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.micrositeService.Update(c.Request.Context(), partnerID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
// @Summary      Delete a microsite
// @Tags         microsites
// @Param        id path string true "Microsite ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /microsites/{id} [delete]
func (h *MicrositeHandler) Delete(c *gin.Context) {
	partnerID, _, ok := h.partnerSession(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.micrositeService.Delete(c.Request.Context(), partnerID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Publish godoc
// @Summary      Publish a microsite
// @Description  The linked collection must be published
// @Tags         microsites
// @Produce      json
// @Param        id path string true "Microsite ID"
// @Success      200 {object} APIResponse[micrositeapp.MicrositeResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /microsites/{id}/publish [post]
func (h *MicrositeHandler) Publish(c *gin.Context) {
	h.toggle(c, h.micrositeService.Publish)
}

// Unpublish godoc
// @Summary      Take a microsite offline
// @Tags         microsites
// @Produce      json
// @Param        id path string true "Microsite ID"
// @Success      200 {object} APIResponse[micrositeapp.MicrositeResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /microsites/{id}/unpublish [post]
func (h *MicrositeHandler) Unpublish(c *gin.Context) {
	h.toggle(c, h.micrositeService.Unpublish)
}

func (h *MicrositeHandler) toggle(c *gin.Context, fn func(ctx context.Context, partnerID, id uuid.UUID) (*micrositeapp.MicrositeResponse, error)) {
	partnerID, _, ok := h.partnerSession(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := fn(c.Request.Context(), partnerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AdminList godoc
// @Summary      List microsites across partners
// @Tags         admin-microsites
// @Produce      json
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Param        status query string false "Microsite status"
// @Param        partner_id query string false "Partner ID"
// @Success      200 {object} APIResponse[[]micrositeapp.MicrositeResponse]
// @Security     BearerAuth
// @Router       /admin/microsites [get]
func (h *MicrositeHandler) AdminList(c *gin.Context) {
	filter, ok := h.listFilter(c, "partner_id")
	if !ok {
		return
	}
	items, total, err := h.micrositeService.AdminList(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// AdminUnpublish godoc
// @Summary      Take any microsite offline
// @Tags         admin-microsites
// @Produce      json
// @Param        id path string true "Microsite ID"
// @Success      200 {object} APIResponse[micrositeapp.MicrositeResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/microsites/{id}/unpublish [post]
func (h *MicrositeHandler) AdminUnpublish(c *gin.Context) {
	actor, ok := h.currentAdmin(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.micrositeService.AdminUnpublish(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.auditService.Record(c.Request.Context(), actor.ID, admin.AuditEntry{
		Action:     admin.ActionMicrositeUnpub,
		TargetType: admin.TargetTypeMicrosite,
		TargetID:   &id,
		Metadata: admin.Metadata{
			"slug":       resp.Slug,
			"partner_id": resp.PartnerID.String(),
		},
	}, requestInfo(c))
	h.Success(c, resp)
}
