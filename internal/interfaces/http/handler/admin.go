package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	adminapp "github.com/luminform/atelier/internal/application/admin"
	"github.com/luminform/atelier/internal/domain/admin"
)

// AdminHandler manages back-office users and exposes the audit trail
type AdminHandler struct {
	BaseHandler
	userService  *adminapp.UserService
	auditService *adminapp.AuditService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(userService *adminapp.UserService, auditService *adminapp.AuditService) *AdminHandler {
	return &AdminHandler{
		userService:  userService,
		auditService: auditService,
	}
}

// ListUsers godoc
// @Summary      List admin users
// @Tags         admin-users
// @Produce      json
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Param        search query string false "Email or name"
// @Param        role query string false "Role"
// @Param        is_active query bool false "Active flag"
// @Success      200 {object} APIResponse[[]adminapp.UserResponse]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	filter, ok := h.listFilter(c, "role")
	if !ok {
		return
	}
	filter = boolQuery(c, filter, "is_active")
	items, total, err := h.userService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// CreateUser godoc
// @Summary      Create an admin user
// @Tags         admin-users
// @Accept       json
// @Produce      json
// @Param        request body adminapp.CreateUserRequest true "Admin user"
// @Success      201 {object} APIResponse[adminapp.UserResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users [post]
func (h *AdminHandler) CreateUser(c *gin.Context) {
	actor, ok := h.currentAdmin(c)
	if !ok {
		return
	}
	var req adminapp.CreateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.userService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.audit(c, actor, admin.ActionAdminCreate, resp.ID, admin.Metadata{"email": resp.Email, "role": resp.Role})
	h.Created(c, resp)
}

// UpdateUser godoc
// @Summary      Change an admin user's name or role
// @Tags         admin-users
// @Accept       json
// @Produce      json
// @Param        id path string true "Admin user ID"
// @Param        request body adminapp.UpdateUserRequest true "Changes"
// @Success      200 {object} APIResponse[adminapp.UserResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users/{id} [patch]
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	actor, ok := h.currentAdmin(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req adminapp.UpdateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.userService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	meta := admin.Metadata{}
	if req.Role != nil {
		meta["role"] = *req.Role
	}
	if req.DisplayName != nil {
		meta["display_name"] = *req.DisplayName
	}
	h.audit(c, actor, admin.ActionAdminUpdate, id, meta)
	h.Success(c, resp)
}

// DeactivateUser godoc
// @Summary      Deactivate an admin user
// @Description  Admins cannot deactivate themselves or the last active super admin
// @Tags         admin-users
// @Produce      json
// @Param        id path string true "Admin user ID"
// @Success      200 {object} APIResponse[adminapp.UserResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users/{id}/deactivate [post]
func (h *AdminHandler) DeactivateUser(c *gin.Context) {
	actor, ok := h.currentAdmin(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.userService.Deactivate(c.Request.Context(), actor.ID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.audit(c, actor, admin.ActionAdminDeactivate, id, nil)
	h.Success(c, resp)
}

// ReactivateUser godoc
// @Summary      Reactivate an admin user
// @Tags         admin-users
// @Produce      json
// @Param        id path string true "Admin user ID"
// @Success      200 {object} APIResponse[adminapp.UserResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users/{id}/reactivate [post]
func (h *AdminHandler) ReactivateUser(c *gin.Context) {
	actor, ok := h.currentAdmin(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.userService.Reactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.audit(c, actor, admin.ActionAdminReactivate, id, nil)
	h.Success(c, resp)
}

// AuditLogs godoc
// @Summary      List audit log entries
// @Tags         admin-audit
// @Produce      json
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Param        admin_user_id query string false "Acting admin"
// @Param        action query string false "Action, e.g. partner.status"
// @Param        target_type query string false "Target type"
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[[]adminapp.AuditLogResponse]
// @Security     BearerAuth
// @Router       /admin/audit-logs [get]
func (h *AdminHandler) AuditLogs(c *gin.Context) {
	filter, ok := h.listFilter(c, "admin_user_id", "action", "target_type")
	if !ok {
		return
	}
	items, total, err := h.auditService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

func (h *AdminHandler) audit(c *gin.Context, actor *admin.User, action string, target uuid.UUID, meta admin.Metadata) {
	h.auditService.Record(c.Request.Context(), actor.ID, admin.AuditEntry{
		Action:     action,
		TargetType: admin.TargetTypeAdminUser,
		TargetID:   &target,
		Metadata:   meta,
	}, requestInfo(c))
}
