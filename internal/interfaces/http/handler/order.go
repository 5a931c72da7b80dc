package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	adminapp "github.com/luminform/atelier/internal/application/admin"
	tradeapp "github.com/luminform/atelier/internal/application/trade"
	"github.com/luminform/atelier/internal/domain/admin"
	"github.com/luminform/atelier/internal/domain/trade"
)

// OrderHandler handles partner orders and back-office order management
type OrderHandler struct {
	BaseHandler
	orderService *tradeapp.OrderService
	auditService *adminapp.AuditService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *tradeapp.OrderService, auditService *adminapp.AuditService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		auditService: auditService,
	}
}

// List godoc
// @Summary      List own orders
// @Tags         orders
// @Produce      json
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Param        status query string false "Order status"
// @Param        search query string false "Order number or client"
// @Success      200 {object} APIResponse[[]tradeapp.OrderListResponse]
// @Security     BearerAuth
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	partnerID, _, ok := h.partnerSession(c)
	if !ok {
		return
	}
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	items, total, err := h.orderService.List(c.Request.Context(), partnerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// Create godoc
// @Summary      Place an order
// @Description  Prices are always taken from the catalog or the chosen collection
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.CreateOrderRequest true "Order"
// @Success      201 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	partnerID, userID, ok := h.partnerSession(c)
	if !ok {
		return
	}
	var req tradeapp.CreateOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.orderService.Create(c.Request.Context(), partnerID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get godoc
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	partnerID, _, ok := h.partnerSession(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.orderService.GetByID(c.Request.Context(), partnerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel godoc
// @Summary      Cancel an order
// @Description  Only pending and confirmed orders can be cancelled by the partner
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        request body tradeapp.CancelOrderRequest true "Reason"
// @Success      200 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	partnerID, _, ok := h.partnerSession(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.CancelOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.orderService.Cancel(c.Request.Context(), partnerID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AdminList godoc
// @Summary      List all orders
// @Tags         admin-orders
// @Produce      json
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Param        status query string false "Order status"
// @Param        partner_id query string false "Partner ID"
// @Success      200 {object} APIResponse[[]tradeapp.OrderListResponse]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/orders [get]
func (h *OrderHandler) AdminList(c *gin.Context) {
	filter, ok := h.listFilter(c, "partner_id")
	if !ok {
		return
	}
	items, total, err := h.orderService.AdminList(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// AdminGet godoc
// @Summary      Get any order
// @Tags         admin-orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/orders/{id} [get]
func (h *OrderHandler) AdminGet(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.orderService.AdminGet(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AdminCreate godoc
// @Summary      Place an order on behalf of a partner
// @Tags         admin-orders
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.AdminCreateOrderRequest true "Order"
// @Success      201 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/orders [post]
func (h *OrderHandler) AdminCreate(c *gin.Context) {
	actor, ok := h.currentAdmin(c)
	if !ok {
		return
	}
	var req tradeapp.AdminCreateOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.orderService.AdminCreate(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	id := resp.ID
	h.auditService.Record(c.Request.Context(), actor.ID, admin.AuditEntry{
		Action:     admin.ActionOrderCreate,
		TargetType: admin.TargetTypeOrder,
		TargetID:   &id,
		Metadata: admin.Metadata{
			"order_number": resp.OrderNumber,
			"partner_id":   resp.PartnerID.String(),
		},
	}, requestInfo(c))
	h.Created(c, resp)
}

// AdminUpdate godoc
// @Summary      Update order status or shipping address
// @Description  Status moves one step along pending, confirmed, in_production, shipped, delivered
// @Tags         admin-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        request body tradeapp.UpdateOrderRequest true "Changes"
// @Success      200 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/orders/{id} [patch]
func (h *OrderHandler) AdminUpdate(c *gin.Context) {
	actor, ok := h.currentAdmin(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.UpdateOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, from, err := h.orderService.AdminUpdate(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.auditService.Record(c.Request.Context(), actor.ID, orderUpdateAudit(id, from, resp.Status, req), requestInfo(c))
	h.Success(c, resp)
}

// orderUpdateAudit describes a successful admin PATCH. Status changes keep
// their own action so the from/to trail stays queryable.
func orderUpdateAudit(id uuid.UUID, from trade.OrderStatus, to string, req tradeapp.UpdateOrderRequest) admin.AuditEntry {
	entry := admin.AuditEntry{
		Action:     admin.ActionOrderUpdate,
		TargetType: admin.TargetTypeOrder,
		TargetID:   &id,
		Metadata:   admin.Metadata{"shipping_changed": req.ShippingAddress != nil},
	}
	if string(from) != to {
		entry.Action = admin.ActionOrderStatus
		entry.Metadata["from"] = string(from)
		entry.Metadata["to"] = to
		if req.Reason != "" {
			entry.Metadata["reason"] = req.Reason
		}
	}
	return entry
}
