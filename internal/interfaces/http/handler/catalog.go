package handler

import (
	"github.com/gin-gonic/gin"
	adminapp "github.com/luminform/atelier/internal/application/admin"
	catalogapp "github.com/luminform/atelier/internal/application/catalog"
	"github.com/luminform/atelier/internal/domain/admin"
)

// CatalogHandler handles the product catalog for partners and admins
type CatalogHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
	auditService   *adminapp.AuditService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(productService *catalogapp.ProductService, auditService *adminapp.AuditService) *CatalogHandler {
	return &CatalogHandler{
		productService: productService,
		auditService:   auditService,
	}
}

// ListActive godoc
// @Summary      Browse the active catalog
// @Tags         products
// @Produce      json
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Param        search query string false "SKU or name"
// @Param        category query string false "Category"
// @Success      200 {object} APIResponse[[]catalogapp.ProductResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products [get]
func (h *CatalogHandler) ListActive(c *gin.Context) {
	filter, ok := h.listFilter(c, "category")
	if !ok {
		return
	}
	items, total, err := h.productService.ListActive(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// AdminList godoc
// @Summary      List all products
// @Tags         admin-products
// @Produce      json
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Param        search query string false "SKU or name"
// @Param        category query string false "Category"
// @Param        is_active query bool false "Active flag"
// @Success      200 {object} APIResponse[[]catalogapp.ProductResponse]
// @Security     BearerAuth
// @Router       /admin/products [get]
func (h *CatalogHandler) AdminList(c *gin.Context) {
	filter, ok := h.listFilter(c, "category")
	if !ok {
		return
	}
	filter = boolQuery(c, filter, "is_active")
	items, total, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// AdminGet godoc
// @Summary      Get a product
// @Tags         admin-products
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/products/{id} [get]
func (h *CatalogHandler) AdminGet(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AdminCreate godoc
// @Summary      Create a product
// @Tags         admin-products
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateProductRequest true "Product"
// @Success      201 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/products [post]
func (h *CatalogHandler) AdminCreate(c *gin.Context) {
	actor, ok := h.currentAdmin(c)
	if !ok {
		return
	}
	var req catalogapp.CreateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.audit(c, actor, admin.ActionProductCreate, resp, admin.Metadata{"sku": resp.SKU})
	h.Created(c, resp)
}

// AdminUpdate godoc
// @Summary      Update a product
// @Tags         admin-products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID"
// @Param        request body catalogapp.UpdateProductRequest true "Fields to change"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/products/{id} [put]
func (h *CatalogHandler) AdminUpdate(c *gin.Context) {
	actor, ok := h.currentAdmin(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.audit(c, actor, admin.ActionProductUpdate, resp, nil)
	h.Success(c, resp)
}

// Activate godoc
// @Summary      Activate a product
// @Tags         admin-products
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/products/{id}/activate [post]
func (h *CatalogHandler) Activate(c *gin.Context) {
	h.setActive(c, true)
}

// Deactivate godoc
// @Summary      Deactivate a product
// @Description  Inactive products disappear from the partner catalog and public microsites
// @Tags         admin-products
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/products/{id}/deactivate [post]
func (h *CatalogHandler) Deactivate(c *gin.Context) {
	h.setActive(c, false)
}

func (h *CatalogHandler) setActive(c *gin.Context, active bool) {
	actor, ok := h.currentAdmin(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var (
		resp *catalogapp.ProductResponse
		err  error
	)
	if active {
		resp, err = h.productService.Activate(c.Request.Context(), id)
	} else {
		resp, err = h.productService.Deactivate(c.Request.Context(), id)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.audit(c, actor, admin.ActionProductStatus, resp, admin.Metadata{"is_active": active})
	h.Success(c, resp)
}

func (h *CatalogHandler) audit(c *gin.Context, actor *admin.User, action string, product *catalogapp.ProductResponse, meta admin.Metadata) {
	id := product.ID
	h.auditService.Record(c.Request.Context(), actor.ID, admin.AuditEntry{
		Action:     action,
		TargetType: admin.TargetTypeProduct,
		TargetID:   &id,
		Metadata:   meta,
	}, requestInfo(c))
}

