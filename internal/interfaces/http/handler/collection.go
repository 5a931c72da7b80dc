package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/luminform/atelier/internal/application/catalog"
	"github.com/google/uuid"
)

// CollectionHandler handles partner-curated collections
type CollectionHandler struct {
	BaseHandler
	collectionService *catalogapp.CollectionService
}

// NewCollectionHandler creates a new CollectionHandler
func NewCollectionHandler(collectionService *catalogapp.CollectionService) *CollectionHandler {
	return &CollectionHandler{collectionService: collectionService}
}

// List godoc
// @Summary      List collections
// @Tags         collections
// @Produce      json
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Param        search query string false "Name or slug"
// @Param        status query string false "draft, published or archived"
// @Success      200 {object} APIResponse[[]catalogapp.CollectionListResponse]
// @Security     BearerAuth
// @Router       /collections [get]
func (h *CollectionHandler) List(c *gin.Context) {
	partnerID, _, ok := h.partnerSession(c)
	if !ok {
		return
	}
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	items, total, err := h.collectionService.List(c.Request.Context(), partnerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// Create godoc
// @Summary      Create a collection
// @Tags         collections
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateCollectionRequest true "Collection"
// @Success      201 {object} APIResponse[catalogapp.CollectionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /collections [post]
func (h *CollectionHandler) Create(c *gin.Context) {
	partnerID, userID, ok := h.partnerSession(c)
	if !ok {
		return
	}
	var req catalogapp.CreateCollectionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.collectionService.Create(c.Request.Context(), partnerID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get godoc
// @Summary      Get a collection with its items
// @Tags         collections
// @Produce      json
// @Param        id path string true "Collection ID"
// @Success      200 {object} APIResponse[catalogapp.CollectionResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /collections/{id} [get]
func (h *CollectionHandler) Get(c *gin.Context) {
	h.withCollection(c, func(partnerID, id uuid.UUID) (*catalogapp.CollectionResponse, error) {
		return h.collectionService.GetByID(c.Request.Context(), partnerID, id)
	})
}

// Update godoc
// @Summary      Update a collection
// @Tags         collections
// @Accept       json
// @Produce      json
// @Param        id path string true "Collection ID"
// @Param        request body catalogapp.UpdateCollectionRequest true "Collection fields"
// @Success      200 {object} APIResponse[catalogapp.CollectionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /collections/{id} [put]
func (h *CollectionHandler) Update(c *gin.Context) {
	var req catalogapp.UpdateCollectionRequest
	h.withCollectionBody(c, &req, func(partnerID, id uuid.UUID) (*catalogapp.CollectionResponse, error) {
		return h.collectionService.Update(c.Request.Context(), partnerID, id, req)
	})
}

// Delete godoc
// @Summary      Delete a collection
// @Description  Collections used by a microsite cannot be deleted
// @Tags         collections
// @Param        id path string true "Collection ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /collections/{id} [delete]
func (h *CollectionHandler) Delete(c *gin.Context) {
	partnerID, _, ok := h.partnerSession(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.collectionService.Delete(c.Request.Context(), partnerID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AddItem godoc
// @Summary      Add a product to a collection
// @Tags         collections
// @Accept       json
// @Produce      json
// @Param        id path string true "Collection ID"
// @Param        request body catalogapp.AddItemRequest true "Item"
// @Success      200 {object} APIResponse[catalogapp.CollectionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /collections/{id}/items [post]
func (h *CollectionHandler) AddItem(c *gin.Context) {
	var req catalogapp.AddItemRequest
	h.withCollectionBody(c, &req, func(partnerID, id uuid.UUID) (*catalogapp.CollectionResponse, error) {
		return h.collectionService.AddItem(c.Request.Context(), partnerID, id, req)
	})
}

// RemoveItem godoc
// @Summary      Remove an item from a collection
// @Tags         collections
// @Produce      json
// @Param        id path string true "Collection ID"
// @Param        item_id path string true "Item ID"
// @Success      200 {object} APIResponse[catalogapp.CollectionResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /collections/{id}/items/{item_id} [delete]
func (h *CollectionHandler) RemoveItem(c *gin.Context) {
	itemID, ok := h.pathUUID(c, "item_id")
	if !ok {
		return
	}
	h.withCollection(c, func(partnerID, id uuid.UUID) (*catalogapp.CollectionResponse, error) {
		return h.collectionService.RemoveItem(c.Request.Context(), partnerID, id, itemID)
	})
}

// ReorderItems godoc
// @Summary      Reorder collection items
// @Description  item_ids must list every item of the collection exactly once
// @Tags         collections
// @Accept       json
// @Produce      json
// @Param        id path string true "Collection ID"
// @Param        request body catalogapp.ReorderItemsRequest true "New order"
// @Success      200 {object} APIResponse[catalogapp.CollectionResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /collections/{id}/items/order [put]
func (h *CollectionHandler) ReorderItems(c *gin.Context) {
	var req catalogapp.ReorderItemsRequest
	h.withCollectionBody(c, &req, func(partnerID, id uuid.UUID) (*catalogapp.CollectionResponse, error) {
		return h.collectionService.ReorderItems(c.Request.Context(), partnerID, id, req)
	})
}

// Publish godoc
// @Summary      Publish a collection
// @Tags         collections
// @Produce      json
// @Param        id path string true "Collection ID"
// @Success      200 {object} APIResponse[catalogapp.CollectionResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /collections/{id}/publish [post]
func (h *CollectionHandler) Publish(c *gin.Context) {
	h.withCollection(c, func(partnerID, id uuid.UUID) (*catalogapp.CollectionResponse, error) {
		return h.collectionService.Publish(c.Request.Context(), partnerID, id)
	})
}

// Archive godoc
// @Summary      Archive a collection
// @Tags         collections
// @Produce      json
// @Param        id path string true "Collection ID"
// @Success      200 {object} APIResponse[catalogapp.CollectionResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /collections/{id}/archive [post]
func (h *CollectionHandler) Archive(c *gin.Context) {
	h.withCollection(c, func(partnerID, id uuid.UUID) (*catalogapp.CollectionResponse, error) {
		return h.collectionService.Archive(c.Request.Context(), partnerID, id)
	})
}

func (h *CollectionHandler) withCollection(c *gin.Context, fn func(partnerID, id uuid.UUID) (*catalogapp.CollectionResponse, error)) {
	h.withCollectionBody(c, nil, fn)
}

// withCollectionBody resolves the session and :id, binds body when given
// and writes the collection returned by fn
func (h *CollectionHandler) withCollectionBody(c *gin.Context, body any, fn func(partnerID, id uuid.UUID) (*catalogapp.CollectionResponse, error)) {
	partnerID, _, ok := h.partnerSession(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	if body != nil && !h.bindJSON(c, body) {
		return
	}
	result, err := fn(partnerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
