package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	tradeapp "github.com/luminform/atelier/internal/application/trade"
)

// QuoteHandler handles partner quotes and their conversion to orders
type QuoteHandler struct {
	BaseHandler
	quoteService *tradeapp.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler
func NewQuoteHandler(quoteService *tradeapp.QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

// List godoc
// @Summary      List quotes
// @Tags         quotes
// @Produce      json
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Param        search query string false "Quote number or client"
// @Param        status query string false "draft, sent, accepted, declined or expired"
// @Param        from query string false "Created from (YYYY-MM-DD)"
// @Param        to query string false "Created to (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[[]tradeapp.QuoteListResponse]
// @Security     BearerAuth
// @Router       /quotes [get]
func (h *QuoteHandler) List(c *gin.Context) {
	partnerID, _, ok := h.partnerSession(c)
	if !ok {
		return
	}
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	items, total, err := h.quoteService.List(c.Request.Context(), partnerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// Create godoc
// @Summary      Create a draft quote
// @Description  Prices come from the catalog unless an override is given
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.CreateQuoteRequest true "Quote"
// @Success      201 {object} APIResponse[tradeapp.QuoteResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotes [post]
func (h *QuoteHandler) Create(c *gin.Context) {
	partnerID, userID, ok := h.partnerSession(c)
	if !ok {
		return
	}
	var req tradeapp.CreateQuoteRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.quoteService.Create(c.Request.Context(), partnerID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get godoc
// @Summary      Get a quote
// @Tags         quotes
// @Produce      json
// @Param        id path string true "Quote ID"
// @Success      200 {object} APIResponse[tradeapp.QuoteResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotes/{id} [get]
func (h *QuoteHandler) Get(c *gin.Context) {
	partnerID, id, ok := h.target(c)
	if !ok {
		return
	}
	h.respond(c)(h.quoteService.GetByID(c.Request.Context(), partnerID, id))
}

// Update godoc
// @Summary      Update a draft quote
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        id path string true "Quote ID"
// @Param        request body tradeapp.UpdateQuoteRequest true "Quote fields"
// @Success      200 {object} APIResponse[tradeapp.QuoteResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotes/{id} [put]
func (h *QuoteHandler) Update(c *gin.Context) {
	partnerID, id, ok := h.target(c)
	if !ok {
		return
	}
	var req tradeapp.UpdateQuoteRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.respond(c)(h.quoteService.Update(c.Request.Context(), partnerID, id, req))
}

// Delete godoc
// @Summary      Delete a draft quote
// @Tags         quotes
// @Param        id path string true "Quote ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotes/{id} [delete]
func (h *QuoteHandler) Delete(c *gin.Context) {
	partnerID, id, ok := h.target(c)
	if !ok {
		return
	}
	if err := h.quoteService.Delete(c.Request.Context(), partnerID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Send godoc
// @Summary      Mark a quote as sent
// @Tags         quotes
// @Produce      json
// @Param        id path string true "Quote ID"
// @Success      200 {object} APIResponse[tradeapp.QuoteResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotes/{id}/send [post]
func (h *QuoteHandler) Send(c *gin.Context) {
	partnerID, id, ok := h.target(c)
	if !ok {
		return
	}
	h.respond(c)(h.quoteService.Send(c.Request.Context(), partnerID, id))
}

// Accept godoc
// @Summary      Record client acceptance
// @Tags         quotes
// @Produce      json
// @Param        id path string true "Quote ID"
// @Success      200 {object} APIResponse[tradeapp.QuoteResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotes/{id}/accept [post]
func (h *QuoteHandler) Accept(c *gin.Context) {
	partnerID, id, ok := h.target(c)
	if !ok {
		return
	}
	h.respond(c)(h.quoteService.Accept(c.Request.Context(), partnerID, id))
}

// Decline godoc
// @Summary      Record client decline
// @Tags         quotes
// @Produce      json
// @Param        id path string true "Quote ID"
// @Success      200 {object} APIResponse[tradeapp.QuoteResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotes/{id}/decline [post]
func (h *QuoteHandler) Decline(c *gin.Context) {
	partnerID, id, ok := h.target(c)
	if !ok {
		return
	}
	h.respond(c)(h.quoteService.Decline(c.Request.Context(), partnerID, id))
}

// Convert godoc
// @Summary      Convert an accepted quote to an order
// @Description  A quote converts at most once
// @Tags         quotes
// @Produce      json
// @Param        id path string true "Quote ID"
// @Success      201 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotes/{id}/convert [post]
func (h *QuoteHandler) Convert(c *gin.Context) {
	partnerID, id, ok := h.target(c)
	if !ok {
		return
	}
	order, err := h.quoteService.ConvertToOrder(c.Request.Context(), partnerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// PDF godoc
// @Summary      Download a quote as PDF
// @Description  Rendered with the partner's brand kit
// @Tags         quotes
// @Produce      application/pdf
// @Param        id path string true "Quote ID"
// @Success      200 {file} binary
// @Failure      404 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotes/{id}/pdf [get]
func (h *QuoteHandler) PDF(c *gin.Context) {
	partnerID, id, ok := h.target(c)
	if !ok {
		return
	}
	pdf, filename, err := h.quoteService.RenderPDF(c.Request.Context(), partnerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *QuoteHandler) target(c *gin.Context) (partnerID, id uuid.UUID, ok bool) {
	if partnerID, _, ok = h.partnerSession(c); !ok {
		return
	}
	id, ok = h.pathUUID(c, "id")
	return
}

func (h *QuoteHandler) respond(c *gin.Context) func(*tradeapp.QuoteResponse, error) {
	return func(resp *tradeapp.QuoteResponse, err error) {
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, resp)
	}
}
