package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	analyticsapp "github.com/luminform/atelier/internal/application/analytics"
)

// AnalyticsHandler serves partner and platform dashboards
type AnalyticsHandler struct {
	BaseHandler
	analyticsService *analyticsapp.Service
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(analyticsService *analyticsapp.Service) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// Dashboard godoc
// @Summary      Partner dashboard
// @Tags         analytics
// @Produce      json
// @Param        months query int false "Months of history (clamped)"
// @Success      200 {object} APIResponse[analyticsapp.PartnerDashboardResponse]
// @Security     BearerAuth
// @Router       /analytics/dashboard [get]
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	partnerID, _, ok := h.partnerSession(c)
	if !ok {
		return
	}
	months, ok := h.months(c)
	if !ok {
		return
	}
	resp, err := h.analyticsService.PartnerDashboard(c.Request.Context(), partnerID, months)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Overview godoc
// @Summary      Platform overview
// @Description  Partner and order counts, revenue and monthly growth
// @Tags         admin-analytics
// @Produce      json
// @Param        months query int false "Months of history (clamped)"
// @Success      200 {object} APIResponse[analyticsapp.OverviewResponse]
// @Security     BearerAuth
// @Router       /admin/analytics/overview [get]
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	months, ok := h.months(c)
	if !ok {
		return
	}
	resp, err := h.analyticsService.Overview(c.Request.Context(), months)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// months parses the optional months query; zero lets the service pick its default
func (h *AnalyticsHandler) months(c *gin.Context) (int, bool) {
	raw := c.Query("months")
	if raw == "" {
		return 0, true
	}
	months, err := strconv.Atoi(raw)
	if err != nil {
		h.BadRequest(c, "months must be a number")
		return 0, false
	}
	return months, true
}
