package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/luminform/atelier/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Checker reports whether a dependency is reachable
type Checker interface {
	Ping(ctx context.Context) error
}

// NamedChecker is a readiness dependency
type NamedChecker struct {
	Name    string
	Checker Checker
}

// SystemInfo is the public build and runtime summary
type SystemInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
	GoVersion   string `json:"go_version"`
	Uptime      string `json:"uptime"`
}

// SystemHandler serves liveness, readiness and build info
type SystemHandler struct {
	BaseHandler
	checkers     []NamedChecker
	info         SystemInfo
	startedAt    time.Time
	checkTimeout time.Duration
}

// NewSystemHandler creates a new SystemHandler. Each checker is pinged by Ready.
func NewSystemHandler(name, version, env string, checkers ...NamedChecker) *SystemHandler {
	return &SystemHandler{
		checkers: checkers,
		info: SystemInfo{
			Name:        name,
			Version:     version,
			Environment: env,
			GoVersion:   runtime.Version(),
		},
		startedAt:    time.Now(),
		checkTimeout: 2 * time.Second,
	}
}

// Health godoc
// @Summary      Liveness probe
// @Tags         system
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready godoc
// @Summary      Readiness probe
// @Description  Pings the database and optional cache and broker connections
// @Tags         system
// @Produce      json
// @Success      200 {object} map[string]any
// @Failure      503 {object} map[string]any
// @Router       /ready [get]
func (h *SystemHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.checkTimeout)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(h.checkers))
	for _, nc := range h.checkers {
		if err := nc.Checker.Ping(ctx); err != nil {
			logger.L(ctx).Warn("Readiness check failed", zap.String("dependency", nc.Name), zap.Error(err))
			checks[nc.Name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		checks[nc.Name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not_ready"
	}
	c.JSON(status, gin.H{"status": state, "checks": checks})
}

// Info godoc
// @Summary      Build and runtime info
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[SystemInfo]
// @Router       /system/info [get]
func (h *SystemHandler) Info(c *gin.Context) {
	info := h.info
	info.Uptime = time.Since(h.startedAt).Truncate(time.Second).String()
	h.Success(c, info)
}
