// Package web serves the server-rendered partner portal, the back-office
// pages and public microsites.
package web

import (
	"github.com/gin-gonic/gin"
	adminapp "github.com/luminform/atelier/internal/application/admin"
	analyticsapp "github.com/luminform/atelier/internal/application/analytics"
	catalogapp "github.com/luminform/atelier/internal/application/catalog"
	"github.com/luminform/atelier/internal/application/identity"
	micrositeapp "github.com/luminform/atelier/internal/application/microsite"
	partnerapp "github.com/luminform/atelier/internal/application/partner"
	tradeapp "github.com/luminform/atelier/internal/application/trade"
	"github.com/luminform/atelier/internal/infrastructure/printing"
	"github.com/luminform/atelier/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Deps are the services and settings behind the pages
type Deps struct {
	Auth          *identity.AuthService
	Partners      *partnerapp.Service
	Collections   *catalogapp.CollectionService
	Quotes        *tradeapp.QuoteService
	Orders        *tradeapp.OrderService
	Microsites    *micrositeapp.Service
	Analytics     *analyticsapp.Service
	Audit         *adminapp.AuditService
	Admins        middleware.AdminLoader
	Formatter     *printing.Formatter
	PartnerCookie middleware.SessionCookie
	AdminCookie   middleware.SessionCookie
	// LoginLimiter guards both login forms; nil disables it
	LoginLimiter gin.HandlerFunc
	Logger       *zap.Logger
}

// Pages renders HTML pages
type Pages struct {
	deps      Deps
	templates *templates
	logger    *zap.Logger
}

// New parses the embedded templates
func New(deps Deps) (*Pages, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Formatter == nil {
		deps.Formatter = printing.NewFormatter(defaultLocale)
	}
	tmpl, err := parseTemplates(deps.Formatter.FuncMap())
	if err != nil {
		return nil, err
	}
	return &Pages{deps: deps, templates: tmpl, logger: deps.Logger}, nil
}

// Register mounts the portal, back-office and microsite pages on engine
func (p *Pages) Register(engine *gin.Engine) {
	withLimiter := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if p.deps.LoginLimiter == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{p.deps.LoginLimiter, h}
	}

	engine.GET("/login", p.loginForm)
	engine.POST("/login", withLimiter(p.login)...)
	engine.POST("/logout", middleware.OptionalSession(p.partnerSessionConfig()), p.logout)

	portal := engine.Group("", middleware.Session(p.partnerSessionConfig()), p.requirePartner)
	portal.GET("/dashboard", p.dashboard)
	portal.GET("/collections", p.collections)
	portal.GET("/quotes", p.quotes)
	portal.GET("/orders", p.orders)

	engine.GET("/admin/login", p.adminLoginForm)
	engine.POST("/admin/login", withLimiter(p.adminLogin)...)
	engine.POST("/admin/logout", middleware.OptionalSession(p.adminSessionConfig()), p.adminLogout)

	backOffice := engine.Group("/admin",
		middleware.Session(p.adminSessionConfig()),
		middleware.RequireAdmin(middleware.AdminGuardConfig{
			Admins:   p.deps.Admins,
			OnDenied: p.adminDenied,
			Logger:   p.logger,
		}),
	)
	backOffice.GET("", p.adminOverview)
	backOffice.GET("/partners", p.adminPartners)
	backOffice.GET("/orders", p.adminOrders)
	backOffice.GET("/audit-logs", p.adminAuditLogs)

	engine.GET("/m/:slug", p.microsite)
}
