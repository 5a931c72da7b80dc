package router

import (
	"github.com/gin-gonic/gin"
	"github.com/luminform/atelier/internal/domain/admin"
	"github.com/luminform/atelier/internal/interfaces/http/handler"
	"github.com/luminform/atelier/internal/interfaces/http/middleware"
)

// Handlers are the API handlers mounted by APIGroups
type Handlers struct {
	Auth       *handler.AuthHandler
	Partner    *handler.PartnerHandler
	Catalog    *handler.CatalogHandler
	Collection *handler.CollectionHandler
	Quote      *handler.QuoteHandler
	Order      *handler.OrderHandler
	Microsite  *handler.MicrositeHandler
	BrandKit   *handler.BrandKitHandler
	Analytics  *handler.AnalyticsHandler
	Admin      *handler.AdminHandler
	System     *handler.SystemHandler
}

// Guards are the session middlewares built from configuration. Nil guards
// are skipped.
type Guards struct {
	PartnerSession gin.HandlerFunc
	AdminSession   gin.HandlerFunc
	RequireAdmin   gin.HandlerFunc
	LoginRateLimit gin.HandlerFunc
}

func chain(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}

// APIGroups builds the partner, admin and system route groups
func APIGroups(h Handlers, g Guards) []*DomainGroup {
	return []*DomainGroup{
		authGroup(h, g),
		publicGroup(h),
		partnerGroup(h, g),
		adminGroup(h, g),
	}
}

func authGroup(h Handlers, g Guards) *DomainGroup {
	auth := NewDomainGroup("auth", "/auth")
	auth.POST("/login", chain(g.LoginRateLimit, h.Auth.Login)...)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout", chain(g.PartnerSession, h.Auth.Logout)...)
	auth.GET("/me", chain(g.PartnerSession, middleware.RequirePartner(), h.Auth.Me)...)
	return auth
}

func publicGroup(h Handlers) *DomainGroup {
	public := NewDomainGroup("public", "")
	public.POST("/partners/register", h.Partner.Register)
	public.GET("/system/info", h.System.Info)
	return public
}

func partnerGroup(h Handlers, g Guards) *DomainGroup {
	partner := NewDomainGroup("partner", "")
	partner.Use(chain(g.PartnerSession, middleware.RequirePartner(), middleware.SpanEnricher())...)

	partner.Group("profile", "/partner/profile").
		GET("", h.Partner.GetProfile).
		PUT("", h.Partner.UpdateProfile)

	partner.Group("products", "/products").
		GET("", h.Catalog.ListActive)

	partner.Group("collections", "/collections").
		GET("", h.Collection.List).
		POST("", h.Collection.Create).
		GET("/:id", h.Collection.Get).
		PUT("/:id", h.Collection.Update).
		DELETE("/:id", h.Collection.Delete).
		POST("/:id/items", h.Collection.AddItem).
		PUT("/:id/items/order", h.Collection.ReorderItems).
		DELETE("/:id/items/:item_id", h.Collection.RemoveItem).
		POST("/:id/publish", h.Collection.Publish).
		POST("/:id/archive", h.Collection.Archive)

	partner.Group("quotes", "/quotes").
		GET("", h.Quote.List).
		POST("", h.Quote.Create).
		GET("/:id", h.Quote.Get).
		PUT("/:id", h.Quote.Update).
		DELETE("/:id", h.Quote.Delete).
		POST("/:id/send", h.Quote.Send).
		POST("/:id/accept", h.Quote.Accept).
		POST("/:id/decline", h.Quote.Decline).
		POST("/:id/convert", h.Quote.Convert).
		GET("/:id/pdf", h.Quote.PDF)

	partner.Group("orders", "/orders").
		GET("", h.Order.List).
		POST("", h.Order.Create).
		GET("/:id", h.Order.Get).
		POST("/:id/cancel", h.Order.Cancel)

	partner.Group("microsites", "/microsites").
		GET("", h.Microsite.List).
		POST("", h.Microsite.Create).
		GET("/:id", h.Microsite.Get).
		PUT("/:id", h.Microsite.Update).
		DELETE("/:id", h.Microsite.Delete).
		POST("/:id/publish", h.Microsite.Publish).
		POST("/:id/unpublish", h.Microsite.Unpublish)

	partner.Group("brand-kit", "/brand-kit").
		GET("", h.BrandKit.Get).
		PUT("", h.BrandKit.Upsert).
		POST("/logo/upload-url", h.BrandKit.LogoUploadURL).
		POST("/logo/confirm", h.BrandKit.ConfirmLogo)

	partner.Group("analytics", "/analytics").
		GET("/dashboard", h.Analytics.Dashboard)

	return partner
}

func adminGroup(h Handlers, g Guards) *DomainGroup {
	can := middleware.RequirePermission

	root := NewDomainGroup("admin", "/admin")

	root.Group("admin-auth", "/auth").
		POST("/login", chain(g.LoginRateLimit, h.Auth.AdminLogin)...).
		POST("/logout", chain(g.AdminSession, h.Auth.AdminLogout)...).
		GET("/me", chain(g.AdminSession, g.RequireAdmin, h.Auth.AdminMe)...)

	backOffice := root.Group("back-office", "")
	backOffice.Use(chain(g.AdminSession, g.RequireAdmin, middleware.SpanEnricher())...)

	backOffice.Group("admin-partners", "/partners").
		GET("", can(admin.PermPartnersRead), h.Partner.AdminList).
		GET("/:id", can(admin.PermPartnersRead), h.Partner.AdminGet).
		PATCH("/:id", can(admin.PermPartnersWrite), h.Partner.AdminUpdate).
		POST("/:id/activate", can(admin.PermPartnersWrite), h.Partner.Activate).
		POST("/:id/suspend", can(admin.PermPartnersWrite), h.Partner.Suspend).
		POST("/:id/reactivate", can(admin.PermPartnersWrite), h.Partner.Reactivate).
		POST("/:id/archive", can(admin.PermPartnersWrite), h.Partner.Archive)

	backOffice.Group("admin-orders", "/orders").
		GET("", can(admin.PermOrdersRead), h.Order.AdminList).
		POST("", can(admin.PermOrdersWrite), h.Order.AdminCreate).
		GET("/:id", can(admin.PermOrdersRead), h.Order.AdminGet).
		PATCH("/:id", can(admin.PermOrdersWrite), h.Order.AdminUpdate)

	backOffice.Group("admin-products", "/products").
		GET("", can(admin.PermCatalogRead), h.Catalog.AdminList).
		POST("", can(admin.PermCatalogWrite), h.Catalog.AdminCreate).
		GET("/:id", can(admin.PermCatalogRead), h.Catalog.AdminGet).
		PUT("/:id", can(admin.PermCatalogWrite), h.Catalog.AdminUpdate).
		POST("/:id/activate", can(admin.PermCatalogWrite), h.Catalog.Activate).
		POST("/:id/deactivate", can(admin.PermCatalogWrite), h.Catalog.Deactivate)

	backOffice.Group("admin-microsites", "/microsites").
		GET("", can(admin.PermMicrositesRead), h.Microsite.AdminList).
		POST("/:id/unpublish", can(admin.PermMicrositesWrite), h.Microsite.AdminUnpublish)

	backOffice.Group("admin-users", "/users").
		Use(can(admin.PermAdminsManage)).
		GET("", h.Admin.ListUsers).
		POST("", h.Admin.CreateUser).
		PATCH("/:id", h.Admin.UpdateUser).
		POST("/:id/deactivate", h.Admin.DeactivateUser).
		POST("/:id/reactivate", h.Admin.ReactivateUser)

	backOffice.Group("admin-audit", "/audit-logs").
		GET("", can(admin.PermAuditRead), h.Admin.AuditLogs)

	backOffice.Group("admin-analytics", "/analytics").
		GET("/overview", can(admin.PermAnalyticsRead), h.Analytics.Overview)

	return root
}

// RegisterSystem mounts the probes outside the versioned API
func RegisterSystem(engine *gin.Engine, system *handler.SystemHandler) {
	engine.GET("/health", system.Health)
	engine.GET("/ready", system.Ready)
}
