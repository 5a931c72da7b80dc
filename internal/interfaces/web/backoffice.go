package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/luminform/atelier/internal/application/identity"
	"github.com/luminform/atelier/internal/domain/admin"
	"github.com/luminform/atelier/internal/interfaces/http/middleware"
)

func (p *Pages) adminLoginForm(c *gin.Context) {
	p.render(c, http.StatusOK, "login", view{Title: "Back office sign in", Area: "admin", Action: "/admin/login"})
}

func (p *Pages) adminLogin(c *gin.Context) {
	var req identity.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		p.render(c, http.StatusBadRequest, "login", view{
			Title: "Back office sign in", Area: "admin", Action: "/admin/login",
			Email: req.Email, Error: "Enter your email and password.",
		})
		return
	}
	info := admin.RequestInfo{IPAddress: c.ClientIP(), UserAgent: c.Request.UserAgent()}
	result, err := p.deps.Auth.AdminLogin(c.Request.Context(), req, info)
	if err != nil {
		p.render(c, http.StatusUnauthorized, "login", view{
			Title: "Back office sign in", Area: "admin", Action: "/admin/login",
			Email: req.Email, Error: loginMessage(err),
		})
		return
	}
	p.deps.AdminCookie.Set(c, result.AccessToken, result.AccessTokenExpiresAt)
	redirect(c, "/admin")
}

func (p *Pages) adminLogout(c *gin.Context) {
	if claims := middleware.GetClaims(c); claims != nil {
		_ = p.deps.Auth.Logout(c.Request.Context(), claims, identity.LogoutRequest{})
	}
	p.deps.AdminCookie.Clear(c)
	redirect(c, "/admin/login")
}

// allowed renders 403 when the admin lacks perm
func (p *Pages) allowed(c *gin.Context, perm admin.Permission) (*identity.SessionUser, bool) {
	user := middleware.GetAdmin(c)
	if user == nil || !user.Can(perm) {
		p.renderStatus(c, "admin", http.StatusForbidden, "Your role does not include "+string(perm)+".")
		return nil, false
	}
	return adminView(user), true
}

func adminView(u *admin.User) *identity.SessionUser {
	return &identity.SessionUser{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		SubjectType: "admin",
		Role:        string(u.Role),
		LastLoginAt: u.LastLoginAt,
	}
}

func (p *Pages) adminOverview(c *gin.Context) {
	user, ok := p.allowed(c, admin.PermAnalyticsRead)
	if !ok {
		return
	}
	overview, err := p.deps.Analytics.Overview(c.Request.Context(), 0)
	if err != nil {
		p.renderError(c, "admin", err)
		return
	}
	p.render(c, http.StatusOK, "admin_overview", view{Title: "Overview", Area: "admin", User: user, Data: overview})
}

func (p *Pages) adminPartners(c *gin.Context) {
	user, ok := p.allowed(c, admin.PermPartnersRead)
	if !ok {
		return
	}
	filter := pageFilter(c)
	filter.Search = c.Query("search")
	items, total, err := p.deps.Partners.List(c.Request.Context(), filter)
	if err != nil {
		p.renderError(c, "admin", err)
		return
	}
	p.render(c, http.StatusOK, "admin_partners", view{Title: "Partners", Area: "admin", User: user,
		Data: newListing(c, items, total, filter)})
}

func (p *Pages) adminOrders(c *gin.Context) {
	user, ok := p.allowed(c, admin.PermOrdersRead)
	if !ok {
		return
	}
	filter := pageFilter(c)
	items, total, err := p.deps.Orders.AdminList(c.Request.Context(), filter)
	if err != nil {
		p.renderError(c, "admin", err)
		return
	}
	p.render(c, http.StatusOK, "admin_orders", view{Title: "Orders", Area: "admin", User: user,
		Data: newListing(c, items, total, filter)})
}

func (p *Pages) adminAuditLogs(c *gin.Context) {
	user, ok := p.allowed(c, admin.PermAuditRead)
	if !ok {
		return
	}
	filter := pageFilter(c)
	if action := c.Query("action"); action != "" {
		filter.Filters["action"] = action
	}
	items, total, err := p.deps.Audit.List(c.Request.Context(), filter)
	if err != nil {
		p.renderError(c, "admin", err)
		return
	}
	p.render(c, http.StatusOK, "admin_audit", view{Title: "Audit log", Area: "admin", User: user, Data: newListing(c, items, total, filter)})
}
