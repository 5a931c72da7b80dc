package web

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/application/identity"
	"github.com/luminform/atelier/internal/domain/shared"
	"github.com/luminform/atelier/internal/infrastructure/auth"
	"github.com/luminform/atelier/internal/interfaces/http/middleware"
)

const (
	partnerIDKey   = "web_partner_id"
	sessionUserKey = "web_session_user"

	dashboardMonths = 6
	listPageSize    = 50
)

func (p *Pages) loginForm(c *gin.Context) {
	p.render(c, http.StatusOK, "login", view{Title: "Partner sign in", Area: "partner", Action: "/login"})
}

func (p *Pages) login(c *gin.Context) {
	var req identity.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		p.render(c, http.StatusBadRequest, "login", view{
			Title: "Partner sign in", Area: "partner", Action: "/login",
			Email: req.Email, Error: "Enter your email and password.",
		})
		return
	}
	result, err := p.deps.Auth.PartnerLogin(c.Request.Context(), req)
	if err != nil {
		p.render(c, http.StatusUnauthorized, "login", view{
			Title: "Partner sign in", Area: "partner", Action: "/login",
			Email: req.Email, Error: loginMessage(err),
		})
		return
	}
	p.deps.PartnerCookie.Set(c, result.AccessToken, result.AccessTokenExpiresAt)
	redirect(c, "/dashboard")
}

func (p *Pages) logout(c *gin.Context) {
	if claims := middleware.GetClaims(c); claims != nil {
		_ = p.deps.Auth.Logout(c.Request.Context(), claims, identity.LogoutRequest{})
	}
	p.deps.PartnerCookie.Clear(c)
	redirect(c, "/login")
}

// requirePartner resolves the partner session user; admin tokens are sent
// back to the partner login
func (p *Pages) requirePartner(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil || claims.SubjectType != auth.SubjectPartnerUser {
		redirect(c, "/login")
		return
	}
	partnerID, err := claims.PartnerUUID()
	if err != nil {
		redirect(c, "/login")
		return
	}
	userID, err := claims.UserUUID()
	if err != nil {
		redirect(c, "/login")
		return
	}
	user, err := p.deps.Auth.PartnerMe(c.Request.Context(), partnerID, userID)
	if err != nil {
		p.deps.PartnerCookie.Clear(c)
		redirect(c, "/login")
		return
	}
	c.Set(partnerIDKey, partnerID)
	c.Set(sessionUserKey, user)
	c.Next()
}

func partnerContext(c *gin.Context) (uuid.UUID, *identity.SessionUser) {
	id, _ := c.Get(partnerIDKey)
	user, _ := c.Get(sessionUserKey)
	partnerID, _ := id.(uuid.UUID)
	su, _ := user.(*identity.SessionUser)
	return partnerID, su
}

func (p *Pages) dashboard(c *gin.Context) {
	partnerID, user := partnerContext(c)
	stats, err := p.deps.Analytics.PartnerDashboard(c.Request.Context(), partnerID, dashboardMonths)
	if err != nil {
		p.renderError(c, "partner", err)
		return
	}
	p.render(c, http.StatusOK, "dashboard", view{Title: "Dashboard", Area: "partner", User: user, Data: stats})
}

func (p *Pages) collections(c *gin.Context) {
	partnerID, user := partnerContext(c)
	filter := pageFilter(c)
	items, total, err := p.deps.Collections.List(c.Request.Context(), partnerID, filter)
	if err != nil {
		p.renderError(c, "partner", err)
		return
	}
	p.render(c, http.StatusOK, "collections", view{Title: "Collections", Area: "partner", User: user, Data: newListing(c, items, total, filter)})
}

func (p *Pages) quotes(c *gin.Context) {
	partnerID, user := partnerContext(c)
	filter := pageFilter(c)
	items, total, err := p.deps.Quotes.List(c.Request.Context(), partnerID, filter)
	if err != nil {
		p.renderError(c, "partner", err)
		return
	}
	p.render(c, http.StatusOK, "quotes", view{Title: "Quotes", Area: "partner", User: user, Data: newListing(c, items, total, filter)})
}

func (p *Pages) orders(c *gin.Context) {
	partnerID, user := partnerContext(c)
	filter := pageFilter(c)
	items, total, err := p.deps.Orders.List(c.Request.Context(), partnerID, filter)
	if err != nil {
		p.renderError(c, "partner", err)
		return
	}
	p.render(c, http.StatusOK, "orders", view{Title: "Orders", Area: "partner", User: user, Data: newListing(c, items, total, filter)})
}

// listing is the view model of the list pages. Query holds the filter
// parameters that page links must carry over.
type listing[T any] struct {
	shared.Paginated[T]
	Status string
	Query  template.URL
}

func newListing[T any](c *gin.Context, items []T, total int64, filter shared.Filter) listing[T] {
	keep := url.Values{}
	for _, key := range []string{"status", "search", "action"} {
		if v := c.Query(key); v != "" {
			keep.Set(key, v)
		}
	}
	return listing[T]{
		Paginated: shared.NewPaginated(items, total, filter),
		Status:    c.Query("status"),
		Query:     template.URL(keep.Encode()),
	}
}

// Prev is the number of the previous page
func (l listing[T]) Prev() int { return l.Page - 1 }

// Next is the number of the following page
func (l listing[T]) Next() int { return l.Page + 1 }

// pageFilter reads the page number and the optional status query used by
// the list pages
func pageFilter(c *gin.Context) shared.Filter {
	filter := shared.DefaultFilter()
	filter.PageSize = listPageSize
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		filter.Page = page
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	return filter
}

// loginMessage keeps inactive-account messages and hides everything else
// behind the generic credentials error
func loginMessage(err error) string {
	var de *shared.DomainError
	if errors.As(err, &de) && de.Code == identity.ErrAccountInactive.Code {
		return de.Message
	}
	return "Invalid email or password."
}
