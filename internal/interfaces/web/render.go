package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/luminform/atelier/internal/application/identity"
	"github.com/luminform/atelier/internal/domain/shared"
	"github.com/luminform/atelier/internal/infrastructure/logger"
	"github.com/luminform/atelier/internal/interfaces/http/dto"
	"github.com/luminform/atelier/internal/interfaces/http/middleware"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

//go:embed templates/*.html
var templateFS embed.FS

var defaultLocale = language.AmericanEnglish

// layoutPages render inside layout.html; standalone pages carry their own document
var (
	layoutPages     = []string{"login", "dashboard", "collections", "quotes", "orders", "admin_overview", "admin_partners", "admin_orders", "admin_audit", "error"}
	standalonePages = []string{"microsite"}
)

type templates struct {
	pages map[string]*template.Template
}

func parseTemplates(funcs template.FuncMap) (*templates, error) {
	t := &templates{pages: make(map[string]*template.Template)}
	for _, name := range layoutPages {
		tmpl, err := template.New("layout.html").Funcs(funcs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		t.pages[name] = tmpl
	}
	for _, name := range standalonePages {
		tmpl, err := template.New(name + ".html").Funcs(funcs).ParseFS(templateFS, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		t.pages[name] = tmpl
	}
	return t, nil
}

// view is the data passed to every layout page
type view struct {
	Title  string
	Area   string
	User   *identity.SessionUser
	Error  string
	Email  string
	Action string
	Data   any
}

// render executes the page into a buffer first so template errors never
// produce half-written responses
func (p *Pages) render(c *gin.Context, status int, page string, data any) {
	tmpl, ok := p.templates.pages[page]
	if !ok {
		p.renderFailure(c, fmt.Errorf("unknown page %q", page))
		return
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		p.renderFailure(c, err)
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

func (p *Pages) renderFailure(c *gin.Context, err error) {
	logger.L(c.Request.Context()).Error("Page rendering failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.Data(http.StatusInternalServerError, "text/plain; charset=utf-8", []byte("Internal Server Error"))
}

// renderError maps err to a status and renders the error page
func (p *Pages) renderError(c *gin.Context, area string, err error) {
	status := http.StatusInternalServerError
	message := "Something went wrong. Please try again."
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status = dto.GetHTTPStatus(dto.NormalizeErrorCode(domainErr.Code))
		message = domainErr.Message
	} else {
		logger.L(c.Request.Context()).Error("Page request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	p.renderStatus(c, area, status, message)
}

func (p *Pages) renderStatus(c *gin.Context, area string, status int, message string) {
	p.render(c, status, "error", view{
		Title: http.StatusText(status),
		Area:  area,
		Error: message,
		Data:  status,
	})
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
	c.Abort()
}

func (p *Pages) partnerSessionConfig() middleware.SessionConfig {
	return middleware.SessionConfig{
		Auth:       p.deps.Auth,
		CookieName: p.deps.PartnerCookie.Name,
		OnError:    func(c *gin.Context, _ error) { redirect(c, "/login") },
		Logger:     p.logger,
	}
}

func (p *Pages) adminSessionConfig() middleware.SessionConfig {
	return middleware.SessionConfig{
		Auth:       p.deps.Auth,
		CookieName: p.deps.AdminCookie.Name,
		OnError:    func(c *gin.Context, _ error) { redirect(c, "/admin/login") },
		Logger:     p.logger,
	}
}

// adminDenied redirects unauthenticated visitors and renders 403 otherwise
func (p *Pages) adminDenied(c *gin.Context, status int) {
	if status == http.StatusUnauthorized {
		redirect(c, "/admin/login")
		return
	}
	p.renderStatus(c, "admin", status, "You do not have access to the back office.")
	c.Abort()
}
