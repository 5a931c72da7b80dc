package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/luminform/atelier/internal/domain/shared"
)

// microsite renders a published microsite; unknown and unpublished slugs are 404
func (p *Pages) microsite(c *gin.Context) {
	page, err := p.deps.Microsites.RenderPublic(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			p.renderStatus(c, "public", http.StatusNotFound, "This page does not exist or is no longer published.")
			return
		}
		p.renderError(c, "public", err)
		return
	}
	c.Header("Cache-Control", "no-cache")
	p.render(c, http.StatusOK, "microsite", page)
}
