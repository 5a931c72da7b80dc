package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/luminform/atelier/internal/domain/shared"
	"github.com/luminform/atelier/internal/interfaces/http/dto"
)

func isValidationError(err error) bool {
	var ve validator.ValidationErrors
	return errors.As(err, &ve)
}

// toFilter converts list query parameters into a repository filter. Only
// the extra keys named by the endpoint are copied from the query string.
func toFilter(c *gin.Context, req dto.ListRequest, keys ...string) shared.Filter {
	filter := shared.DefaultFilter()
	filter.Page = req.Page
	filter.PageSize = req.PageSize
	if req.OrderBy != "" {
		filter.OrderBy = req.OrderBy
	}
	if req.OrderDir != "" {
		filter.OrderDir = req.OrderDir
	}
	filter.Search = req.Search
	filter.From = req.From
	if req.To != nil {
		// To is inclusive for callers; repositories treat it as exclusive
		end := req.To.AddDate(0, 0, 1)
		filter.To = &end
	}
	if req.Status != "" {
		filter.Filters["status"] = req.Status
	}
	for _, key := range keys {
		if v := c.Query(key); v != "" {
			filter.Filters[key] = v
		}
	}
	return filter.Normalize()
}

// boolQuery copies a "true"/"false" query parameter into the filter
func boolQuery(c *gin.Context, filter shared.Filter, key string) shared.Filter {
	switch c.Query(key) {
	case "true":
		filter.Filters[key] = true
	case "false":
		filter.Filters[key] = false
	}
	return filter
}
