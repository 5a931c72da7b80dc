package shared

import "time"

// Filter carries paging, ordering and the per-endpoint filters of a list
// query. Filters keys are column-like names understood by each repository,
// for example "status" or "partner_id".
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]any
	From     *time.Time
	To       *time.Time
}

// DefaultFilter returns the first page of twenty, newest first
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: 20,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  map[string]any{},
	}
}

// Normalize clamps paging into range and defaults the direction to desc
func (f Filter) Normalize() Filter {
	f.Page, f.PageSize = ClampPage(f.Page, f.PageSize)
	if f.OrderDir != "asc" {
		f.OrderDir = "desc"
	}
	if f.Filters == nil {
		f.Filters = map[string]any{}
	}
	return f
}

// Offset is the number of rows skipped before the current page
func (f Filter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// Paginated is one page of a list together with the totals needed to render
// page navigation.
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated wraps items as page f.Page of total rows. The filter is
// normalized first so the page numbers match what the repository served.
func NewPaginated[T any](items []T, total int64, f Filter) Paginated[T] {
	f = f.Normalize()
	if items == nil {
		items = []T{}
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       f.Page,
		PageSize:   f.PageSize,
		TotalPages: int((total + int64(f.PageSize) - 1) / int64(f.PageSize)),
	}
}

// HasNext reports whether a later page exists
func (p Paginated[T]) HasNext() bool { return p.Page < p.TotalPages }

// HasPrev reports whether an earlier page exists
func (p Paginated[T]) HasPrev() bool { return p.Page > 1 }
