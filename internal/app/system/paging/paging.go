// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/doracare/murshid/internal/domain/models"
)

// PageSize is the default number of rows requested per page from the
// tracking service's paged listings.
const PageSize = 20

// ModalPageSize is a smaller page size for modal pickers where less
// vertical space is available.
const ModalPageSize = 10

// ParsePage extracts the 1-based "page" query parameter.
// Returns 1 if not present or invalid.
func ParsePage(r *http.Request) int {
	s := r.URL.Query().Get("page")
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// ParseLimit extracts the "limit" query parameter, clamped to
// [1, 100]. Returns def when absent or invalid.
func ParseLimit(r *http.Request, def int) int {
	s := r.URL.Query().Get("limit")
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	if n > 100 {
		return 100
	}
	return n
}

// Nav holds everything a template needs to render pager controls from a
// service pagination block.
type Nav struct {
	Page    int
	Pages   int
	Total   int
	HasPrev bool
	HasNext bool
	Prev    int
	Next    int
	Window  []int
}

// windowRadius is how many page numbers show on each side of the
// current page.
const windowRadius = 2

// NewNav builds pager state from the pagination block the service
// returned. A zero Pages (service omitted the block) collapses to a
// single page.
func NewNav(p models.Pagination) Nav {
	page, pages := p.Page, p.Pages
	if page < 1 {
		page = 1
	}
	if pages < 1 {
		pages = 1
	}
	if page > pages {
		page = pages
	}

	n := Nav{
		Page:    page,
		Pages:   pages,
		Total:   p.Total,
		HasPrev: page > 1,
		HasNext: page < pages,
		Prev:    page - 1,
		Next:    page + 1,
	}
	if !n.HasPrev {
		n.Prev = 1
	}
	if !n.HasNext {
		n.Next = pages
	}

	lo := page - windowRadius
	if lo < 1 {
		lo = 1
	}
	hi := page + windowRadius
	if hi > pages {
		hi = pages
	}
	for i := lo; i <= hi; i++ {
		n.Window = append(n.Window, i)
	}
	return n
}
