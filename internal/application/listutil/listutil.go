// Package listutil holds the page arithmetic shared by paginated views.
package listutil

import (
	"net/url"
	"strconv"
)

// DefaultPerPage is used when a caller passes a non-positive page size.
const DefaultPerPage = 5

// ParsePage reads the 1-indexed "page" query value. Missing or invalid values yield 1.
func ParsePage(q url.Values) int {
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// PageInfo carries pagination metadata for rendering.
type PageInfo struct {
	Page       int // current page (1-indexed)
	PerPage    int
	Total      int // total matching rows
	TotalPages int // ceil(Total / PerPage), at least 1
}

// NewPageInfo computes pagination metadata.
// POST: Page is clamped to [1, TotalPages]
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if total < 0 {
		total = 0
	}
	totalPages := max((total+perPage-1)/perPage, 1)
	page = min(max(page, 1), totalPages)
	return PageInfo{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

// Offset returns the zero-based index of the first row on the page.
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// StartRow returns the 1-indexed first row on the page, or 0 when empty.
func (p PageInfo) StartRow() int {
	if p.Total == 0 {
		return 0
	}
	return p.Offset() + 1
}

// EndRow returns the 1-indexed last row on the page.
func (p PageInfo) EndRow() int {
	return min(p.Offset()+p.PerPage, p.Total)
}

// HasPrev reports whether a previous page exists.
func (p PageInfo) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a next page exists.
func (p PageInfo) HasNext() bool { return p.Page < p.TotalPages }

// Prev returns the previous page number, never below 1.
func (p PageInfo) Prev() int { return max(p.Page-1, 1) }

// Next returns the next page number, never above TotalPages.
func (p PageInfo) Next() int { return min(p.Page+1, p.TotalPages) }

// PageNumbers returns every page number 1..TotalPages for the page buttons.
func (p PageInfo) PageNumbers() []int {
	pages := make([]int, p.TotalPages)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}

// ShowPagination reports whether more than one page exists.
func (p PageInfo) ShowPagination() bool {
	return p.TotalPages > 1
}

// Paginate returns the slice of items on page along with its metadata.
// INVARIANT: items is not modified
func Paginate[T any](items []T, page, perPage int) ([]T, PageInfo) {
	info := NewPageInfo(page, perPage, len(items))
	if info.Total == 0 {
		return nil, info
	}
	return items[info.Offset():info.EndRow()], info
}
