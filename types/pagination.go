package types

import "math"

// Pagination selects a 1-based page of a listing.
type Pagination struct {
	Page  int
	Limit int
}

// Valid reports whether both page and limit are positive and the page's
// offset fits in an int.
func (p Pagination) Valid() bool {
	return p.Page > 0 && p.Limit > 0 && p.Page-1 <= math.MaxInt/p.Limit
}

// Skip returns the number of records preceding the page.
func (p Pagination) Skip() int {
	return (p.Page - 1) * p.Limit
}

// Page is one page of a listing together with the totals needed to render
// pagination controls.
type Page[T any] struct {
	Items      []T
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

// NewPage assembles a Page, computing TotalPages as ceil(total/limit).
func NewPage[T any](items []T, total int, p Pagination) Page[T] {
	totalPages := 0
	if p.Limit > 0 {
		totalPages = total / p.Limit
		if total%p.Limit != 0 {
			totalPages++
		}
	}
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: totalPages,
	}
}
