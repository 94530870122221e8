package util

import "math"

const (
	DefaultPageSize = 8
	MaxPageSize     = 50
)

type Pagination struct {
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	Limit       int   `json:"limit"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// Calculate normalizes page and size and returns the row offset.
func Calculate(page, size int) (p, from, limit int) {
	if page < 1 {
		page = 1
	}
	switch {
	case size <= 0:
		size = DefaultPageSize
	case size > MaxPageSize:
		size = MaxPageSize
	}
	if maxPage := math.MaxInt / size; page > maxPage {
		page = maxPage
	}
	return page, (page - 1) * size, size
}

func NewPagination(total int64, page, limit int) Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{
		TotalItems:  total,
		TotalPages:  pages,
		CurrentPage: page,
		Limit:       limit,
		HasNextPage: page < pages,
		HasPrevPage: page > 1,
	}
}
