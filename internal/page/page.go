// Package page carries list paging, sorting and search parameters.
package page

import (
	"math"
	"strings"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 200
	DefaultSortBy   = "id"

	// MaxOffset bounds PageNumber*PageSize so it fits Postgres' OFFSET and
	// never overflows int.
	MaxOffset = math.MaxInt32
)

// Request is the list query accepted by every list endpoint.
type Request struct {
	PageNumber int
	PageSize   int
	SortBy     string
	SortDir    string
	SearchText string
}

// Normalize applies defaults: page 0, size 20, sort by id ascending.
func (r Request) Normalize() Request {
	if r.PageNumber < 0 {
		r.PageNumber = 0
	}
	if r.PageSize <= 0 {
		r.PageSize = DefaultPageSize
	}
	if r.PageSize > MaxPageSize {
		r.PageSize = MaxPageSize
	}
	if r.PageNumber > MaxOffset/r.PageSize {
		r.PageNumber = MaxOffset / r.PageSize
	}
	r.SortBy = strings.TrimSpace(r.SortBy)
	if r.SortBy == "" {
		r.SortBy = DefaultSortBy
	}
	if strings.EqualFold(strings.TrimSpace(r.SortDir), "desc") {
		r.SortDir = "desc"
	} else {
		r.SortDir = "asc"
	}
	r.SearchText = strings.TrimSpace(r.SearchText)
	return r
}

// Desc reports a descending sort.
func (r Request) Desc() bool {
	return strings.EqualFold(r.SortDir, "desc")
}

// Offset is the number of rows skipped before the page.
func (r Request) Offset() int {
	return r.PageNumber * r.PageSize
}

// Page is one page of results plus the total size of the filtered set.
type Page[T any] struct {
	Items []T
	Total int64
}
