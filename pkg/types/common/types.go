// Package common holds small shared value types used across layers.
package common

// Pagination defines parameters for paginated requests.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// DefaultPageSize is applied when a request omits page_size.
const DefaultPageSize = 50

// MaxPageSize bounds a single page to keep catalog scans cheap.
const MaxPageSize = 500

// Normalize clamps the pagination into its valid range.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset returns the row offset for the page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// PageResult holds pagination metadata for a response.
type PageResult struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalCount int64 `json:"total_count"`
}
