package util

import "strconv"

const (
	DefaultPageSize = 10
	MaxPageSize     = 20
)

type PaginationMetadata struct {
	TotalItemCount int64 `json:"totalItemCount"`
	TotalPageCount int64 `json:"totalPageCount"`
	PageSize       int   `json:"pageSize"`
	CurrentPage    int   `json:"currentPage"`
}

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// Clamp floors page to 1 and bounds size to [1, max]. A non-positive size
// falls back to DefaultPageSize.
func Clamp(page, size, max int) (int, int) {
	if max < 1 {
		max = MaxPageSize
	}
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > max {
		size = max
	}
	return page, size
}

func Calculate(page, size int) (offset int, limit int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}

	offset = (page - 1) * size
	limit = size
	return offset, limit
}

func NewMetadata(total int64, page, size int) PaginationMetadata {
	pages := int64(0)
	if size > 0 {
		pages = (total + int64(size) - 1) / int64(size)
	}
	return PaginationMetadata{
		TotalItemCount: total,
		TotalPageCount: pages,
		PageSize:       size,
		CurrentPage:    page,
	}
}
