package util

import "strconv"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	MaxPage         = 10000
)

// Calculate turns a 1-based page and a page size into an offset and limit.
// Out of range sizes fall back to DefaultPageSize and pages past MaxPage are
// clamped so the offset cannot overflow.
func Calculate(page, size int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return (page - 1) * size, size
}

// Window is Calculate for raw query values; unparsable values count as unset.
func Window(pageRaw, sizeRaw string) (offset, limit int) {
	return Calculate(atoiDefault(pageRaw, 1), atoiDefault(sizeRaw, DefaultPageSize))
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
