// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import "strconv"

// AtoiDefault converts s with strconv.Atoi, returning def when s is empty or
// not an integer.
//
//	n := utils.AtoiDefault("42", 0) // 42
//	n = utils.AtoiDefault("x", 5)   // 5
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// Page is a validated page request.
type Page struct {
	Number int // 1-based
	Size   int
}

// Offset is the number of rows to skip.
func (p Page) Offset() int { return (p.Number - 1) * p.Size }

// TotalPages is ceil(total/Size).
func (p Page) TotalPages(total int64) int {
	return int((total + int64(p.Size) - 1) / int64(p.Size))
}

// ParsePage reads raw page and page_size values. A missing or invalid page
// is 1; page_size defaults to def and is clamped to [1, max].
func ParsePage(page, size string, def, max int) Page {
	p := Page{
		Number: AtoiDefault(page, 1),
		Size:   AtoiDefault(size, def),
	}
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = 1
	}
	if max > 0 && p.Size > max {
		p.Size = max
	}
	return p
}
