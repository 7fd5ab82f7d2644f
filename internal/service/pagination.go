package service

// Pagination bounds for list operations.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page selects a 1-based page of a listing.
type Page struct {
	Page  int
	Limit int
}

// normalize clamps the page to valid bounds.
func (p Page) normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

func (p Page) offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination describes a returned page.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}
