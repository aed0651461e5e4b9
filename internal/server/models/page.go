package models

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// PageQuery selects one page of a listing. Page and Limit start at 1.
type PageQuery struct {
	Page   int
	Limit  int
	Filter ArticleFilter
}

// Offset is the number of rows skipped before the page starts.
func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Page is one slice of a listing together with pagination metadata.
type Page[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// NewPage builds a Page, computing TotalPages as ceil(total/limit).
func NewPage[T any](data []T, total int, q PageQuery) *Page[T] {
	if data == nil {
		data = []T{}
	}
	return &Page[T]{
		Data:       data,
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: TotalPages(total, q.Limit),
	}
}

// TotalPages returns ceil(total/limit), or 0 when there is nothing to page.
func TotalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
