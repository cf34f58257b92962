package models

// Page is a window over a result set ordered by descending creation time.
// Pages are 1-based; HasMore reports whether a later page exists.
type Page[T any] struct {
	Data    []T   `json:"data"`
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	HasMore bool  `json:"has_more"`
}

// NewPage assembles a Page from a fetched slice and the total row count.
func NewPage[T any](data []T, total int64, page, limit int) Page[T] {
	if data == nil {
		data = []T{}
	}
	offset := (page - 1) * limit
	return Page[T]{
		Data:    data,
		Total:   total,
		Page:    page,
		Limit:   limit,
		HasMore: int64(offset+len(data)) < total,
	}
}
