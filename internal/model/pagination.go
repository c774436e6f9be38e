package model

// SortField orders a scan by one field. Order is 1 (ascending) or -1 (descending).
type SortField struct {
	Field string `json:"field"`
	Order int    `json:"order"`
}

// PageQuery is the uniform pagination request. Page and PerPage are pointers so an omitted
// value can fall back to its default while an explicit zero is rejected.
type PageQuery struct {
	Filter  map[string]any `json:"filter"`
	Page    *int           `json:"page"`
	PerPage *int           `json:"perPage"`
	Sort    []SortField    `json:"sort"`
	Select  []string       `json:"select"`
}

// Page is the uniform pagination response envelope
type Page[T any] struct {
	Page    int   `json:"page"`
	PerPage int   `json:"perPage"`
	Count   int64 `json:"count"`
	Records []T   `json:"records"`
}
