package dto

// Pagination is a generic pagination envelope for list results.
// Total is the number of items matching the filters (without pagination); Page is 1-based.
type Pagination[T any] struct {
	Data     []T   `json:"data"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
}

// PaginationPostDTO is the concrete type referenced by swagger annotations.
type PaginationPostDTO = Pagination[PostDTO]
