package web

// ChatRequest is the body of POST /api/v1/intelligence/chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// Page is one page of raw records. CurrentPage is 1-based.
type Page[T any] struct {
	Content       []T   `json:"content"`
	CurrentPage   int   `json:"currentPage"`
	PageSize      int   `json:"pageSize"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
}

func newPage[T any](content []T, page, size int, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	pages := 0
	if size > 0 {
		pages = int((total + int64(size) - 1) / int64(size))
	}
	return Page[T]{
		Content:       content,
		CurrentPage:   page,
		PageSize:      size,
		TotalPages:    pages,
		TotalElements: total,
	}
}
