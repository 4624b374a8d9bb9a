package dto

// SearchResponse is one page of search results.
type SearchResponse struct {
	Results []PropertyView `json:"results"`
	Total   int64          `json:"total"`
	Limit   int            `json:"limit"`
	Offset  int            `json:"offset"`
}

// ErrorResponse is the body of every non-2xx REST response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// SuccessResponse wraps mutation results.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
