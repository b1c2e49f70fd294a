package httpserver

import (
	"net/http"
	"strconv"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

type PaginationParams struct {
	Page  int
	Limit int
}

// Offset converts the 1-based page into a storage offset.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

func DefaultPaginationParams() PaginationParams {
	return PaginationParams{Page: defaultPage, Limit: defaultLimit}
}

// ExtractPaginationParams reads page and limit from the query string. Values
// outside the accepted range fall back to defaults.
func ExtractPaginationParams(r *http.Request) PaginationParams {
	params := DefaultPaginationParams()

	if raw := r.URL.Query().Get("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil && page > 0 {
			params.Page = page
		}
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 && limit <= maxLimit {
			params.Limit = limit
		}
	}

	return params
}

type paginatedResponse struct {
	Data       any                `json:"data"`
	Pagination paginationMetadata `json:"pagination"`
}

type paginationMetadata struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ReplyWithPaginatedData wraps the data slice in the standard paginated
// envelope.
func ReplyWithPaginatedData(w http.ResponseWriter, statusCode int, data any, total int, params PaginationParams) {
	ReplyJSONResponse(w, statusCode, paginatedResponse{
		Data: data,
		Pagination: paginationMetadata{
			Total:  total,
			Limit:  params.Limit,
			Offset: params.Offset(),
		},
	})
}
