package handler

import (
	"net/http"

	"github.com/pkordes/trailcrew/internal/domain"
)

// Pagination describes the page returned by a paged listing.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// EmailLogPage is the body of GET /email-log.
type EmailLogPage struct {
	Data       []domain.EmailLog `json:"data"`
	Pagination Pagination        `json:"pagination"`
}

// ListEmailLog handles GET /email-log.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListEmailLog(w http.ResponseWriter, r *http.Request) {
	var page, limit *int
	if err := queryParam(r, "page", &page); err != nil {
		requestError(w, err.Error())
		return
	}
	if err := queryParam(r, "limit", &limit); err != nil {
		requestError(w, err.Error())
		return
	}
	params := domain.NewPaginationParams(page, limit)

	entries, total, err := s.svc.EmailLog.ListPaged(r.Context(), params)
	if err != nil {
		s.fail(w, r, "email log", err)
		return
	}
	writeJSON(w, http.StatusOK, EmailLogPage{
		Data: entries,
		Pagination: Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: int(total),
		},
	})
}
