package handler

import (
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trailcrew/internal/domain"
)

// DateOption is the JSON shape of a candidate trip window.
type DateOption struct {
	ID        *openapi_types.UUID `json:"id,omitempty"`
	StartDate openapi_types.Date  `json:"start_date"`
	EndDate   openapi_types.Date  `json:"end_date"`
	Label     string              `json:"label"`
}

// PreviewDateOptions handles GET /seasons/{year}/date-options. Nothing is stored.
func (s *Server) PreviewDateOptions(w http.ResponseWriter, r *http.Request) {
	var year int
	if err := pathParam(r, "year", &year); err != nil {
		requestError(w, err.Error())
		return
	}
	opts, err := s.svc.DateOptions.Preview(year)
	if err != nil {
		s.fail(w, r, "season", err)
		return
	}
	writeJSON(w, http.StatusOK, dateOptionsToResponse(opts))
}

// SeedDateOptions handles POST /trips/{id}/date-options. Re-running it is
// harmless: existing windows are kept and the full list is returned.
func (s *Server) SeedDateOptions(w http.ResponseWriter, r *http.Request) {
	var id openapi_types.UUID
	if err := pathParam(r, "id", &id); err != nil {
		requestError(w, err.Error())
		return
	}
	opts, err := s.svc.DateOptions.Seed(r.Context(), id)
	if err != nil {
		s.fail(w, r, "trip", err)
		return
	}
	writeJSON(w, http.StatusOK, dateOptionsToResponse(opts))
}

// ListDateOptions handles GET /trips/{id}/date-options.
func (s *Server) ListDateOptions(w http.ResponseWriter, r *http.Request) {
	var id openapi_types.UUID
	if err := pathParam(r, "id", &id); err != nil {
		requestError(w, err.Error())
		return
	}
	opts, err := s.svc.DateOptions.List(r.Context(), id)
	if err != nil {
		s.fail(w, r, "trip", err)
		return
	}
	writeJSON(w, http.StatusOK, dateOptionsToResponse(opts))
}

func dateOptionsToResponse(opts []domain.DateOption) []DateOption {
	out := make([]DateOption, len(opts))
	for i, o := range opts {
		out[i] = DateOption{
			StartDate: openapi_types.Date{Time: o.StartDate},
			EndDate:   openapi_types.Date{Time: o.EndDate},
			Label:     o.Label,
		}
		if o.ID != (openapi_types.UUID{}) {
			id := o.ID
			out[i].ID = &id
		}
	}
	return out
}
