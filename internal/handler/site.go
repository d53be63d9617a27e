package handler

import (
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trailcrew/internal/domain"
)

// SiteRequest is the body of POST /sites and PUT /sites/{id}. The permit
// fields are checked against permit_kind by the service.
type SiteRequest struct {
	Name            string `json:"name" validate:"required,max=200"`
	Region          string `json:"region,omitempty"`
	Description     string `json:"description,omitempty"`
	PermitURL       string `json:"permit_url,omitempty" validate:"omitempty,url"`
	PermitKind      string `json:"permit_kind,omitempty"`
	AdvanceDays     *int   `json:"advance_days,omitempty"`
	FixedOpenDate   string `json:"fixed_open_date,omitempty"`
	LotteryOpenDate string `json:"lottery_open_date,omitempty"`
	OpenTime        string `json:"open_time,omitempty"`
}

func (b SiteRequest) toDomain(id openapi_types.UUID) domain.Site {
	return domain.Site{
		ID:              id,
		Name:            b.Name,
		Region:          b.Region,
		Description:     b.Description,
		PermitURL:       b.PermitURL,
		PermitKind:      domain.PermitKind(b.PermitKind),
		AdvanceDays:     b.AdvanceDays,
		FixedOpenDate:   b.FixedOpenDate,
		LotteryOpenDate: b.LotteryOpenDate,
		OpenTime:        b.OpenTime,
	}
}

// CreateSite handles POST /sites.
func (s *Server) CreateSite(w http.ResponseWriter, r *http.Request) {
	var body SiteRequest
	if !s.decode(w, r, &body) {
		return
	}
	created, err := s.svc.Sites.Create(r.Context(), body.toDomain(openapi_types.UUID{}))
	if err != nil {
		s.fail(w, r, "site", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListSites handles GET /sites.
func (s *Server) ListSites(w http.ResponseWriter, r *http.Request) {
	sites, err := s.svc.Sites.List(r.Context())
	if err != nil {
		s.fail(w, r, "site", err)
		return
	}
	writeJSON(w, http.StatusOK, sites)
}

// GetSite handles GET /sites/{id}.
func (s *Server) GetSite(w http.ResponseWriter, r *http.Request) {
	var id openapi_types.UUID
	if err := pathParam(r, "id", &id); err != nil {
		requestError(w, err.Error())
		return
	}
	site, err := s.svc.Sites.GetByID(r.Context(), id)
	if err != nil {
		s.fail(w, r, "site", err)
		return
	}
	writeJSON(w, http.StatusOK, site)
}

// UpdateSite handles PUT /sites/{id}. The body replaces every editable field.
func (s *Server) UpdateSite(w http.ResponseWriter, r *http.Request) {
	var id openapi_types.UUID
	if err := pathParam(r, "id", &id); err != nil {
		requestError(w, err.Error())
		return
	}
	var body SiteRequest
	if !s.decode(w, r, &body) {
		return
	}
	updated, err := s.svc.Sites.Update(r.Context(), body.toDomain(id))
	if err != nil {
		s.fail(w, r, "site", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
