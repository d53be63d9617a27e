package handler

import (
	"net/http"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trailcrew/internal/domain"
)

// CreateTripRequest is the body of POST /trips. Dates are optional until the
// crew agrees on them; status defaults to planning.
type CreateTripRequest struct {
	Name      string              `json:"name" validate:"required"`
	Year      int                 `json:"year" validate:"required,gte=2000,lte=2999"`
	Status    string              `json:"status,omitempty" validate:"omitempty,oneof=planning voting locked completed cancelled"`
	StartDate *openapi_types.Date `json:"start_date,omitempty"`
	EndDate   *openapi_types.Date `json:"end_date,omitempty"`
}

// LockTripRequest is the body of POST /trips/{id}/lock.
type LockTripRequest struct {
	StartDate openapi_types.Date `json:"start_date" validate:"required"`
	EndDate   openapi_types.Date `json:"end_date" validate:"required"`
}

// Trip is the JSON shape of a trip.
type Trip struct {
	ID        openapi_types.UUID  `json:"id"`
	Name      string              `json:"name"`
	Year      int                 `json:"year"`
	Status    string              `json:"status"`
	StartDate *openapi_types.Date `json:"start_date,omitempty"`
	EndDate   *openapi_types.Date `json:"end_date,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var body CreateTripRequest
	if !s.decode(w, r, &body) {
		return
	}

	created, err := s.svc.Trips.Create(r.Context(), domain.Trip{
		Name:      body.Name,
		Year:      body.Year,
		Status:    domain.TripStatus(body.Status),
		StartDate: fromDate(body.StartDate),
		EndDate:   fromDate(body.EndDate),
	})
	if err != nil {
		s.fail(w, r, "trip", err)
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

// ListTrips handles GET /trips.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := s.svc.Trips.List(r.Context())
	if err != nil {
		s.fail(w, r, "trip", err)
		return
	}
	data := make([]Trip, len(trips))
	for i, t := range trips {
		data[i] = tripToResponse(t)
	}
	writeJSON(w, http.StatusOK, data)
}

// GetTrip handles GET /trips/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	var id openapi_types.UUID
	if err := pathParam(r, "id", &id); err != nil {
		requestError(w, err.Error())
		return
	}
	trip, err := s.svc.Trips.GetByID(r.Context(), id)
	if err != nil {
		s.fail(w, r, "trip", err)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// LockTrip handles POST /trips/{id}/lock: it confirms the trip dates, after
// which reminders can be generated.
func (s *Server) LockTrip(w http.ResponseWriter, r *http.Request) {
	var id openapi_types.UUID
	if err := pathParam(r, "id", &id); err != nil {
		requestError(w, err.Error())
		return
	}
	var body LockTripRequest
	if !s.decode(w, r, &body) {
		return
	}
	trip, err := s.svc.Trips.LockDates(r.Context(), id, body.StartDate.Time, body.EndDate.Time)
	if err != nil {
		s.fail(w, r, "trip", err)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// --- mapping helpers --------------------------------------------------------

func tripToResponse(t domain.Trip) Trip {
	return Trip{
		ID:        t.ID,
		Name:      t.Name,
		Year:      t.Year,
		Status:    string(t.Status),
		StartDate: toDate(t.StartDate),
		EndDate:   toDate(t.EndDate),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// toDate converts a nullable domain date into an openapi Date.
func toDate(t *time.Time) *openapi_types.Date {
	if t == nil {
		return nil
	}
	return &openapi_types.Date{Time: *t}
}

func fromDate(d *openapi_types.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}
