package handler

import (
	"net/http"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trailcrew/internal/domain"
	"github.com/pkordes/trailcrew/internal/service"
)

// localLayout renders permit instants on the zone's wall clock.
const localLayout = "Mon Jan 2 2006 3:04 PM MST"

// GenerateRemindersRequest is the optional body of POST /trips/{id}/reminders.
// An empty site list means every site.
type GenerateRemindersRequest struct {
	SiteIDs []openapi_types.UUID `json:"site_ids,omitempty"`
}

// SetStatusRequest is the body of PUT /reminders/{id}/status.
type SetStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Reminder is the JSON shape of a permit reminder.
type Reminder struct {
	ID               openapi_types.UUID `json:"id"`
	TripID           openapi_types.UUID `json:"trip_id"`
	SiteID           openapi_types.UUID `json:"site_id"`
	SiteName         string             `json:"site_name,omitempty"`
	TripStartDate    openapi_types.Date `json:"trip_start_date"`
	PermitOpensAt    time.Time          `json:"permit_opens_at"`
	PermitOpensLocal string             `json:"permit_opens_local"`
	RemindAt         time.Time          `json:"remind_at"`
	RemindLocal      string             `json:"remind_local"`
	Status           string             `json:"status"`
	SentAt           *time.Time         `json:"sent_at,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// GenerationResponse reports the reminders created and the sites skipped.
type GenerationResponse struct {
	Created  []Reminder              `json:"created"`
	Skipped  []service.SkipNotice    `json:"skipped"`
	Defaults []service.DefaultNotice `json:"defaults"`
}

// GenerateReminders handles POST /trips/{id}/reminders.
// The body is optional; without it every site is considered.
func (s *Server) GenerateReminders(w http.ResponseWriter, r *http.Request) {
	var id openapi_types.UUID
	if err := pathParam(r, "id", &id); err != nil {
		requestError(w, err.Error())
		return
	}
	var body GenerateRemindersRequest
	if !s.decodeOptional(w, r, &body) {
		return
	}

	result, err := s.svc.Reminders.GenerateReminders(r.Context(), id, body.SiteIDs)
	if err != nil {
		s.fail(w, r, "trip", err)
		return
	}

	resp := GenerationResponse{
		Created:  s.remindersToResponse(result.Created),
		Skipped:  result.Skipped,
		Defaults: result.Defaults,
	}
	if resp.Skipped == nil {
		resp.Skipped = []service.SkipNotice{}
	}
	if resp.Defaults == nil {
		resp.Defaults = []service.DefaultNotice{}
	}
	status := http.StatusOK
	if len(resp.Created) > 0 {
		status = http.StatusCreated
	}
	writeJSON(w, status, resp)
}

// ListTripReminders handles GET /trips/{id}/reminders.
func (s *Server) ListTripReminders(w http.ResponseWriter, r *http.Request) {
	var id openapi_types.UUID
	if err := pathParam(r, "id", &id); err != nil {
		requestError(w, err.Error())
		return
	}
	rows, err := s.svc.Reminders.ListForTrip(r.Context(), id)
	if err != nil {
		s.fail(w, r, "trip", err)
		return
	}
	writeJSON(w, http.StatusOK, s.remindersToResponse(rows))
}

// ListDueReminders handles GET /reminders/due.
func (s *Server) ListDueReminders(w http.ResponseWriter, r *http.Request) {
	rows, err := s.svc.Reminders.DueReminders(r.Context())
	if err != nil {
		s.fail(w, r, "reminder", err)
		return
	}
	writeJSON(w, http.StatusOK, s.remindersToResponse(rows))
}

// ListUpcomingReminders handles GET /reminders/upcoming?days=N.
func (s *Server) ListUpcomingReminders(w http.ResponseWriter, r *http.Request) {
	var days *int
	if err := queryParam(r, "days", &days); err != nil {
		requestError(w, err.Error())
		return
	}
	horizon := s.opts.UpcomingDays
	if days != nil {
		if *days < 0 || *days > 366 {
			requestError(w, "days must be between 0 and 366")
			return
		}
		horizon = *days
	}
	rows, err := s.svc.Reminders.UpcomingReminders(r.Context(), horizon)
	if err != nil {
		s.fail(w, r, "reminder", err)
		return
	}
	writeJSON(w, http.StatusOK, s.remindersToResponse(rows))
}

// SendDueReminders handles POST /reminders/send-due. Per-reminder failures
// are reported in the body with a 200; only a run that could not start fails.
func (s *Server) SendDueReminders(w http.ResponseWriter, r *http.Request) {
	report, err := s.svc.Reminders.SendDue(r.Context())
	if err != nil {
		s.fail(w, r, "reminder", err)
		return
	}
	if report.Results == nil {
		report.Results = []service.DispatchResult{}
	}
	writeJSON(w, http.StatusOK, report)
}

// SetReminderStatus handles PUT /reminders/{id}/status.
func (s *Server) SetReminderStatus(w http.ResponseWriter, r *http.Request) {
	var id openapi_types.UUID
	if err := pathParam(r, "id", &id); err != nil {
		requestError(w, err.Error())
		return
	}
	var body SetStatusRequest
	if !s.decode(w, r, &body) {
		return
	}
	updated, err := s.svc.Reminders.SetStatus(r.Context(), id, domain.ReminderStatus(body.Status))
	if err != nil {
		s.fail(w, r, "reminder", err)
		return
	}
	writeJSON(w, http.StatusOK, s.reminderToResponse(updated))
}

// --- mapping helpers --------------------------------------------------------

func (s *Server) remindersToResponse(rows []domain.PermitReminder) []Reminder {
	out := make([]Reminder, len(rows))
	for i, rem := range rows {
		out[i] = s.reminderToResponse(rem)
	}
	return out
}

func (s *Server) reminderToResponse(rem domain.PermitReminder) Reminder {
	return Reminder{
		ID:               rem.ID,
		TripID:           rem.TripID,
		SiteID:           rem.SiteID,
		SiteName:         rem.SiteName,
		TripStartDate:    openapi_types.Date{Time: rem.TripStartDate},
		PermitOpensAt:    rem.PermitOpensAt,
		PermitOpensLocal: s.opts.Zone.Format(rem.PermitOpensAt, localLayout),
		RemindAt:         rem.RemindAt,
		RemindLocal:      s.opts.Zone.Format(rem.RemindAt, localLayout),
		Status:           string(rem.Status),
		SentAt:           rem.SentAt,
		CreatedAt:        rem.CreatedAt,
		UpdatedAt:        rem.UpdatedAt,
	}
}
