package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trailcrew/internal/calendar"
	"github.com/pkordes/trailcrew/internal/domain"
	"github.com/pkordes/trailcrew/internal/handler"
	"github.com/pkordes/trailcrew/internal/permit"
	"github.com/pkordes/trailcrew/internal/service"
)

func reminderHandler(t *testing.T, svc *mockReminderServicer, opts handler.Options) http.Handler {
	t.Helper()
	if opts.Zone == (calendar.Zone{}) {
		zone, err := calendar.LoadZone("America/Los_Angeles")
		require.NoError(t, err)
		opts.Zone = zone
	}
	return handler.NewServer(handler.Services{Trips: &mockTripServicer{}, Reminders: svc}, opts, nil).Handler()
}

func reminderFixture() domain.PermitReminder {
	opens := time.Date(2026, 1, 16, 15, 0, 0, 0, time.UTC) // 07:00 PST
	return domain.PermitReminder{
		ID:            uuid.New(),
		TripID:        uuid.New(),
		SiteID:        uuid.New(),
		SiteName:      "Mount Whitney",
		TripStartDate: date(2026, 7, 15),
		PermitOpensAt: opens,
		RemindAt:      opens.Add(-24 * time.Hour),
		Status:        domain.ReminderPending,
	}
}

// ---- POST /trips/{id}/reminders -------------------------------------------

func TestGenerateReminders_201_WithSkips(t *testing.T) {
	tripID := uuid.New()
	rem := reminderFixture()
	skipped := service.SkipNotice{SiteID: uuid.New(), SiteName: "Nowhere", Reason: service.SkipUnknownPolicy}
	svc := &mockReminderServicer{
		generate: func(_ context.Context, id uuid.UUID, siteIDs []uuid.UUID) (service.GenerationResult, error) {
			assert.Equal(t, tripID, id)
			assert.Empty(t, siteIDs)
			return service.GenerationResult{
				Created:  []domain.PermitReminder{rem},
				Skipped:  []service.SkipNotice{skipped},
				Defaults: []service.DefaultNotice{{SiteID: rem.SiteID, SiteName: rem.SiteName, Default: permit.DefaultOpenTimeUsed}},
			}, nil
		},
	}

	rec := do(reminderHandler(t, svc, handler.Options{}), http.MethodPost, "/trips/"+tripID.String()+"/reminders", nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp handler.GenerationResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Created, 1)
	assert.Equal(t, "2026-07-15", resp.Created[0].TripStartDate.String())
	assert.Equal(t, "Fri Jan 16 2026 7:00 AM PST", resp.Created[0].PermitOpensLocal)
	assert.Equal(t, "Thu Jan 15 2026 7:00 AM PST", resp.Created[0].RemindLocal)
	require.Len(t, resp.Skipped, 1)
	assert.Equal(t, service.SkipUnknownPolicy, resp.Skipped[0].Reason)
	require.Len(t, resp.Defaults, 1)
}

func TestGenerateReminders_200_NothingCreated(t *testing.T) {
	svc := &mockReminderServicer{
		generate: func(context.Context, uuid.UUID, []uuid.UUID) (service.GenerationResult, error) {
			return service.GenerationResult{Created: []domain.PermitReminder{}}, nil
		},
	}

	rec := do(reminderHandler(t, svc, handler.Options{}), http.MethodPost, "/trips/"+uuid.NewString()+"/reminders", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"created":[],"skipped":[],"defaults":[]}`, rec.Body.String())
}

func TestGenerateReminders_EmptyChunkedBodyMeansAllSites(t *testing.T) {
	called := false
	svc := &mockReminderServicer{
		generate: func(_ context.Context, _ uuid.UUID, siteIDs []uuid.UUID) (service.GenerationResult, error) {
			called = true
			assert.Empty(t, siteIDs)
			return service.GenerationResult{}, nil
		},
	}
	req := httptest.NewRequest(http.MethodPost, "/trips/"+uuid.NewString()+"/reminders", nil)
	req.Body = io.NopCloser(strings.NewReader(""))
	req.ContentLength = -1
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	reminderHandler(t, svc, handler.Options{}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, called)
}

func TestGenerateReminders_422_MalformedBody(t *testing.T) {
	svc := &mockReminderServicer{
		generate: func(context.Context, uuid.UUID, []uuid.UUID) (service.GenerationResult, error) {
			t.Fatal("service must not be called for a malformed body")
			return service.GenerationResult{}, nil
		},
	}

	rec := do(reminderHandler(t, svc, handler.Options{}), http.MethodPost, "/trips/"+uuid.NewString()+"/reminders",
		strings.NewReader(`{"site_ids":`))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "validation_error", decodeError(t, rec).Code)
}

func TestGenerateReminders_PassesSiteSubset(t *testing.T) {
	want := []uuid.UUID{uuid.New(), uuid.New()}
	svc := &mockReminderServicer{
		generate: func(_ context.Context, _ uuid.UUID, siteIDs []uuid.UUID) (service.GenerationResult, error) {
			assert.Equal(t, want, siteIDs)
			return service.GenerationResult{}, nil
		},
	}

	rec := do(reminderHandler(t, svc, handler.Options{}), http.MethodPost, "/trips/"+uuid.NewString()+"/reminders",
		jsonBody(t, map[string]any{"site_ids": want}))

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGenerateReminders_409_NotFinalized(t *testing.T) {
	svc := &mockReminderServicer{
		generate: func(context.Context, uuid.UUID, []uuid.UUID) (service.GenerationResult, error) {
			return service.GenerationResult{}, fmt.Errorf("service.ReminderService.GenerateReminders: %w", domain.ErrTripNotFinalized)
		},
	}

	rec := do(reminderHandler(t, svc, handler.Options{}), http.MethodPost, "/trips/"+uuid.NewString()+"/reminders", nil)

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "trip_not_finalized", decodeError(t, rec).Code)
}

// ---- GET /reminders/due, /reminders/upcoming ------------------------------

func TestListDueReminders_200(t *testing.T) {
	svc := &mockReminderServicer{
		due: func(context.Context) ([]domain.PermitReminder, error) {
			return []domain.PermitReminder{reminderFixture()}, nil
		},
	}

	rec := do(reminderHandler(t, svc, handler.Options{}), http.MethodGet, "/reminders/due", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []handler.Reminder
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "pending", resp[0].Status)
}

func TestListDueReminders_EmptyIsArray(t *testing.T) {
	svc := &mockReminderServicer{
		due: func(context.Context) ([]domain.PermitReminder, error) { return nil, nil },
	}

	rec := do(reminderHandler(t, svc, handler.Options{}), http.MethodGet, "/reminders/due", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestListUpcomingReminders_Horizon(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		configured int
		wantDays   int
		wantStatus int
	}{
		{"package default", "", 0, handler.DefaultUpcomingDays, http.StatusOK},
		{"configured default", "", 30, 30, http.StatusOK},
		{"query wins", "?days=7", 30, 7, http.StatusOK},
		{"zero means today only", "?days=0", 30, 0, http.StatusOK},
		{"negative rejected", "?days=-1", 30, 0, http.StatusUnprocessableEntity},
		{"over a year rejected", "?days=400", 30, 0, http.StatusUnprocessableEntity},
		{"not a number", "?days=soon", 30, 0, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got int
			svc := &mockReminderServicer{
				upcoming: func(_ context.Context, days int) ([]domain.PermitReminder, error) {
					got = days
					return nil, nil
				},
			}
			h := reminderHandler(t, svc, handler.Options{UpcomingDays: tt.configured})

			rec := do(h, http.MethodGet, "/reminders/upcoming"+tt.query, nil)

			require.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantDays, got)
		})
	}
}

// ---- POST /reminders/send-due ---------------------------------------------

func TestSendDueReminders_200_ReportsPartialFailure(t *testing.T) {
	svc := &mockReminderServicer{
		sendDue: func(context.Context) (service.DispatchReport, error) {
			return service.DispatchReport{
				Found: 2, Sent: 1, Failed: 1,
				Results: []service.DispatchResult{
					{ReminderID: uuid.New(), SiteName: "A", Outcome: service.OutcomeSent, MessageID: "<1@example.com>"},
					{ReminderID: uuid.New(), SiteName: "B", Outcome: service.OutcomeFailed, Error: "smtp: 451"},
				},
			}, nil
		},
	}

	rec := do(reminderHandler(t, svc, handler.Options{}), http.MethodPost, "/reminders/send-due", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp service.DispatchReport
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 2, resp.Found)
	assert.Equal(t, 1, resp.Sent)
	assert.Equal(t, 1, resp.Failed)
	assert.Equal(t, "smtp: 451", resp.Results[1].Error)
}

func TestSendDueReminders_503_Configuration(t *testing.T) {
	svc := &mockReminderServicer{
		sendDue: func(context.Context) (service.DispatchReport, error) {
			return service.DispatchReport{}, fmt.Errorf("service.ReminderService.SendDue: %w: test mode needs MAIL_TEST_RECIPIENT", domain.ErrConfiguration)
		},
	}

	rec := do(reminderHandler(t, svc, handler.Options{}), http.MethodPost, "/reminders/send-due", nil)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	detail := decodeError(t, rec)
	assert.Equal(t, "configuration_error", detail.Code)
	assert.Equal(t, "test mode needs MAIL_TEST_RECIPIENT", detail.Message)
}

func TestSendDueReminders_500(t *testing.T) {
	svc := &mockReminderServicer{
		sendDue: func(context.Context) (service.DispatchReport, error) {
			return service.DispatchReport{}, errors.New("db down")
		},
	}

	rec := do(reminderHandler(t, svc, handler.Options{}), http.MethodPost, "/reminders/send-due", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

// ---- PUT /reminders/{id}/status -------------------------------------------

func TestSetReminderStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"ok", nil, http.StatusOK, ""},
		{"not found", domain.ErrNotFound, http.StatusNotFound, "not_found"},
		{"unknown status", fmt.Errorf("%w: unknown status %q", domain.ErrValidation, "lost"), http.StatusUnprocessableEntity, "validation_error"},
		{"sent to pending", fmt.Errorf("%w: a sent reminder cannot return to pending", domain.ErrInvalidStatusTransition), http.StatusUnprocessableEntity, "invalid_status_transition"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rem := reminderFixture()
			svc := &mockReminderServicer{
				setStatus: func(_ context.Context, id uuid.UUID, status domain.ReminderStatus) (domain.PermitReminder, error) {
					assert.Equal(t, rem.ID, id)
					assert.Equal(t, domain.ReminderBooked, status)
					if tt.err != nil {
						return domain.PermitReminder{}, tt.err
					}
					rem.Status = status
					return rem, nil
				},
			}

			rec := do(reminderHandler(t, svc, handler.Options{}), http.MethodPut, "/reminders/"+rem.ID.String()+"/status",
				jsonBody(t, map[string]any{"status": "booked"}))

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
				return
			}
			var resp handler.Reminder
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, "booked", resp.Status)
		})
	}
}

func TestSetReminderStatus_422_MissingStatus(t *testing.T) {
	rec := do(reminderHandler(t, &mockReminderServicer{}, handler.Options{}), http.MethodPut, "/reminders/"+uuid.NewString()+"/status",
		jsonBody(t, map[string]any{}))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "status: required", decodeError(t, rec).Message)
}
