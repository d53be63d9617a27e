package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trailcrew/internal/domain"
	"github.com/pkordes/trailcrew/internal/handler"
	"github.com/pkordes/trailcrew/internal/service"
)

// Test doubles for the handler's service interfaces.
// Set only the method fields your test needs.

type mockTripServicer struct {
	create    func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	list      func(ctx context.Context) ([]domain.Trip, error)
	lockDates func(ctx context.Context, id uuid.UUID, start, end time.Time) (domain.Trip, error)
}

func (m *mockTripServicer) Create(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.create(ctx, t)
}
func (m *mockTripServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripServicer) List(ctx context.Context) ([]domain.Trip, error) {
	return m.list(ctx)
}
func (m *mockTripServicer) LockDates(ctx context.Context, id uuid.UUID, start, end time.Time) (domain.Trip, error) {
	return m.lockDates(ctx, id, start, end)
}

type mockSiteServicer struct {
	create  func(ctx context.Context, site domain.Site) (domain.Site, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.Site, error)
	list    func(ctx context.Context) ([]domain.Site, error)
	update  func(ctx context.Context, site domain.Site) (domain.Site, error)
}

func (m *mockSiteServicer) Create(ctx context.Context, s domain.Site) (domain.Site, error) {
	return m.create(ctx, s)
}
func (m *mockSiteServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Site, error) {
	return m.getByID(ctx, id)
}
func (m *mockSiteServicer) List(ctx context.Context) ([]domain.Site, error) {
	return m.list(ctx)
}
func (m *mockSiteServicer) Update(ctx context.Context, s domain.Site) (domain.Site, error) {
	return m.update(ctx, s)
}

type mockMemberServicer struct {
	register func(ctx context.Context, name, email string) (domain.Member, error)
	list     func(ctx context.Context) ([]domain.Member, error)
}

func (m *mockMemberServicer) Register(ctx context.Context, name, email string) (domain.Member, error) {
	return m.register(ctx, name, email)
}
func (m *mockMemberServicer) List(ctx context.Context) ([]domain.Member, error) {
	return m.list(ctx)
}

type mockReminderServicer struct {
	generate    func(ctx context.Context, tripID uuid.UUID, siteIDs []uuid.UUID) (service.GenerationResult, error)
	listForTrip func(ctx context.Context, tripID uuid.UUID) ([]domain.PermitReminder, error)
	due         func(ctx context.Context) ([]domain.PermitReminder, error)
	upcoming    func(ctx context.Context, horizonDays int) ([]domain.PermitReminder, error)
	setStatus   func(ctx context.Context, id uuid.UUID, status domain.ReminderStatus) (domain.PermitReminder, error)
	sendDue     func(ctx context.Context) (service.DispatchReport, error)
}

func (m *mockReminderServicer) GenerateReminders(ctx context.Context, tripID uuid.UUID, siteIDs []uuid.UUID) (service.GenerationResult, error) {
	return m.generate(ctx, tripID, siteIDs)
}
func (m *mockReminderServicer) ListForTrip(ctx context.Context, tripID uuid.UUID) ([]domain.PermitReminder, error) {
	return m.listForTrip(ctx, tripID)
}
func (m *mockReminderServicer) DueReminders(ctx context.Context) ([]domain.PermitReminder, error) {
	return m.due(ctx)
}
func (m *mockReminderServicer) UpcomingReminders(ctx context.Context, horizonDays int) ([]domain.PermitReminder, error) {
	return m.upcoming(ctx, horizonDays)
}
func (m *mockReminderServicer) SetStatus(ctx context.Context, id uuid.UUID, status domain.ReminderStatus) (domain.PermitReminder, error) {
	return m.setStatus(ctx, id, status)
}
func (m *mockReminderServicer) SendDue(ctx context.Context) (service.DispatchReport, error) {
	return m.sendDue(ctx)
}

type mockDateOptionServicer struct {
	preview func(year int) ([]domain.DateOption, error)
	seed    func(ctx context.Context, tripID uuid.UUID) ([]domain.DateOption, error)
	list    func(ctx context.Context, tripID uuid.UUID) ([]domain.DateOption, error)
}

func (m *mockDateOptionServicer) Preview(year int) ([]domain.DateOption, error) {
	return m.preview(year)
}
func (m *mockDateOptionServicer) Seed(ctx context.Context, tripID uuid.UUID) ([]domain.DateOption, error) {
	return m.seed(ctx, tripID)
}
func (m *mockDateOptionServicer) List(ctx context.Context, tripID uuid.UUID) ([]domain.DateOption, error) {
	return m.list(ctx, tripID)
}

type mockEmailLogServicer struct {
	listPaged func(ctx context.Context, p domain.PaginationParams) ([]domain.EmailLog, int64, error)
}

func (m *mockEmailLogServicer) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.EmailLog, int64, error) {
	return m.listPaged(ctx, p)
}

// compile-time checks: every mock must satisfy its handler interface.
var (
	_ handler.TripServicer       = (*mockTripServicer)(nil)
	_ handler.SiteServicer       = (*mockSiteServicer)(nil)
	_ handler.MemberServicer     = (*mockMemberServicer)(nil)
	_ handler.ReminderServicer   = (*mockReminderServicer)(nil)
	_ handler.DateOptionServicer = (*mockDateOptionServicer)(nil)
	_ handler.EmailLogServicer   = (*mockEmailLogServicer)(nil)
)

// ---- helpers ---------------------------------------------------------------

// newHTTPHandler wires a Server with the given mocks into a chi router.
// This mirrors how main.go wires it in production.
func newHTTPHandler(svc handler.Services) http.Handler {
	return handler.NewServer(svc, handler.Options{}, nil).Handler()
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

// do sends one request through h and returns the recorder.
func do(h http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorDetail {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Error
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
