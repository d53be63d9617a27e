package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trailcrew/internal/domain"
	"github.com/pkordes/trailcrew/internal/mailer"
	"github.com/pkordes/trailcrew/internal/repo"
)

// Hand-written test doubles. Each method is a function field; set only the
// ones your test needs.

type mockTripRepo struct {
	create  func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	list    func(ctx context.Context) ([]domain.Trip, error)
	update  func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) List(ctx context.Context) ([]domain.Trip, error) {
	return m.list(ctx)
}
func (m *mockTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.update(ctx, trip)
}

type mockSiteRepo struct {
	create    func(ctx context.Context, site domain.Site) (domain.Site, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Site, error)
	list      func(ctx context.Context) ([]domain.Site, error)
	listByIDs func(ctx context.Context, ids []uuid.UUID) ([]domain.Site, error)
	update    func(ctx context.Context, site domain.Site) (domain.Site, error)
}

func (m *mockSiteRepo) Create(ctx context.Context, site domain.Site) (domain.Site, error) {
	return m.create(ctx, site)
}
func (m *mockSiteRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Site, error) {
	return m.getByID(ctx, id)
}
func (m *mockSiteRepo) List(ctx context.Context) ([]domain.Site, error) {
	return m.list(ctx)
}
func (m *mockSiteRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Site, error) {
	return m.listByIDs(ctx, ids)
}
func (m *mockSiteRepo) Update(ctx context.Context, site domain.Site) (domain.Site, error) {
	return m.update(ctx, site)
}

type mockReminderRepo struct {
	insertBatch  func(ctx context.Context, rs []domain.PermitReminder) ([]domain.PermitReminder, []domain.PermitReminder, error)
	getByID      func(ctx context.Context, id uuid.UUID) (domain.PermitReminder, error)
	listByTrip   func(ctx context.Context, tripID uuid.UUID) ([]domain.PermitReminder, error)
	listPending  func(ctx context.Context, from *time.Time, to time.Time) ([]domain.PermitReminder, error)
	markSent     func(ctx context.Context, id uuid.UUID, sentAt time.Time) (domain.PermitReminder, error)
	updateStatus func(ctx context.Context, id uuid.UUID, status domain.ReminderStatus) (domain.PermitReminder, error)
}

func (m *mockReminderRepo) InsertBatch(ctx context.Context, rs []domain.PermitReminder) ([]domain.PermitReminder, []domain.PermitReminder, error) {
	return m.insertBatch(ctx, rs)
}
func (m *mockReminderRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.PermitReminder, error) {
	return m.getByID(ctx, id)
}
func (m *mockReminderRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.PermitReminder, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockReminderRepo) ListPending(ctx context.Context, from *time.Time, to time.Time) ([]domain.PermitReminder, error) {
	return m.listPending(ctx, from, to)
}
func (m *mockReminderRepo) MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) (domain.PermitReminder, error) {
	return m.markSent(ctx, id, sentAt)
}
func (m *mockReminderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ReminderStatus) (domain.PermitReminder, error) {
	return m.updateStatus(ctx, id, status)
}

type mockMemberRepo struct {
	create       func(ctx context.Context, m domain.Member) (domain.Member, error)
	list         func(ctx context.Context) ([]domain.Member, error)
	activeEmails func(ctx context.Context) ([]string, error)
}

func (m *mockMemberRepo) Create(ctx context.Context, mem domain.Member) (domain.Member, error) {
	return m.create(ctx, mem)
}
func (m *mockMemberRepo) List(ctx context.Context) ([]domain.Member, error) {
	return m.list(ctx)
}
func (m *mockMemberRepo) ActiveEmails(ctx context.Context) ([]string, error) {
	return m.activeEmails(ctx)
}

type mockEmailLogRepo struct {
	appendEntry func(ctx context.Context, e domain.EmailLog) (domain.EmailLog, error)
	listPaged   func(ctx context.Context, p domain.PaginationParams) ([]domain.EmailLog, int64, error)
}

func (m *mockEmailLogRepo) Append(ctx context.Context, e domain.EmailLog) (domain.EmailLog, error) {
	return m.appendEntry(ctx, e)
}
func (m *mockEmailLogRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.EmailLog, int64, error) {
	return m.listPaged(ctx, p)
}

type mockDateOptionRepo struct {
	insertBatch func(ctx context.Context, tripID uuid.UUID, opts []domain.DateOption) ([]domain.DateOption, error)
	listByTrip  func(ctx context.Context, tripID uuid.UUID) ([]domain.DateOption, error)
}

func (m *mockDateOptionRepo) InsertBatch(ctx context.Context, tripID uuid.UUID, opts []domain.DateOption) ([]domain.DateOption, error) {
	return m.insertBatch(ctx, tripID, opts)
}
func (m *mockDateOptionRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.DateOption, error) {
	return m.listByTrip(ctx, tripID)
}

type mockSender struct {
	send func(ctx context.Context, msg mailer.Message) (mailer.Receipt, error)
}

func (m *mockSender) Send(ctx context.Context, msg mailer.Message) (mailer.Receipt, error) {
	return m.send(ctx, msg)
}

// compile-time checks: the mocks must satisfy the interfaces they stand in for.
var (
	_ repo.TripRepo       = (*mockTripRepo)(nil)
	_ repo.SiteRepo       = (*mockSiteRepo)(nil)
	_ repo.ReminderRepo   = (*mockReminderRepo)(nil)
	_ repo.MemberRepo     = (*mockMemberRepo)(nil)
	_ repo.EmailLogRepo   = (*mockEmailLogRepo)(nil)
	_ repo.DateOptionRepo = (*mockDateOptionRepo)(nil)
	_ mailer.Sender       = (*mockSender)(nil)
)
