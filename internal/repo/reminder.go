package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trailcrew/internal/domain"
)

// ReminderRepo defines the persistence operations for permit reminders.
// Computed instants are written once; afterwards only status and sent_at change.
type ReminderRepo interface {
	// InsertBatch inserts reminders in one round trip. A (trip, site) pair that
	// already has a reminder is left untouched and returned in skipped; the
	// rows actually written are returned in created with their generated IDs.
	InsertBatch(ctx context.Context, reminders []domain.PermitReminder) (created, skipped []domain.PermitReminder, err error)

	// GetByID retrieves a reminder. Returns domain.ErrNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (domain.PermitReminder, error)

	// ListByTrip returns every reminder of a trip ordered by remind_at.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.PermitReminder, error)

	// ListPending returns pending reminders with remind_at <= to and, when from
	// is non-nil, remind_at >= from, ordered by remind_at ascending.
	ListPending(ctx context.Context, from *time.Time, to time.Time) ([]domain.PermitReminder, error)

	// MarkSent moves a pending reminder to reminder_sent and stamps sent_at.
	// Returns domain.ErrNotFound if the reminder does not exist or is no
	// longer pending, so a reminder is never marked sent twice.
	MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) (domain.PermitReminder, error)

	// UpdateStatus sets an operator-chosen status.
	// Returns domain.ErrNotFound if no reminder with that ID exists.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ReminderStatus) (domain.PermitReminder, error)
}

type pgReminderRepo struct {
	db db
}

// NewReminderRepo constructs a ReminderRepo backed by the provided db connection.
func NewReminderRepo(db db) ReminderRepo {
	return &pgReminderRepo{db: db}
}

// reminderSelect joins the site name for display. Column order matches scanReminder.
const reminderSelect = `
	SELECT r.id, r.trip_id, r.site_id, s.name, r.trip_start_date, r.permit_opens_at,
	       r.remind_at, r.status, r.sent_at, r.created_at, r.updated_at
	FROM permit_reminders r
	JOIN sites s ON s.id = r.site_id`

// reminderReturning mirrors reminderSelect for RETURNING clauses, which
// cannot join; the site name is filled in by the caller.
const reminderReturning = `
	RETURNING id, trip_id, site_id, '' AS site_name, trip_start_date, permit_opens_at,
	          remind_at, status, sent_at, created_at, updated_at`

func (r *pgReminderRepo) InsertBatch(ctx context.Context, reminders []domain.PermitReminder) ([]domain.PermitReminder, []domain.PermitReminder, error) {
	created := []domain.PermitReminder{}
	skipped := []domain.PermitReminder{}
	if len(reminders) == 0 {
		return created, skipped, nil
	}

	const q = `
		INSERT INTO permit_reminders (trip_id, site_id, trip_start_date, permit_opens_at, remind_at, status)
		VALUES (@trip_id, @site_id, @trip_start_date, @permit_opens_at, @remind_at, @status)
		ON CONFLICT (trip_id, site_id) DO NOTHING` + reminderReturning

	batch := &pgx.Batch{}
	for _, rem := range reminders {
		batch.Queue(q, pgx.NamedArgs{
			"trip_id":         rem.TripID,
			"site_id":         rem.SiteID,
			"trip_start_date": pgtype.Date{Time: rem.TripStartDate, Valid: true},
			"permit_opens_at": rem.PermitOpensAt,
			"remind_at":       rem.RemindAt,
			"status":          domain.ReminderPending,
		})
	}

	br := r.db.SendBatch(ctx, batch)
	defer br.Close()

	for _, rem := range reminders {
		got, err := scanReminder(br.QueryRow())
		switch {
		case errors.Is(err, domain.ErrNotFound):
			// DO NOTHING returns no row on conflict.
			skipped = append(skipped, rem)
		case err != nil:
			return nil, nil, fmt.Errorf("repo.ReminderRepo.InsertBatch: %w", err)
		default:
			got.SiteName = rem.SiteName
			created = append(created, got)
		}
	}
	if err := br.Close(); err != nil {
		return nil, nil, fmt.Errorf("repo.ReminderRepo.InsertBatch: close: %w", err)
	}
	return created, skipped, nil
}

func (r *pgReminderRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.PermitReminder, error) {
	const q = reminderSelect + ` WHERE r.id = @id`

	result, err := scanReminder(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.PermitReminder{}, fmt.Errorf("repo.ReminderRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgReminderRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.PermitReminder, error) {
	const q = reminderSelect + ` WHERE r.trip_id = @trip_id ORDER BY r.remind_at, s.name`

	result, err := r.list(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.ReminderRepo.ListByTrip: %w", err)
	}
	return result, nil
}

func (r *pgReminderRepo) ListPending(ctx context.Context, from *time.Time, to time.Time) ([]domain.PermitReminder, error) {
	const q = reminderSelect + `
		WHERE r.status = 'pending'
		  AND r.remind_at <= @to
		  AND (@from::timestamptz IS NULL OR r.remind_at >= @from::timestamptz)
		ORDER BY r.remind_at, r.id`

	var fromArg pgtype.Timestamptz
	if from != nil {
		fromArg = pgtype.Timestamptz{Time: *from, Valid: true}
	}

	result, err := r.list(ctx, q, pgx.NamedArgs{"from": fromArg, "to": to})
	if err != nil {
		return nil, fmt.Errorf("repo.ReminderRepo.ListPending: %w", err)
	}
	return result, nil
}

func (r *pgReminderRepo) MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) (domain.PermitReminder, error) {
	const q = `
		UPDATE permit_reminders
		SET status = 'reminder_sent', sent_at = @sent_at, updated_at = now()
		WHERE id = @id AND status = 'pending'` + reminderReturning

	result, err := scanReminder(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "sent_at": sentAt}))
	if err != nil {
		return domain.PermitReminder{}, fmt.Errorf("repo.ReminderRepo.MarkSent: %w", err)
	}
	return result, nil
}

func (r *pgReminderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ReminderStatus) (domain.PermitReminder, error) {
	const q = `
		UPDATE permit_reminders
		SET status = @status, updated_at = now()
		WHERE id = @id` + reminderReturning

	result, err := scanReminder(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "status": status}))
	if err != nil {
		return domain.PermitReminder{}, fmt.Errorf("repo.ReminderRepo.UpdateStatus: %w", err)
	}
	return result, nil
}

func (r *pgReminderRepo) list(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.PermitReminder, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reminders := []domain.PermitReminder{}
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		reminders = append(reminders, rem)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return reminders, nil
}

// scanReminder maps a row into a domain.PermitReminder, normalizing every
// instant to UTC.
func scanReminder(s scanner) (domain.PermitReminder, error) {
	var (
		rem       domain.PermitReminder
		id        pgtype.UUID
		tripID    pgtype.UUID
		siteID    pgtype.UUID
		tripStart pgtype.Date
		sentAt    pgtype.Timestamptz
	)
	err := s.Scan(&id, &tripID, &siteID, &rem.SiteName, &tripStart, &rem.PermitOpensAt,
		&rem.RemindAt, &rem.Status, &sentAt, &rem.CreatedAt, &rem.UpdatedAt)
	if err != nil {
		return domain.PermitReminder{}, mapErr(err)
	}
	rem.ID = uuid.UUID(id.Bytes)
	rem.TripID = uuid.UUID(tripID.Bytes)
	rem.SiteID = uuid.UUID(siteID.Bytes)
	rem.TripStartDate = tripStart.Time
	rem.PermitOpensAt = rem.PermitOpensAt.UTC()
	rem.RemindAt = rem.RemindAt.UTC()
	rem.SentAt = tsPtr(sentAt)
	return rem, nil
}
