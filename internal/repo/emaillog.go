package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trailcrew/internal/domain"
)

// EmailLogRepo is the append-only audit trail of sent reminder emails.
type EmailLogRepo interface {
	// Append records a confirmed send and returns the stored entry.
	Append(ctx context.Context, entry domain.EmailLog) (domain.EmailLog, error)

	// ListPaged returns one page of entries, newest first, and the total count.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.EmailLog, int64, error)
}

type pgEmailLogRepo struct {
	db db
}

// NewEmailLogRepo constructs an EmailLogRepo backed by the provided db connection.
func NewEmailLogRepo(db db) EmailLogRepo {
	return &pgEmailLogRepo{db: db}
}

func (r *pgEmailLogRepo) Append(ctx context.Context, entry domain.EmailLog) (domain.EmailLog, error) {
	const q = `
		INSERT INTO email_log (reminder_id, subject, recipient_count, message_id, sent_at)
		VALUES (@reminder_id, @subject, @recipient_count, @message_id, @sent_at)
		RETURNING id, reminder_id, subject, recipient_count, message_id, sent_at`

	args := pgx.NamedArgs{
		"reminder_id":     entry.ReminderID, // nil becomes NULL
		"subject":         entry.Subject,
		"recipient_count": entry.RecipientCount,
		"message_id":      entry.MessageID,
		"sent_at":         entry.SentAt,
	}
	result, err := scanEmailLog(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.EmailLog{}, fmt.Errorf("repo.EmailLogRepo.Append: %w", err)
	}
	return result, nil
}

// ListPaged uses a window function so the page and the total come back in
// one query. A page past the end has no rows to carry the total, so it is
// counted separately.
func (r *pgEmailLogRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.EmailLog, int64, error) {
	const q = `
		SELECT id, reminder_id, subject, recipient_count, message_id, sent_at,
		       COUNT(*) OVER () AS total
		FROM email_log
		ORDER BY sent_at DESC, id
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.EmailLogRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	var total int64
	entries := []domain.EmailLog{}
	for rows.Next() {
		e, err := scanEmailLog(totalScanner{rows, &total})
		if err != nil {
			return nil, 0, fmt.Errorf("repo.EmailLogRepo.ListPaged: scan: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.EmailLogRepo.ListPaged: rows: %w", err)
	}
	if len(entries) == 0 {
		if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM email_log`).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("repo.EmailLogRepo.ListPaged: count: %w", err)
		}
	}
	return entries, total, nil
}

// totalScanner appends a trailing total column to the destinations.
type totalScanner struct {
	s     scanner
	total *int64
}

func (t totalScanner) Scan(dest ...any) error {
	return t.s.Scan(append(dest, t.total)...)
}

func scanEmailLog(s scanner) (domain.EmailLog, error) {
	var (
		e          domain.EmailLog
		id         pgtype.UUID
		reminderID pgtype.UUID
	)
	if err := s.Scan(&id, &reminderID, &e.Subject, &e.RecipientCount, &e.MessageID, &e.SentAt); err != nil {
		return domain.EmailLog{}, mapErr(err)
	}
	e.ID = uuid.UUID(id.Bytes)
	if reminderID.Valid {
		rid := uuid.UUID(reminderID.Bytes)
		e.ReminderID = &rid
	}
	e.SentAt = e.SentAt.UTC()
	return e, nil
}
