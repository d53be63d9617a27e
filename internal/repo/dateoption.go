package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trailcrew/internal/domain"
)

// DateOptionRepo stores the candidate windows offered for a trip.
type DateOptionRepo interface {
	// InsertBatch stores options for tripID. Options whose start date is
	// already stored for the trip are ignored. Returns the newly inserted rows.
	InsertBatch(ctx context.Context, tripID uuid.UUID, opts []domain.DateOption) ([]domain.DateOption, error)

	// ListByTrip returns the stored options for a trip in chronological order.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.DateOption, error)
}

type pgDateOptionRepo struct {
	db db
}

// NewDateOptionRepo constructs a DateOptionRepo backed by the provided db connection.
func NewDateOptionRepo(db db) DateOptionRepo {
	return &pgDateOptionRepo{db: db}
}

func (r *pgDateOptionRepo) InsertBatch(ctx context.Context, tripID uuid.UUID, opts []domain.DateOption) ([]domain.DateOption, error) {
	const q = `
		INSERT INTO date_options (trip_id, start_date, end_date, label)
		VALUES (@trip_id, @start_date, @end_date, @label)
		ON CONFLICT (trip_id, start_date) DO NOTHING
		RETURNING id, trip_id, start_date, end_date, label`

	inserted := []domain.DateOption{}
	for _, o := range opts {
		args := pgx.NamedArgs{
			"trip_id":    tripID,
			"start_date": pgtype.Date{Time: o.StartDate, Valid: true},
			"end_date":   pgtype.Date{Time: o.EndDate, Valid: true},
			"label":      o.Label,
		}
		got, err := scanDateOption(r.db.QueryRow(ctx, q, args))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("repo.DateOptionRepo.InsertBatch: %w", err)
		}
		inserted = append(inserted, got)
	}
	return inserted, nil
}

func (r *pgDateOptionRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.DateOption, error) {
	const q = `
		SELECT id, trip_id, start_date, end_date, label
		FROM date_options
		WHERE trip_id = @trip_id
		ORDER BY start_date`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.DateOptionRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	opts := []domain.DateOption{}
	for rows.Next() {
		o, err := scanDateOption(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.DateOptionRepo.ListByTrip: scan: %w", err)
		}
		opts = append(opts, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.DateOptionRepo.ListByTrip: rows: %w", err)
	}
	return opts, nil
}

func scanDateOption(s scanner) (domain.DateOption, error) {
	var (
		o          domain.DateOption
		id, tripID pgtype.UUID
		start, end pgtype.Date
	)
	if err := s.Scan(&id, &tripID, &start, &end, &o.Label); err != nil {
		return domain.DateOption{}, mapErr(err)
	}
	o.ID = uuid.UUID(id.Bytes)
	o.TripID = uuid.UUID(tripID.Bytes)
	o.StartDate = start.Time
	o.EndDate = end.Time
	return o, nil
}
