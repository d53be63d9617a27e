package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trailcrew/internal/domain"
)

// MemberRepo defines the persistence operations for crew members.
type MemberRepo interface {
	// Create inserts a member. Returns domain.ErrConflict if the email
	// (case-insensitive) is already registered.
	Create(ctx context.Context, m domain.Member) (domain.Member, error)

	// List returns all members ordered by name.
	List(ctx context.Context) ([]domain.Member, error)

	// ActiveEmails returns the email address of every active member.
	ActiveEmails(ctx context.Context) ([]string, error)
}

type pgMemberRepo struct {
	db db
}

// NewMemberRepo constructs a MemberRepo backed by the provided db connection.
func NewMemberRepo(db db) MemberRepo {
	return &pgMemberRepo{db: db}
}

func (r *pgMemberRepo) Create(ctx context.Context, m domain.Member) (domain.Member, error) {
	const q = `
		INSERT INTO members (name, email, active)
		VALUES (@name, @email, @active)
		RETURNING id, name, email, active, created_at`

	args := pgx.NamedArgs{"name": m.Name, "email": m.Email, "active": m.Active}
	result, err := scanMember(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Member{}, fmt.Errorf("repo.MemberRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgMemberRepo) List(ctx context.Context) ([]domain.Member, error) {
	const q = `SELECT id, name, email, active, created_at FROM members ORDER BY name`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.MemberRepo.List: %w", err)
	}
	defer rows.Close()

	members := []domain.Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.MemberRepo.List: scan: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.MemberRepo.List: rows: %w", err)
	}
	return members, nil
}

func (r *pgMemberRepo) ActiveEmails(ctx context.Context) ([]string, error) {
	const q = `SELECT email FROM members WHERE active ORDER BY email`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.MemberRepo.ActiveEmails: %w", err)
	}
	emails, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("repo.MemberRepo.ActiveEmails: %w", err)
	}
	return emails, nil
}

func scanMember(s scanner) (domain.Member, error) {
	var (
		m  domain.Member
		id pgtype.UUID
	)
	if err := s.Scan(&id, &m.Name, &m.Email, &m.Active, &m.CreatedAt); err != nil {
		return domain.Member{}, mapErr(err)
	}
	m.ID = uuid.UUID(id.Bytes)
	return m, nil
}
