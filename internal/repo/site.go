package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trailcrew/internal/domain"
)

// SiteRepo defines the persistence operations for permit sites.
type SiteRepo interface {
	// Create inserts a new site and returns the persisted record.
	// Returns domain.ErrConflict if a site with the same name exists.
	Create(ctx context.Context, site domain.Site) (domain.Site, error)

	// GetByID retrieves a single site. Returns domain.ErrNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Site, error)

	// List returns all sites ordered by name.
	List(ctx context.Context) ([]domain.Site, error)

	// ListByIDs returns the sites with the given IDs ordered by name.
	// Unknown IDs are silently absent from the result.
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Site, error)

	// Update overwrites the mutable fields of a site.
	// Returns domain.ErrNotFound if no site with that ID exists.
	Update(ctx context.Context, site domain.Site) (domain.Site, error)
}

type pgSiteRepo struct {
	db db
}

// NewSiteRepo constructs a SiteRepo backed by the provided db connection.
func NewSiteRepo(db db) SiteRepo {
	return &pgSiteRepo{db: db}
}

const siteColumns = `id, name, region, description, permit_url, permit_kind,
	advance_days, fixed_open_date, lottery_open_date, open_time, created_at, updated_at`

func siteArgs(site domain.Site) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":                site.ID,
		"name":              site.Name,
		"region":            site.Region,
		"description":       site.Description,
		"permit_url":        site.PermitURL,
		"permit_kind":       site.PermitKind,
		"advance_days":      site.AdvanceDays, // nil becomes NULL
		"fixed_open_date":   site.FixedOpenDate,
		"lottery_open_date": site.LotteryOpenDate,
		"open_time":         site.OpenTime,
	}
}

func (r *pgSiteRepo) Create(ctx context.Context, site domain.Site) (domain.Site, error) {
	const q = `
		INSERT INTO sites (name, region, description, permit_url, permit_kind,
		                   advance_days, fixed_open_date, lottery_open_date, open_time)
		VALUES (@name, @region, @description, @permit_url, @permit_kind,
		        @advance_days, @fixed_open_date, @lottery_open_date, @open_time)
		RETURNING ` + siteColumns

	result, err := scanSite(r.db.QueryRow(ctx, q, siteArgs(site)))
	if err != nil {
		return domain.Site{}, fmt.Errorf("repo.SiteRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgSiteRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Site, error) {
	const q = `SELECT ` + siteColumns + ` FROM sites WHERE id = @id`

	result, err := scanSite(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Site{}, fmt.Errorf("repo.SiteRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgSiteRepo) List(ctx context.Context) ([]domain.Site, error) {
	const q = `SELECT ` + siteColumns + ` FROM sites ORDER BY name`

	sites, err := r.query(ctx, q, nil)
	if err != nil {
		return nil, fmt.Errorf("repo.SiteRepo.List: %w", err)
	}
	return sites, nil
}

func (r *pgSiteRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Site, error) {
	const q = `SELECT ` + siteColumns + ` FROM sites WHERE id = ANY(@ids) ORDER BY name`

	sites, err := r.query(ctx, q, pgx.NamedArgs{"ids": ids})
	if err != nil {
		return nil, fmt.Errorf("repo.SiteRepo.ListByIDs: %w", err)
	}
	return sites, nil
}

func (r *pgSiteRepo) Update(ctx context.Context, site domain.Site) (domain.Site, error) {
	const q = `
		UPDATE sites
		SET name              = @name,
		    region            = @region,
		    description       = @description,
		    permit_url        = @permit_url,
		    permit_kind       = @permit_kind,
		    advance_days      = @advance_days,
		    fixed_open_date   = @fixed_open_date,
		    lottery_open_date = @lottery_open_date,
		    open_time         = @open_time,
		    updated_at        = now()
		WHERE id = @id
		RETURNING ` + siteColumns

	result, err := scanSite(r.db.QueryRow(ctx, q, siteArgs(site)))
	if err != nil {
		return domain.Site{}, fmt.Errorf("repo.SiteRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgSiteRepo) query(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.Site, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if args == nil {
		rows, err = r.db.Query(ctx, q)
	} else {
		rows, err = r.db.Query(ctx, q, args)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sites := []domain.Site{}
	for rows.Next() {
		s, err := scanSite(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		sites = append(sites, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return sites, nil
}

func scanSite(s scanner) (domain.Site, error) {
	var (
		site        domain.Site
		id          pgtype.UUID
		advanceDays pgtype.Int4
	)
	err := s.Scan(&id, &site.Name, &site.Region, &site.Description, &site.PermitURL, &site.PermitKind,
		&advanceDays, &site.FixedOpenDate, &site.LotteryOpenDate, &site.OpenTime,
		&site.CreatedAt, &site.UpdatedAt)
	if err != nil {
		return domain.Site{}, mapErr(err)
	}
	site.ID = uuid.UUID(id.Bytes)
	if advanceDays.Valid {
		d := int(advanceDays.Int32)
		site.AdvanceDays = &d
	}
	return site, nil
}
