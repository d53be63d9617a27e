package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/trailcrew/internal/domain"
	"github.com/pkordes/trailcrew/internal/permit"
	"github.com/pkordes/trailcrew/internal/repo"
)

// SiteService implements business logic for permit sites.
type SiteService struct {
	repo repo.SiteRepo
}

// NewSiteService constructs a SiteService backed by the provided SiteRepo.
func NewSiteService(r repo.SiteRepo) *SiteService {
	return &SiteService{repo: r}
}

// Create validates and persists a new site.
// A site may be created without a permit kind; it is then never scheduled.
func (s *SiteService) Create(ctx context.Context, site domain.Site) (domain.Site, error) {
	site = normalizeSite(site)
	if err := validateSite(site); err != nil {
		return domain.Site{}, err
	}
	result, err := s.repo.Create(ctx, site)
	if err != nil {
		return domain.Site{}, fmt.Errorf("service.SiteService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single site by ID.
func (s *SiteService) GetByID(ctx context.Context, id uuid.UUID) (domain.Site, error) {
	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Site{}, fmt.Errorf("service.SiteService.GetByID: %w", err)
	}
	return result, nil
}

// List returns all sites. Always returns a non-nil slice.
func (s *SiteService) List(ctx context.Context) ([]domain.Site, error) {
	sites, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.SiteService.List: %w", err)
	}
	if sites == nil {
		return []domain.Site{}, nil
	}
	return sites, nil
}

// Update validates and persists changes to an existing site. Reminders
// already generated keep the instants computed from the old policy.
func (s *SiteService) Update(ctx context.Context, site domain.Site) (domain.Site, error) {
	site = normalizeSite(site)
	if err := validateSite(site); err != nil {
		return domain.Site{}, err
	}
	result, err := s.repo.Update(ctx, site)
	if err != nil {
		return domain.Site{}, fmt.Errorf("service.SiteService.Update: %w", err)
	}
	return result, nil
}

func validateSite(site domain.Site) error {
	if site.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	return permit.ValidatePolicy(site)
}

// normalizeSite trims text fields and clears parameters that do not belong
// to the declared permit kind.
func normalizeSite(site domain.Site) domain.Site {
	site.Name = strings.TrimSpace(site.Name)
	site.OpenTime = strings.TrimSpace(site.OpenTime)
	site.FixedOpenDate = strings.TrimSpace(site.FixedOpenDate)
	site.LotteryOpenDate = strings.TrimSpace(site.LotteryOpenDate)

	switch site.PermitKind {
	case domain.PermitRolling:
		site.FixedOpenDate, site.LotteryOpenDate = "", ""
	case domain.PermitFixedDate:
		site.AdvanceDays, site.LotteryOpenDate = nil, ""
	case domain.PermitLottery:
		site.AdvanceDays, site.FixedOpenDate = nil, ""
	}
	return site
}
