package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/trailcrew/internal/dateoption"
	"github.com/pkordes/trailcrew/internal/domain"
	"github.com/pkordes/trailcrew/internal/repo"
)

// DateOptionService offers and stores candidate trip windows.
type DateOptionService struct {
	trips   repo.TripRepo
	options repo.DateOptionRepo
	season  dateoption.Season
}

// NewDateOptionService constructs a DateOptionService for the given season bounds.
func NewDateOptionService(trips repo.TripRepo, options repo.DateOptionRepo, season dateoption.Season) *DateOptionService {
	return &DateOptionService{trips: trips, options: options, season: season}
}

// Preview returns the windows for year without storing anything.
func (s *DateOptionService) Preview(year int) ([]domain.DateOption, error) {
	if year < 2000 || year > 2999 {
		return nil, fmt.Errorf("%w: year must be a four-digit year", domain.ErrValidation)
	}
	opts := dateoption.Generate(year, s.season)
	if opts == nil {
		return []domain.DateOption{}, nil
	}
	return opts, nil
}

// Seed stores the windows for the trip's year. Running it again adds
// nothing; the full stored list is returned either way.
func (s *DateOptionService) Seed(ctx context.Context, tripID uuid.UUID) ([]domain.DateOption, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.DateOptionService.Seed: %w", err)
	}
	opts, err := s.Preview(trip.Year)
	if err != nil {
		return nil, err
	}
	if _, err := s.options.InsertBatch(ctx, trip.ID, opts); err != nil {
		return nil, fmt.Errorf("service.DateOptionService.Seed: %w", err)
	}
	return s.List(ctx, trip.ID)
}

// List returns the stored windows for a trip.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *DateOptionService) List(ctx context.Context, tripID uuid.UUID) ([]domain.DateOption, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return nil, fmt.Errorf("service.DateOptionService.List: %w", err)
	}
	opts, err := s.options.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.DateOptionService.List: %w", err)
	}
	if opts == nil {
		return []domain.DateOption{}, nil
	}
	return opts, nil
}
