// Package service contains the business logic for the trailcrew API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trailcrew/internal/calendar"
	"github.com/pkordes/trailcrew/internal/domain"
	"github.com/pkordes/trailcrew/internal/repo"
)

// TripService implements business logic for Trip operations.
type TripService struct {
	repo repo.TripRepo
}

// NewTripService constructs a TripService backed by the provided TripRepo.
func NewTripService(r repo.TripRepo) *TripService {
	return &TripService{repo: r}
}

// Create validates and persists a new trip. A trip without a status starts
// in planning. Dates are optional until the trip is locked.
func (s *TripService) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if trip.Status == "" {
		trip.Status = domain.TripStatusPlanning
	}
	trip.StartDate = normalizeDate(trip.StartDate)
	trip.EndDate = normalizeDate(trip.EndDate)
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}
	result, err := s.repo.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single trip by ID.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return result, nil
}

// List returns all trips. Always returns a non-nil slice.
func (s *TripService) List(ctx context.Context) ([]domain.Trip, error) {
	trips, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// LockDates confirms the trip's dates and moves it to locked. Once locked,
// permit reminders can be generated for it.
func (s *TripService) LockDates(ctx context.Context, id uuid.UUID, start, end time.Time) (domain.Trip, error) {
	trip, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.LockDates: %w", err)
	}
	switch trip.Status {
	case domain.TripStatusCompleted, domain.TripStatusCancelled:
		return domain.Trip{}, fmt.Errorf("%w: a %s trip cannot be locked", domain.ErrValidation, trip.Status)
	}

	start, end = calendar.DateOf(start), calendar.DateOf(end)
	trip.StartDate, trip.EndDate = &start, &end
	trip.Status = domain.TripStatusLocked
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}

	result, err := s.repo.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.LockDates: %w", err)
	}
	return result, nil
}

// validateTrip enforces business rules common to Create and LockDates.
//   - Name must be non-empty (whitespace-only names are rejected).
//   - Year must be plausible and the start date must fall in it.
//   - EndDate, if set, must not be before StartDate.
//   - A locked trip must have both dates.
func validateTrip(trip domain.Trip) error {
	if strings.TrimSpace(trip.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if trip.Year < 2000 || trip.Year > 2999 {
		return fmt.Errorf("%w: year must be a four-digit year", domain.ErrValidation)
	}
	if !trip.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrValidation, trip.Status)
	}
	if trip.EndDate != nil && trip.StartDate == nil {
		return fmt.Errorf("%w: end_date requires start_date", domain.ErrValidation)
	}
	if trip.StartDate != nil {
		if trip.StartDate.Year() != trip.Year {
			return fmt.Errorf("%w: start_date must fall in %d", domain.ErrValidation, trip.Year)
		}
		if trip.EndDate != nil && trip.EndDate.Before(*trip.StartDate) {
			return fmt.Errorf("%w: end_date must not be before start_date", domain.ErrValidation)
		}
	}
	if trip.Status == domain.TripStatusLocked && (trip.StartDate == nil || trip.EndDate == nil) {
		return fmt.Errorf("%w: a locked trip needs start_date and end_date", domain.ErrValidation)
	}
	return nil
}

func normalizeDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := calendar.DateOf(*t)
	return &d
}
