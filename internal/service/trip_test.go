package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trailcrew/internal/domain"
	"github.com/pkordes/trailcrew/internal/service"
)

// ---- helpers ---------------------------------------------------------------

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

func planningTrip() domain.Trip {
	return domain.Trip{Name: "Summer 2026", Year: 2026}
}

func echoTripRepo() *mockTripRepo {
	// A repo that echoes whatever it receives back; useful for tests that
	// only care about validation logic, not what the DB returns.
	return &mockTripRepo{
		create: func(_ context.Context, t domain.Trip) (domain.Trip, error) { return t, nil },
		update: func(_ context.Context, t domain.Trip) (domain.Trip, error) { return t, nil },
	}
}

// ---- Create tests ----------------------------------------------------------

func TestTripService_Create_DefaultsToPlanning(t *testing.T) {
	svc := service.NewTripService(echoTripRepo())

	got, err := svc.Create(context.Background(), planningTrip())

	require.NoError(t, err)
	assert.Equal(t, domain.TripStatusPlanning, got.Status)
	assert.Nil(t, got.StartDate)
}

func TestTripService_Create_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Trip)
	}{
		{name: "blank name", mutate: func(tr *domain.Trip) { tr.Name = "   " }},
		{name: "missing year", mutate: func(tr *domain.Trip) { tr.Year = 0 }},
		{name: "unknown status", mutate: func(tr *domain.Trip) { tr.Status = "dreaming" }},
		{name: "end without start", mutate: func(tr *domain.Trip) { tr.EndDate = ptr(date(2026, time.July, 19)) }},
		{name: "start outside year", mutate: func(tr *domain.Trip) {
			tr.StartDate = ptr(date(2027, time.July, 15))
		}},
		{name: "end before start", mutate: func(tr *domain.Trip) {
			tr.StartDate = ptr(date(2026, time.July, 15))
			tr.EndDate = ptr(date(2026, time.July, 14))
		}},
		{name: "locked without dates", mutate: func(tr *domain.Trip) { tr.Status = domain.TripStatusLocked }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := service.NewTripService(echoTripRepo())
			trip := planningTrip()
			tt.mutate(&trip)

			_, err := svc.Create(context.Background(), trip)

			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestTripService_Create_SameDayTripIsValid(t *testing.T) {
	svc := service.NewTripService(echoTripRepo())
	trip := planningTrip()
	trip.StartDate = ptr(date(2026, time.July, 15))
	trip.EndDate = ptr(date(2026, time.July, 15))

	_, err := svc.Create(context.Background(), trip)

	assert.NoError(t, err)
}

func TestTripService_Create_RepoError(t *testing.T) {
	repoErr := errors.New("db exploded")
	r := &mockTripRepo{
		create: func(_ context.Context, _ domain.Trip) (domain.Trip, error) {
			return domain.Trip{}, repoErr
		},
	}
	svc := service.NewTripService(r)

	_, err := svc.Create(context.Background(), planningTrip())

	// The service should propagate repo errors unchanged.
	assert.ErrorIs(t, err, repoErr)
}

// ---- GetByID / List tests --------------------------------------------------

func TestTripService_GetByID_NotFound(t *testing.T) {
	r := &mockTripRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) {
			return domain.Trip{}, domain.ErrNotFound
		},
	}
	svc := service.NewTripService(r)

	_, err := svc.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripService_List_Empty(t *testing.T) {
	r := &mockTripRepo{
		list: func(_ context.Context) ([]domain.Trip, error) { return nil, nil },
	}
	svc := service.NewTripService(r)

	got, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, got, "List should return an empty slice, not nil")
	assert.Empty(t, got)
}

// ---- LockDates tests -------------------------------------------------------

func TestTripService_LockDates(t *testing.T) {
	stored := planningTrip()
	stored.ID = uuid.New()
	stored.Status = domain.TripStatusVoting

	r := echoTripRepo()
	r.getByID = func(_ context.Context, id uuid.UUID) (domain.Trip, error) {
		assert.Equal(t, stored.ID, id)
		return stored, nil
	}
	svc := service.NewTripService(r)

	// A time-of-day component is dropped.
	got, err := svc.LockDates(context.Background(), stored.ID,
		time.Date(2026, time.July, 15, 18, 30, 0, 0, time.UTC), date(2026, time.July, 19))

	require.NoError(t, err)
	assert.Equal(t, domain.TripStatusLocked, got.Status)
	require.NotNil(t, got.StartDate)
	assert.Equal(t, date(2026, time.July, 15), *got.StartDate)
	assert.Equal(t, date(2026, time.July, 19), *got.EndDate)
	assert.True(t, got.Finalized())
}

func TestTripService_LockDates_EndBeforeStart(t *testing.T) {
	stored := planningTrip()
	r := echoTripRepo()
	r.getByID = func(_ context.Context, _ uuid.UUID) (domain.Trip, error) { return stored, nil }
	r.update = func(_ context.Context, _ domain.Trip) (domain.Trip, error) {
		t.Fatal("update must not be called for invalid dates")
		return domain.Trip{}, nil
	}
	svc := service.NewTripService(r)

	_, err := svc.LockDates(context.Background(), uuid.New(), date(2026, time.July, 19), date(2026, time.July, 15))

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_LockDates_CancelledTrip(t *testing.T) {
	stored := planningTrip()
	stored.Status = domain.TripStatusCancelled
	r := echoTripRepo()
	r.getByID = func(_ context.Context, _ uuid.UUID) (domain.Trip, error) { return stored, nil }
	svc := service.NewTripService(r)

	_, err := svc.LockDates(context.Background(), uuid.New(), date(2026, time.July, 15), date(2026, time.July, 19))

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_LockDates_NotFound(t *testing.T) {
	r := &mockTripRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) { return domain.Trip{}, domain.ErrNotFound },
	}
	svc := service.NewTripService(r)

	_, err := svc.LockDates(context.Background(), uuid.New(), date(2026, time.July, 15), date(2026, time.July, 19))

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
