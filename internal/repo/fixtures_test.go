package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trailcrew/internal/domain"
	"github.com/pkordes/trailcrew/internal/repo"
	"github.com/pkordes/trailcrew/testutil"
)

// repos bundles every repo over one rolled-back transaction.
type repos struct {
	tx          pgx.Tx
	trips       repo.TripRepo
	sites       repo.SiteRepo
	reminders   repo.ReminderRepo
	members     repo.MemberRepo
	emailLog    repo.EmailLogRepo
	dateOptions repo.DateOptionRepo
}

func newRepos(t *testing.T) repos {
	t.Helper()
	tx := testutil.NewTx(t)
	return repos{
		tx:          tx,
		trips:       repo.NewTripRepo(tx),
		sites:       repo.NewSiteRepo(tx),
		reminders:   repo.NewReminderRepo(tx),
		members:     repo.NewMemberRepo(tx),
		emailLog:    repo.NewEmailLogRepo(tx),
		dateOptions: repo.NewDateOptionRepo(tx),
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

// tripFixture returns a locked trip with sensible defaults.
// Callers can override individual fields after calling this function.
func tripFixture() domain.Trip {
	return domain.Trip{
		Name:      "Summer 2026",
		Year:      2026,
		Status:    domain.TripStatusLocked,
		StartDate: ptr(date(2026, time.July, 15)),
		EndDate:   ptr(date(2026, time.July, 19)),
	}
}

func siteFixture(name string) domain.Site {
	return domain.Site{
		Name:        name,
		Region:      "Cascades",
		PermitURL:   "https://www.recreation.gov/permits/233273",
		PermitKind:  domain.PermitRolling,
		AdvanceDays: ptr(180),
		OpenTime:    "07:00",
	}
}

func mustTrip(t *testing.T, r repos) domain.Trip {
	t.Helper()
	trip, err := r.trips.Create(context.Background(), tripFixture())
	require.NoError(t, err)
	return trip
}

func mustSite(t *testing.T, r repos, name string) domain.Site {
	t.Helper()
	site, err := r.sites.Create(context.Background(), siteFixture(name))
	require.NoError(t, err)
	return site
}

func reminderFixture(trip domain.Trip, site domain.Site, remindAt time.Time) domain.PermitReminder {
	return domain.PermitReminder{
		TripID:        trip.ID,
		SiteID:        site.ID,
		SiteName:      site.Name,
		TripStartDate: *trip.StartDate,
		PermitOpensAt: remindAt.Add(24 * time.Hour),
		RemindAt:      remindAt,
		Status:        domain.ReminderPending,
	}
}
