// Package permit computes when a site's wilderness permit window opens for a
// given trip, and when the reminder for that opening should fire.
package permit

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pkordes/trailcrew/internal/calendar"
	"github.com/pkordes/trailcrew/internal/domain"
)

// DefaultAdvanceDays is used for rolling permits that do not say how far
// ahead they open.
const DefaultAdvanceDays = 180

// Default names a fallback the calculator applied instead of a site value.
type Default string

const (
	DefaultAdvanceDaysUsed Default = "advance_days"
	DefaultOpenTimeUsed    Default = "open_time"
)

// Opening is the resolved permit window opening for one (site, trip) pair.
type Opening struct {
	// At is the absolute instant the window opens, in UTC.
	At time.Time
	// OpenDate is the civil date of the opening.
	OpenDate time.Time
	// Defaults lists the fallbacks applied because the site left a value unset.
	Defaults []Default
}

// Calculator evaluates permit policies in one civil timezone.
type Calculator struct {
	zone   calendar.Zone
	logger *slog.Logger
}

// NewCalculator builds a Calculator for zone. A nil logger means slog.Default().
func NewCalculator(zone calendar.Zone, logger *slog.Logger) *Calculator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Calculator{zone: zone, logger: logger}
}

// Zone returns the civil timezone the calculator works in.
func (c *Calculator) Zone() calendar.Zone { return c.zone }

// ComputeOpen returns when site's permits open for a trip starting on
// tripStart. Only the calendar date of tripStart is used.
//
// Unknown or missing policy kinds and missing or malformed parameters yield a
// *domain.PolicyError. A rolling policy with no advance-day count and a site
// with no open time fall back to DefaultAdvanceDays and 07:00; both are
// logged at warn level and reported in Opening.Defaults.
func (c *Calculator) ComputeOpen(site domain.Site, tripStart time.Time) (Opening, error) {
	if !site.PermitKind.Valid() {
		return Opening{}, policyError(site, domain.ErrUnknownPolicyKind)
	}

	openTime, usedDefault, err := resolveOpenTime(site.OpenTime)
	if err != nil {
		return Opening{}, policyError(site, err)
	}

	var op Opening
	switch site.PermitKind {
	case domain.PermitRolling:
		days := DefaultAdvanceDays
		if site.AdvanceDays == nil {
			op.Defaults = append(op.Defaults, DefaultAdvanceDaysUsed)
			c.logger.Warn("rolling permit advance days not set, using default",
				"site_id", site.ID, "site", site.Name, "advance_days", DefaultAdvanceDays)
		} else {
			days = *site.AdvanceDays
		}
		if days < 0 {
			return Opening{}, policyError(site, fmt.Errorf("%w: advance_days %d is negative", domain.ErrInvalidPolicyParameter, days))
		}
		op.OpenDate = calendar.AddDays(calendar.DateOf(tripStart), -days)

	case domain.PermitFixedDate:
		date, err := resolveAnnual(site.FixedOpenDate, "fixed_open_date", tripStart)
		if err != nil {
			return Opening{}, policyError(site, err)
		}
		op.OpenDate = date

	case domain.PermitLottery:
		date, err := resolveAnnual(site.LotteryOpenDate, "lottery_open_date", tripStart)
		if err != nil {
			return Opening{}, policyError(site, err)
		}
		op.OpenDate = date

	default:
		return Opening{}, policyError(site, domain.ErrUnknownPolicyKind)
	}

	if usedDefault {
		op.Defaults = append(op.Defaults, DefaultOpenTimeUsed)
		c.logger.Warn("permit open time not set, using default",
			"site_id", site.ID, "site", site.Name, "open_time", calendar.DefaultOpenTime.String())
	}
	op.At = c.zone.At(op.OpenDate, openTime)
	return op, nil
}

// ReminderAt returns the reminder-send instant for a permit opening: one
// calendar day earlier in the civil zone, at the same wall-clock time.
func (c *Calculator) ReminderAt(open time.Time) time.Time {
	return c.zone.AddDays(open, -1)
}

// resolveAnnual picks the year a recurring month-day opening applies to.
// The candidate is the month-day in the trip's year; when that lands after
// the trip start, the window that served this trip opened the year before.
// A candidate equal to the trip start counts as not after.
func resolveAnnual(raw, field string, tripStart time.Time) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: %s is required", domain.ErrMissingPolicyParameter, field)
	}
	md, err := calendar.ParseMonthDay(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %v", domain.ErrInvalidPolicyParameter, field, err)
	}
	start := calendar.DateOf(tripStart)
	candidate := md.In(start.Year())
	if calendar.After(candidate, start) {
		return md.In(start.Year() - 1), nil
	}
	return candidate, nil
}

func resolveOpenTime(raw string) (calendar.TimeOfDay, bool, error) {
	if raw == "" {
		return calendar.DefaultOpenTime, true, nil
	}
	tod, err := calendar.ParseTimeOfDay(raw)
	if err != nil {
		return calendar.TimeOfDay{}, false, fmt.Errorf("%w: open_time: %v", domain.ErrInvalidPolicyParameter, err)
	}
	return tod, false, nil
}

func policyError(site domain.Site, err error) error {
	var pe *domain.PolicyError
	if errors.As(err, &pe) {
		return err
	}
	return &domain.PolicyError{SiteID: site.ID, SiteName: site.Name, Kind: site.PermitKind, Err: err}
}
