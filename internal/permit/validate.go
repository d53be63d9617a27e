package permit

import (
	"fmt"

	"github.com/pkordes/trailcrew/internal/calendar"
	"github.com/pkordes/trailcrew/internal/domain"
)

// ValidatePolicy checks that a site's permit fields are consistent with its
// declared kind. A site with no kind is valid; it is simply never scheduled.
// Unlike ComputeOpen, an unset advance-day count on a rolling site is
// accepted here because the calculator has a documented default for it.
func ValidatePolicy(site domain.Site) error {
	if site.OpenTime != "" {
		if _, err := calendar.ParseTimeOfDay(site.OpenTime); err != nil {
			return fmt.Errorf("%w: open_time must be HH:MM", domain.ErrValidation)
		}
	}

	switch site.PermitKind {
	case "":
		return nil
	case domain.PermitRolling:
		if site.AdvanceDays != nil && *site.AdvanceDays < 0 {
			return fmt.Errorf("%w: advance_days must not be negative", domain.ErrValidation)
		}
	case domain.PermitFixedDate:
		if err := validateMonthDay(site.FixedOpenDate, "fixed_open_date"); err != nil {
			return err
		}
	case domain.PermitLottery:
		if err := validateMonthDay(site.LotteryOpenDate, "lottery_open_date"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: unknown permit_kind %q", domain.ErrValidation, site.PermitKind)
	}
	return nil
}

func validateMonthDay(raw, field string) error {
	if raw == "" {
		return fmt.Errorf("%w: %s is required", domain.ErrValidation, field)
	}
	if _, err := calendar.ParseMonthDay(raw); err != nil {
		return fmt.Errorf("%w: %s must be MM-DD", domain.ErrValidation, field)
	}
	return nil
}
