package domain

import (
	"time"

	"github.com/google/uuid"
)

// PermitKind names the rule a site's permit office uses to open applications.
type PermitKind string

const (
	// PermitRolling opens a fixed number of days before the trip start date.
	PermitRolling PermitKind = "rolling"
	// PermitFixedDate opens on the same month-day every year.
	PermitFixedDate PermitKind = "fixed_date"
	// PermitLottery opens lottery entries on a fixed month-day every year.
	PermitLottery PermitKind = "lottery"
)

// Valid reports whether k is a kind the permit calculator understands.
func (k PermitKind) Valid() bool {
	switch k {
	case PermitRolling, PermitFixedDate, PermitLottery:
		return true
	}
	return false
}

// Site is a candidate trip destination.
//
// The permit fields describe when applications open. Only the parameter
// matching PermitKind is meaningful: AdvanceDays for rolling, FixedOpenDate
// for fixed_date, LotteryOpenDate for lottery. Month-days use "MM-DD" and
// OpenTime uses "HH:MM" in the application's civil timezone.
// A site with an empty PermitKind is never scheduled.
type Site struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	Region          string     `json:"region,omitempty"`
	Description     string     `json:"description,omitempty"`
	PermitURL       string     `json:"permit_url,omitempty"`
	PermitKind      PermitKind `json:"permit_kind,omitempty"`
	AdvanceDays     *int       `json:"advance_days,omitempty"`
	FixedOpenDate   string     `json:"fixed_open_date,omitempty"`
	LotteryOpenDate string     `json:"lottery_open_date,omitempty"`
	OpenTime        string     `json:"open_time,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
