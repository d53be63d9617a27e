package domain

import (
	"time"

	"github.com/google/uuid"
)

// DateOption is one candidate trip window offered for a season.
// StartDate and EndDate are date-only (midnight UTC). Options are derived
// from the season bounds and never edited after they are stored.
type DateOption struct {
	ID        uuid.UUID `json:"id,omitempty"`
	TripID    uuid.UUID `json:"trip_id,omitempty"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Label     string    `json:"label"`
}
