// Package domain contains the core data types for the Trailcrew application.
// This package has no dependencies on other internal packages and is imported
// by every other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// TripStatus is the lifecycle state of a season's planning cycle.
type TripStatus string

const (
	TripStatusPlanning  TripStatus = "planning"
	TripStatusVoting    TripStatus = "voting"
	TripStatusLocked    TripStatus = "locked"
	TripStatusCompleted TripStatus = "completed"
	TripStatusCancelled TripStatus = "cancelled"
)

// Valid reports whether s is one of the known trip statuses.
func (s TripStatus) Valid() bool {
	switch s {
	case TripStatusPlanning, TripStatusVoting, TripStatusLocked, TripStatusCompleted, TripStatusCancelled:
		return true
	}
	return false
}

// Trip represents one season's group trip.
// StartDate and EndDate are nil until the group locks its dates; both carry
// date-only semantics (midnight UTC, time component ignored).
type Trip struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Year      int        `json:"year"`
	Status    TripStatus `json:"status"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Finalized reports whether the trip has a confirmed start date.
func (t Trip) Finalized() bool {
	return t.StartDate != nil && !t.StartDate.IsZero()
}
