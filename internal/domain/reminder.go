package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReminderStatus is the lifecycle state of a PermitReminder.
type ReminderStatus string

const (
	// ReminderPending is the initial state: waiting for its send instant.
	ReminderPending ReminderStatus = "pending"
	// ReminderSent is set only after a confirmed successful email dispatch.
	ReminderSent ReminderStatus = "reminder_sent"
	// ReminderBooked, ReminderMissed and ReminderCancelled are operator-only
	// side states; the scheduler never sets them.
	ReminderBooked    ReminderStatus = "booked"
	ReminderMissed    ReminderStatus = "missed"
	ReminderCancelled ReminderStatus = "cancelled"
)

// Valid reports whether s is one of the known reminder statuses.
func (s ReminderStatus) Valid() bool {
	switch s {
	case ReminderPending, ReminderSent, ReminderBooked, ReminderMissed, ReminderCancelled:
		return true
	}
	return false
}

// OperatorSettable reports whether an operator may move a reminder to s by
// hand. reminder_sent is reserved for the dispatch loop.
func (s ReminderStatus) OperatorSettable() bool {
	switch s {
	case ReminderPending, ReminderBooked, ReminderMissed, ReminderCancelled:
		return true
	}
	return false
}

// PermitReminder is the computed schedule for one (trip, site) pair.
// PermitOpensAt and RemindAt are absolute UTC instants and never change after
// insert; only Status and SentAt are mutable. RemindAt is always strictly
// before PermitOpensAt.
type PermitReminder struct {
	ID            uuid.UUID      `json:"id"`
	TripID        uuid.UUID      `json:"trip_id"`
	SiteID        uuid.UUID      `json:"site_id"`
	SiteName      string         `json:"site_name,omitempty"` // read-side join, not stored
	TripStartDate time.Time      `json:"trip_start_date"`
	PermitOpensAt time.Time      `json:"permit_opens_at"`
	RemindAt      time.Time      `json:"remind_at"`
	Status        ReminderStatus `json:"status"`
	SentAt        *time.Time     `json:"sent_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}
