package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, end date before start date).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when a write would violate a uniqueness rule
// (e.g. a second member with the same email).
// Handlers should map this to HTTP 409 Conflict.
var ErrConflict = errors.New("already exists")

// ErrUnknownPolicyKind is returned when a site has no permit kind, or one the
// calculator does not understand.
var ErrUnknownPolicyKind = errors.New("unknown permit policy kind")

// ErrMissingPolicyParameter is returned when the parameter required by a
// site's permit kind is not set (e.g. fixed_date without a month-day).
var ErrMissingPolicyParameter = errors.New("missing permit policy parameter")

// ErrInvalidPolicyParameter is returned when a policy parameter is present but
// malformed (e.g. "13-40" as a month-day, or a negative advance-day count).
var ErrInvalidPolicyParameter = errors.New("invalid permit policy parameter")

// ErrTripNotFinalized is returned when reminders are requested for a trip that
// has no confirmed start date yet.
// Handlers should map this to HTTP 409 Conflict.
var ErrTripNotFinalized = errors.New("trip dates are not finalized")

// ErrDelivery wraps failures reported by the email collaborator.
var ErrDelivery = errors.New("email delivery failed")

// ErrConfiguration is returned before any side effect when the process is
// misconfigured for the requested operation (e.g. test mode without a valid
// test recipient). Handlers should map this to HTTP 503.
var ErrConfiguration = errors.New("configuration error")

// ErrInvalidStatusTransition is returned when an operator asks for a reminder
// status change the lifecycle does not allow.
var ErrInvalidStatusTransition = errors.New("invalid status transition")

// PolicyError describes why a site's permit policy could not be evaluated.
// It is recoverable at batch granularity: callers skip the site and continue.
type PolicyError struct {
	SiteID   uuid.UUID
	SiteName string
	Kind     PermitKind
	Err      error
}

func (e *PolicyError) Error() string {
	kind := string(e.Kind)
	if kind == "" {
		kind = "<unset>"
	}
	return fmt.Sprintf("site %q (%s): %v", e.SiteName, kind, e.Err)
}

// Unwrap exposes the underlying sentinel so errors.Is works on PolicyError.
func (e *PolicyError) Unwrap() error { return e.Err }

// IsPolicyError reports whether err is, or wraps, a *PolicyError.
func IsPolicyError(err error) bool {
	var pe *PolicyError
	return errors.As(err, &pe)
}

// DeliveryError records a failed send for one reminder. It matches both
// ErrDelivery and the underlying transport error under errors.Is.
type DeliveryError struct {
	ReminderID uuid.UUID
	Err        error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver reminder %s: %v", e.ReminderID, e.Err)
}

func (e *DeliveryError) Unwrap() []error { return []error{ErrDelivery, e.Err} }
