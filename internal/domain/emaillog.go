package domain

import (
	"time"

	"github.com/google/uuid"
)

// EmailLog is an audit entry written after a confirmed successful send.
type EmailLog struct {
	ID             uuid.UUID  `json:"id"`
	ReminderID     *uuid.UUID `json:"reminder_id,omitempty"`
	Subject        string     `json:"subject"`
	RecipientCount int        `json:"recipient_count"`
	MessageID      string     `json:"message_id,omitempty"`
	SentAt         time.Time  `json:"sent_at"`
}
