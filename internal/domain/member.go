package domain

import (
	"time"

	"github.com/google/uuid"
)

// Member is a registered participant. Active members receive permit reminders.
type Member struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
