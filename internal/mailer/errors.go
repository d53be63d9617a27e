package mailer

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRecipients is returned when a message has an empty To list.
	ErrNoRecipients = errors.New("mailer: message has no recipients")
	// ErrNoBody is returned when a message has neither an HTML nor a text body.
	ErrNoBody = errors.New("mailer: message has no body")
)

func checkMessage(msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	if msg.HTML == "" && msg.Text == "" {
		return ErrNoBody
	}
	for _, to := range msg.To {
		if !ValidAddress(to) {
			return fmt.Errorf("mailer: invalid recipient %q", to)
		}
	}
	return nil
}
