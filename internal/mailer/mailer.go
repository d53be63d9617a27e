// Package mailer delivers reminder emails.
//
// Sender is the collaborator the reminder service depends on. SMTPSender
// talks to a real relay; LogSender only writes the message to the log and is
// used when no relay is configured.
package mailer

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Attachment is a file carried alongside a message.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Message is one email addressed to a list of recipients.
// HTML and Text are alternative bodies; at least one must be set.
type Message struct {
	To          []string
	Subject     string
	HTML        string
	Text        string
	Attachments []Attachment
}

// Receipt confirms a message was handed to the transport.
type Receipt struct {
	MessageID  string
	Recipients int
}

// Sender sends a Message. Implementations must return an error unless the
// message was accepted for delivery.
type Sender interface {
	Send(ctx context.Context, msg Message) (Receipt, error)
}

var validate = validator.New()

// ValidAddress reports whether addr is a syntactically valid email address.
func ValidAddress(addr string) bool {
	return validate.Var(addr, "required,email") == nil
}

func newMessageID(domain string) string {
	if domain == "" {
		domain = "trailcrew.local"
	}
	return uuid.NewString() + "@" + domain
}

// domainOf returns the part after the last @ in addr, if any.
func domainOf(addr string) string {
	if i := strings.LastIndex(addr, "@"); i >= 0 {
		return strings.TrimSuffix(addr[i+1:], ">")
	}
	return ""
}

// LogSender writes messages to a logger instead of sending them.
type LogSender struct {
	logger *slog.Logger
	from   string
}

// NewLogSender returns a LogSender. A nil logger means slog.Default().
func NewLogSender(from string, logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger, from: from}
}

// Send logs msg and returns a receipt with a generated message id.
func (s *LogSender) Send(_ context.Context, msg Message) (Receipt, error) {
	if err := checkMessage(msg); err != nil {
		return Receipt{}, err
	}
	id := newMessageID(domainOf(s.from))
	s.logger.Info("email not sent, no SMTP relay configured",
		"message_id", id,
		"from", s.from,
		"recipients", len(msg.To),
		"subject", msg.Subject,
		"attachments", len(msg.Attachments),
	)
	if s.logger.Enabled(context.Background(), slog.LevelDebug) {
		s.logger.Debug("email body", "message_id", id, "text", msg.Text)
	}
	return Receipt{MessageID: id, Recipients: len(msg.To)}, nil
}

var _ Sender = (*LogSender)(nil)

// NewDiscardSender returns a LogSender that writes nowhere.
func NewDiscardSender() *LogSender {
	return NewLogSender("", slog.New(slog.NewTextHandler(io.Discard, nil)))
}
