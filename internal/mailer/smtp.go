package mailer

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	mail "github.com/wneessen/go-mail"
)

// SMTPConfig holds relay settings. Username and Password may be empty for
// relays that accept unauthenticated submission.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender delivers messages through an SMTP relay using go-mail.
type SMTPSender struct {
	client *mail.Client
	from   string
	logger *slog.Logger
}

// NewSMTPSender builds a sender for cfg. It does not dial; the connection is
// opened per Send.
func NewSMTPSender(cfg SMTPConfig, logger *slog.Logger) (*SMTPSender, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !ValidAddress(cfg.From) {
		return nil, fmt.Errorf("mailer.NewSMTPSender: invalid from address %q", cfg.From)
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("mailer.NewSMTPSender: %w", err)
	}
	return &SMTPSender{client: client, from: cfg.From, logger: logger}, nil
}

// Send delivers msg. Recipients are placed on Bcc so members do not see each
// other's addresses; the visible To header is the sender itself.
func (s *SMTPSender) Send(ctx context.Context, msg Message) (Receipt, error) {
	m, id, err := s.build(msg)
	if err != nil {
		return Receipt{}, fmt.Errorf("mailer.SMTPSender.Send: %w", err)
	}
	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return Receipt{}, fmt.Errorf("mailer.SMTPSender.Send: %w", err)
	}
	s.logger.InfoContext(ctx, "email sent", "message_id", id, "recipients", len(msg.To), "subject", msg.Subject)
	return Receipt{MessageID: id, Recipients: len(msg.To)}, nil
}

func (s *SMTPSender) build(msg Message) (*mail.Msg, string, error) {
	if err := checkMessage(msg); err != nil {
		return nil, "", err
	}

	m := mail.NewMsg()
	if err := m.From(s.from); err != nil {
		return nil, "", err
	}
	if err := m.To(s.from); err != nil {
		return nil, "", err
	}
	if err := m.Bcc(msg.To...); err != nil {
		return nil, "", err
	}
	m.Subject(msg.Subject)

	id := newMessageID(domainOf(s.from))
	m.SetGenHeader(mail.HeaderMessageID, "<"+id+">")
	m.SetDate()

	switch {
	case msg.Text != "" && msg.HTML != "":
		m.SetBodyString(mail.TypeTextPlain, msg.Text)
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	case msg.HTML != "":
		m.SetBodyString(mail.TypeTextHTML, msg.HTML)
	default:
		m.SetBodyString(mail.TypeTextPlain, msg.Text)
	}

	for _, a := range msg.Attachments {
		var opts []mail.FileOption
		if a.ContentType != "" {
			opts = append(opts, mail.WithFileContentType(mail.ContentType(a.ContentType)))
		}
		if err := m.AttachReader(a.Filename, bytes.NewReader(a.Content), opts...); err != nil {
			return nil, "", fmt.Errorf("attach %s: %w", a.Filename, err)
		}
	}
	return m, id, nil
}
