// Package notify sends the completion notice at the end of a run.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"

	"ytdigest/config"
)

// ErrNoRecipient is returned when no recipient is configured.
var ErrNoRecipient = errors.New("notify: no recipient configured")

// Sender delivers prepared messages. *mail.Client satisfies it.
type Sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// Mailer sends one fixed-recipient, fixed-subject email per call.
type Mailer struct {
	sender  Sender
	from    string
	to      string
	subject string
}

// NewMailer creates a Mailer backed by an SMTP client built from cfg.
func NewMailer(cfg config.MailConfig) (*Mailer, error) {
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
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	return NewMailerWithSender(client, cfg), nil
}

// NewMailerWithSender creates a Mailer that delivers through sender.
func NewMailerWithSender(sender Sender, cfg config.MailConfig) *Mailer {
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &Mailer{
		sender:  sender,
		from:    from,
		to:      cfg.To,
		subject: cfg.Subject,
	}
}

// Notify sends the completion notice stamped with at.
func (m *Mailer) Notify(ctx context.Context, at time.Time) error {
	msg, err := m.message(at)
	if err != nil {
		return err
	}
	if err := m.sender.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	return nil
}

func (m *Mailer) message(at time.Time) (*mail.Msg, error) {
	if m.to == "" {
		return nil, ErrNoRecipient
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return nil, fmt.Errorf("set sender %q: %w", m.from, err)
	}
	if err := msg.To(m.to); err != nil {
		return nil, fmt.Errorf("set recipient %q: %w", m.to, err)
	}
	msg.Subject(m.subject)
	msg.SetBodyString(mail.TypeTextPlain, Body(at))
	return msg, nil
}

// Body renders the notice text.
func Body(at time.Time) string {
	return "The daily YouTube digest run completed at " + at.Format("2006-01-02 15:04:05 MST") + ".\n"
}
