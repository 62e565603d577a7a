package notify

import (
	"context"
	"fmt"

	"github.com/utpal74/ai-task-scheduler/config"
	"github.com/wneessen/go-mail"
)

const senderName = "AI Scheduler"

// Email sends plain-text mail through an authenticated SMTP relay.
type Email struct {
	cfg config.NotifyConfig
}

func NewEmail(cfg config.NotifyConfig) *Email {
	return &Email{cfg: cfg}
}

func (e *Email) Name() string { return "email" }

func (e *Email) message(subject, text string) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.FromFormat(senderName, e.cfg.EmailUser); err != nil {
		return nil, fmt.Errorf("invalid sender: %w", err)
	}
	if err := m.To(e.cfg.Recipient()); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	m.Subject(subject)
	m.SetBodyString(mail.TypeTextPlain, text)
	return m, nil
}

func (e *Email) Send(ctx context.Context, subject, text string) error {
	m, err := e.message(subject, text)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(e.cfg.SMTPHost,
		mail.WithPort(e.cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(e.cfg.EmailUser),
		mail.WithPassword(e.cfg.EmailPass),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// FromConfig returns the channels enabled by configuration.
func FromConfig(cfg config.NotifyConfig) []Channel {
	var channels []Channel
	if cfg.SlackWebhookURL != "" {
		channels = append(channels, NewSlackWebhook(cfg.SlackWebhookURL))
	}
	if cfg.EmailEnabled() {
		channels = append(channels, NewEmail(cfg))
	}
	return channels
}
