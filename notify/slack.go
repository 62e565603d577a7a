package notify

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
)

// SlackWebhook posts messages to an incoming-webhook URL.
type SlackWebhook struct {
	url string
}

func NewSlackWebhook(url string) *SlackWebhook {
	return &SlackWebhook{url: url}
}

func (s *SlackWebhook) Name() string { return "slack" }

func (s *SlackWebhook) Send(ctx context.Context, _ string, text string) error {
	if err := slack.PostWebhookContext(ctx, s.url, &slack.WebhookMessage{Text: text}); err != nil {
		return fmt.Errorf("slack webhook: %w", err)
	}
	return nil
}
