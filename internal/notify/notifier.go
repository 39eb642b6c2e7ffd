// Package notify holds the notification port and its channel stubs. Every
// channel here is deliberately log-only: the reference system never talks to
// a real Slack workspace, webhook receiver, or mail relay, and this package
// preserves that. Supplying a real adapter means implementing Notifier and
// nothing else.
package notify

import (
	"context"

	"questctl/pkg/logging"
)

// Notifier delivers one notification to one channel.
type Notifier interface {
	// Name identifies the channel, for logs.
	Name() string

	// Send delivers the notification. Failures are reported to the caller
	// but callers treat every dispatch as best-effort.
	Send(ctx context.Context, subject, body string) error
}

// Dispatch sends to every notifier, logging failures instead of propagating
// them. Notification delivery never fails a deployment or a polling round.
func Dispatch(ctx context.Context, notifiers []Notifier, subject, body string) {
	for _, n := range notifiers {
		if err := n.Send(ctx, subject, body); err != nil {
			logging.Warn("Notify", "%s notification failed: %v", n.Name(), err)
		}
	}
}

// SlackNotifier is the Slack channel stub.
type SlackNotifier struct {
	Channel string
}

// Name identifies the channel.
func (s *SlackNotifier) Name() string { return "slack" }

// Send logs the message that would be posted.
func (s *SlackNotifier) Send(ctx context.Context, subject, body string) error {
	logging.Info("Notify", "slack %s: %s: %s", s.Channel, subject, body)
	return nil
}

// WebhookNotifier is the webhook channel stub.
type WebhookNotifier struct {
	URL string
}

// Name identifies the channel.
func (w *WebhookNotifier) Name() string { return "webhook" }

// Send logs the payload that would be POSTed.
func (w *WebhookNotifier) Send(ctx context.Context, subject, body string) error {
	logging.Info("Notify", "webhook %s: %s: %s", w.URL, subject, body)
	return nil
}

// EmailNotifier is the email channel stub.
type EmailNotifier struct {
	To string
}

// Name identifies the channel.
func (e *EmailNotifier) Name() string { return "email" }

// Send logs the mail that would be sent.
func (e *EmailNotifier) Send(ctx context.Context, subject, body string) error {
	logging.Info("Notify", "email to %s: %s: %s", e.To, subject, body)
	return nil
}

// FromSettings builds the notifier set enabled by configuration gates.
func FromSettings(slack, email, webhook bool) []Notifier {
	var notifiers []Notifier
	if slack {
		notifiers = append(notifiers, &SlackNotifier{Channel: "#deployments"})
	}
	if email {
		notifiers = append(notifiers, &EmailNotifier{To: "ops@quest-tracker.example"})
	}
	if webhook {
		notifiers = append(notifiers, &WebhookNotifier{URL: "https://hooks.example.com/deploy"})
	}
	return notifiers
}
