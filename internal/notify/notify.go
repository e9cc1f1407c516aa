// Package notify holds the outbound notification stubs. Deliveries are
// best-effort and at-most-once; callers log failures and continue.
package notify

import (
	"context"
	"log/slog"
)

// Notifier sends fire-and-forget notifications triggered by domain events.
type Notifier interface {
	SendWelcomeEmail(ctx context.Context, recipient string) error
	NotifyAdmin(ctx context.Context, message string) error
}

// LogNotifier pretends to deliver by logging. It stands in for a real
// email/notification provider in every environment today.
type LogNotifier struct{}

// NewLogNotifier creates a log-backed Notifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// SendWelcomeEmail pretends to send a welcome email to the user.
func (n *LogNotifier) SendWelcomeEmail(ctx context.Context, recipient string) error {
	slog.InfoContext(ctx, "sending welcome email", "recipient", recipient)
	return nil
}

// NotifyAdmin pretends to notify an admin about an important event.
func (n *LogNotifier) NotifyAdmin(ctx context.Context, message string) error {
	slog.InfoContext(ctx, "admin notification", "message", message)
	return nil
}
