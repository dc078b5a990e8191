package notify

import (
	"context"
	"log/slog"

	"github.com/arsipa/arsipa/core"
)

// Notifier delivers review-outcome notifications to document owners.
// Delivery is best-effort: callers log failures and never roll back the
// mutation that triggered the notification.
type Notifier interface {
	// DocumentAccepted notifies the owner that their document passed review.
	DocumentAccepted(ctx context.Context, doc *core.Document) error

	// DocumentRejected notifies the owner that their document was rejected,
	// including the recorded reason.
	DocumentRejected(ctx context.Context, doc *core.Document) error
}

// Noop is a Notifier that does nothing. Used when no outbound channel is
// configured.
type Noop struct{}

var _ Notifier = (*Noop)(nil)

func (n *Noop) DocumentAccepted(_ context.Context, _ *core.Document) error { return nil }
func (n *Noop) DocumentRejected(_ context.Context, _ *core.Document) error { return nil }

// LogNotifier records notifications to the structured log instead of an
// outbound channel. Useful for local deployments and testing.
type LogNotifier struct {
	logger *slog.Logger
}

var _ Notifier = (*LogNotifier)(nil)

// NewLogNotifier creates a notifier that writes to logger.
// A nil logger falls back to slog.Default().
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger.With("component", "notify")}
}

func (n *LogNotifier) DocumentAccepted(_ context.Context, doc *core.Document) error {
	n.logger.Info("document accepted", "id", doc.Id, "title", doc.Title, "owner", doc.Owner)
	return nil
}

func (n *LogNotifier) DocumentRejected(_ context.Context, doc *core.Document) error {
	n.logger.Info("document rejected",
		"id", doc.Id, "title", doc.Title, "owner", doc.Owner, "reason", doc.RejectionReason)
	return nil
}
