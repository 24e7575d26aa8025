package notify

import (
	"context"

	"github.com/mesalabs/mesa-backend/pkg/logger"
)

// Kind classifies a user-facing notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Notifier delivers fire-and-forget user notifications. Implementations must
// not block the caller; the cart engine never waits on delivery.
type Notifier interface {
	Show(ctx context.Context, kind Kind, title, message string)
}

// LogNotifier writes notifications to the structured log. It stands in for a
// push/toast channel in deployments that do not have one wired.
type LogNotifier struct {
	logg *logger.Logger
}

// NewLogNotifier builds a log-backed notifier.
func NewLogNotifier(logg *logger.Logger) *LogNotifier {
	return &LogNotifier{logg: logg}
}

// Show implements Notifier.
func (n *LogNotifier) Show(ctx context.Context, kind Kind, title, message string) {
	if n == nil || n.logg == nil {
		return
	}
	ctx = n.logg.WithFields(ctx, map[string]any{
		"notification_kind": string(kind),
		"title":             title,
		"message":           message,
	})
	n.logg.Info(ctx, "notification.show")
}

// Noop discards all notifications.
type Noop struct{}

// Show implements Notifier.
func (Noop) Show(context.Context, Kind, string, string) {}
