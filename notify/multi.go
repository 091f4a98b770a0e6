package notify

import (
	"context"
	"errors"
	"log/slog"
)

// =============================================================================
// MultiNotifier
// =============================================================================

// MultiNotifier sends notifications to multiple notifiers.
type MultiNotifier struct {
	Notifiers []Notifier
	Logger    *slog.Logger
}

// NewMultiNotifier creates a notifier that fans out to multiple notifiers.
// A failing notifier is logged and does not stop the others.
func NewMultiNotifier(notifiers ...Notifier) *MultiNotifier {
	return &MultiNotifier{
		Notifiers: notifiers,
		Logger:    slog.Default(),
	}
}

// Notify implements Notifier. The returned error joins every failure.
func (n *MultiNotifier) Notify(ctx context.Context, event Event) error {
	var errs []error
	for _, notifier := range n.Notifiers {
		if err := notifier.Notify(ctx, event); err != nil {
			errs = append(errs, err)
			if n.Logger != nil {
				n.Logger.Warn("notifier failed",
					"error", err,
					"event", event.Type,
				)
			}
		}
	}
	return errors.Join(errs...)
}

// =============================================================================
// NopNotifier
// =============================================================================

// NopNotifier discards all notifications.
type NopNotifier struct{}

// Notify implements Notifier.
func (NopNotifier) Notify(context.Context, Event) error {
	return nil
}
