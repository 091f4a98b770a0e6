package notify

import (
	"context"
	"log/slog"
)

// =============================================================================
// LogNotifier
// =============================================================================

// LogNotifier writes notifications to a slog logger.
type LogNotifier struct {
	Logger *slog.Logger
}

// NewLogNotifier creates a notifier that logs to the given logger.
// If logger is nil, uses the default slog logger.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{Logger: logger}
}

// Notify implements Notifier.
func (n *LogNotifier) Notify(ctx context.Context, event Event) error {
	level := slog.LevelDebug
	switch event.Severity {
	case SeverityInfo:
		level = slog.LevelInfo
	case SeverityWarning:
		level = slog.LevelWarn
	case SeverityError:
		level = slog.LevelError
	}

	attrs := []any{
		"event", event.Type,
		"run_id", event.RunID,
	}
	if event.Branch != "" {
		attrs = append(attrs, "branch", event.Branch)
	}
	if event.Step != "" {
		attrs = append(attrs, "step", event.Step)
	}
	for k, v := range event.Metadata {
		attrs = append(attrs, k, v)
	}

	n.Logger.Log(ctx, level, event.Message, attrs...)
	return nil
}
