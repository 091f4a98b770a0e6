package notify

import (
	"context"
	"log/slog"
	"time"
)

// =============================================================================
// Notification Types
// =============================================================================

// EventType represents the type of hotfix run event.
type EventType string

// Event type constants.
const (
	EventRunStarted     EventType = "run_started"
	EventRunCompleted   EventType = "run_completed"
	EventRunFailed      EventType = "run_failed"
	EventPRCreated      EventType = "pr_created"
	EventMergeFallback  EventType = "merge_fallback"
	EventRollbackFailed EventType = "rollback_failed"
)

// Severity constants for notifications.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Event describes a hotfix run event for notification.
type Event struct {
	Type      EventType      `json:"type"`
	RunID     string         `json:"run_id"`
	Branch    string         `json:"branch,omitempty"`
	Step      string         `json:"step,omitempty"`
	Message   string         `json:"message"`
	Severity  string         `json:"severity"` // SeverityInfo, SeverityWarning, SeverityError
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// =============================================================================
// Notifier Interface
// =============================================================================

// Notifier sends notifications about run events.
type Notifier interface {
	// Notify sends a notification. Callers treat errors as non-fatal.
	Notify(ctx context.Context, event Event) error
}

// Config selects the notifiers built by New.
type Config struct {
	SlackWebhook string
	WebhookURL   string
	Logger       *slog.Logger
}

// New returns a notifier that always logs and also posts to Slack and the
// generic webhook when their URLs are set.
func New(cfg Config) Notifier {
	notifiers := []Notifier{NewLogNotifier(cfg.Logger)}
	if cfg.SlackWebhook != "" {
		notifiers = append(notifiers, NewSlackNotifier(cfg.SlackWebhook))
	}
	if cfg.WebhookURL != "" {
		notifiers = append(notifiers, NewWebhookNotifier(cfg.WebhookURL, nil))
	}
	if len(notifiers) == 1 {
		return notifiers[0]
	}
	multi := NewMultiNotifier(notifiers...)
	if cfg.Logger != nil {
		multi.Logger = cfg.Logger
	}
	return multi
}
