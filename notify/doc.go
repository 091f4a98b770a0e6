// Package notify reports hotfix run events (start, PR created, merge
// fallback, completion, failure, failed rollback).
//
// Implementations:
//   - LogNotifier: Logs events through slog
//   - SlackNotifier: Posts to a Slack incoming webhook
//   - WebhookNotifier: Posts the event JSON to any HTTP endpoint
//   - MultiNotifier: Fans out to several notifiers
//   - NopNotifier: Discards everything
//
// Example usage:
//
//	n := notify.New(notify.Config{SlackWebhook: url, Logger: logger})
//	_ = n.Notify(ctx, notify.Event{
//	    Type:     notify.EventPRCreated,
//	    RunID:    state.RunID,
//	    Message:  "PR opened",
//	    Severity: notify.SeverityInfo,
//	})
package notify
