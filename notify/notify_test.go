package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// =============================================================================
// Event Type Tests
// =============================================================================

func TestEventTypes(t *testing.T) {
	types := []EventType{
		EventRunStarted,
		EventRunCompleted,
		EventRunFailed,
		EventPRCreated,
		EventMergeFallback,
		EventRollbackFailed,
	}

	seen := make(map[EventType]bool)
	for _, et := range types {
		if seen[et] {
			t.Errorf("duplicate event type: %s", et)
		}
		seen[et] = true
	}
}

// =============================================================================
// NopNotifier Tests
// =============================================================================

func TestNopNotifier(t *testing.T) {
	err := NopNotifier{}.Notify(context.Background(), Event{Type: EventRunStarted, Message: "test"})
	if err != nil {
		t.Errorf("NopNotifier.Notify() error = %v, want nil", err)
	}
}

// =============================================================================
// LogNotifier Tests
// =============================================================================

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	n := NewLogNotifier(logger)

	err := n.Notify(context.Background(), Event{
		Type:      EventPRCreated,
		RunID:     "run-123",
		Branch:    "hotfix-2025-07-30-14-30-45",
		Message:   "PR created",
		Severity:  SeverityInfo,
		Timestamp: time.Now(),
		Metadata:  map[string]any{"pr_url": "https://github.com/acme/api/pull/7"},
	})
	if err != nil {
		t.Errorf("LogNotifier.Notify() error = %v", err)
	}

	output := buf.String()
	for _, want := range []string{"PR created", "run-123", "hotfix-2025-07-30-14-30-45", "pr_url=https://github.com/acme/api/pull/7"} {
		if !strings.Contains(output, want) {
			t.Errorf("Log output missing %q: %s", want, output)
		}
	}
}

func TestLogNotifier_Severity(t *testing.T) {
	tests := []struct {
		severity string
		wantLog  string
	}{
		{SeverityInfo, "level=INFO"},
		{SeverityWarning, "level=WARN"},
		{SeverityError, "level=ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.severity, func(t *testing.T) {
			var buf bytes.Buffer
			n := NewLogNotifier(slog.New(slog.NewTextHandler(&buf, nil)))

			if err := n.Notify(context.Background(), Event{Type: EventRunStarted, Message: "test", Severity: tt.severity}); err != nil {
				t.Errorf("Notify() error = %v", err)
			}
			if !strings.Contains(buf.String(), tt.wantLog) {
				t.Errorf("Log output = %q, want to contain %q", buf.String(), tt.wantLog)
			}
		})
	}
}

func TestLogNotifier_NilLogger(t *testing.T) {
	n := NewLogNotifier(nil)
	if n.Logger == nil {
		t.Error("NewLogNotifier should use default logger when nil")
	}
}

// =============================================================================
// WebhookNotifier Tests
// =============================================================================

func TestWebhookNotifier(t *testing.T) {
	var receivedBody []byte
	var receivedEvent, receivedRun string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %s, want application/json", ct)
		}
		receivedEvent = r.Header.Get("X-Hotfix-Event")
		receivedRun = r.Header.Get("X-Hotfix-Run")
		receivedBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewWebhookNotifier(server.URL, nil)
	err := n.Notify(context.Background(), Event{
		Type:      EventRunCompleted,
		RunID:     "run-123",
		Branch:    "hotfix-1",
		Message:   "Webhook test",
		Severity:  SeverityInfo,
		Timestamp: time.Date(2025, 7, 30, 14, 30, 45, 0, time.UTC),
		Metadata: map[string]any{
			"phase":     "done",
			"trunk":     "main",
			"pr_url":    "https://github.com/acme/api/pull/42",
			"pr_number": 42,
			"merge":     "automatic",
		},
	})
	if err != nil {
		t.Errorf("WebhookNotifier.Notify() error = %v", err)
	}

	var parsed WebhookPayload
	if err := json.Unmarshal(receivedBody, &parsed); err != nil {
		t.Fatalf("Failed to parse received body: %v", err)
	}
	want := WebhookPayload{
		Event:     EventRunCompleted,
		Severity:  SeverityInfo,
		RunID:     "run-123",
		Branch:    "hotfix-1",
		Trunk:     "main",
		Phase:     "done",
		PRURL:     "https://github.com/acme/api/pull/42",
		PRNumber:  42,
		Merge:     "automatic",
		Message:   "Webhook test",
		Timestamp: "2025-07-30T14:30:45Z",
	}
	if parsed != want {
		t.Errorf("payload = %+v, want %+v", parsed, want)
	}
	if receivedEvent != string(EventRunCompleted) {
		t.Errorf("X-Hotfix-Event = %q, want %q", receivedEvent, EventRunCompleted)
	}
	if receivedRun != "run-123" {
		t.Errorf("X-Hotfix-Run = %q, want %q", receivedRun, "run-123")
	}
}

func TestNewWebhookPayload_FailedRun(t *testing.T) {
	got := NewWebhookPayload(Event{
		Type:     EventRunFailed,
		RunID:    "run-9",
		Step:     "push",
		Severity: SeverityError,
		Metadata: map[string]any{"phase": "committed"},
	})
	if got.Step != "push" || got.Phase != "committed" {
		t.Errorf("payload = %+v", got)
	}
	if got.PRURL != "" || got.PRNumber != 0 || got.Merge != "" {
		t.Errorf("payload has PR fields before a PR exists: %+v", got)
	}
}

func TestWebhookNotifier_CustomHeaders(t *testing.T) {
	var receivedAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewWebhookNotifier(server.URL, map[string]string{"Authorization": "Bearer test-token"})
	if err := n.Notify(context.Background(), Event{Type: EventRunStarted}); err != nil {
		t.Errorf("Notify() error = %v", err)
	}
	if receivedAuth != "Bearer test-token" {
		t.Errorf("Authorization header = %q, want 'Bearer test-token'", receivedAuth)
	}
}

func TestWebhookNotifier_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	err := NewWebhookNotifier(server.URL, nil).Notify(context.Background(), Event{Type: EventRunStarted})
	if err == nil {
		t.Fatal("Notify() should return error for 500 status")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("error = %v, want status code", err)
	}
}

// =============================================================================
// SlackNotifier Tests
// =============================================================================

func TestSlackNotifier(t *testing.T) {
	var receivedPayload slackPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &receivedPayload)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewSlackNotifier(server.URL,
		WithSlackChannel("#releases"),
		WithSlackUsername("hotfix-bot"),
	)

	err := n.Notify(context.Background(), Event{
		Type:      EventMergeFallback,
		RunID:     "run-123",
		Branch:    "hotfix-1",
		Message:   "Auto-merge failed; waiting for manual merge",
		Severity:  SeverityWarning,
		Timestamp: time.Now(),
		Metadata:  map[string]any{"pr_url": "https://github.com/acme/api/pull/7", "error": "checks pending"},
	})
	if err != nil {
		t.Fatalf("SlackNotifier.Notify() error = %v", err)
	}

	if receivedPayload.Channel != "#releases" {
		t.Errorf("Channel = %s, want #releases", receivedPayload.Channel)
	}
	if receivedPayload.Username != "hotfix-bot" {
		t.Errorf("Username = %s, want hotfix-bot", receivedPayload.Username)
	}
	if len(receivedPayload.Attachments) != 1 {
		t.Fatalf("Attachments = %d, want 1", len(receivedPayload.Attachments))
	}
	att := receivedPayload.Attachments[0]
	if att.Color != "warning" {
		t.Errorf("Color = %q, want warning", att.Color)
	}
	if att.Footer != "Branch: hotfix-1 | Run: run-123" {
		t.Errorf("Footer = %q", att.Footer)
	}
	if len(att.Fields) != 2 || att.Fields[0].Title != "error" {
		t.Errorf("Fields = %+v, want sorted by key", att.Fields)
	}
}

func TestEmojiForEvent(t *testing.T) {
	tests := []struct {
		eventType EventType
		wantEmoji string
	}{
		{EventRunStarted, ":rocket:"},
		{EventRunCompleted, ":white_check_mark:"},
		{EventRunFailed, ":x:"},
		{EventPRCreated, ":link:"},
		{EventMergeFallback, ":eyes:"},
		{EventRollbackFailed, ":rotating_light:"},
		{EventType("other"), ":loudspeaker:"},
	}

	for _, tt := range tests {
		t.Run(string(tt.eventType), func(t *testing.T) {
			if got := emojiForEvent(tt.eventType); got != tt.wantEmoji {
				t.Errorf("emojiForEvent() = %s, want %s", got, tt.wantEmoji)
			}
		})
	}
}

func TestColorForSeverity(t *testing.T) {
	tests := []struct {
		severity  string
		wantColor string
	}{
		{SeverityInfo, "good"},
		{SeverityWarning, "warning"},
		{SeverityError, "danger"},
	}

	for _, tt := range tests {
		t.Run(tt.severity, func(t *testing.T) {
			if got := colorForSeverity(tt.severity); got != tt.wantColor {
				t.Errorf("colorForSeverity() = %s, want %s", got, tt.wantColor)
			}
		})
	}
}

// =============================================================================
// MultiNotifier Tests
// =============================================================================

func TestMultiNotifier(t *testing.T) {
	var calls []string
	multi := NewMultiNotifier(
		&mockNotifier{name: "n1", calls: &calls},
		&mockNotifier{name: "n2", calls: &calls},
	)

	if err := multi.Notify(context.Background(), Event{Type: EventRunStarted}); err != nil {
		t.Errorf("MultiNotifier.Notify() error = %v", err)
	}
	if len(calls) != 2 || calls[0] != "n1" || calls[1] != "n2" {
		t.Errorf("Calls = %v, want [n1 n2]", calls)
	}
}

func TestMultiNotifier_ContinuesOnError(t *testing.T) {
	var calls []string
	var logBuf bytes.Buffer

	multi := NewMultiNotifier(
		&mockNotifier{name: "n1", calls: &calls, err: context.DeadlineExceeded},
		&mockNotifier{name: "n2", calls: &calls},
	)
	multi.Logger = slog.New(slog.NewTextHandler(&logBuf, nil))

	err := multi.Notify(context.Background(), Event{Type: EventRunStarted})
	if err == nil {
		t.Error("MultiNotifier should return the joined error")
	}
	if len(calls) != 2 {
		t.Errorf("Call count = %d, want 2 (both notifiers called)", len(calls))
	}
	if !strings.Contains(logBuf.String(), "notifier failed") {
		t.Errorf("log = %q", logBuf.String())
	}
}

func TestNew(t *testing.T) {
	if _, ok := New(Config{}).(*LogNotifier); !ok {
		t.Error("New() without URLs should return a LogNotifier")
	}

	n, ok := New(Config{SlackWebhook: "https://hooks.slack.com/x", WebhookURL: "https://example.com/h"}).(*MultiNotifier)
	if !ok {
		t.Fatal("New() with URLs should return a MultiNotifier")
	}
	if len(n.Notifiers) != 3 {
		t.Errorf("Notifiers = %d, want 3", len(n.Notifiers))
	}
}

type mockNotifier struct {
	name  string
	calls *[]string
	err   error
}

func (m *mockNotifier) Notify(ctx context.Context, event Event) error {
	*m.calls = append(*m.calls, m.name)
	return m.err
}
