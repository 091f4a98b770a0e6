package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// =============================================================================
// WebhookNotifier
// =============================================================================

// WebhookNotifier posts a flat JSON summary of each run event to an HTTP
// endpoint. Receivers get the pull request and merge outcome as top-level
// fields instead of digging through metadata.
type WebhookNotifier struct {
	URL     string
	Headers map[string]string
	Client  *http.Client
}

// NewWebhookNotifier creates a webhook notifier.
func NewWebhookNotifier(url string, headers map[string]string) *WebhookNotifier {
	return &WebhookNotifier{
		URL:     url,
		Headers: headers,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// WebhookPayload is the body posted for every event.
type WebhookPayload struct {
	Event     EventType `json:"event"`
	Severity  string    `json:"severity"`
	RunID     string    `json:"run_id"`
	Branch    string    `json:"branch,omitempty"`
	Trunk     string    `json:"trunk,omitempty"`
	Phase     string    `json:"phase,omitempty"`
	Step      string    `json:"failed_step,omitempty"`
	PRURL     string    `json:"pr_url,omitempty"`
	PRNumber  int       `json:"pr_number,omitempty"`
	Merge     string    `json:"merge,omitempty"`
	Message   string    `json:"message"`
	Timestamp string    `json:"timestamp"`
}

// NewWebhookPayload flattens event into the posted body.
func NewWebhookPayload(event Event) WebhookPayload {
	p := WebhookPayload{
		Event:     event.Type,
		Severity:  event.Severity,
		RunID:     event.RunID,
		Branch:    event.Branch,
		Step:      event.Step,
		Message:   event.Message,
		Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
		Trunk:     metaString(event.Metadata, "trunk"),
		Phase:     metaString(event.Metadata, "phase"),
		PRURL:     metaString(event.Metadata, "pr_url"),
		Merge:     metaString(event.Metadata, "merge"),
	}
	if n, ok := event.Metadata["pr_number"].(int); ok {
		p.PRNumber = n
	}
	return p
}

func metaString(metadata map[string]any, key string) string {
	if v, ok := metadata[key].(string); ok {
		return v
	}
	return ""
}

// Notify implements Notifier.
func (n *WebhookNotifier) Notify(ctx context.Context, event Event) error {
	body, err := json.Marshal(NewWebhookPayload(event))
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Hotfix-Event", string(event.Type))
	req.Header.Set("X-Hotfix-Run", event.RunID)
	for k, v := range n.Headers {
		req.Header.Set(k, v)
	}

	resp, err := n.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		if len(bytes.TrimSpace(snippet)) > 0 {
			return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
		}
		return fmt.Errorf("webhook returned %d", resp.StatusCode)
	}

	return nil
}
