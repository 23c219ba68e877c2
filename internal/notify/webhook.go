// Package notify delivers risk alerts to an external webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/alfredjeanlab/vendorwatch/internal/model"
)

// WebhookNotifier posts risk events as JSON to a configured endpoint.
type WebhookNotifier struct {
	url        string
	httpClient *http.Client
}

// NewWebhook creates a webhook notifier, or nil when no URL is configured so
// callers can wire it straight through as a disabled collaborator.
func NewWebhook(url string) *WebhookNotifier {
	if url == "" {
		return nil
	}
	return &WebhookNotifier{
		url: url,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// webhookPayload is the delivery format. The event is embedded whole so
// receivers can route on severity or vendor without a follow-up fetch.
type webhookPayload struct {
	Kind  string           `json:"kind"`
	Event *model.RiskEvent `json:"event"`
}

// Send delivers the alert. It reports sent=true only on a 2xx response.
func (w *WebhookNotifier) Send(ctx context.Context, event *model.RiskEvent) (bool, error) {
	body, err := json.Marshal(webhookPayload{Kind: "vendorwatch.alert", Event: event})
	if err != nil {
		return false, fmt.Errorf("encode alert payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("deliver alert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, fmt.Errorf("webhook returned HTTP %d", resp.StatusCode)
	}
	return true, nil
}
