package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// WebhookChannel POSTs the alert as a JSON payload to a configured URL.
// Plain net/http — no SDK to ground this on beyond the standard client,
// since a generic webhook POST has no provider-specific wire format.
type WebhookChannel struct {
	url    string
	client *http.Client
}

// NewWebhookChannel returns a WebhookChannel, or nil if url is empty.
func NewWebhookChannel(url string) *WebhookChannel {
	if url == "" {
		return nil
	}
	return &WebhookChannel{url: url, client: http.DefaultClient}
}

type webhookPayload struct {
	MonitorName string `json:"monitor_name"`
	Keywords    []string `json:"keywords"`
	Items       []webhookItem `json:"items"`
}

type webhookItem struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	SourceID string `json:"source_id"`
}

// Send POSTs the alert payload to the configured URL.
func (c *WebhookChannel) Send(ctx context.Context, a Alert) error {
	if c == nil {
		return nil
	}

	payload := webhookPayload{MonitorName: a.MonitorName, Keywords: a.Keywords}
	for _, item := range a.Items {
		payload.Items = append(payload.Items, webhookItem{Title: item.Title, URL: item.URL, SourceID: item.SourceID})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("alert: marshaling webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("alert: building webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("alert: webhook POST to %s: %w", c.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("alert: webhook %s returned status %d", c.url, resp.StatusCode)
	}
	return nil
}
