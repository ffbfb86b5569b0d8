// Package alert delivers validation failures to an outbound chat webhook.
package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nemflow/nemflow/internal/model"
)

// Webhook posts structured cards to a chat webhook URL. A nil or empty-URL
// webhook silently drops everything, so callers never branch on config.
type Webhook struct {
	url    string
	client *http.Client
}

// NewWebhook returns a sink for url; an empty url disables delivery.
func NewWebhook(url string) *Webhook {
	return &Webhook{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// card is the chat payload shape: a title line, bullet sections for issues
// and warnings, and a key/value facts block.
type card struct {
	Title    string            `json:"title"`
	Status   string            `json:"status"`
	Issues   []string          `json:"issues,omitempty"`
	Warnings []string          `json:"warnings,omitempty"`
	Facts    map[string]string `json:"facts,omitempty"`
	Links    []string          `json:"links,omitempty"`
	SentAt   string            `json:"sent_at"`
}

// SendValidationFailure posts a failure card built from the report. Errors
// are returned for the caller to log; alerting never blocks the validator.
func (w *Webhook) SendValidationFailure(ctx context.Context, report model.ValidationReport, links []string) error {
	if w == nil || w.url == "" {
		return nil
	}

	status := "FAILED"
	if report.Passed {
		status = "PASSED"
	}
	facts := make(map[string]string, len(report.Metrics))
	for k, v := range report.Metrics {
		facts[k] = fmt.Sprintf("%.2f", v)
	}

	c := card{
		Title:    "Market data validation " + status,
		Status:   status,
		Issues:   report.Issues,
		Warnings: report.Warnings,
		Facts:    facts,
		Links:    links,
		SentAt:   time.Now().UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal alert card: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build alert request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send alert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("alert webhook returned status %d", resp.StatusCode)
	}
	log.Info().Str("status", status).Int("issues", len(report.Issues)).
		Msg("validation alert delivered")
	return nil
}
