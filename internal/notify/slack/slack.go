// Package slack pushes SOS alerts to the on-duty staff channel via incoming
// webhooks.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/linnemanlabs/wardline/internal/request"
)

const (
	maxReasonLen = 500
	httpTimeout  = 10 * time.Second
)

// Notifier sends SOS alerts to a Slack webhook.
type Notifier struct {
	webhookURL string
	client     *http.Client
}

// New creates a new Slack notifier. If webhookURL is empty, Send is a no-op.
func New(webhookURL string) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: httpTimeout},
	}
}

// Send posts an SOS alert to the configured Slack webhook.
// If no webhook URL is configured, it returns nil immediately.
func (n *Notifier) Send(ctx context.Context, r *request.Request) error {
	if n.webhookURL == "" {
		return nil
	}

	msg := buildMessage(r, time.Now().UTC())

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("slack: marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("slack: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req) //nolint:gosec // G704: webhookURL is from trusted config, not user input
	if err != nil {
		return fmt.Errorf("slack: post webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("slack: webhook returned %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

func buildMessage(r *request.Request, now time.Time) map[string]any {
	return map[string]any{
		"blocks": []map[string]any{
			headerBlock(r),
			{"type": "divider"},
			fieldsBlock(r),
			{"type": "divider"},
			contextBlock(r, now),
		},
	}
}

func headerBlock(r *request.Request) map[string]any {
	text := fmt.Sprintf("\U0001f6a8 SOS: %s", r.PatientName) // rotating light

	return map[string]any{
		"type": "header",
		"text": map[string]any{
			"type": "plain_text",
			"text": text,
		},
	}
}

func fieldsBlock(r *request.Request) map[string]any {
	criticality := r.Criticality
	if criticality == "" {
		// SOS alerts display HIGH when the patient did not classify.
		criticality = request.CriticalityHigh
	}
	reason := truncate(r.Reason, maxReasonLen)
	if reason == "" {
		reason = "Immediate Assistance Required"
	}

	fields := []map[string]any{
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Criticality:* %s", criticality),
		},
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Reason:* %s", reason),
		},
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Request ID:* %s", r.ID),
		},
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Received:* %s", r.CreatedAt.Format(time.RFC3339)),
		},
	}
	if r.PatientID != "" {
		fields = append(fields, map[string]any{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Patient ID:* %s", r.PatientID),
		})
	}

	return map[string]any{
		"type":   "section",
		"fields": fields,
	}
}

func contextBlock(r *request.Request, now time.Time) map[string]any {
	elements := []map[string]any{
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("wardline • request %s • %s", r.ID, now.Format("2006-01-02 15:04 UTC")),
		},
	}

	return map[string]any{
		"type":     "context",
		"elements": elements,
	}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit-3] + "..."
}
