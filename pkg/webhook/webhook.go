// Package webhook posts report lifecycle notifications to a configured
// HTTP endpoint. The pipeline is a short-lived batch process, so
// delivery is synchronous with bounded retries rather than queued.
package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// EventType identifies the pipeline event that triggered a notification.
type EventType string

const (
	EventReportPublished EventType = "report.published"
	EventReportFailed    EventType = "report.failed"
)

// Notification is the payload posted to the endpoint.
type Notification struct {
	Event     EventType `json:"event"`
	Timestamp string    `json:"timestamp"`
	Name      string    `json:"name"`
	Mode      string    `json:"mode,omitempty"`
	TLostKS   float64   `json:"tlost_ks,omitempty"`
	Sources   []string  `json:"sources,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Notifier delivers notifications to a single endpoint.
type Notifier struct {
	url        string
	secret     string
	maxRetries int
	retryDelay time.Duration
	http       *http.Client
}

// NewNotifier creates a notifier for url. An empty url yields a
// disabled notifier whose Send is a no-op.
func NewNotifier(url, secret string, timeout time.Duration) *Notifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Notifier{
		url:        url,
		secret:     secret,
		maxRetries: 3,
		retryDelay: 2 * time.Second,
		http:       &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether the notifier has an endpoint.
func (n *Notifier) Enabled() bool {
	return n != nil && n.url != ""
}

// Send posts the notification, retrying transient failures.
func (n *Notifier) Send(ctx context.Context, note Notification) error {
	if !n.Enabled() {
		return nil
	}
	if note.Timestamp == "" {
		note.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	payload, err := json.Marshal(note)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= n.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(n.retryDelay):
			}
		}

		req, err := n.newRequest(ctx, payload)
		if err != nil {
			return err
		}
		resp, err := n.http.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("http request: %w", err)
			continue
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}
		lastErr = fmt.Errorf("http %d: %s", resp.StatusCode, string(body))
	}
	return lastErr
}

func (n *Notifier) newRequest(ctx context.Context, payload []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "interrupt-webhook/1.0")
	if n.secret != "" {
		req.Header.Set("X-Interrupt-Signature", sign(payload, n.secret))
	}
	return req, nil
}

// sign creates an HMAC-SHA256 signature for the payload.
func sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
