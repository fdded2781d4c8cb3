// Package notify posts workflow announcements to chat webhooks.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const defaultMaxElapsed = 30 * time.Second

// Notifier sends a text message to every configured webhook
type Notifier struct {
	webhooks   []string
	httpClient *http.Client
	maxElapsed time.Duration
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(n *Notifier) { n.httpClient = hc }
}

// WithMaxElapsed bounds the total time spent retrying one webhook.
func WithMaxElapsed(d time.Duration) Option {
	return func(n *Notifier) { n.maxElapsed = d }
}

// New creates a Notifier for webhooks
func New(webhooks []string, opts ...Option) *Notifier {
	n := &Notifier{
		webhooks: webhooks,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		maxElapsed: defaultMaxElapsed,
	}
	for _, o := range opts {
		o(n)
	}
	return n
}

// Enabled reports whether any webhook is configured
func (n *Notifier) Enabled() bool {
	return len(n.webhooks) > 0
}

type payload struct {
	Text string `json:"text"`
}

// StatusError is returned when a webhook answers with a non-2xx status
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("webhook returned %d: %s", e.StatusCode, e.Body)
}

// Notify posts text to every webhook. All webhooks are tried; the returned
// error joins the failures.
func (n *Notifier) Notify(ctx context.Context, text string) error {
	body, err := json.Marshal(payload{Text: text})
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	var errs []error
	for _, url := range n.webhooks {
		if err := n.post(ctx, url, body); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (n *Notifier) newBackoff() backoff.BackOff {
	// BackOff implementations are stateful; always return a fresh instance.
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxElapsedTime = n.maxElapsed
	return bo
}

// post retries network errors and 5xx/429 answers; other statuses are final
func (n *Notifier) post(ctx context.Context, url string, body []byte) error {
	return backoff.Retry(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := n.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 300 {
			return nil
		}
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		statusErr := &StatusError{StatusCode: resp.StatusCode, Body: string(msg)}
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return statusErr
		}
		return backoff.Permanent(statusErr)
	}, backoff.WithContext(n.newBackoff(), ctx))
}
