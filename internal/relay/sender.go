// Package relay forwards metrics envelopes to a TRMNL private plugin webhook.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	constants "beszeltrmnl/config"
	"beszeltrmnl/internal/logger"
	"beszeltrmnl/internal/metrics"
	"beszeltrmnl/internal/telemetry"
)

// ErrDisabled is returned when no usable target URL is configured.
var ErrDisabled = errors.New("relay: no plugin URL configured")

// StatusError is a non-2xx response from the plugin webhook.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("TRMNL API responded with status: %d", e.Status)
}

// Sender posts envelopes to one webhook URL.
type Sender struct {
	url       string
	client    *http.Client
	telemetry *telemetry.Recorder
}

// Option configures a Sender.
type Option func(*Sender)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Sender) { s.client = c }
}

// WithTelemetry records delivery outcomes on rec.
func WithTelemetry(rec *telemetry.Recorder) Option {
	return func(s *Sender) { s.telemetry = rec }
}

// NewSender creates a sender for targetURL. An empty or placeholder URL
// yields a disabled sender.
func NewSender(targetURL string, opts ...Option) *Sender {
	s := &Sender{
		url:    strings.TrimSpace(targetURL),
		client: &http.Client{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enabled reports whether a real target URL is configured.
func (s *Sender) Enabled() bool {
	return s != nil && s.url != "" && s.url != constants.PLUGIN_URL_PLACEHOLDER
}

// URL returns the configured target.
func (s *Sender) URL() string {
	if s == nil {
		return ""
	}
	return s.url
}

// Send delivers env in a detached goroutine and returns a buffered channel
// that receives the outcome once. Callers on the request path never read it.
func (s *Sender) Send(env metrics.Envelope) <-chan error {
	done := make(chan error, 1)
	if !s.Enabled() {
		done <- ErrDisabled
		return done
	}

	go func() {
		done <- s.Deliver(context.Background(), env)
	}()
	return done
}

// Deliver posts env synchronously and logs the outcome. Failures are
// logged as warnings and returned; there is no retry.
func (s *Sender) Deliver(ctx context.Context, env metrics.Envelope) error {
	if !s.Enabled() {
		return ErrDisabled
	}

	err := s.post(ctx, env)
	var statusErr *StatusError
	switch {
	case err == nil:
		logger.Success("Successfully updated TRMNL plugin")
		s.telemetry.ObserveRelay(telemetry.OutcomeSuccess)
	case errors.As(err, &statusErr):
		logger.Warning("%v", err)
		s.telemetry.ObserveRelay(telemetry.OutcomeRejected)
	default:
		logger.Warning("Failed to update remote TRMNL plugin: %v", err)
		s.telemetry.ObserveRelay(telemetry.OutcomeError)
	}
	return err
}

func (s *Sender) post(ctx context.Context, env metrics.Envelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to encode envelope: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", constants.HEADER_USER_AGENT)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Status: resp.StatusCode}
	}
	return nil
}
