package relay

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"beszeltrmnl/internal/logger"
	"beszeltrmnl/internal/metrics"
	"beszeltrmnl/internal/pocketbase"

	"github.com/google/go-cmp/cmp"
)

type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func sampleEnvelope() metrics.Envelope {
	rec := &pocketbase.SystemRecord{ID: "sys123", Name: "homelab", Status: "up"}
	return metrics.Wrap(metrics.FromRecord(rec, time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)))
}

func wait(t *testing.T, ch <-chan error) error {
	t.Helper()
	select {
	case err := <-ch:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("relay did not finish")
		return nil
	}
}

func TestEnabled(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"", false},
		{"   ", false},
		{"your-plugin-url-here", false},
		{"https://usetrmnl.com/api/custom_plugins/abc", true},
	}
	for _, tt := range tests {
		if got := NewSender(tt.url).Enabled(); got != tt.want {
			t.Errorf("Enabled(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}

	var nilSender *Sender
	if nilSender.Enabled() {
		t.Error("nil sender must be disabled")
	}
}

func TestSend_PostsEnvelope(t *testing.T) {
	var logs safeBuffer
	logger.SetOutput(&logs, false)

	var (
		mu        sync.Mutex
		gotBody   []byte
		gotType   string
		gotMethod string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		gotBody, gotType, gotMethod = body, r.Header.Get("Content-Type"), r.Method
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	env := sampleEnvelope()
	if err := wait(t, NewSender(srv.URL).Send(env)); err != nil {
		t.Fatalf("expected successful delivery, got %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if gotMethod != http.MethodPost || gotType != "application/json" {
		t.Errorf("unexpected request: %s %s", gotMethod, gotType)
	}
	var decoded metrics.Envelope
	if err := json.Unmarshal(gotBody, &decoded); err != nil {
		t.Fatalf("relay body is not JSON: %v", err)
	}
	if diff := cmp.Diff(env, decoded); diff != "" {
		t.Errorf("relay body mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(logs.String(), "Successfully updated TRMNL plugin") {
		t.Errorf("expected success log, got %q", logs.String())
	}
}

func TestSend_NonSuccessStatusIsWarning(t *testing.T) {
	var logs safeBuffer
	logger.SetOutput(&logs, false)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	err := wait(t, NewSender(srv.URL).Send(sampleEnvelope()))
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Status != http.StatusTooManyRequests {
		t.Fatalf("expected StatusError 429, got %v", err)
	}
	out := logs.String()
	if !strings.Contains(out, "WARNING: TRMNL API responded with status: 429") {
		t.Errorf("expected warning log, got %q", out)
	}
}

func TestSend_UnreachableTargetIsWarning(t *testing.T) {
	var logs safeBuffer
	logger.SetOutput(&logs, false)

	srv := httptest.NewServer(http.NotFoundHandler())
	target := srv.URL
	srv.Close()

	if err := wait(t, NewSender(target).Send(sampleEnvelope())); err == nil {
		t.Fatal("expected transport error")
	}
	if !strings.Contains(logs.String(), "WARNING: Failed to update remote TRMNL plugin") {
		t.Errorf("expected warning log, got %q", logs.String())
	}
}

func TestSend_Disabled(t *testing.T) {
	logger.SetOutput(io.Discard, false)
	if err := wait(t, NewSender("your-plugin-url-here").Send(sampleEnvelope())); !errors.Is(err, ErrDisabled) {
		t.Errorf("expected ErrDisabled, got %v", err)
	}
}

func TestSend_DoesNotBlockCaller(t *testing.T) {
	logger.SetOutput(io.Discard, false)

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	ch := NewSender(srv.URL).Send(sampleEnvelope())
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("Send blocked for %v", elapsed)
	}
	select {
	case err := <-ch:
		t.Fatalf("delivery finished before the target answered: %v", err)
	default:
	}
}
