package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"beszeltrmnl/internal/metrics"
	"beszeltrmnl/internal/pocketbase"
)

func TestRenderDocument(t *testing.T) {
	rec := &pocketbase.SystemRecord{
		ID:     "sys123",
		Name:   "homelab",
		Status: "up",
		Info: pocketbase.SystemInfo{
			Hostname: pocketbase.LooseString{Value: "nas", Valid: true},
			Uptime:   pocketbase.LooseNumber{Value: 90061, Valid: true},
			CPU:      pocketbase.LooseNumber{Value: 42.5, Valid: true},
		},
	}
	out := RenderDocument(metrics.FromRecord(rec, time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)))

	for _, want := range []string{"homelab", "sys123", "nas", "1d 1h 1m 1s", "42.5%", "2026-10-19T08:00:00.000Z"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered document missing %q", want)
		}
	}
}

func TestRenderProgressBar_Clamps(t *testing.T) {
	for _, p := range []float64{-10, 0, 55, 100, 250} {
		bar := RenderProgressBar(p, 10)
		cells := strings.Count(bar, ProgressFull) + strings.Count(bar, ProgressEmpty)
		if cells != 10 {
			t.Errorf("percent %v: expected 10 cells, got %d", p, cells)
		}
	}
}

func TestRunPlain(t *testing.T) {
	var buf bytes.Buffer
	got, err := runPlain(&buf, func() (string, error) { return "Fetched homelab", nil })
	if err != nil || got != "Fetched homelab" {
		t.Fatalf("runPlain = %q, %v", got, err)
	}
	if !strings.Contains(buf.String(), "Fetched homelab") {
		t.Errorf("unexpected output %q", buf.String())
	}

	buf.Reset()
	_, err = runPlain(&buf, func() (string, error) { return "", errors.New("no active systems found") })
	if err == nil || !strings.Contains(buf.String(), "no active systems found") {
		t.Errorf("expected error line, got %q (%v)", buf.String(), err)
	}
}
