package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)
}

func TestLogger_LineFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "", false)
	l.now = fixedClock

	l.Success("Authenticated with PocketBase")
	l.Warning("TRMNL API responded with status: %d", 502)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	if lines[0] != "[2026-10-19 08:30:00] SUCCESS: Authenticated with PocketBase" {
		t.Errorf("Unexpected first line: %q", lines[0])
	}
	if lines[1] != "[2026-10-19 08:30:00] WARNING: TRMNL API responded with status: 502" {
		t.Errorf("Unexpected second line: %q", lines[1])
	}
}

func TestLogger_DebugSuppressedUnlessEnabled(t *testing.T) {
	var quiet, verbose bytes.Buffer

	New(&quiet, "", false).Debug("raw record: %s", "{}")
	New(&verbose, "", true).Debug("raw record: %s", "{}")

	if quiet.Len() != 0 {
		t.Errorf("Debug line should be suppressed, got %q", quiet.String())
	}
	if !strings.Contains(verbose.String(), "DEBUG: raw record: {}") {
		t.Errorf("Debug line missing, got %q", verbose.String())
	}
}

func TestLogger_PercentWithoutArgs(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "", false).Error("disk at 100%")

	if !strings.Contains(buf.String(), "ERROR: disk at 100%") {
		t.Errorf("Message without args must be written verbatim, got %q", buf.String())
	}
}

func TestLogger_FileMirror(t *testing.T) {
	path := filepath.Join(t.TempDir(), "beszeltrmnl.log")

	var buf bytes.Buffer
	l := New(&buf, path, false)
	l.Info("listening on %s", "0.0.0.0:3000")
	l.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "INFO: listening on 0.0.0.0:3000") {
		t.Errorf("Log file missing entry, got %q", string(data))
	}
	if !strings.Contains(buf.String(), "INFO: listening on 0.0.0.0:3000") {
		t.Errorf("Stdout writer missing entry, got %q", buf.String())
	}
}

func TestSetOutput_PackageHelpers(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, false)
	t.Cleanup(func() { SetDefault(New(os.Stdout, "", false)) })

	Warning("Failed to update remote TRMNL plugin: %s", "connection refused")

	if !strings.Contains(buf.String(), "WARNING: Failed to update remote TRMNL plugin: connection refused") {
		t.Errorf("Package helper did not use configured output, got %q", buf.String())
	}
}
