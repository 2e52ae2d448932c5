package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"loud":    slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewLoggerJSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := WithComponent(NewLogger("info", "json", &buf), "export")
	logger.Debug("gizli")
	logger.Info("hazır", "segments", 2)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("debug line must be filtered, got %d lines", len(lines))
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not json: %v", err)
	}
	if entry["component"] != "export" || entry["msg"] != "hazır" || entry["segments"] != float64(2) {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestNewLoggerText(t *testing.T) {
	var buf bytes.Buffer
	WithSessionID(NewLogger("debug", "text", &buf), "abc").Debug("drag")
	if !strings.Contains(buf.String(), "session_id=abc") || !strings.Contains(buf.String(), "msg=drag") {
		t.Fatalf("unexpected text log: %s", buf.String())
	}
}

func TestSanitizePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got := SanitizePath(filepath.Join(home, "videos", "a.mp4"))
	if got != "~"+string(filepath.Separator)+filepath.Join("videos", "a.mp4") {
		t.Fatalf("unexpected sanitized path: %s", got)
	}
	if SanitizePath("/tmp/x") != "/tmp/x" {
		t.Fatalf("paths outside home must not change")
	}
}
