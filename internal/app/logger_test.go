package app

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/verdd/verdd-backend/internal/config"
)

func TestNewLoggerTo_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, config.LogConfig{Level: "info", Format: "json"})
	logger.Info("import completed", slog.Int("lexemes", 3))

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("JSON handler should produce valid JSON: %v", err)
	}
	if m["msg"] != "import completed" {
		t.Errorf("expected msg %q, got %v", "import completed", m["msg"])
	}
	if m["lexemes"] != float64(3) {
		t.Errorf("expected lexemes=3, got %v", m["lexemes"])
	}
}

func TestNewLoggerTo_TextFormatAddsSource(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, config.LogConfig{Level: "debug", Format: "text"})
	logger.Debug("stage completed")

	out := buf.String()
	if !strings.Contains(out, "stage completed") {
		t.Fatalf("expected message in output, got %q", out)
	}
	if !strings.Contains(out, "source=") {
		t.Errorf("expected source attribute in text output, got %q", out)
	}
}

func TestNewLoggerTo_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, config.LogConfig{Level: "warn", Format: "json"})
	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn should pass at warn level: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" WARN ", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
