package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{in: "debug", want: DebugLevel},
		{in: " INFO ", want: InfoLevel},
		{in: "error", want: ErrorLevel},
		{in: "warn", want: WarnLevel},
		{in: "", want: WarnLevel},
		{in: "verbose", want: WarnLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&Config{Level: WarnLevel, Output: &buf})

	l.Info("hidden")
	l.Warn("lookup batch skipped", "batch", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "lookup batch skipped") || !strings.Contains(out, "batch=2") {
		t.Errorf("expected warn message with fields, got %q", out)
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&Config{Level: DebugLevel, Output: &buf, JSON: true}).With("file", "ep01.srt")

	l.Debug("parsed", "lines", 12)

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected one JSON object, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "parsed" || entry["file"] != "ep01.srt" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestSetDefault(t *testing.T) {
	prev := Default()
	defer SetDefault(prev)

	var buf bytes.Buffer
	SetDefault(NewLogger(&Config{Level: InfoLevel, Output: &buf}))
	Info("via package helper")

	if !strings.Contains(buf.String(), "via package helper") {
		t.Errorf("expected package helper to use the default logger, got %q", buf.String())
	}

	SetDefault(nil)
	if Default() == nil {
		t.Error("SetDefault(nil) must keep the current logger")
	}
}
