package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_TextIncludesComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Output: &buf, Component: ComponentDaemon})
	l.Info("poll finished", FieldCount, 3)
	l.Debug("hidden")

	out := buf.String()
	if !strings.Contains(out, "component=daemon") || !strings.Contains(out, "count=3") {
		t.Fatalf("output = %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line written at info level")
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{JSON: true, Output: &buf, Component: ComponentAlerts}).WithComponent(ComponentNotifier)
	l.Warn("queue full")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("Unmarshal %q: %v", buf.String(), err)
	}
	if rec["msg"] != "queue full" || rec["level"] != "WARN" {
		t.Fatalf("record = %v", rec)
	}
	if l.Component() != ComponentNotifier {
		t.Fatalf("Component() = %q", l.Component())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
