package logging_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/JaimeStill/footprint/pkg/logging"
)

func TestFinalizeDefaults(t *testing.T) {
	cfg := &logging.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if cfg.Level != "info" {
		t.Errorf("level: got %s, want info", cfg.Level)
	}
	if cfg.Format != "text" {
		t.Errorf("format: got %s, want text", cfg.Format)
	}
}

func TestFinalizeEnv(t *testing.T) {
	t.Setenv("TEST_LOG_LEVEL", "debug")
	t.Setenv("TEST_LOG_FORMAT", "json")

	cfg := &logging.Config{}
	env := &logging.Env{Level: "TEST_LOG_LEVEL", Format: "TEST_LOG_FORMAT"}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if cfg.Level != "debug" || cfg.Format != "json" {
		t.Errorf("got %s/%s, want debug/json", cfg.Level, cfg.Format)
	}
}

func TestFinalizeRejectsUnknown(t *testing.T) {
	tests := []struct {
		name string
		cfg  logging.Config
	}{
		{"level", logging.Config{Level: "verbose"}},
		{"format", logging.Config{Format: "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Finalize(nil); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&logging.Config{Level: "info", Format: "json"}, &buf)
	logger.Info("hello", "key", "value")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not json: %v", err)
	}
	if entry["key"] != "value" {
		t.Errorf("key: got %v, want value", entry["key"])
	}
}

func TestNewLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&logging.Config{Level: "warn", Format: "text"}, &buf)
	logger.Info("dropped")
	logger.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(out, "kept") {
		t.Error("warn message missing")
	}
}
