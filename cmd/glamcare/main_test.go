package main

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected slog.Level
	}{
		{level: "debug", expected: slog.LevelDebug},
		{level: "info", expected: slog.LevelInfo},
		{level: "warn", expected: slog.LevelWarn},
		{level: "error", expected: slog.LevelError},
		{level: "", expected: slog.LevelInfo},
		{level: "verbose", expected: slog.LevelInfo},
	}
	for _, test := range tests {
		t.Run(test.level, func(t *testing.T) {
			if actual := parseLevel(test.level); actual != test.expected {
				t.Errorf("expected %v, got %v", test.expected, actual)
			}
		})
	}
}

func TestGetLoggerWritesToLogFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "glamcare.log")
	log, closeLog := getLogger("warn", name)
	log.Info("dropped")
	log.Warn("kept", slog.String("key", "value"))
	if err := closeLog(); err != nil {
		t.Fatalf("failed to close log: %v", err)
	}

	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(data, &entry); err != nil {
		t.Fatalf("expected a single JSON entry, got %q: %v", data, err)
	}
	if entry["msg"] != "kept" || entry["key"] != "value" {
		t.Errorf("unexpected entry %v", entry)
	}
}
