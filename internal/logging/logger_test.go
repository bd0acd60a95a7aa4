package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "production", "")

	logger.Debug("hidden")
	WithTurn(logger.With("session_id", "1718000000000"), "turn-1", "design-trend").Info("turn started")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("Expected only the info line in production, got %q", buf.String())
	}
	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("Expected JSON output: %v", err)
	}
	if entry["turn_id"] != "turn-1" || entry["agent_id"] != "design-trend" || entry["session_id"] != "1718000000000" {
		t.Errorf("Missing turn fields: %v", entry)
	}
}

func TestNewLevelOverride(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "development", "warn")

	logger.Info("quiet")
	logger.Warn("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") || !strings.Contains(out, "loud") {
		t.Errorf("Expected only warn output, got %q", out)
	}
}

func TestNewIgnoresUnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "development", "chatty").Debug("kept")

	if !strings.Contains(buf.String(), "kept") {
		t.Errorf("Unknown level should keep the development default, got %q", buf.String())
	}
}
