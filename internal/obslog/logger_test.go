package obslog

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNopDiscardsEverything(t *testing.T) {
	l := Nop()
	// Nop must not panic regardless of level or fields.
	l.Debug("debug message", map[string]interface{}{"k": "v"})
	l.Info("info message", nil)
	l.Warn("warn message", map[string]interface{}{"n": 1})
	l.Error("error message", nil, nil)
}

func TestNewJSONFormatWritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelDebug, Format: FormatJSON, Output: &buf})
	l.Info("hello", map[string]interface{}{"key": "value"})

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("expected valid JSON output, got %q: %v", buf.String(), err)
	}
	if decoded["message"] != "hello" {
		t.Errorf("message field = %v, want \"hello\"", decoded["message"])
	}
	if decoded["key"] != "value" {
		t.Errorf("key field = %v, want \"value\"", decoded["key"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelWarn, Format: FormatJSON, Output: &buf})
	l.Debug("should be suppressed", nil)
	l.Info("should also be suppressed", nil)

	if buf.Len() != 0 {
		t.Errorf("expected no output below the configured Warn level, got %q", buf.String())
	}

	l.Warn("should appear", nil)
	if !strings.Contains(buf.String(), "should appear") {
		t.Errorf("expected the Warn-level message to be emitted, got %q", buf.String())
	}
}

func TestErrorAttachesErrField(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelDebug, Format: FormatJSON, Output: &buf})
	l.Error("failed", errTest{}, nil)

	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("expected the error message to appear in the log line, got %q", buf.String())
	}
}

type errTest struct{}

func (errTest) Error() string { return "boom" }
