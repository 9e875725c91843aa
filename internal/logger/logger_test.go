package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestLogrusLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogrus(Options{Level: "warn", Output: &buf})

	logger.Info("hidden message")
	logger.Warn("visible message")

	output := buf.String()
	if strings.Contains(output, "hidden message") {
		t.Errorf("Expected info message to be filtered at warn level, got: %s", output)
	}
	if !strings.Contains(output, "visible message") {
		t.Errorf("Expected warn message in output, got: %s", output)
	}
}

func TestLogrusLogger_InvalidLevelDefaultsToWarn(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogrus(Options{Level: "chatty", Output: &buf})

	logger.Info("info")
	logger.Warn("warn")

	output := buf.String()
	if strings.Contains(output, "msg=info") || !strings.Contains(output, "msg=warn") {
		t.Errorf("Expected warn default level, got: %s", output)
	}
}

func TestLogrusLogger_Error(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogrus(Options{Level: "debug", Output: &buf})

	logger.Error("save failed", errors.New("disk full"))

	output := buf.String()
	if !strings.Contains(output, "save failed") || !strings.Contains(output, "disk full") {
		t.Errorf("Expected error log to contain message and error, got: %s", output)
	}
}

func TestLogrusLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogrus(Options{Level: "debug", Output: &buf})

	logger.WithFields(map[string]interface{}{
		"source":  "data.csv",
		"columns": 3,
	}).WithField("format", "csv").Debug("snapshot captured")

	output := buf.String()
	for _, want := range []string{"source=data.csv", "columns=3", "format=csv", "snapshot captured"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected log to contain %q, got: %s", want, output)
		}
	}
}

func TestLogrusLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogrus(Options{Level: "info", Format: "json", Output: &buf})

	logger.WithField("path", "snap.json").Info("saved")

	output := buf.String()
	if !strings.Contains(output, `"path":"snap.json"`) || !strings.Contains(output, `"msg":"saved"`) {
		t.Errorf("Expected JSON log line, got: %s", output)
	}
}

func TestNop(t *testing.T) {
	logger := Nop()
	logger.Error("ignored", errors.New("nothing"))
	logger.WithField("k", "v").Info("ignored")
}

func TestSetDefault(t *testing.T) {
	previous := Default()
	t.Cleanup(func() { SetDefault(previous) })

	var buf bytes.Buffer
	SetDefault(NewLogrus(Options{Level: "info", Output: &buf}))
	Default().Info("through default")

	if !strings.Contains(buf.String(), "through default") {
		t.Errorf("Expected default logger to be replaced, got: %s", buf.String())
	}

	SetDefault(nil)
	if Default() == nil {
		t.Error("Expected nil to leave the default logger in place")
	}
}
