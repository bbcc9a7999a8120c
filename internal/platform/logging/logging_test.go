package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ogurasousui/codex-staff-registry/internal/platform/config"
	"github.com/sirupsen/logrus"
)

func TestNew_JSONFormatter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newWithOutput(config.LogConfig{Level: "debug", Format: "json"}, &buf)

	if logger.GetLevel() != logrus.DebugLevel {
		t.Fatalf("expected debug level, got %s", logger.GetLevel())
	}

	logger.WithField("staff_id", 7).Info("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "hello" || entry["staff_id"] != float64(7) {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestNew_TextFormatter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newWithOutput(config.LogConfig{Level: "info", Format: "text"}, &buf)
	logger.Info("plain")

	if !strings.Contains(buf.String(), `msg=plain`) {
		t.Fatalf("expected text output, got %q", buf.String())
	}
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newWithOutput(config.LogConfig{Level: "loud", Format: "json"}, &buf)

	if logger.GetLevel() != logrus.InfoLevel {
		t.Fatalf("expected info level, got %s", logger.GetLevel())
	}
	if !strings.Contains(buf.String(), "invalid log level") {
		t.Fatalf("expected fallback warning, got %q", buf.String())
	}
}
