package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithSink("debug", "json", zapcore.AddSync(&buf))
	if err != nil {
		t.Fatal(err)
	}

	log.Info("fetched", zap.String("endpoint", "tickets"))
	log.Sync()

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected a JSON line, got %q: %v", buf.String(), err)
	}
	if line["msg"] != "fetched" || line["endpoint"] != "tickets" || line["level"] != "info" {
		t.Errorf("unexpected entry %v", line)
	}
	if _, ok := line["timestamp"]; !ok {
		t.Error("missing timestamp key")
	}
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log, _ := NewWithSink("chatty", "console", zapcore.AddSync(&buf))

	log.Debug("hidden")
	log.Info("shown")
	log.Sync()

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "browse.log")

	log, closeFn, err := NewFile("info", "json", path)
	if err != nil {
		t.Fatal(err)
	}
	log.Warn("history unavailable")
	log.Sync()
	if err := closeFn(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "history unavailable") {
		t.Errorf("log file missing entry: %q", data)
	}
}
