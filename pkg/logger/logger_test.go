package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/zfogg/socialcommerce/cli/pkg/config"
)

func TestLoggerFunctions_NoNilPointers(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Logger function panicked: %v", r)
		}
	}()

	Debug("test debug", "key", "value")
	Info("test info", "key", "value")
	Warn("test warn", "key", "value")
	Error("test error", "key", "value")

	Debug("message only")
	Info("message only")
	Warn("message only")
	Error("message only")
}

func TestSetOutputCapturesKeyValues(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, log.DebugLevel)

	Warn("cart total mismatch", "client_total", "25", "server_total", "30")

	out := buf.String()
	if !strings.Contains(out, "cart total mismatch") {
		t.Errorf("expected message in output, got %q", out)
	}
	if !strings.Contains(out, "server_total=30") {
		t.Errorf("expected key/value pair in output, got %q", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, log.WarnLevel)

	Debug("hidden")
	Info("hidden too")
	Error("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug/info should be filtered at warn level, got %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("error should pass warn level, got %q", out)
	}
}

func TestInitWritesRotatingFile(t *testing.T) {
	dir := t.TempDir()
	if err := config.Init(filepath.Join(dir, "config.toml")); err != nil {
		t.Fatalf("config.Init: %v", err)
	}
	logFile := filepath.Join(dir, "cli.log")
	config.Set("log.file", logFile)

	Init(true)
	defer Close()

	Debug("written to file", "n", 1)
	if err := Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Errorf("log file missing entry: %q", string(data))
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]log.Level{
		"debug":   log.DebugLevel,
		"WARN":    log.WarnLevel,
		"fatal":   log.FatalLevel,
		"":        log.InfoLevel,
		"error":   log.ErrorLevel,
		"info":    log.InfoLevel,
		"bogus":   log.InfoLevel,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q): got %v, want %v", in, got, want)
		}
	}
}
