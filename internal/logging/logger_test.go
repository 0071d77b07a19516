package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWithoutFileIsNop(t *testing.T) {
	logger, err := New(Config{Level: "debug"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if logger.Core().Enabled(-1) {
		t.Fatal("expected nop logger")
	}
}

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "taskboard.log")
	logger, err := New(Config{Level: "info", Format: "json", File: path})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.Info("task added")
	logger.Debug("hidden")
	_ = logger.Sync()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(raw)
	if !strings.Contains(out, `"message":"task added"`) {
		t.Fatalf("expected json message, got %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line should be filtered at info: %q", out)
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "verbose", File: filepath.Join(t.TempDir(), "x.log")})
	if err == nil {
		t.Fatal("expected error for unknown level")
	}
}
