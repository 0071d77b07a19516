package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sandeepkv93/taskboard/internal/storage"
)

func TestRuntimeConfigDefaults(t *testing.T) {
	cfg := DefaultRuntimeConfig()
	if cfg.Backend != "sqlite" || cfg.SQLitePath != ".taskboard/tasks.db" {
		t.Fatalf("unexpected storage defaults: %+v", cfg)
	}
	if cfg.SlotKey != "taskboard.tasks" || cfg.DefaultSort != "newest" || cfg.DefaultPriority != "Medium" {
		t.Fatalf("unexpected runtime defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestRuntimeConfigFromEnv(t *testing.T) {
	t.Setenv("TASKBOARD_BACKEND", "redis")
	t.Setenv("TASKBOARD_REDIS_ADDR", "cache:6380")
	t.Setenv("TASKBOARD_SLOT_KEY", "work.tasks")
	t.Setenv("TASKBOARD_DEFAULT_SORT", "dueEarliest")
	t.Setenv("TASKBOARD_LOG_FILE", "logs/tb.log")
	t.Setenv("TASKBOARD_REDIS_DB", "not-a-number")

	cfg := RuntimeConfigFromEnv(DefaultRuntimeConfig())
	if cfg.Backend != "redis" || cfg.RedisAddr != "cache:6380" {
		t.Fatalf("unexpected redis config: %+v", cfg)
	}
	if cfg.RedisDB != 0 {
		t.Fatalf("invalid int env should be ignored, got %d", cfg.RedisDB)
	}
	if cfg.SlotKey != "work.tasks" || cfg.DefaultSort != "dueEarliest" {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
	if cfg.LogFile != "logs/tb.log" {
		t.Fatalf("unexpected log file override: %+v", cfg)
	}
}

func TestLoadFileTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskboard.toml")
	content := "backend = \"file\"\nfile_dir = \"/tmp/tb\"\ndefault_priority = \"High\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadFile(DefaultRuntimeConfig(), path)
	if err != nil {
		t.Fatalf("load toml: %v", err)
	}
	if cfg.Backend != "file" || cfg.FileDir != "/tmp/tb" || cfg.DefaultPriority != "High" {
		t.Fatalf("unexpected toml config: %+v", cfg)
	}
	if cfg.SlotKey != DefaultSlotKey {
		t.Fatalf("missing keys should keep defaults: %+v", cfg)
	}
	opts := cfg.StorageOptions()
	if opts.Backend != storage.BackendFile || opts.Path != "/tmp/tb" {
		t.Fatalf("unexpected storage options: %+v", opts)
	}
}

func TestLoadFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskboard.yaml")
	content := "backend: memory\ndefault_sort: oldest\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadFile(DefaultRuntimeConfig(), path)
	if err != nil {
		t.Fatalf("load yaml: %v", err)
	}
	if cfg.Backend != "memory" || cfg.DefaultSort != "oldest" || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected yaml config: %+v", cfg)
	}
}

func TestLoadFileUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskboard.ini")
	if err := os.WriteFile(path, []byte("x=1"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := LoadFile(DefaultRuntimeConfig(), path)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestValidateRejectsUnknownValues(t *testing.T) {
	cfg := DefaultRuntimeConfig()
	cfg.Backend = "etcd"
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected invalid backend, got %v", err)
	}

	cfg = DefaultRuntimeConfig()
	cfg.DefaultSort = "alphabetical"
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected invalid sort, got %v", err)
	}

	cfg = DefaultRuntimeConfig()
	cfg.DefaultPriority = "Urgent"
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected invalid priority, got %v", err)
	}
}
