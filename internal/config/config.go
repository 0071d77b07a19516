package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/sandeepkv93/taskboard/internal/logging"
	"github.com/sandeepkv93/taskboard/internal/model"
	"github.com/sandeepkv93/taskboard/internal/pipeline"
	"github.com/sandeepkv93/taskboard/internal/storage"
	"gopkg.in/yaml.v3"
)

const DefaultSlotKey = "taskboard.tasks"

var ErrInvalidConfig = errors.New("config: invalid")

type RuntimeConfig struct {
	Backend         string `toml:"backend" yaml:"backend"`
	SQLitePath      string `toml:"sqlite_path" yaml:"sqlite_path"`
	FileDir         string `toml:"file_dir" yaml:"file_dir"`
	RedisAddr       string `toml:"redis_addr" yaml:"redis_addr"`
	RedisDB         int    `toml:"redis_db" yaml:"redis_db"`
	RedisPassword   string `toml:"redis_password" yaml:"redis_password"`
	SlotKey         string `toml:"slot_key" yaml:"slot_key"`
	DefaultSort     string `toml:"default_sort" yaml:"default_sort"`
	DefaultPriority string `toml:"default_priority" yaml:"default_priority"`
	LogLevel        string `toml:"log_level" yaml:"log_level"`
	LogFormat       string `toml:"log_format" yaml:"log_format"`
	LogFile         string `toml:"log_file" yaml:"log_file"`
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		Backend:         string(storage.BackendSQLite),
		SQLitePath:      ".taskboard/tasks.db",
		FileDir:         ".taskboard",
		RedisAddr:       "localhost:6379",
		SlotKey:         DefaultSlotKey,
		DefaultSort:     string(pipeline.SortNewest),
		DefaultPriority: string(model.PriorityMedium),
		LogLevel:        "info",
		LogFormat:       "console",
		LogFile:         "",
	}
}

// LoadFile overlays the TOML or YAML file at path (chosen by extension) on
// base. Keys missing from the file keep their base values.
func LoadFile(base RuntimeConfig, path string) (RuntimeConfig, error) {
	cfg := base
	raw, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read config %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(raw, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &cfg)
	default:
		return base, fmt.Errorf("%w: unsupported config format %q", ErrInvalidConfig, filepath.Ext(path))
	}
	if err != nil {
		return base, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("TASKBOARD_BACKEND"); ok {
		cfg.Backend = v
	}
	if v, ok := getEnvString("TASKBOARD_SQLITE_PATH"); ok {
		cfg.SQLitePath = v
	}
	if v, ok := getEnvString("TASKBOARD_FILE_DIR"); ok {
		cfg.FileDir = v
	}
	if v, ok := getEnvString("TASKBOARD_REDIS_ADDR"); ok {
		cfg.RedisAddr = v
	}
	if v, ok := getEnvInt("TASKBOARD_REDIS_DB"); ok && v >= 0 {
		cfg.RedisDB = v
	}
	if v, ok := getEnvString("TASKBOARD_REDIS_PASSWORD"); ok {
		cfg.RedisPassword = v
	}
	if v, ok := getEnvString("TASKBOARD_SLOT_KEY"); ok {
		cfg.SlotKey = v
	}
	if v, ok := getEnvString("TASKBOARD_DEFAULT_SORT"); ok {
		cfg.DefaultSort = v
	}
	if v, ok := getEnvString("TASKBOARD_DEFAULT_PRIORITY"); ok {
		cfg.DefaultPriority = v
	}
	if v, ok := getEnvString("TASKBOARD_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := getEnvString("TASKBOARD_LOG_FORMAT"); ok {
		cfg.LogFormat = v
	}
	if v, ok := getEnvString("TASKBOARD_LOG_FILE"); ok {
		cfg.LogFile = v
	}
	return cfg
}

func (c RuntimeConfig) Validate() error {
	if !storage.Backend(c.Backend).IsValid() {
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, c.Backend)
	}
	if strings.TrimSpace(c.SlotKey) == "" {
		return fmt.Errorf("%w: slot key is required", ErrInvalidConfig)
	}
	if _, err := pipeline.ParseSortKey(c.DefaultSort); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := model.ParsePriority(c.DefaultPriority); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// StorageOptions maps the config onto the slot backend options.
func (c RuntimeConfig) StorageOptions() storage.Options {
	opts := storage.Options{
		Backend:       storage.Backend(c.Backend),
		RedisAddr:     c.RedisAddr,
		RedisDB:       c.RedisDB,
		RedisPassword: c.RedisPassword,
	}
	switch opts.Backend {
	case storage.BackendFile:
		opts.Path = c.FileDir
	default:
		opts.Path = c.SQLitePath
	}
	return opts
}

func (c RuntimeConfig) LoggingConfig() logging.Config {
	return logging.Config{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		File:       c.LogFile,
		MaxSizeMB:  10,
		MaxBackups: 3,
	}
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return "", false
	}
	return raw, true
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
