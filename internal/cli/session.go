package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sandeepkv93/taskboard/internal/config"
	"github.com/sandeepkv93/taskboard/internal/logging"
	"github.com/sandeepkv93/taskboard/internal/persist"
	"github.com/sandeepkv93/taskboard/internal/storage"
	"github.com/sandeepkv93/taskboard/internal/store"
	"go.uber.org/zap"
)

// session is one opened task store plus the resources behind it.
type session struct {
	cfg     config.RuntimeConfig
	logger  *zap.Logger
	slot    storage.Slot
	adapter *persist.Adapter
	store   *store.Store
	load    persist.LoadResult
}

// resolveConfig applies defaults, then the config file, then the
// environment, then flags.
func resolveConfig(opts *globalOptions) (config.RuntimeConfig, error) {
	cfg := config.DefaultRuntimeConfig()
	if opts.ConfigPath != "" {
		loaded, err := config.LoadFile(cfg, opts.ConfigPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	cfg = config.RuntimeConfigFromEnv(cfg)

	if opts.Backend != "" {
		cfg.Backend = opts.Backend
	}
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	if opts.Path != "" {
		if storage.Backend(cfg.Backend) == storage.BackendFile {
			cfg.FileDir = opts.Path
		} else {
			cfg.SQLitePath = opts.Path
		}
	}
	if opts.Key != "" {
		cfg.SlotKey = opts.Key
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func openSession(ctx context.Context, opts *globalOptions, stderr io.Writer) (*session, error) {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.LoggingConfig())
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	slot, err := storage.Open(ctx, cfg.StorageOptions())
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("open %s slot: %w", cfg.Backend, err)
	}

	adapter := persist.NewAdapter(slot, cfg.SlotKey, persist.WithLogger(logger))
	st, res := store.Open(ctx, adapter, store.WithLogger(logger))
	if res.Outcome == persist.OutcomeFallback {
		_, _ = fmt.Fprintf(stderr, "Warning: stored tasks could not be read (%v); starting with an empty list\n", res.Err)
	}
	return &session{
		cfg:     cfg,
		logger:  logger,
		slot:    slot,
		adapter: adapter,
		store:   st,
		load:    res,
	}, nil
}

// lastSaved reports when the task slot was last written, or nil when the
// backend does not track it or nothing was written yet.
func (s *session) lastSaved(ctx context.Context) *time.Time {
	stamped, ok := s.slot.(storage.Stamped)
	if !ok {
		return nil
	}
	at, err := stamped.UpdatedAt(ctx, s.adapter.Key())
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("read slot timestamp failed", zap.String("key", s.adapter.Key()), zap.Error(err))
		}
		return nil
	}
	return &at
}

func (s *session) Close() error {
	_ = s.logger.Sync()
	return s.slot.Close()
}

// warnPersist turns a store write failure into a stderr warning; any other
// error is returned unchanged.
func warnPersist(stderr io.Writer, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrPersist) {
		_, _ = fmt.Fprintf(stderr, "Warning: %v\n", err)
		return nil
	}
	return err
}
