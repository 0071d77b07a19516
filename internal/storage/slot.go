package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound       = errors.New("storage: not found")
	ErrUnknownBackend = errors.New("storage: unknown backend")
)

// Slot is a named key-value area holding opaque blobs. Get returns
// ErrNotFound when nothing has been stored under key.
type Slot interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Stamped is implemented by slots that know when a key was last written.
type Stamped interface {
	UpdatedAt(ctx context.Context, key string) (time.Time, error)
}

type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendFile   Backend = "file"
	BackendRedis  Backend = "redis"
	BackendMemory Backend = "memory"
)

func (b Backend) IsValid() bool {
	switch b {
	case BackendSQLite, BackendFile, BackendRedis, BackendMemory:
		return true
	default:
		return false
	}
}

type Options struct {
	Backend Backend
	// Path is the SQLite database file for BackendSQLite and the directory
	// for BackendFile.
	Path          string
	RedisAddr     string
	RedisDB       int
	RedisPassword string
	RedisPrefix   string
}

// Open builds the slot selected by opts.Backend. SQLite databases are
// migrated before use.
func Open(ctx context.Context, opts Options) (Slot, error) {
	switch Backend(strings.ToLower(string(opts.Backend))) {
	case BackendSQLite, "":
		return OpenSQLite(ctx, opts.Path)
	case BackendFile:
		return NewFileSlot(opts.Path)
	case BackendRedis:
		return OpenRedis(ctx, RedisOptions{
			Addr:     opts.RedisAddr,
			DB:       opts.RedisDB,
			Password: opts.RedisPassword,
			Prefix:   opts.RedisPrefix,
		})
	case BackendMemory:
		return NewMemorySlot(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}
