package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteTimeLayout = time.RFC3339Nano

type SQLiteSlot struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteSlot(db *sql.DB) (*SQLiteSlot, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	return &SQLiteSlot{db: db, now: time.Now}, nil
}

// OpenSQLite opens (creating if needed) the database at path and applies
// the embedded migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLiteSlot, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage: sqlite path is required")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	slot, err := NewSQLiteSlot(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return slot, nil
}

func (s *SQLiteSlot) Close() error {
	return s.db.Close()
}

func (s *SQLiteSlot) Get(ctx context.Context, key string) ([]byte, error) {
	row := s.db.QueryRowContext(ctx, `SELECT value FROM kv_slots WHERE key = ?`, key)
	var value []byte
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return value, nil
}

func (s *SQLiteSlot) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_slots (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, s.now().UTC().Format(sqliteTimeLayout),
	)
	return err
}

// UpdatedAt reports when key was last written.
func (s *SQLiteSlot) UpdatedAt(ctx context.Context, key string) (time.Time, error) {
	row := s.db.QueryRowContext(ctx, `SELECT updated_at FROM kv_slots WHERE key = ?`, key)
	var raw string
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, ErrNotFound
		}
		return time.Time{}, err
	}
	return time.Parse(sqliteTimeLayout, raw)
}
