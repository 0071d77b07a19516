package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileSlot keeps each key in its own <key>.json file under dir.
type FileSlot struct {
	dir string
}

func NewFileSlot(dir string) (*FileSlot, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, errors.New("storage: file slot dir is required")
	}
	if err := os.MkdirAll(trimmed, 0o755); err != nil {
		return nil, fmt.Errorf("create slot dir: %w", err)
	}
	return &FileSlot{dir: trimmed}, nil
}

func (s *FileSlot) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return raw, nil
}

func (s *FileSlot) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(key)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// UpdatedAt reports the modification time of the key's file.
func (s *FileSlot) UpdatedAt(ctx context.Context, key string) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	path, err := s.path(key)
	if err != nil {
		return time.Time{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, ErrNotFound
		}
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

func (s *FileSlot) Close() error { return nil }

func (s *FileSlot) path(key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" || strings.ContainsAny(trimmed, `/\`) || trimmed == "." || trimmed == ".." {
		return "", fmt.Errorf("storage: invalid slot key %q", key)
	}
	return filepath.Join(s.dir, trimmed+".json"), nil
}
