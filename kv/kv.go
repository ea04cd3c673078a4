// Package kv is the key-value persistence layer behind the content service.
// Records are JSON documents stored under string keys; the only query
// primitive is an ordered prefix scan.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("kv: key not found")

// Entry is a single key/value pair returned by a prefix scan.
type Entry struct {
	Key   string
	Value []byte
}

// Store is implemented by every backend.
//
// Set is an upsert with last-write-wins semantics and Delete does not fail
// for missing keys. GetByPrefix returns entries ordered by key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	GetByPrefix(ctx context.Context, prefix string) ([]Entry, error)
	Close() error
}

// Supported driver names for Open.
const (
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
)

// Open opens the backend named by driver at path. An empty driver selects
// SQLite.
func Open(driver, path string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverSQLite:
		return NewSQLiteStore(path)
	case DriverBolt, "bbolt":
		return NewBoltStore(path)
	default:
		return nil, fmt.Errorf("kv: unknown driver %q", driver)
	}
}

// GetJSON reads key and decodes it into dst.
func GetJSON(ctx context.Context, s Store, key string, dst any) error {
	data, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("kv: decode %s: %w", key, err)
	}
	return nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("kv: encode %s: %w", key, err)
	}
	return s.Set(ctx, key, data)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
