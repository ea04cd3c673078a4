package kv

import (
	"bytes"
	"context"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var kvBucket = []byte("kv")

// BoltStore keeps every record in a single bbolt bucket. Keys are stored in
// byte order, so prefix scans are a cursor seek.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (or creates) the bbolt file at path.
func NewBoltStore(path string) (*BoltStore, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(kvBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}
	return &BoltStore{db: db}, nil
}

// Close closes the database file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Get returns a copy of the value stored under key.
func (s *BoltStore) Get(_ context.Context, key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(kvBucket).Get([]byte(key))
		if data == nil {
			return ErrNotFound
		}
		out = bytes.Clone(data)
		return nil
	})
	return out, err
}

// Set upserts value under key.
func (s *BoltStore) Set(_ context.Context, key string, value []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(kvBucket).Put([]byte(key), value)
	})
}

// Delete removes key. Missing keys are not an error.
func (s *BoltStore) Delete(_ context.Context, key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(kvBucket).Delete([]byte(key))
	})
}

// GetByPrefix returns every entry whose key starts with prefix, ordered by key.
func (s *BoltStore) GetByPrefix(_ context.Context, prefix string) ([]Entry, error) {
	var entries []Entry
	p := []byte(prefix)
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(kvBucket).Cursor()
		for k, v := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, v = c.Next() {
			entries = append(entries, Entry{Key: string(k), Value: bytes.Clone(v)})
		}
		return nil
	})
	return entries, err
}
