package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const keyspaceBucket = "keyspace"

// boltStore implements a Store backed by BoltDB.
type boltStore struct {
	db *bolt.DB
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(keyspaceBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	return &boltStore{db: db}, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Get reads the value stored under key, reporting absence without error.
func (b *boltStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if b == nil || b.db == nil {
		return nil, false, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	var value []byte
	var found bool
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(keyspaceBucket))
		if bucket == nil {
			return fmt.Errorf("keyspace bucket missing")
		}
		if raw := bucket.Get([]byte(key)); raw != nil {
			value = append([]byte(nil), raw...)
			found = true
		}
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("bbolt get %q: %w", key, err)
	}
	return value, found, nil
}

// Set durably writes the value under key.
func (b *boltStore) Set(ctx context.Context, key string, value []byte) error {
	if b == nil || b.db == nil {
		return fmt.Errorf("bbolt store is not initialized")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(keyspaceBucket))
		if bucket == nil {
			return fmt.Errorf("keyspace bucket missing")
		}
		return bucket.Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("bbolt set %q: %w", key, err)
	}
	return nil
}

// Delete removes the key; absent keys are not an error.
func (b *boltStore) Delete(ctx context.Context, key string) error {
	if b == nil || b.db == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(keyspaceBucket))
		if bucket == nil {
			return fmt.Errorf("keyspace bucket missing")
		}
		return bucket.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("bbolt delete %q: %w", key, err)
	}
	return nil
}
