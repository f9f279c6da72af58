// Package bolt provides a durable driven.ThreadStore in a single bbolt file.
package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/custodia-labs/willa/internal/core/domain"
	"github.com/custodia-labs/willa/internal/core/ports/driven"
)

// Ensure ThreadStore implements the interface.
var _ driven.ThreadStore = (*ThreadStore)(nil)

var threadsBucket = []byte("threads")

// ThreadStore keeps one JSON-encoded ThreadState per key in the threads bucket.
type ThreadStore struct {
	db *bbolt.DB
}

// Open opens or creates the bolt file at path.
func Open(path string) (*ThreadStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("bolt: create directory: %w", err)
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("bolt: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(threadsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bolt: create bucket: %w", err)
	}
	return &ThreadStore{db: db}, nil
}

// Load returns the stored state for threadID.
func (s *ThreadStore) Load(_ context.Context, threadID string) (*domain.ThreadState, error) {
	var state *domain.ThreadState
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(threadsBucket).Get([]byte(threadID))
		if v == nil {
			return domain.ErrNotFound
		}
		state = &domain.ThreadState{}
		return json.Unmarshal(v, state)
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

// Save replaces the stored state.
func (s *ThreadStore) Save(_ context.Context, state *domain.ThreadState) error {
	if state == nil || state.ThreadID == "" {
		return domain.ErrInvalidInput
	}
	enc, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("bolt: marshal thread: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(threadsBucket).Put([]byte(state.ThreadID), enc)
	})
}

// Delete removes a thread.
func (s *ThreadStore) Delete(_ context.Context, threadID string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(threadsBucket).Delete([]byte(threadID))
	})
}

// List returns thread IDs in key order.
func (s *ThreadStore) List(_ context.Context) ([]string, error) {
	var ids []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(threadsBucket).ForEach(func(k, _ []byte) error {
			ids = append(ids, string(k))
			return nil
		})
	})
	return ids, err
}

// Close closes the bolt file.
func (s *ThreadStore) Close() error {
	return s.db.Close()
}
