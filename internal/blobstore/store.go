// ABOUTME: Blob Store for captured photo and video payloads.
// ABOUTME: Opens lazily; concurrent openers share one in-flight open and one handle.
package blobstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/felixgeelhaar/bolt/v3"
	"github.com/harperreed/practice/internal/errs"
	"github.com/harperreed/practice/internal/observe"
	"golang.org/x/sync/singleflight"

	_ "modernc.org/sqlite"
)

// Blob is a binary payload stored under the id of its Media record.
type Blob struct {
	Key       string
	Data      []byte
	MimeType  string
	Size      int64
	CreatedAt time.Time
}

// Store opens the blob substrate on first use and caches the handle.
// The zero path means the host has no blob storage; every call then fails
// with errs.ErrUnsupportedSubstrate.
type Store struct {
	path  string
	log   *bolt.Logger
	group singleflight.Group

	mu     sync.Mutex
	handle *Handle

	// onUpgrade is called after each schema version is applied.
	onUpgrade func(version int64)
}

// New creates a Blob Store backed by the SQLite file at path.
func New(path string, log *bolt.Logger) *Store {
	return &Store{path: path, log: observe.OrDiscard(log)}
}

// Path returns the blob database path, empty when blob storage is disabled.
func (s *Store) Path() string {
	return s.path
}

// Available reports whether blob storage is configured at all.
func (s *Store) Available() bool {
	return s.path != ""
}

// Open returns the shared handle, opening and upgrading the substrate the
// first time. A failed open is not cached; the next call tries again.
func (s *Store) Open(ctx context.Context) (*Handle, error) {
	if h := s.cached(); h != nil {
		return h, nil
	}
	if s.path == "" {
		return nil, errs.New(errs.KindUnsupportedSubstrate, "open", "blobs", "", errors.New("blob storage is disabled"))
	}

	// Waiters share this open, so one caller's cancellation must not fail it.
	shared := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do("open", func() (any, error) {
		if h := s.cached(); h != nil {
			return h, nil
		}
		h, err := s.open(shared)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.handle = h
		s.mu.Unlock()
		return h, nil
	})
	if err != nil {
		return nil, errs.Wrap(errs.KindUnsupportedSubstrate, "open", "blobs", "", err)
	}
	return v.(*Handle), nil
}

func (s *Store) cached() *Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle
}

func (s *Store) open(ctx context.Context) (*Handle, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0750); err != nil {
		return nil, fmt.Errorf("create blob directory: %w", err)
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("open blob database: %w", err)
	}
	for _, pragma := range []string{"PRAGMA journal_mode = WAL", "PRAGMA busy_timeout = 5000"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("execute %s: %w", pragma, err)
		}
	}
	if err := os.Chmod(s.path, 0600); err != nil && !os.IsNotExist(err) {
		_ = db.Close()
		return nil, fmt.Errorf("set blob database permissions: %w", err)
	}
	if err := s.upgrade(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Handle{db: db}, nil
}

// Close releases the handle. A later Open reopens the substrate.
func (s *Store) Close() error {
	s.mu.Lock()
	h := s.handle
	s.handle = nil
	s.mu.Unlock()
	if h == nil {
		return nil
	}
	return h.db.Close()
}

// Put opens the store if needed and writes blob under key.
func (s *Store) Put(ctx context.Context, key string, blob *Blob) error {
	h, err := s.Open(ctx)
	if err != nil {
		return err
	}
	return h.Put(ctx, key, blob)
}

// Get opens the store if needed and reads key. A missing key yields nil, nil.
func (s *Store) Get(ctx context.Context, key string) (*Blob, error) {
	h, err := s.Open(ctx)
	if err != nil {
		return nil, err
	}
	return h.Get(ctx, key)
}

// Delete opens the store if needed and removes key.
func (s *Store) Delete(ctx context.Context, key string) error {
	h, err := s.Open(ctx)
	if err != nil {
		return err
	}
	return h.Delete(ctx, key)
}
