// ABOUTME: Record Store: validation, archive filtering and change notification
// ABOUTME: over whichever Repository was selected once at startup.
package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/felixgeelhaar/bolt/v3"
	"github.com/harperreed/practice/internal/errs"
	"github.com/harperreed/practice/internal/events"
	"github.com/harperreed/practice/internal/models"
	"github.com/harperreed/practice/internal/observe"
)

// Backend names.
const (
	BackendAuto   = "auto"
	BackendSQLite = "sqlite"
	BackendKV     = "kv"
)

// Options configures OpenStore.
type Options struct {
	// Backend is "auto" (SQLite, falling back to kv), "sqlite" or "kv".
	Backend string
	DataDir string
	Bus     *events.Bus
	Logger  *bolt.Logger
}

// Store is the Record Store consumed by every UI surface.
type Store struct {
	repo     Repository
	bus      *events.Bus
	log      *bolt.Logger
	mu       sync.RWMutex
	fallback bool
}

// NewStore wraps an already opened repository.
func NewStore(repo Repository, bus *events.Bus, log *bolt.Logger) *Store {
	if bus == nil {
		bus = events.NewBus()
	}
	return &Store{repo: repo, bus: bus, log: observe.OrDiscard(log)}
}

// OpenStore selects and opens the substrate. In auto mode a SQLite failure
// redirects every later call to the kv substrate; the choice is not revisited.
func OpenStore(opts Options) (*Store, error) {
	log := observe.OrDiscard(opts.Logger)
	dataDir := opts.DataDir
	if dataDir == "" {
		dataDir = DataDir()
	}
	backend := opts.Backend
	if backend == "" {
		backend = BackendAuto
	}

	sqlitePath := SQLitePath(dataDir)
	kvDir := KVDir(dataDir)

	switch backend {
	case BackendSQLite:
		db, err := Open(sqlitePath)
		if err != nil {
			return nil, errs.New(errs.KindUnsupportedSubstrate, "open", "", "", err)
		}
		return NewStore(db, opts.Bus, log), nil
	case BackendKV:
		kv, err := OpenKV(kvDir)
		if err != nil {
			return nil, errs.New(errs.KindUnsupportedSubstrate, "open", "", "", err)
		}
		return NewStore(kv, opts.Bus, log), nil
	case BackendAuto:
		db, primaryErr := Open(sqlitePath)
		if primaryErr == nil {
			return NewStore(db, opts.Bus, log), nil
		}
		log.Warn().Err(primaryErr).Str("path", sqlitePath).Str("fallback", kvDir).
			Msg("primary record store unavailable, using key-value fallback")
		kv, err := OpenKV(kvDir)
		if err != nil {
			return nil, errs.New(errs.KindUnsupportedSubstrate, "open", "", "", errors.Join(primaryErr, err))
		}
		s := NewStore(kv, opts.Bus, log)
		s.fallback = true
		return s, nil
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// SQLitePath is where the primary substrate lives under dataDir.
func SQLitePath(dataDir string) string {
	return filepath.Join(dataDir, "practice.db")
}

// KVDir is where the fallback substrate lives under dataDir.
func KVDir(dataDir string) string {
	return filepath.Join(dataDir, "backup")
}

// Bus returns the change notification bus writes are announced on.
func (s *Store) Bus() *events.Bus {
	return s.bus
}

// Backend names the substrate serving requests.
func (s *Store) Backend() string {
	return s.repo.Backend()
}

// UsingFallback reports whether auto mode fell back to the kv substrate.
func (s *Store) UsingFallback() bool {
	return s.fallback
}

// Repository exposes the underlying substrate for migration.
func (s *Store) Repository() Repository {
	return s.repo
}

// Close releases the substrate.
func (s *Store) Close() error {
	return s.repo.Close()
}

// GetItems returns a fresh copy of the collection. For categories,
// includeArchived=false drops archived records. Unknown collections are empty.
func (s *Store) GetItems(c models.Collection, includeArchived bool) ([]models.Record, error) {
	if _, err := models.New(c); err != nil {
		return []models.Record{}, nil
	}
	s.mu.RLock()
	records, err := s.repo.GetItems(c)
	s.mu.RUnlock()
	if err != nil {
		return nil, errs.Wrap(errs.KindRead, "get", string(c), "", err)
	}
	if c != models.CollectionCategories || includeArchived {
		return records, nil
	}
	active := records[:0]
	for _, r := range records {
		if cat, ok := r.(*models.Category); ok && cat.Archived {
			continue
		}
		active = append(active, r)
	}
	return active, nil
}

// GetItem returns one record by id.
func (s *Store) GetItem(c models.Collection, id string) (models.Record, error) {
	records, err := s.GetItems(c, true)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		if r.RecordID() == id {
			return r, nil
		}
	}
	return nil, errs.New(errs.KindNotFound, "get", string(c), id, nil)
}

// SetItems replaces the whole collection.
func (s *Store) SetItems(c models.Collection, records []models.Record) error {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if err := checkRecord("set", c, r); err != nil {
			return err
		}
		if _, dup := seen[r.RecordID()]; dup {
			return errs.New(errs.KindDuplicateID, "set", string(c), r.RecordID(), nil)
		}
		seen[r.RecordID()] = struct{}{}
	}
	return s.write(c, func() error { return s.repo.SetItems(c, records) })
}

// AddItem appends one record.
func (s *Store) AddItem(c models.Collection, r models.Record) error {
	if err := checkRecord("add", c, r); err != nil {
		return err
	}
	return s.write(c, func() error { return s.repo.AddItem(c, r) })
}

// UpdateItem replaces the record matching r's id.
func (s *Store) UpdateItem(c models.Collection, r models.Record) error {
	if err := checkRecord("update", c, r); err != nil {
		return err
	}
	return s.write(c, func() error { return s.repo.UpdateItem(c, r) })
}

// DeleteItem ensures id is absent. A notification is sent even when nothing
// was removed.
func (s *Store) DeleteItem(c models.Collection, id string) error {
	if _, err := models.New(c); err != nil {
		return errs.New(errs.KindWrite, "delete", string(c), id, err)
	}
	return s.write(c, func() error { return s.repo.DeleteItem(c, id) })
}

// write serializes mutations and publishes after the lock is released so
// handlers can read the store they were notified about.
func (s *Store) write(c models.Collection, fn func() error) error {
	s.mu.Lock()
	err := fn()
	s.mu.Unlock()
	if err != nil {
		s.log.Debug().Str("collection", string(c)).Err(err).Msg("write rejected")
		return errs.Wrap(errs.KindWrite, "write", string(c), "", err)
	}
	s.bus.Publish(events.Change{Collection: c})
	return nil
}

func checkRecord(op string, c models.Collection, r models.Record) error {
	if r == nil {
		return errs.New(errs.KindWrite, op, string(c), "", errors.New("nil record"))
	}
	if r.Collection() != c {
		return errs.New(errs.KindWrite, op, string(c), r.RecordID(),
			fmt.Errorf("record belongs to %s", r.Collection()))
	}
	if r.RecordID() == "" {
		return errs.New(errs.KindWrite, op, string(c), "", errors.New("record has no id"))
	}
	return nil
}

// ResolveID expands an id prefix to the single record id it matches. An
// exact match always wins.
func (s *Store) ResolveID(c models.Collection, prefix string) (string, error) {
	if prefix == "" {
		return "", errs.New(errs.KindNotFound, "resolve", string(c), "", errors.New("empty id"))
	}
	records, err := s.GetItems(c, true)
	if err != nil {
		return "", err
	}
	var matches []string
	for _, r := range records {
		id := r.RecordID()
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", errs.New(errs.KindNotFound, "resolve", string(c), prefix, nil)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("ambiguous id prefix %q matches %d %s", prefix, len(matches), c.Lower())
	}
}
