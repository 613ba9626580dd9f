// ABOUTME: Badger-backed fallback Repository used when SQLite cannot be opened.
// ABOUTME: Each collection is one JSON array stored under the backup: namespace.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v3"
	"github.com/harperreed/practice/internal/errs"
	"github.com/harperreed/practice/internal/models"
)

// BackupNamespace prefixes every key written by KVStore.
const BackupNamespace = "backup:"

// KVStore is the key-value Repository.
type KVStore struct {
	db  *badger.DB
	dir string
}

// Compile-time check that KVStore implements Repository.
var _ Repository = (*KVStore)(nil)

// OpenKV opens a badger database in dir. An empty dir keeps everything in
// memory, which tests rely on.
func OpenKV(dir string) (*KVStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open kv store: %w", err)
	}
	return &KVStore{db: db, dir: dir}, nil
}

// Backend implements Repository.
func (s *KVStore) Backend() string {
	return BackendKV
}

// Close closes the badger database.
func (s *KVStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func collectionKey(c models.Collection) []byte {
	return []byte(BackupNamespace + string(c))
}

// loadRaw reads the JSON array for c. A missing key is an empty collection.
func loadRaw(txn *badger.Txn, c models.Collection) ([]json.RawMessage, error) {
	item, err := txn.Get(collectionKey(c))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	data, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c, err)
	}
	return raw, nil
}

func storeRaw(txn *badger.Txn, c models.Collection, raw []json.RawMessage) error {
	if raw == nil {
		raw = []json.RawMessage{}
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c, err)
	}
	return txn.Set(collectionKey(c), data)
}

// rawID extracts the id of an encoded record without decoding the full kind.
func rawID(raw json.RawMessage) string {
	var head struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return ""
	}
	return head.ID
}

// GetItems implements Repository.
func (s *KVStore) GetItems(c models.Collection) ([]models.Record, error) {
	var raw []json.RawMessage
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		raw, err = loadRaw(txn, c)
		return err
	})
	if err != nil {
		return nil, errs.New(errs.KindRead, "get", string(c), "", err)
	}

	records := make([]models.Record, 0, len(raw))
	for _, data := range raw {
		r, err := models.Decode(c, data)
		if err != nil {
			continue // Skip invalid entries
		}
		records = append(records, r)
	}
	return records, nil
}

// SetItems implements Repository.
func (s *KVStore) SetItems(c models.Collection, records []models.Record) error {
	raw := make([]json.RawMessage, 0, len(records))
	for _, r := range records {
		data, err := models.Encode(r)
		if err != nil {
			return errs.New(errs.KindWrite, "set", string(c), r.RecordID(), err)
		}
		raw = append(raw, data)
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return storeRaw(txn, c, raw)
	})
	return errs.Wrap(errs.KindWrite, "set", string(c), "", err)
}

// AddItem implements Repository.
func (s *KVStore) AddItem(c models.Collection, r models.Record) error {
	data, err := models.Encode(r)
	if err != nil {
		return errs.New(errs.KindWrite, "add", string(c), r.RecordID(), err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		raw, err := loadRaw(txn, c)
		if err != nil {
			return err
		}
		for _, existing := range raw {
			if rawID(existing) == r.RecordID() {
				return errs.New(errs.KindDuplicateID, "add", string(c), r.RecordID(), nil)
			}
		}
		return storeRaw(txn, c, append(raw, data))
	})
	return errs.Wrap(errs.KindWrite, "add", string(c), r.RecordID(), err)
}

// UpdateItem implements Repository.
func (s *KVStore) UpdateItem(c models.Collection, r models.Record) error {
	data, err := models.Encode(r)
	if err != nil {
		return errs.New(errs.KindWrite, "update", string(c), r.RecordID(), err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		raw, err := loadRaw(txn, c)
		if err != nil {
			return err
		}
		for i, existing := range raw {
			if rawID(existing) == r.RecordID() {
				raw[i] = data
				return storeRaw(txn, c, raw)
			}
		}
		return errs.New(errs.KindNotFound, "update", string(c), r.RecordID(), nil)
	})
	return errs.Wrap(errs.KindWrite, "update", string(c), r.RecordID(), err)
}

// DeleteItem implements Repository.
func (s *KVStore) DeleteItem(c models.Collection, id string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		raw, err := loadRaw(txn, c)
		if err != nil {
			return err
		}
		kept := raw[:0]
		for _, existing := range raw {
			if rawID(existing) != id {
				kept = append(kept, existing)
			}
		}
		if len(kept) == len(raw) {
			return nil
		}
		return storeRaw(txn, c, kept)
	})
	return errs.Wrap(errs.KindWrite, "delete", string(c), id, err)
}
