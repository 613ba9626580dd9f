// ABOUTME: Repository interface implemented by each record substrate.
// ABOUTME: SQLite is the primary substrate; badger is the key-value fallback.
package storage

import "github.com/harperreed/practice/internal/models"

// Repository is the contract both substrates satisfy with identical
// observable semantics. Records returned by GetItems are freshly decoded and
// never alias substrate memory.
type Repository interface {
	// GetItems returns every record of c in insertion order. Unknown or
	// empty collections yield an empty slice.
	GetItems(c models.Collection) ([]models.Record, error)
	// SetItems replaces the whole collection in one transaction.
	SetItems(c models.Collection, records []models.Record) error
	// AddItem appends r, failing with errs.ErrDuplicateID if its id exists.
	AddItem(c models.Collection, r models.Record) error
	// UpdateItem replaces the record with r's id, failing with errs.ErrNotFound.
	UpdateItem(c models.Collection, r models.Record) error
	// DeleteItem removes id if present.
	DeleteItem(c models.Collection, id string) error

	// Backend names the substrate ("sqlite" or "kv").
	Backend() string
	Close() error
}
