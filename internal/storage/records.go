// ABOUTME: Record CRUD operations for SQLite storage.
// ABOUTME: Implements Repository methods over the records table.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/harperreed/practice/internal/errs"
	"github.com/harperreed/practice/internal/models"
)

// GetItems retrieves every record of a collection in insertion order.
func (d *DB) GetItems(c models.Collection) ([]models.Record, error) {
	rows, err := d.db.Query(`SELECT data FROM records WHERE collection = ? ORDER BY seq`, string(c))
	if err != nil {
		return nil, errs.New(errs.KindRead, "get", string(c), "", err)
	}
	defer rows.Close()

	records := []models.Record{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, errs.New(errs.KindRead, "get", string(c), "", fmt.Errorf("scan record: %w", err))
		}
		r, err := models.Decode(c, []byte(data))
		if err != nil {
			continue // Skip invalid entries
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.New(errs.KindRead, "get", string(c), "", err)
	}
	return records, nil
}

// SetItems replaces the collection inside a single transaction.
func (d *DB) SetItems(c models.Collection, records []models.Record) error {
	encoded := make([][]byte, len(records))
	for i, r := range records {
		data, err := models.Encode(r)
		if err != nil {
			return errs.New(errs.KindWrite, "set", string(c), r.RecordID(), err)
		}
		encoded[i] = data
	}

	return d.withTx("set", c, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM records WHERE collection = ?`, string(c)); err != nil {
			return fmt.Errorf("clear collection: %w", err)
		}
		for i, r := range records {
			if _, err := tx.Exec(`INSERT INTO records (collection, id, data) VALUES (?, ?, ?)`,
				string(c), r.RecordID(), string(encoded[i])); err != nil {
				return fmt.Errorf("insert %s: %w", r.RecordID(), err)
			}
		}
		return nil
	})
}

// AddItem appends a record, rejecting an id already present.
func (d *DB) AddItem(c models.Collection, r models.Record) error {
	data, err := models.Encode(r)
	if err != nil {
		return errs.New(errs.KindWrite, "add", string(c), r.RecordID(), err)
	}

	return d.withTx("add", c, func(tx *sql.Tx) error {
		exists, err := recordExists(tx, c, r.RecordID())
		if err != nil {
			return err
		}
		if exists {
			return errs.New(errs.KindDuplicateID, "add", string(c), r.RecordID(), nil)
		}
		if _, err := tx.Exec(`INSERT INTO records (collection, id, data) VALUES (?, ?, ?)`,
			string(c), r.RecordID(), string(data)); err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
		return nil
	})
}

// UpdateItem replaces the stored record with the same id.
func (d *DB) UpdateItem(c models.Collection, r models.Record) error {
	data, err := models.Encode(r)
	if err != nil {
		return errs.New(errs.KindWrite, "update", string(c), r.RecordID(), err)
	}

	return d.withTx("update", c, func(tx *sql.Tx) error {
		result, err := tx.Exec(`UPDATE records SET data = ?, updated_at = CURRENT_TIMESTAMP
			WHERE collection = ? AND id = ?`, string(data), string(c), r.RecordID())
		if err != nil {
			return fmt.Errorf("update record: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("update record: %w", err)
		}
		if affected == 0 {
			return errs.New(errs.KindNotFound, "update", string(c), r.RecordID(), nil)
		}
		return nil
	})
}

// DeleteItem removes a record. Deleting an absent id is not an error.
func (d *DB) DeleteItem(c models.Collection, id string) error {
	if _, err := d.db.Exec(`DELETE FROM records WHERE collection = ? AND id = ?`, string(c), id); err != nil {
		return errs.New(errs.KindWrite, "delete", string(c), id, err)
	}
	return nil
}

func recordExists(tx *sql.Tx, c models.Collection, id string) (bool, error) {
	var one int
	err := tx.QueryRow(`SELECT 1 FROM records WHERE collection = ? AND id = ?`, string(c), id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check record: %w", err)
	}
	return true, nil
}

// withTx runs fn in a transaction, classifying any unclassified failure as a
// write error.
func (d *DB) withTx(op string, c models.Collection, fn func(tx *sql.Tx) error) error {
	tx, err := d.db.Begin()
	if err != nil {
		return errs.New(errs.KindWrite, op, string(c), "", fmt.Errorf("begin transaction: %w", err))
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return errs.Wrap(errs.KindWrite, op, string(c), "", err)
	}
	if err := tx.Commit(); err != nil {
		return errs.New(errs.KindWrite, op, string(c), "", fmt.Errorf("commit: %w", err))
	}
	return nil
}
