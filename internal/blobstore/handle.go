// ABOUTME: Blob operations on an opened substrate.
// ABOUTME: Substrate errors surface as typed write or read failures with the cause attached.
package blobstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/harperreed/practice/internal/errs"
)

// Handle is an opened Blob Store.
type Handle struct {
	db *sql.DB
}

// Put stores blob under key, replacing any previous payload.
func (h *Handle) Put(ctx context.Context, key string, blob *Blob) error {
	if key == "" {
		return errs.New(errs.KindWrite, "put", "blobs", "", errors.New("empty key"))
	}
	if blob == nil {
		return errs.New(errs.KindWrite, "put", "blobs", key, errors.New("nil blob"))
	}
	created := blob.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	data := blob.Data
	if data == nil {
		data = []byte{}
	}
	_, err := h.db.ExecContext(ctx, `
		INSERT INTO blobs (key, data, mime_type, size, created_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			data = excluded.data,
			mime_type = excluded.mime_type,
			size = excluded.size,
			created_at = excluded.created_at`,
		key, data, blob.MimeType, int64(len(data)), created.UTC().UnixMilli())
	if err != nil {
		return errs.New(errs.KindWrite, "put", "blobs", key, err)
	}
	return nil
}

// Get returns the blob stored under key, or nil when there is none.
func (h *Handle) Get(ctx context.Context, key string) (*Blob, error) {
	var (
		b       = &Blob{Key: key}
		created int64
	)
	err := h.db.QueryRowContext(ctx,
		`SELECT data, mime_type, size, created_at FROM blobs WHERE key = ?`, key).
		Scan(&b.Data, &b.MimeType, &b.Size, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.New(errs.KindRead, "get", "blobs", key, err)
	}
	b.CreatedAt = time.UnixMilli(created)
	return b, nil
}

// Delete removes key. Deleting a missing key succeeds.
func (h *Handle) Delete(ctx context.Context, key string) error {
	if _, err := h.db.ExecContext(ctx, `DELETE FROM blobs WHERE key = ?`, key); err != nil {
		return errs.New(errs.KindWrite, "delete", "blobs", key, err)
	}
	return nil
}

// Keys lists every stored key in insertion order.
func (h *Handle) Keys(ctx context.Context) ([]string, error) {
	rows, err := h.db.QueryContext(ctx, `SELECT key FROM blobs ORDER BY rowid`)
	if err != nil {
		return nil, errs.New(errs.KindRead, "keys", "blobs", "", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, errs.New(errs.KindRead, "keys", "blobs", "", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.New(errs.KindRead, "keys", "blobs", "", err)
	}
	return keys, nil
}
