// ABOUTME: Media capture and removal across the Record and Blob stores.
// ABOUTME: The blob is written before its record and removed if the record write fails.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/harperreed/practice/internal/blobstore"
	"github.com/harperreed/practice/internal/errs"
	"github.com/harperreed/practice/internal/models"
)

// CaptureMedia stores a photo or video payload and then its metadata
// record. Notes carry no payload and skip the Blob Store.
func (a *App) CaptureMedia(ctx context.Context, m *models.Media, data []byte) error {
	if m == nil {
		return errors.New("nil media")
	}
	if !m.Type.IsValid() {
		return fmt.Errorf("unknown media type %q", m.Type)
	}
	if !m.Type.HasBlob() {
		return a.Records.AddItem(models.CollectionMedia, m)
	}
	if len(data) == 0 {
		return fmt.Errorf("%s capture has no data", m.Type)
	}

	if m.MimeType == "" {
		m.MimeType = http.DetectContentType(data)
	}
	m.Size = int64(len(data))

	// The payload of an existing record must not be overwritten.
	if _, err := a.Records.GetItem(models.CollectionMedia, m.ID); err == nil {
		return errs.New(errs.KindDuplicateID, "add", string(models.CollectionMedia), m.ID, nil)
	}
	if err := a.Blobs.Put(ctx, m.ID, &blobstore.Blob{Data: data, MimeType: m.MimeType}); err != nil {
		return err
	}
	if err := a.Records.AddItem(models.CollectionMedia, m); err != nil {
		if rbErr := a.Blobs.Delete(ctx, m.ID); rbErr != nil {
			a.Log.Warn().Str("id", m.ID).Err(rbErr).Msg("could not remove blob after failed record write")
		}
		return err
	}
	a.Log.Info().Str("id", m.ID).Str("type", string(m.Type)).Int("size", len(data)).Msg("media captured")
	return nil
}

// DeleteMedia removes the record, then its payload.
func (a *App) DeleteMedia(ctx context.Context, id string) error {
	var hasBlob bool
	if r, err := a.Records.GetItem(models.CollectionMedia, id); err == nil {
		hasBlob = r.(*models.Media).Type.HasBlob()
	}
	if err := a.Records.DeleteItem(models.CollectionMedia, id); err != nil {
		return err
	}
	if !hasBlob || !a.Blobs.Available() {
		return nil
	}
	if err := a.Blobs.Delete(ctx, id); err != nil {
		return fmt.Errorf("media record removed but payload remains: %w", err)
	}
	return nil
}

// MediaContent returns the payload for a media id, nil when there is none.
func (a *App) MediaContent(ctx context.Context, id string) (*blobstore.Blob, error) {
	return a.Blobs.Get(ctx, id)
}
