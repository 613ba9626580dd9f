// ABOUTME: Application context: the Record Store, Blob Store, change bus and logger
// ABOUTME: built once at startup and passed to every surface.
package app

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/felixgeelhaar/bolt/v3"
	"github.com/harperreed/practice/internal/blobstore"
	"github.com/harperreed/practice/internal/events"
	"github.com/harperreed/practice/internal/models"
	"github.com/harperreed/practice/internal/observe"
	"github.com/harperreed/practice/internal/storage"
	"github.com/harperreed/practice/internal/viewcache"
)

// Defaults for view behaviour.
const (
	DefaultPageSize       = 20
	DefaultSearchDebounce = 250 * time.Millisecond
)

// Options configures Open.
type Options struct {
	Backend        string
	DataDir        string
	MediaDisabled  bool
	PageSize       int
	SearchDebounce time.Duration
	Logger         *bolt.Logger
}

// App holds the shared handles. There is one per process.
type App struct {
	Records *storage.Store
	Blobs   *blobstore.Store
	Bus     *events.Bus
	Log     *bolt.Logger

	pageSize       int
	searchDebounce time.Duration
}

// Open builds the context: the record substrate is chosen now, the blob
// substrate is opened on first use.
func Open(opts Options) (*App, error) {
	log := observe.OrDiscard(opts.Logger)
	dataDir := opts.DataDir
	if dataDir == "" {
		dataDir = storage.DataDir()
	}

	bus := events.NewBus()
	records, err := storage.OpenStore(storage.Options{
		Backend: opts.Backend,
		DataDir: dataDir,
		Bus:     bus,
		Logger:  log,
	})
	if err != nil {
		return nil, err
	}

	blobPath := filepath.Join(dataDir, "media", "blobs.db")
	if opts.MediaDisabled {
		blobPath = ""
	}

	a := New(records, blobstore.New(blobPath, log), log)
	a.pageSize = opts.PageSize
	a.searchDebounce = opts.SearchDebounce
	log.Info().Str("backend", records.Backend()).Str("data_dir", dataDir).Msg("practice store ready")
	return a, nil
}

// New assembles a context from already opened stores.
func New(records *storage.Store, blobs *blobstore.Store, log *bolt.Logger) *App {
	if blobs == nil {
		blobs = blobstore.New("", log)
	}
	return &App{
		Records:        records,
		Blobs:          blobs,
		Bus:            records.Bus(),
		Log:            observe.OrDiscard(log),
		pageSize:       DefaultPageSize,
		searchDebounce: DefaultSearchDebounce,
	}
}

// Close releases both stores.
func (a *App) Close() error {
	return errors.Join(a.Blobs.Close(), a.Records.Close())
}

// ViewOptions returns the controller options every view shares.
func (a *App) ViewOptions() viewcache.Options {
	size := a.pageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	return viewcache.Options{
		PageSize: size,
		Debounce: a.searchDebounce,
		Logger:   a.Log,
	}
}

// NewView creates an unbound view over collection.
func NewView[V any](a *App, c models.Collection, render viewcache.RenderFunc[V]) *viewcache.Controller[V] {
	return viewcache.New(a.Records, c, render, a.ViewOptions())
}

// Settings returns the stored settings, or defaults when none are saved.
func (a *App) Settings() (*models.Settings, error) {
	records, err := a.Records.GetItems(models.CollectionSettings, true)
	if err != nil {
		return nil, err
	}
	if s := models.SettingsItems(records); len(s) > 0 {
		return s[0], nil
	}
	return models.NewSettings(), nil
}

// SaveSettings stores s as the single settings record.
func (a *App) SaveSettings(s *models.Settings) error {
	records, err := a.Records.GetItems(models.CollectionSettings, true)
	if err != nil {
		return err
	}
	s.Touch()
	for _, r := range records {
		if r.RecordID() == s.ID {
			return a.Records.UpdateItem(models.CollectionSettings, s)
		}
	}
	return a.Records.SetItems(models.CollectionSettings, []models.Record{s})
}
