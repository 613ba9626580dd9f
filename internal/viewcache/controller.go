// ABOUTME: View Cache Controller: binds a view's filters to the Query Engine and
// ABOUTME: memoizes rendered output per criteria, dropping it on every change notification.
package viewcache

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/felixgeelhaar/bolt/v3"
	"github.com/harperreed/practice/internal/events"
	"github.com/harperreed/practice/internal/models"
	"github.com/harperreed/practice/internal/observe"
	"github.com/harperreed/practice/internal/query"
)

// State is the lifecycle of a view.
type State int

const (
	Uninitialized State = iota
	Bound
	Loaded
)

func (s State) String() string {
	switch s {
	case Bound:
		return "bound"
	case Loaded:
		return "loaded"
	default:
		return "uninitialized"
	}
}

// ErrNotBound is returned when rendering a view before Bind.
var ErrNotBound = errors.New("view is not bound")

// Source is the read side of the Record Store.
type Source interface {
	GetItems(c models.Collection, includeArchived bool) ([]models.Record, error)
	Bus() *events.Bus
}

// Result is what a view renders from.
type Result struct {
	Criteria query.Criteria
	// All is the full filtered and sorted result; Page is cut from it.
	All        []models.Record
	Page       query.Page[models.Record]
	Categories []*models.Category
}

// RenderFunc turns a query result into the view's output.
type RenderFunc[V any] func(Result) V

// Options tunes a controller.
type Options struct {
	Engine   *query.Engine
	PageSize int
	// Debounce is the quiet window for SearchInput.
	Debounce time.Duration
	// ReloadOnChange re-renders a loaded view as soon as its data changes.
	ReloadOnChange bool
	Logger         *bolt.Logger
}

type memoEntry[V any] struct {
	value      V
	generation uint64
}

// Controller owns one view's criteria and private render cache.
type Controller[V any] struct {
	src        Source
	collection models.Collection
	render     RenderFunc[V]
	opts       Options
	log        *bolt.Logger
	debounce   *Debouncer

	mu          sync.Mutex
	state       State
	criteria    query.Criteria
	dropdown    *CategoryDropdown
	memo        map[string]memoEntry[V]
	generation  uint64
	renders     int
	listeners   []func(V, error)
	unsubscribe func()
}

// New creates an unbound controller for collection.
func New[V any](src Source, collection models.Collection, render RenderFunc[V], opts Options) *Controller[V] {
	if opts.Engine == nil {
		opts.Engine = query.Default
	}
	return &Controller[V]{
		src:        src,
		collection: collection,
		render:     render,
		opts:       opts,
		log:        observe.OrDiscard(opts.Logger),
		debounce:   NewDebouncer(opts.Debounce),
		criteria:   query.Criteria{PageSize: opts.PageSize}.Normalize(),
		dropdown:   NewCategoryDropdown(),
		memo:       make(map[string]memoEntry[V]),
	}
}

// Bind subscribes to changes of the view's collection and of categories.
// Calling it again is a no-op.
func (c *Controller[V]) Bind() error {
	c.mu.Lock()
	if c.state != Uninitialized {
		c.mu.Unlock()
		return nil
	}
	c.state = Bound
	c.mu.Unlock()

	if err := c.refreshDropdown(); err != nil {
		c.mu.Lock()
		c.state = Uninitialized
		c.mu.Unlock()
		return err
	}

	watch := []models.Collection{c.collection}
	if c.collection != models.CollectionCategories {
		watch = append(watch, models.CollectionCategories)
	}
	unsub := c.src.Bus().SubscribeTo(c.onChange, watch...)

	c.mu.Lock()
	c.unsubscribe = unsub
	c.mu.Unlock()
	return nil
}

// Close unsubscribes and drops any pending search.
func (c *Controller[V]) Close() {
	c.debounce.Stop()
	c.mu.Lock()
	unsub := c.unsubscribe
	c.unsubscribe = nil
	c.state = Uninitialized
	c.memo = make(map[string]memoEntry[V])
	c.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// State returns the lifecycle state.
func (c *Controller[V]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Criteria returns the active criteria.
func (c *Controller[V]) Criteria() query.Criteria {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.criteria
}

// Dropdown returns the category options and current selection.
func (c *Controller[V]) Dropdown() ([]Option, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dropdown.Options(), c.dropdown.Selected()
}

// Renders counts how many times the view was actually computed.
func (c *Controller[V]) Renders() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.renders
}

// OnRender registers fn to receive the output of every reload.
func (c *Controller[V]) OnRender(fn func(V, error)) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// Render returns the output for the active criteria, from the cache when
// nothing changed since it was computed.
func (c *Controller[V]) Render() (V, error) {
	var zero V

	c.mu.Lock()
	if c.state == Uninitialized {
		c.mu.Unlock()
		return zero, ErrNotBound
	}
	criteria := c.criteria
	key := criteria.CacheKey()
	gen := c.generation
	if e, ok := c.memo[key]; ok && e.generation == gen {
		c.state = Loaded
		c.mu.Unlock()
		return e.value, nil
	}
	c.mu.Unlock()

	records, err := c.src.GetItems(c.collection, true)
	if err != nil {
		return zero, err
	}
	cats, err := c.src.GetItems(models.CollectionCategories, true)
	if err != nil {
		return zero, err
	}
	categories := models.Categories(cats)
	all := c.opts.Engine.Run(records, categories, criteria)
	out := c.render(Result{
		Criteria:   criteria,
		All:        all,
		Page:       query.Paginate(all, criteria.Page, criteria.PageSize),
		Categories: categories,
	})

	c.mu.Lock()
	c.renders++
	c.state = Loaded
	// A change that arrived while computing makes this result stale.
	if c.generation == gen {
		c.memo[key] = memoEntry[V]{value: out, generation: gen}
	}
	c.mu.Unlock()
	return out, nil
}

// Reload renders and hands the output to every OnRender listener.
func (c *Controller[V]) Reload() (V, error) {
	out, err := c.Render()
	c.mu.Lock()
	listeners := slices.Clone(c.listeners)
	c.mu.Unlock()
	for _, fn := range listeners {
		fn(out, err)
	}
	return out, err
}

// SearchInput records a keystroke. The reload runs once the input has been
// quiet for the debounce window.
func (c *Controller[V]) SearchInput(text string) {
	c.debounce.Trigger(func() {
		c.update(func(cr *query.Criteria) { cr.Search = text })
		_, _ = c.Reload()
	})
}

// FlushSearch applies a pending search immediately.
func (c *Controller[V]) FlushSearch() {
	c.debounce.Flush()
}

// SelectCategory filters by an active category, or "all". It reports false
// and leaves the criteria alone when id is not offered by the dropdown.
func (c *Controller[V]) SelectCategory(id string) (bool, error) {
	c.mu.Lock()
	ok := c.dropdown.Select(id)
	if ok {
		c.criteria.CategoryID = c.dropdown.Selected()
		c.criteria.Page = 1
	}
	c.mu.Unlock()
	if !ok {
		return false, nil
	}
	_, err := c.Reload()
	return true, err
}

// SetStatus sets the goal status or media type filter.
func (c *Controller[V]) SetStatus(status string) error {
	c.update(func(cr *query.Criteria) { cr.Status = status })
	_, err := c.Reload()
	return err
}

// SetDateRange sets inclusive calendar-date bounds; empty clears a bound.
func (c *Controller[V]) SetDateRange(start, end string) error {
	c.update(func(cr *query.Criteria) { cr.StartDate, cr.EndDate = start, end })
	_, err := c.Reload()
	return err
}

// SetPage moves to page n without touching the filters.
func (c *Controller[V]) SetPage(n int) error {
	c.mu.Lock()
	c.criteria.Page = n
	c.criteria = c.criteria.Normalize()
	c.mu.Unlock()
	_, err := c.Reload()
	return err
}

// update applies a filter change and returns to the first page.
func (c *Controller[V]) update(fn func(*query.Criteria)) {
	c.mu.Lock()
	fn(&c.criteria)
	c.criteria.Page = 1
	c.criteria = c.criteria.Normalize()
	c.mu.Unlock()
}

func (c *Controller[V]) onChange(ch events.Change) {
	c.mu.Lock()
	c.generation++
	dropped := len(c.memo)
	c.memo = make(map[string]memoEntry[V])
	loaded := c.state == Loaded
	c.mu.Unlock()
	c.log.Debug().Str("collection", string(ch.Collection)).Str("view", string(c.collection)).
		Int("dropped", dropped).Msg("view cache invalidated")

	if ch.Collection == models.CollectionCategories {
		if err := c.refreshDropdown(); err != nil {
			c.log.Warn().Err(err).Msg("category dropdown refresh failed")
		}
	}
	if loaded && c.opts.ReloadOnChange {
		_, _ = c.Reload()
	}
}

func (c *Controller[V]) refreshDropdown() error {
	records, err := c.src.GetItems(models.CollectionCategories, false)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dropdown.Refresh(models.Categories(records)) {
		c.criteria.CategoryID = c.dropdown.Selected()
		c.criteria.Page = 1
	}
	return nil
}
