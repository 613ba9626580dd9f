// ABOUTME: Interactive browse view over sessions, goals and media.
// ABOUTME: Each tab is a view cache controller; renders arrive as tea messages.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/harperreed/practice/internal/app"
	"github.com/harperreed/practice/internal/models"
	"github.com/harperreed/practice/internal/query"
	"github.com/harperreed/practice/internal/viewcache"
)

type view struct {
	title      string
	collection models.Collection
	list       *viewcache.Controller[listing]
	statuses   []string
	current    listing
}

type model struct {
	app     *app.App
	views   []*view
	stats   *viewcache.Controller[query.Stats]
	summary query.Stats
	updates *mailbox

	active    int
	cursor    int
	search    textinput.Model
	searching bool
	confirm   string
	status    string
	err       error
	width     int
	height    int
}

type listingMsg struct {
	view    int
	listing listing
	err     error
}

type statsMsg struct {
	stats query.Stats
	err   error
}

type statusMsg struct {
	text string
	err  error
}

func newModel(a *app.App) (model, error) {
	updates := newMailbox()

	opts := a.ViewOptions()
	opts.ReloadOnChange = true

	views := []*view{
		{title: "Sessions", collection: models.CollectionSessions, statuses: []string{query.All}},
		{title: "Goals", collection: models.CollectionGoals, statuses: []string{query.All, query.StatusActive, query.StatusCompleted}},
		{title: "Media", collection: models.CollectionMedia, statuses: []string{query.All, string(models.MediaPhoto), string(models.MediaVideo), string(models.MediaNote)}},
	}
	for i, v := range views {
		idx := i
		v.list = viewcache.New(a.Records, v.collection, renderListing, opts)
		v.list.OnRender(func(l listing, err error) {
			updates.put(idx, listingMsg{view: idx, listing: l, err: err})
		})
		if err := v.list.Bind(); err != nil {
			return model{}, err
		}
	}

	statsSource := len(views)
	stats := viewcache.New(a.Records, models.CollectionSessions, renderStats, opts)
	stats.OnRender(func(s query.Stats, err error) {
		updates.put(statsSource, statsMsg{stats: s, err: err})
	})
	if err := stats.Bind(); err != nil {
		return model{}, err
	}

	ti := textinput.New()
	ti.Placeholder = "Search"
	ti.CharLimit = 120
	ti.Width = 40

	return model{
		app:     a,
		views:   views,
		stats:   stats,
		updates: updates,
		search:  ti,
	}, nil
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.loadAll(), m.updates.wait())
}

// statsTab is the index of the summary tab, after the list views.
func (m model) statsTab() int {
	return len(m.views)
}

func (m model) current() *view {
	if m.active < len(m.views) {
		return m.views[m.active]
	}
	return nil
}

func (m model) selected() (row, bool) {
	v := m.current()
	if v == nil || m.cursor < 0 || m.cursor >= len(v.current.Rows) {
		return row{}, false
	}
	return v.current.Rows[m.cursor], true
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case listingMsg:
		if msg.err != nil {
			m.err = msg.err
		} else if msg.view < len(m.views) {
			m.views[msg.view].current = msg.listing
			if msg.view == m.active {
				m.clampCursor()
			}
		}
		return m, nil

	case statsMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.summary = msg.stats
		}
		return m, nil

	case renderBatch:
		for _, r := range msg {
			next, _ := m.Update(r)
			m = next.(model)
		}
		return m, m.updates.wait()

	case statusMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = msg.text
		}
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := m.current()
	switch msg.String() {
	case "enter":
		m.searching = false
		m.search.Blur()
		if v != nil {
			v.list.FlushSearch()
		}
		return m, nil
	case "esc":
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	before := m.search.Value()
	m.search, cmd = m.search.Update(msg)
	if v != nil && m.search.Value() != before {
		v.list.SearchInput(m.search.Value())
	}
	return m, cmd
}

func (m model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if m.confirm != "" {
		id := m.confirm
		m.confirm = ""
		if key == "y" {
			return m, m.deleteCmd(id)
		}
		m.status = "delete cancelled"
		return m, nil
	}

	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab", "right":
		return m.switchTab(1), nil
	case "shift+tab", "left":
		return m.switchTab(-1), nil
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if v := m.current(); v != nil && m.cursor < len(v.current.Rows)-1 {
			m.cursor++
		}
	case "/":
		if m.current() != nil {
			m.searching = true
			m.search.Focus()
			return m, textinput.Blink
		}
	case "n":
		if v := m.current(); v != nil && v.current.Page < v.current.Pages {
			return m, pageCmd(v.list, v.current.Page+1)
		}
	case "p":
		if v := m.current(); v != nil && v.current.Page > 1 {
			return m, pageCmd(v.list, v.current.Page-1)
		}
	case "c":
		if v := m.current(); v != nil {
			return m, categoryCmd(v.list)
		}
	case "s":
		if v := m.current(); v != nil && len(v.statuses) > 1 {
			return m, statusCmd(v)
		}
	case " ", "space", "x":
		if v := m.current(); v != nil && v.collection == models.CollectionGoals {
			if r, ok := m.selected(); ok {
				return m, m.toggleCmd(r.ID)
			}
		}
	case "d":
		if r, ok := m.selected(); ok {
			m.confirm = r.ID
			m.status = fmt.Sprintf("delete %s? (y/n)", truncate(r.Title, 30))
		}
	case "r":
		return m, m.loadAll()
	}
	return m, nil
}

func (m model) switchTab(delta int) model {
	n := len(m.views) + 1
	m.active = (m.active + delta + n) % n
	m.cursor = 0
	m.status = ""
	if v := m.current(); v != nil {
		m.search.SetValue(v.list.Criteria().Search)
	} else {
		m.search.SetValue("")
	}
	m.clampCursor()
	return m
}

func (m *model) clampCursor() {
	v := m.current()
	if v == nil {
		m.cursor = 0
		return
	}
	if m.cursor >= len(v.current.Rows) {
		m.cursor = len(v.current.Rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m model) close() {
	for _, v := range m.views {
		v.list.Close()
	}
	m.stats.Close()
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("practice"))
	b.WriteString("\n\n")
	b.WriteString(m.tabsView())
	b.WriteString("\n\n")

	if v := m.current(); v != nil {
		b.WriteString(m.listView(v))
	} else {
		b.WriteString(m.statsView())
	}

	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(dimStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(footerStyle.Render(m.help()))
	return b.String()
}

func (m model) tabsView() string {
	titles := make([]string, 0, len(m.views)+1)
	for _, v := range m.views {
		titles = append(titles, v.title)
	}
	titles = append(titles, "Stats")
	parts := make([]string, len(titles))
	for i, t := range titles {
		if i == m.active {
			parts[i] = activeTabStyle.Render(t)
		} else {
			parts[i] = tabStyle.Render(t)
		}
	}
	return strings.Join(parts, " ")
}

func (m model) listView(v *view) string {
	var b strings.Builder
	cr := v.list.Criteria()
	options, sel := v.list.Dropdown()
	category := sel
	for _, o := range options {
		if o.Value == sel {
			category = o.Label
		}
	}
	filters := fmt.Sprintf("category: %s", category)
	if len(v.statuses) > 1 {
		filters += fmt.Sprintf("  status: %s", cr.Status)
	}
	b.WriteString(dimStyle.Render(filters))
	b.WriteString("\n")
	if m.searching || cr.Search != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(v.current.Rows) == 0 {
		b.WriteString(dimStyle.Render("  nothing here yet"))
		b.WriteString("\n")
	}
	width := m.width - 4
	if width <= 0 {
		width = 76
	}
	for i, r := range v.current.Rows {
		line := truncate(r.Title, width)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString(textStyle.Render("  " + line))
		}
		b.WriteString("\n")
		if r.Detail != "" {
			b.WriteString(dimStyle.Render("    " + truncate(r.Detail, width-2)))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("page %d of %d  (%d total)", v.current.Page, max(v.current.Pages, 1), v.current.Total)))
	b.WriteString("\n")
	return b.String()
}

func (m model) statsView() string {
	var b strings.Builder
	s := m.summary
	fmt.Fprintf(&b, "  %s %d\n", dimStyle.Render("sessions:"), s.TotalSessions)
	fmt.Fprintf(&b, "  %s %d min\n", dimStyle.Render("total:"), s.TotalMinutes)
	fmt.Fprintf(&b, "  %s %d min\n", dimStyle.Render("today:"), s.TodayMinutes)
	fmt.Fprintf(&b, "  %s %d min\n", dimStyle.Render("last 7 days:"), s.LastSevenDays)
	fmt.Fprintf(&b, "  %s %d days\n\n", dimStyle.Render("streak:"), s.Streak)
	for _, c := range s.ByCategory {
		fmt.Fprintf(&b, "  %-20s %5d min  %3d sessions\n", truncate(c.Name, 20), c.Minutes, c.Sessions)
	}
	return b.String()
}

func (m model) help() string {
	if m.searching {
		return "enter apply • esc close"
	}
	if m.current() == nil {
		return "tab switch • r reload • q quit"
	}
	keys := "tab switch • / search • c category"
	if v := m.current(); len(v.statuses) > 1 {
		keys += " • s status"
	}
	if m.current().collection == models.CollectionGoals {
		keys += " • space toggle"
	}
	return keys + " • n/p page • d delete • q quit"
}

// loadAll reloads every tab; results arrive through the render listeners.
func (m model) loadAll() tea.Cmd {
	views := m.views
	stats := m.stats
	return func() tea.Msg {
		for _, v := range views {
			if _, err := v.list.Reload(); err != nil {
				return statusMsg{err: err}
			}
		}
		if _, err := stats.Reload(); err != nil {
			return statusMsg{err: err}
		}
		return nil
	}
}

func pageCmd(list *viewcache.Controller[listing], page int) tea.Cmd {
	return func() tea.Msg {
		if err := list.SetPage(page); err != nil {
			return statusMsg{err: err}
		}
		return nil
	}
}

// categoryCmd advances the category filter to the next dropdown option.
func categoryCmd(list *viewcache.Controller[listing]) tea.Cmd {
	return func() tea.Msg {
		options, sel := list.Dropdown()
		if len(options) == 0 {
			return nil
		}
		next := options[0]
		for i, o := range options {
			if o.Value == sel {
				next = options[(i+1)%len(options)]
			}
		}
		if _, err := list.SelectCategory(next.Value); err != nil {
			return statusMsg{err: err}
		}
		return statusMsg{text: "category: " + next.Label}
	}
}

func statusCmd(v *view) tea.Cmd {
	return func() tea.Msg {
		cur := v.list.Criteria().Status
		next := v.statuses[0]
		for i, s := range v.statuses {
			if s == cur {
				next = v.statuses[(i+1)%len(v.statuses)]
			}
		}
		if err := v.list.SetStatus(next); err != nil {
			return statusMsg{err: err}
		}
		return statusMsg{text: "status: " + next}
	}
}

func (m model) toggleCmd(id string) tea.Cmd {
	a := m.app
	return func() tea.Msg {
		g, err := a.ToggleGoal(id)
		if err != nil {
			return statusMsg{err: err}
		}
		state := "active"
		if g.Completed {
			state = "completed"
		}
		return statusMsg{text: fmt.Sprintf("%s marked %s", g.Title, state)}
	}
}

func (m model) deleteCmd(id string) tea.Cmd {
	a := m.app
	v := m.current()
	if v == nil {
		return nil
	}
	c := v.collection
	return func() tea.Msg {
		var err error
		if c == models.CollectionMedia {
			err = a.DeleteMedia(context.Background(), id)
		} else {
			err = a.Records.DeleteItem(c, id)
		}
		if err != nil {
			return statusMsg{err: err}
		}
		return statusMsg{text: "deleted"}
	}
}

// Show runs the browse view until the user quits.
func Show(a *app.App) error {
	m, err := newModel(a)
	if err != nil {
		return err
	}
	defer m.close()
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
