// ABOUTME: Shared CLI helpers: time parsing, id and category resolution,
// ABOUTME: and the filtered view every list command renders through.
package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/practice/internal/models"
	"github.com/harperreed/practice/internal/query"
	"github.com/harperreed/practice/internal/viewcache"
	"github.com/spf13/cobra"
)

var faint = color.New(color.Faint)

func parseTime(s string) (time.Time, error) {
	t, ok := models.ParseTime(s, time.Local)
	if !ok {
		return time.Time{}, fmt.Errorf("unrecognized time format")
	}
	return t, nil
}

// parseDate checks a YYYY-MM-DD calendar date.
func parseDate(s string) error {
	if _, err := time.Parse(models.DateLayout, s); err != nil {
		return fmt.Errorf("invalid date format: %s (use YYYY-MM-DD)", s)
	}
	return nil
}

// parseMinutes accepts a plain number of minutes or a Go duration ("1h15m").
func parseMinutes(s string) (time.Duration, error) {
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		if n <= 0 {
			return 0, fmt.Errorf("duration must be positive: %s", s)
		}
		return time.Duration(n * float64(time.Minute)), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid duration: %s (use minutes or e.g. 1h15m)", s)
	}
	return d, nil
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

func padRight(s string, length int) string {
	n := len([]rune(s))
	if n >= length {
		return s
	}
	return s + strings.Repeat(" ", length-n)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func displayTime(s string) string {
	t, ok := models.ParseTime(s, time.Local)
	if !ok {
		return padRight(s, 16)
	}
	return t.Local().Format("2006-01-02 15:04")
}

// resolveCategory maps a category name or id prefix to its id. Archived
// categories resolve too.
func resolveCategory(nameOrID string) (string, error) {
	if nameOrID == "" {
		return "", nil
	}
	records, err := pa.Records.GetItems(models.CollectionCategories, true)
	if err != nil {
		return "", err
	}
	for _, c := range models.Categories(records) {
		if strings.EqualFold(c.Name, nameOrID) {
			return c.ID, nil
		}
	}
	id, err := pa.Records.ResolveID(models.CollectionCategories, nameOrID)
	if err != nil {
		return "", fmt.Errorf("unknown category: %s", nameOrID)
	}
	return id, nil
}

// listFlags are the filters shared by the list commands.
type listFlags struct {
	category string
	status   string
	search   string
	from     string
	to       string
	page     int
	limit    int
}

func (f *listFlags) register(cmd *cobra.Command, statusHelp string) {
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "filter by category name or id")
	if statusHelp != "" {
		cmd.Flags().StringVarP(&f.status, "status", "s", "", statusHelp)
	}
	cmd.Flags().StringVarP(&f.search, "search", "q", "", "free-text search")
	cmd.Flags().StringVar(&f.from, "from", "", "on or after date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "on or before date (YYYY-MM-DD)")
	cmd.Flags().IntVarP(&f.page, "page", "p", 1, "page number")
	cmd.Flags().IntVarP(&f.limit, "limit", "n", 0, "results per page (default from config)")
}

func identity(r viewcache.Result) viewcache.Result { return r }

// runView renders collection c through a view controller configured by f.
func runView(c models.Collection, f listFlags) (viewcache.Result, error) {
	opts := pa.ViewOptions()
	if f.limit > 0 {
		opts.PageSize = f.limit
	}
	v := viewcache.New(pa.Records, c, identity, opts)
	if err := v.Bind(); err != nil {
		return viewcache.Result{}, err
	}
	defer v.Close()

	if f.category != "" && f.category != query.All {
		id, err := resolveCategory(f.category)
		if err != nil {
			return viewcache.Result{}, err
		}
		ok, err := v.SelectCategory(id)
		if err != nil {
			return viewcache.Result{}, err
		}
		if !ok {
			return viewcache.Result{}, fmt.Errorf("category %s is archived", f.category)
		}
	}
	if f.status != "" {
		if err := v.SetStatus(f.status); err != nil {
			return viewcache.Result{}, err
		}
	}
	for _, d := range []string{f.from, f.to} {
		if d != "" {
			if err := parseDate(d); err != nil {
				return viewcache.Result{}, err
			}
		}
	}
	if f.from != "" || f.to != "" {
		if err := v.SetDateRange(f.from, f.to); err != nil {
			return viewcache.Result{}, err
		}
	}
	if f.search != "" {
		v.SearchInput(f.search)
		v.FlushSearch()
	}
	if f.page > 1 {
		if err := v.SetPage(f.page); err != nil {
			return viewcache.Result{}, err
		}
	}
	return v.Render()
}

func categoryNames(categories []*models.Category) map[string]string {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names
}

func printPageFooter(r viewcache.Result) {
	if r.Page.Pages > 1 {
		faint.Printf("page %d of %d (%d total)\n", r.Page.Page, r.Page.Pages, r.Page.Total)
	}
}
