// ABOUTME: Category filter dropdown model.
// ABOUTME: Refreshes from live categories and keeps the selection when it still exists.
package viewcache

import (
	"github.com/harperreed/practice/internal/models"
	"github.com/harperreed/practice/internal/query"
)

// Option is one dropdown entry.
type Option struct {
	Value string
	Label string
}

// CategoryDropdown lists "all" followed by every active category.
type CategoryDropdown struct {
	options  []Option
	selected string
}

// NewCategoryDropdown returns a dropdown with only the "all" option.
func NewCategoryDropdown() *CategoryDropdown {
	return &CategoryDropdown{
		options:  []Option{{Value: query.All, Label: "All categories"}},
		selected: query.All,
	}
}

// Refresh rebuilds the options. Archived categories are skipped. The
// selection survives if its category is still listed, otherwise it resets
// to "all". It reports whether the selection changed.
func (d *CategoryDropdown) Refresh(categories []*models.Category) bool {
	opts := []Option{{Value: query.All, Label: "All categories"}}
	found := d.selected == query.All
	for _, c := range categories {
		if c == nil || c.Archived {
			continue
		}
		opts = append(opts, Option{Value: c.ID, Label: c.Name})
		if c.ID == d.selected {
			found = true
		}
	}
	d.options = opts
	if !found {
		d.selected = query.All
		return true
	}
	return false
}

// Select chooses value if it is listed and reports whether it was.
func (d *CategoryDropdown) Select(value string) bool {
	if value == "" {
		value = query.All
	}
	for _, o := range d.options {
		if o.Value == value {
			d.selected = value
			return true
		}
	}
	return false
}

// Selected returns the chosen value.
func (d *CategoryDropdown) Selected() string {
	return d.selected
}

// Options returns a copy of the entries.
func (d *CategoryDropdown) Options() []Option {
	return append([]Option(nil), d.options...)
}
