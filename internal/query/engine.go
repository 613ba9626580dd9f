// ABOUTME: Query Engine: filter stages and newest-first sort over a record snapshot.
// ABOUTME: Pure functions; malformed records degrade instead of failing the query.
package query

import (
	"sort"
	"strings"
	"time"

	"github.com/harperreed/practice/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Engine evaluates criteria. Location is where date-only values and date
// bounds are interpreted; nil means time.Local.
type Engine struct {
	Location *time.Location
}

// Default evaluates in the local time zone.
var Default = &Engine{}

// Run filters and sorts records with the default engine.
func Run(records []models.Record, categories []*models.Category, c Criteria) []models.Record {
	return Default.Run(records, categories, c)
}

// Run filters then sorts. The input slice is not modified.
func (e *Engine) Run(records []models.Record, categories []*models.Category, c Criteria) []models.Record {
	return e.Sort(e.Filter(records, categories, c))
}

func (e *Engine) loc() *time.Location {
	if e == nil || e.Location == nil {
		return time.Local
	}
	return e.Location
}

// Filter applies the category, status, search and date stages in order.
// categories should include archived categories so historical references
// still resolve.
func (e *Engine) Filter(records []models.Record, categories []*models.Category, c Criteria) []models.Record {
	c = c.Normalize()
	names := categoryNames(categories)

	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		if r != nil {
			out = append(out, r)
		}
	}

	if _, known := names[c.CategoryID]; c.CategoryID != All && known {
		out = keep(out, func(r models.Record) bool {
			id, ok := categoryOf(r)
			return ok && id == c.CategoryID
		})
	}

	if c.Status != All {
		out = keep(out, func(r models.Record) bool { return matchesStatus(r, c.Status) })
	}

	if c.Search != "" {
		fold := cases.Fold()
		out = keep(out, func(r models.Record) bool {
			name := ""
			if id, ok := categoryOf(r); ok {
				name = CategoryName(names, id)
			}
			for _, field := range searchFields(r, name) {
				if strings.Contains(fold.String(norm.NFC.String(field)), c.Search) {
					return true
				}
			}
			return false
		})
	}

	start, hasStart := e.dayStart(c.StartDate)
	end, hasEnd := e.dayEnd(c.EndDate)
	if hasStart || hasEnd {
		out = keep(out, func(r models.Record) bool {
			t, ok := models.ParseTime(EffectiveDate(r), e.loc())
			if !ok {
				return false
			}
			if hasStart && t.Before(start) {
				return false
			}
			if hasEnd && t.After(end) {
				return false
			}
			return true
		})
	}

	return out
}

// dayStart is 00:00:00 local time on date. An unparseable bound is inactive.
func (e *Engine) dayStart(date string) (time.Time, bool) {
	if date == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(models.DateLayout, date, e.loc())
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// dayEnd is 23:59:59.999 local time on date.
func (e *Engine) dayEnd(date string) (time.Time, bool) {
	t, ok := e.dayStart(date)
	if !ok {
		return time.Time{}, false
	}
	return t.AddDate(0, 0, 1).Add(-time.Millisecond), true
}

// Sort orders records newest first by effective date, ties broken by
// createdAt. Records without a parseable date go last in input order.
func (e *Engine) Sort(records []models.Record) []models.Record {
	type keyed struct {
		r       models.Record
		at      time.Time
		created time.Time
		valid   bool
	}
	items := make([]keyed, len(records))
	for i, r := range records {
		k := keyed{r: r}
		k.at, k.valid = models.ParseTime(EffectiveDate(r), e.loc())
		if r == nil {
			items[i] = k
			continue
		}
		if b := r.Meta(); b != nil {
			k.created, _ = models.ParseTime(b.CreatedAt, e.loc())
		}
		items[i] = k
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.valid != b.valid {
			return a.valid
		}
		if !a.valid {
			return false
		}
		if !a.at.Equal(b.at) {
			return a.at.After(b.at)
		}
		return a.created.After(b.created)
	})

	out := make([]models.Record, len(items))
	for i, k := range items {
		out[i] = k.r
	}
	return out
}

func keep(records []models.Record, pred func(models.Record) bool) []models.Record {
	out := records[:0]
	for _, r := range records {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}
