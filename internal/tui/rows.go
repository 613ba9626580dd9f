// ABOUTME: Row rendering for each browsable collection.
// ABOUTME: Pure functions from a query result to display lines.
package tui

import (
	"fmt"
	"time"

	"github.com/harperreed/practice/internal/models"
	"github.com/harperreed/practice/internal/query"
	"github.com/harperreed/practice/internal/viewcache"
)

type row struct {
	ID     string
	Title  string
	Detail string
}

// listing is what a list tab renders.
type listing struct {
	Rows  []row
	Total int
	Page  int
	Pages int
}

func renderListing(r viewcache.Result) listing {
	names := make(map[string]string, len(r.Categories))
	for _, c := range r.Categories {
		names[c.ID] = c.Name
	}
	out := listing{Total: r.Page.Total, Page: r.Page.Page, Pages: r.Page.Pages, Rows: []row{}}
	for _, rec := range r.Page.Items {
		out.Rows = append(out.Rows, recordRow(rec, names))
	}
	return out
}

func recordRow(r models.Record, names map[string]string) row {
	switch v := r.(type) {
	case *models.Session:
		return row{
			ID:     v.ID,
			Title:  fmt.Sprintf("%s  %3d min  %s", displayDate(query.EffectiveDate(v)), v.Minutes(), query.CategoryName(names, v.CategoryID)),
			Detail: v.Notes,
		}
	case *models.Goal:
		check := "[ ]"
		if v.Completed {
			check = "[x]"
		}
		detail := query.CategoryName(names, v.CategoryID)
		if v.DueDate != "" {
			detail += "  due " + v.DueDate
		}
		return row{ID: v.ID, Title: check + " " + v.Title, Detail: detail}
	case *models.Media:
		name := v.Name
		if name == "" {
			name = v.Filename
		}
		return row{
			ID:     v.ID,
			Title:  fmt.Sprintf("%-5s  %s", v.Type, name),
			Detail: displayDate(query.EffectiveDate(v)) + "  " + query.CategoryName(names, v.CategoryID),
		}
	case *models.Category:
		title := v.Name
		if v.Archived {
			title += " (archived)"
		}
		return row{ID: v.ID, Title: title}
	default:
		return row{ID: r.RecordID(), Title: r.RecordID()}
	}
}

// displayDate renders a stored timestamp as a local date and time, or the
// raw value when it does not parse.
func displayDate(s string) string {
	t, ok := models.ParseTime(s, time.Local)
	if !ok {
		if s == "" {
			return "----------"
		}
		return s
	}
	return t.Local().Format("2006-01-02 15:04")
}

func renderStats(r viewcache.Result) query.Stats {
	return query.Summarize(models.Sessions(r.All), r.Categories, time.Now())
}
