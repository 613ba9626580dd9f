// ABOUTME: Practice statistics derived from sessions.
// ABOUTME: Dangling category references are grouped under "unknown".
package query

import (
	"sort"
	"time"

	"github.com/harperreed/practice/internal/models"
)

// CategoryMinutes is the practice time logged against one category.
type CategoryMinutes struct {
	CategoryID string `json:"categoryId,omitempty"`
	Name       string `json:"name"`
	Minutes    int    `json:"minutes"`
	Sessions   int    `json:"sessions"`
}

// Stats summarizes a session collection. Streak counts consecutive days with
// practice ending today, or ending yesterday when nothing is logged yet today.
type Stats struct {
	TotalSessions int               `json:"totalSessions"`
	TotalMinutes  int               `json:"totalMinutes"`
	ByCategory    []CategoryMinutes `json:"byCategory"`
	Streak        int               `json:"streak"`
	LastSevenDays int               `json:"lastSevenDays"`
	TodayMinutes  int               `json:"todayMinutes"`
}

// Summarize computes Stats as of now, in now's location.
func Summarize(sessions []*models.Session, categories []*models.Category, now time.Time) Stats {
	loc := now.Location()
	names := categoryNames(categories)
	today := startOfDay(now)
	weekStart := today.AddDate(0, 0, -6)

	stats := Stats{ByCategory: []CategoryMinutes{}}
	seconds := 0
	todaySeconds := 0
	perCategory := make(map[string]*CategoryMinutes)
	perCategorySeconds := make(map[string]int)
	days := make(map[string]bool)

	for _, s := range sessions {
		if s == nil {
			continue
		}
		stats.TotalSessions++
		seconds += s.Duration

		key := s.CategoryID
		name := CategoryName(names, s.CategoryID)
		if name == UnknownCategory {
			key = ""
		}
		cm, ok := perCategory[key]
		if !ok {
			cm = &CategoryMinutes{CategoryID: key, Name: name}
			perCategory[key] = cm
		}
		cm.Sessions++
		perCategorySeconds[key] += s.Duration

		t, ok := models.ParseTime(EffectiveDate(s), loc)
		if !ok {
			continue
		}
		day := startOfDay(t.In(loc))
		days[day.Format(models.DateLayout)] = true
		if !day.Before(weekStart) && !day.After(today) {
			stats.LastSevenDays++
		}
		if day.Equal(today) {
			todaySeconds += s.Duration
		}
	}

	stats.TotalMinutes = seconds / 60
	stats.TodayMinutes = todaySeconds / 60
	for key, cm := range perCategory {
		cm.Minutes = perCategorySeconds[key] / 60
		stats.ByCategory = append(stats.ByCategory, *cm)
	}
	sort.Slice(stats.ByCategory, func(i, j int) bool {
		a, b := stats.ByCategory[i], stats.ByCategory[j]
		if a.Minutes != b.Minutes {
			return a.Minutes > b.Minutes
		}
		return a.Name < b.Name
	})

	day := today
	if !days[day.Format(models.DateLayout)] {
		day = day.AddDate(0, 0, -1)
	}
	for days[day.Format(models.DateLayout)] {
		stats.Streak++
		day = day.AddDate(0, 0, -1)
	}
	return stats
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
