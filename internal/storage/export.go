// ABOUTME: Export and import of the full practice log.
// ABOUTME: Supports JSON, YAML, and Markdown export; imports validate before writing.
package storage

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/practice/internal/errs"
	"github.com/harperreed/practice/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportVersion is written into every export file.
const ExportVersion = "1.0"

// ExportData is the export file format.
type ExportData struct {
	Version    string             `json:"version,omitempty" yaml:"version,omitempty"`
	ExportedAt string             `json:"exportedAt,omitempty" yaml:"exported_at,omitempty"`
	Settings   []*models.Settings `json:"settings" yaml:"settings"`
	Categories []*models.Category `json:"categories" yaml:"categories"`
	Sessions   []*models.Session  `json:"sessions" yaml:"sessions"`
	Goals      []*models.Goal     `json:"goals" yaml:"goals"`
	Media      []*models.Media    `json:"media" yaml:"media"`
}

// ImportData holds the collections present in an import file. Collections
// missing from the file are absent from the map and left untouched.
type ImportData struct {
	Collections map[models.Collection][]models.Record
}

// ImportSummary counts what an import replaced.
type ImportSummary struct {
	Replaced map[models.Collection]int
	Skipped  []models.Collection
}

// requiredImportKeys must be present for an import to be accepted.
var requiredImportKeys = []models.Collection{models.CollectionSettings, models.CollectionCategories}

// GetAllData retrieves all data for export, archived categories included.
func (s *Store) GetAllData() (*ExportData, error) {
	data := &ExportData{
		Version:    ExportVersion,
		ExportedAt: models.FormatTime(time.Now()),
	}
	for _, c := range models.AllCollections {
		records, err := s.GetItems(c, true)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", c, err)
		}
		switch c {
		case models.CollectionSettings:
			data.Settings = models.SettingsItems(records)
		case models.CollectionCategories:
			data.Categories = models.Categories(records)
		case models.CollectionSessions:
			data.Sessions = models.Sessions(records)
		case models.CollectionGoals:
			data.Goals = models.Goals(records)
		case models.CollectionMedia:
			data.Media = models.MediaItems(records)
		}
	}
	return data, nil
}

// ExportJSON exports all data as JSON.
func (s *Store) ExportJSON() ([]byte, error) {
	data, err := s.GetAllData()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports all data as YAML.
func (s *Store) ExportYAML() ([]byte, error) {
	data, err := s.GetAllData()
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(data)
}

// ExportMarkdown renders sessions grouped by category, optionally limited to
// sessions on or after since.
func (s *Store) ExportMarkdown(since *time.Time) (string, error) {
	data, err := s.GetAllData()
	if err != nil {
		return "", err
	}
	return RenderMarkdown(data, since, time.Now()), nil
}

// RenderMarkdown builds the Markdown report for data.
func RenderMarkdown(data *ExportData, since *time.Time, now time.Time) string {
	names := make(map[string]string, len(data.Categories))
	for _, c := range data.Categories {
		names[c.ID] = c.Name
	}

	grouped := make(map[string][]*models.Session)
	for _, sess := range data.Sessions {
		started, ok := models.ParseTime(sess.StartTime, time.Local)
		if since != nil && (!ok || started.Before(*since)) {
			continue
		}
		name, known := names[sess.CategoryID]
		if !known {
			name = "Unknown"
		}
		grouped[name] = append(grouped[name], sess)
	}

	var categories []string
	for name := range grouped {
		categories = append(categories, name)
	}
	sort.Strings(categories)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Practice Log - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	for _, name := range categories {
		sessions := grouped[name]
		sort.SliceStable(sessions, func(i, j int) bool {
			return sessions[i].StartTime > sessions[j].StartTime
		})
		total := 0
		for _, sess := range sessions {
			total += sess.Minutes()
		}
		sb.WriteString(fmt.Sprintf("## %s (%d min)\n\n", name, total))
		sb.WriteString("| Date | Minutes | Notes |\n")
		sb.WriteString("|------|---------|-------|\n")
		for _, sess := range sessions {
			date := sess.StartTime
			if t, ok := models.ParseTime(sess.StartTime, time.Local); ok {
				date = t.Local().Format("2006-01-02 15:04")
			}
			sb.WriteString(fmt.Sprintf("| %s | %d | %s |\n", date, sess.Minutes(),
				strings.ReplaceAll(sess.Notes, "\n", " ")))
		}
		sb.WriteString("\n")
	}

	var open, done int
	for _, g := range data.Goals {
		if g.Completed {
			done++
		} else {
			open++
		}
	}
	if open+done > 0 {
		sb.WriteString("## Goals\n\n")
		sb.WriteString(fmt.Sprintf("%d active, %d completed\n", open, done))
	}

	return sb.String()
}

// ParseImport validates an import file. settings and categories are
// required; every record must decode and carry a unique id.
func ParseImport(data []byte) (*ImportData, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, errs.New(errs.KindImportFormat, "import", "", "", err)
	}
	if top == nil {
		return nil, errs.Importf("file is not a JSON object")
	}
	for _, c := range requiredImportKeys {
		raw, ok := top[c.Lower()]
		if !ok || string(raw) == "null" {
			return nil, errs.Importf("missing required %q array", c.Lower())
		}
	}

	out := &ImportData{Collections: make(map[models.Collection][]models.Record)}
	for _, c := range models.AllCollections {
		raw, ok := top[c.Lower()]
		if !ok || string(raw) == "null" {
			continue
		}
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, errs.Importf("%q must be an array: %v", c.Lower(), err)
		}
		records := make([]models.Record, 0, len(items))
		seen := make(map[string]struct{}, len(items))
		for i, item := range items {
			r, err := models.Decode(c, item)
			if err != nil {
				return nil, errs.Importf("%s[%d]: %v", c.Lower(), i, err)
			}
			id := r.RecordID()
			if id == "" {
				return nil, errs.Importf("%s[%d]: missing id", c.Lower(), i)
			}
			if _, dup := seen[id]; dup {
				return nil, errs.Importf("%s[%d]: duplicate id %q", c.Lower(), i, id)
			}
			seen[id] = struct{}{}
			records = append(records, r)
		}
		out.Collections[c] = records
	}
	return out, nil
}

// Import replaces each collection present in data. Absent collections are
// reported as skipped and left unchanged.
func (s *Store) Import(data *ImportData) (*ImportSummary, error) {
	summary := &ImportSummary{Replaced: make(map[models.Collection]int)}
	for _, c := range models.AllCollections {
		records, ok := data.Collections[c]
		if !ok {
			summary.Skipped = append(summary.Skipped, c)
			continue
		}
		if err := s.SetItems(c, records); err != nil {
			return summary, fmt.Errorf("import %s: %w", c, err)
		}
		summary.Replaced[c] = len(records)
	}
	s.log.Info().Int("collections", len(summary.Replaced)).Int("skipped", len(summary.Skipped)).Msg("import complete")
	return summary, nil
}

// ImportJSON parses and imports JSON bytes.
func (s *Store) ImportJSON(data []byte) (*ImportSummary, error) {
	parsed, err := ParseImport(data)
	if err != nil {
		return nil, err
	}
	return s.Import(parsed)
}
