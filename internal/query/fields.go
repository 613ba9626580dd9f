// ABOUTME: Per-kind field access used by the filter and sort stages.
// ABOUTME: Every record kind is matched explicitly; unknown kinds fall through safely.
package query

import "github.com/harperreed/practice/internal/models"

// UnknownCategory stands in for a category id that does not resolve.
const UnknownCategory = "unknown"

// categoryOf returns the category reference of r, if its kind has one.
func categoryOf(r models.Record) (string, bool) {
	switch v := r.(type) {
	case *models.Session:
		return v.CategoryID, true
	case *models.Goal:
		return v.CategoryID, true
	case *models.Media:
		return v.CategoryID, true
	default:
		return "", false
	}
}

// matchesStatus applies the collection-specific status stage. A status the
// kind does not understand keeps the record.
func matchesStatus(r models.Record, status string) bool {
	switch v := r.(type) {
	case *models.Goal:
		switch status {
		case StatusActive:
			return !v.Completed
		case StatusCompleted:
			return v.Completed
		}
	case *models.Media:
		if t := models.MediaType(status); t.IsValid() {
			return v.Type == t
		}
	}
	return true
}

// searchFields lists the text a search term is matched against.
func searchFields(r models.Record, categoryName string) []string {
	switch v := r.(type) {
	case *models.Session:
		return []string{v.Notes, categoryName}
	case *models.Goal:
		return []string{v.Title, v.Description, categoryName}
	case *models.Media:
		return []string{v.Name, v.Filename, v.Notes, categoryName}
	case *models.Category:
		return []string{v.Name}
	case *models.Settings:
		return []string{v.Instrument}
	default:
		return nil
	}
}

// EffectiveDate returns the first present of startTime, date and createdAt.
// An empty result means the record has no date at all.
func EffectiveDate(r models.Record) string {
	if r == nil {
		return ""
	}
	var candidates []string
	switch v := r.(type) {
	case *models.Session:
		candidates = []string{v.StartTime, v.Date}
	case *models.Media:
		candidates = []string{v.Date}
	}
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	if b := r.Meta(); b != nil {
		return b.CreatedAt
	}
	return ""
}

// categoryNames maps category ids to names, archived categories included.
func categoryNames(categories []*models.Category) map[string]string {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		if c != nil {
			names[c.ID] = c.Name
		}
	}
	return names
}

// CategoryName resolves id, substituting UnknownCategory when it dangles.
func CategoryName(names map[string]string, id string) string {
	if name, ok := names[id]; ok {
		return name
	}
	return UnknownCategory
}
