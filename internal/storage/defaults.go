// ABOUTME: Default practice categories and idempotent seeding.
// ABOUTME: Seeding reports partial results instead of rounding them up to success.
package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/harperreed/practice/internal/models"
)

// DefaultCategories are offered to new users.
var DefaultCategories = []string{
	"Scales & Technique",
	"Repertoire",
	"Sight Reading",
	"Ear Training",
	"Theory",
	"Improvisation",
}

// SeedResult reports how many default categories were added.
type SeedResult struct {
	Added   int
	Total   int
	Skipped int
	Failed  []string
}

// Partial reports whether some additions failed.
func (r SeedResult) Partial() bool {
	return len(r.Failed) > 0
}

// String renders the result for user-facing messages.
func (r SeedResult) String() string {
	msg := fmt.Sprintf("added %d of %d default categories", r.Added, r.Total)
	if r.Skipped > 0 {
		msg += fmt.Sprintf(" (%d already present)", r.Skipped)
	}
	if r.Partial() {
		msg += fmt.Sprintf("; failed: %s", strings.Join(r.Failed, ", "))
	}
	return msg
}

// SeedDefaultCategories adds every default category whose name is not already
// used, archived categories included. Failures do not stop the remaining
// additions; they are listed in the result and joined into the error.
func (s *Store) SeedDefaultCategories(instrumentID string) (SeedResult, error) {
	result := SeedResult{Total: len(DefaultCategories)}

	existing, err := s.GetItems(models.CollectionCategories, true)
	if err != nil {
		return result, err
	}
	names := make(map[string]bool, len(existing))
	for _, c := range models.Categories(existing) {
		names[strings.ToLower(c.Name)] = true
	}

	var failures []error
	for _, name := range DefaultCategories {
		if names[strings.ToLower(name)] {
			result.Skipped++
			continue
		}
		cat := models.NewCategory(name, instrumentID)
		cat.IsDefault = true
		if err := s.AddItem(models.CollectionCategories, cat); err != nil {
			result.Failed = append(result.Failed, name)
			failures = append(failures, fmt.Errorf("%s: %w", name, err))
			continue
		}
		result.Added++
	}
	return result, errors.Join(failures...)
}
