// ABOUTME: Tests for default category seeding.
// ABOUTME: Verifies skip-by-name and partial result reporting.
package storage

import (
	"strings"
	"testing"

	"github.com/harperreed/practice/internal/models"
)

func TestSeedDefaultCategories(t *testing.T) {
	s := setupTestStore(t)
	existing := models.NewCategory("theory", "")
	existing.Archived = true
	_ = s.AddItem(models.CollectionCategories, existing)
	_ = s.AddItem(models.CollectionCategories, models.NewCategory("Repertoire", ""))

	result, err := s.SeedDefaultCategories("piano")
	if err != nil {
		t.Fatalf("SeedDefaultCategories failed: %v", err)
	}
	if result.Added != 4 || result.Total != 6 || result.Skipped != 2 {
		t.Errorf("Unexpected result: %+v", result)
	}
	if got := result.String(); !strings.HasPrefix(got, "added 4 of 6 default categories") {
		t.Errorf("String() = %q", got)
	}

	cats, _ := s.GetItems(models.CollectionCategories, true)
	if len(cats) != 6 {
		t.Errorf("Expected 6 categories, got %d", len(cats))
	}
	for _, c := range models.Categories(cats) {
		if c.Name == "Sight Reading" && (!c.IsDefault || c.InstrumentID != "piano") {
			t.Errorf("Seeded category not marked default: %+v", c)
		}
	}

	again, err := s.SeedDefaultCategories("piano")
	if err != nil {
		t.Fatalf("Second seed failed: %v", err)
	}
	if again.Added != 0 || again.Skipped != 6 {
		t.Errorf("Second seed should add nothing: %+v", again)
	}
}

func TestSeedResultPartial(t *testing.T) {
	r := SeedResult{Added: 4, Total: 6, Failed: []string{"Theory", "Improvisation"}}
	if !r.Partial() {
		t.Error("Expected partial result")
	}
	want := "added 4 of 6 default categories; failed: Theory, Improvisation"
	if got := r.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
