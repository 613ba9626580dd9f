// ABOUTME: Tests for the Record Store wrapper.
// ABOUTME: Covers backend selection, fallback, notifications, archive filtering and validation.
package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/harperreed/practice/internal/errs"
	"github.com/harperreed/practice/internal/events"
	"github.com/harperreed/practice/internal/models"
)

// setupTestStore wraps an in-memory kv repository.
func setupTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(setupTestKV(t), events.NewBus(), nil)
}

func TestOpenStoreAutoUsesSQLite(t *testing.T) {
	s, err := OpenStore(Options{Backend: BackendAuto, DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("OpenStore failed: %v", err)
	}
	defer s.Close()

	if s.Backend() != BackendSQLite {
		t.Errorf("Backend() = %q, want sqlite", s.Backend())
	}
	if s.UsingFallback() {
		t.Error("Did not expect fallback")
	}
}

func TestOpenStoreFallsBackToKV(t *testing.T) {
	dataDir := t.TempDir()
	// A directory where the database file should be makes SQLite fail to open.
	if err := os.MkdirAll(filepath.Join(dataDir, "practice.db"), 0750); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	s, err := OpenStore(Options{DataDir: dataDir})
	if err != nil {
		t.Fatalf("OpenStore failed: %v", err)
	}
	defer s.Close()

	if s.Backend() != BackendKV || !s.UsingFallback() {
		t.Fatalf("Expected kv fallback, got backend %q fallback=%v", s.Backend(), s.UsingFallback())
	}

	cat := models.NewCategory("Theory", "")
	if err := s.AddItem(models.CollectionCategories, cat); err != nil {
		t.Fatalf("AddItem on fallback failed: %v", err)
	}
	got, err := s.GetItems(models.CollectionCategories, true)
	if err != nil || len(got) != 1 {
		t.Fatalf("Expected 1 category on fallback, got %d (%v)", len(got), err)
	}
}

func TestOpenStoreSQLiteOnlyFails(t *testing.T) {
	dataDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dataDir, "practice.db"), 0750); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	_, err := OpenStore(Options{Backend: BackendSQLite, DataDir: dataDir})
	if !errors.Is(err, errs.ErrUnsupportedSubstrate) {
		t.Fatalf("Expected ErrUnsupportedSubstrate, got %v", err)
	}
}

func TestOpenStoreUnknownBackend(t *testing.T) {
	if _, err := OpenStore(Options{Backend: "postgres", DataDir: t.TempDir()}); err == nil {
		t.Fatal("Expected error for unknown backend")
	}
}

func TestMutationsNotify(t *testing.T) {
	s := setupTestStore(t)
	var got []models.Collection
	s.Bus().Subscribe(func(ch events.Change) { got = append(got, ch.Collection) })

	g := models.NewGoal("Play at 120bpm", "")
	if err := s.AddItem(models.CollectionGoals, g); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	g.SetCompleted(true)
	if err := s.UpdateItem(models.CollectionGoals, g); err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}
	if err := s.SetItems(models.CollectionSessions, nil); err != nil {
		t.Fatalf("SetItems failed: %v", err)
	}
	if err := s.DeleteItem(models.CollectionMedia, "never-existed"); err != nil {
		t.Fatalf("DeleteItem failed: %v", err)
	}

	want := []models.Collection{
		models.CollectionGoals, models.CollectionGoals,
		models.CollectionSessions, models.CollectionMedia,
	}
	if len(got) != len(want) {
		t.Fatalf("Expected %d notifications, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("notification %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestFailedWriteDoesNotNotify(t *testing.T) {
	s := setupTestStore(t)
	calls := 0
	s.Bus().Subscribe(func(events.Change) { calls++ })

	err := s.UpdateItem(models.CollectionGoals, models.NewGoal("missing", ""))
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
	if calls != 0 {
		t.Errorf("Expected no notification for failed write, got %d", calls)
	}
}

func TestHandlerObservesOwnWrite(t *testing.T) {
	s := setupTestStore(t)
	seen := -1
	s.Bus().Subscribe(func(ch events.Change) {
		items, _ := s.GetItems(ch.Collection, true)
		seen = len(items)
	})
	if err := s.AddItem(models.CollectionSessions, models.NewSession("", 0)); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	if seen != 1 {
		t.Errorf("handler saw %d sessions, want 1", seen)
	}
}

func TestArchivedCategoriesFiltered(t *testing.T) {
	s := setupTestStore(t)
	c1 := models.NewCategory("Technique", "")
	c1.ID = "c1"
	c2 := models.NewCategory("Repertoire", "")
	if err := s.SetItems(models.CollectionCategories, []models.Record{c1, c2}); err != nil {
		t.Fatalf("SetItems failed: %v", err)
	}
	sess := models.NewSession("c1", 0).WithNotes("scales")
	if err := s.AddItem(models.CollectionSessions, sess); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	c1.Archived = true
	c1.Touch()
	if err := s.UpdateItem(models.CollectionCategories, c1); err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}

	sessions, _ := s.GetItems(models.CollectionSessions, true)
	if len(sessions) != 1 {
		t.Errorf("Archiving a category must not remove sessions, got %d", len(sessions))
	}
	active, _ := s.GetItems(models.CollectionCategories, false)
	for _, r := range active {
		if r.RecordID() == "c1" {
			t.Error("Archived category c1 listed with includeArchived=false")
		}
	}
	if len(active) != 1 {
		t.Errorf("Expected 1 active category, got %d", len(active))
	}
	all, _ := s.GetItems(models.CollectionCategories, true)
	if len(all) != 2 {
		t.Errorf("Expected 2 categories including archived, got %d", len(all))
	}
}

func TestGetItemsUnknownCollection(t *testing.T) {
	s := setupTestStore(t)
	got, err := s.GetItems(models.Collection("NOPE"), true)
	if err != nil {
		t.Fatalf("GetItems failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected empty result, got %d", len(got))
	}
}

func TestSetItemsRejectsDuplicateIDs(t *testing.T) {
	s := setupTestStore(t)
	a := models.NewSession("", 0)
	b := models.NewSession("", 0)
	b.ID = a.ID
	err := s.SetItems(models.CollectionSessions, []models.Record{a, b})
	if !errors.Is(err, errs.ErrDuplicateID) {
		t.Fatalf("Expected ErrDuplicateID, got %v", err)
	}
}

func TestWriteRejectsWrongKind(t *testing.T) {
	s := setupTestStore(t)
	err := s.AddItem(models.CollectionSessions, models.NewGoal("wrong", ""))
	if !errors.Is(err, errs.ErrWrite) {
		t.Fatalf("Expected ErrWrite, got %v", err)
	}
	noID := models.NewSession("", 0)
	noID.ID = ""
	if err := s.AddItem(models.CollectionSessions, noID); !errors.Is(err, errs.ErrWrite) {
		t.Fatalf("Expected ErrWrite for missing id, got %v", err)
	}
}

func TestUniquenessAcrossOperations(t *testing.T) {
	s := setupTestStore(t)
	var ids []string
	for i := 0; i < 5; i++ {
		g := models.NewGoal("goal", "")
		ids = append(ids, g.ID)
		if err := s.AddItem(models.CollectionGoals, g); err != nil {
			t.Fatalf("AddItem failed: %v", err)
		}
	}
	dup := models.NewGoal("dup", "")
	dup.ID = ids[2]
	_ = s.AddItem(models.CollectionGoals, dup)
	_ = s.DeleteItem(models.CollectionGoals, ids[0])
	dup.ID = ids[0]
	if err := s.AddItem(models.CollectionGoals, dup); err != nil {
		t.Fatalf("Re-adding a deleted id failed: %v", err)
	}
	dup.Title = "renamed"
	_ = s.UpdateItem(models.CollectionGoals, dup)

	got, _ := s.GetItems(models.CollectionGoals, true)
	seen := map[string]bool{}
	for _, r := range got {
		if seen[r.RecordID()] {
			t.Fatalf("Duplicate id %s in collection", r.RecordID())
		}
		seen[r.RecordID()] = true
	}
	if len(got) != 5 {
		t.Errorf("Expected 5 goals, got %d", len(got))
	}
}

func TestGetItem(t *testing.T) {
	s := setupTestStore(t)
	g := models.NewGoal("find me", "")
	_ = s.AddItem(models.CollectionGoals, g)

	got, err := s.GetItem(models.CollectionGoals, g.ID)
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if got.(*models.Goal).Title != "find me" {
		t.Errorf("Unexpected goal: %+v", got)
	}
	if _, err := s.GetItem(models.CollectionGoals, "nope"); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestResolveID(t *testing.T) {
	s := setupTestStore(t)
	a := models.NewGoal("a", "")
	a.ID = "abc123"
	b := models.NewGoal("b", "")
	b.ID = "abd456"
	c := models.NewGoal("c", "")
	c.ID = "abc"
	for _, g := range []*models.Goal{a, b, c} {
		if err := s.AddItem(models.CollectionGoals, g); err != nil {
			t.Fatalf("AddItem failed: %v", err)
		}
	}

	if id, err := s.ResolveID(models.CollectionGoals, "abd"); err != nil || id != "abd456" {
		t.Errorf("ResolveID(abd) = %q, %v", id, err)
	}
	if id, err := s.ResolveID(models.CollectionGoals, "abc"); err != nil || id != "abc" {
		t.Errorf("Exact match should win, got %q, %v", id, err)
	}
	if _, err := s.ResolveID(models.CollectionGoals, "ab"); err == nil {
		t.Error("Expected ambiguity error")
	}
	if _, err := s.ResolveID(models.CollectionGoals, "zzz"); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
