// ABOUTME: Tests for data migration between record substrates.
// ABOUTME: Covers kv-to-sqlite, empty sources, and repeat runs.
package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/practice/internal/models"
)

func TestMigrateDataKVToSQLite(t *testing.T) {
	src := setupTestKV(t)
	dst := setupTestDB(t)

	cat := models.NewCategory("Repertoire", "violin")
	sess := models.NewSession(cat.ID, 25*time.Minute).WithNotes("Bach partita")
	if err := src.AddItem(models.CollectionCategories, cat); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	if err := src.AddItem(models.CollectionSessions, sess); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	summary, err := MigrateData(src, dst)
	if err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}
	if summary.Total() != 2 {
		t.Errorf("Expected 2 migrated records, got %d", summary.Total())
	}
	if summary.Counts[models.CollectionSessions] != 1 {
		t.Errorf("Expected 1 session migrated, got %d", summary.Counts[models.CollectionSessions])
	}

	got, _ := dst.GetItems(models.CollectionSessions)
	sessions := models.Sessions(got)
	if len(sessions) != 1 || sessions[0].Notes != "Bach partita" || sessions[0].Duration != 1500 {
		t.Errorf("Session details not preserved: %+v", sessions)
	}
}

func TestMigrateDataEmptySource(t *testing.T) {
	summary, err := MigrateData(setupTestKV(t), setupTestDB(t))
	if err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}
	if summary.Total() != 0 {
		t.Errorf("Expected 0 records, got %d", summary.Total())
	}
}

func TestMigrateDataTwice(t *testing.T) {
	src := setupTestDB(t)
	dst := setupTestKV(t)
	_ = src.AddItem(models.CollectionGoals, models.NewGoal("once", ""))

	for i := 0; i < 2; i++ {
		if _, err := MigrateData(src, dst); err != nil {
			t.Fatalf("MigrateData run %d failed: %v", i, err)
		}
	}
	got, _ := dst.GetItems(models.CollectionGoals)
	if len(got) != 1 {
		t.Errorf("Expected 1 goal after repeated migration, got %d", len(got))
	}
}

func TestIsDirNonEmpty(t *testing.T) {
	dir := t.TempDir()

	nonEmpty, err := IsDirNonEmpty(filepath.Join(dir, "missing"))
	if err != nil || nonEmpty {
		t.Errorf("missing dir: got %v, %v", nonEmpty, err)
	}
	nonEmpty, err = IsDirNonEmpty(dir)
	if err != nil || nonEmpty {
		t.Errorf("empty dir: got %v, %v", nonEmpty, err)
	}
	if err := os.WriteFile(filepath.Join(dir, "f"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	nonEmpty, err = IsDirNonEmpty(dir)
	if err != nil || !nonEmpty {
		t.Errorf("non-empty dir: got %v, %v", nonEmpty, err)
	}
}
