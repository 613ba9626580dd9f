// ABOUTME: Data migration between record substrates.
// ABOUTME: Copies every collection from source to destination, e.g. kv fallback back into SQLite.

package storage

import (
	"fmt"
	"os"

	"github.com/harperreed/practice/internal/models"
)

// MigrateSummary holds counts of migrated records per collection.
type MigrateSummary struct {
	Counts map[models.Collection]int
}

// Total returns the number of records copied.
func (m *MigrateSummary) Total() int {
	total := 0
	for _, n := range m.Counts {
		total += n
	}
	return total
}

// MigrateData copies all collections from src to dst. Each destination
// collection is replaced wholesale, so running it twice is harmless.
func MigrateData(src, dst Repository) (*MigrateSummary, error) {
	summary := &MigrateSummary{Counts: make(map[models.Collection]int)}

	for _, c := range models.AllCollections {
		records, err := src.GetItems(c)
		if err != nil {
			return nil, fmt.Errorf("list source %s: %w", c, err)
		}
		if err := dst.SetItems(c, records); err != nil {
			return nil, fmt.Errorf("write %s: %w", c, err)
		}
		summary.Counts[c] = len(records)
	}

	return summary, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
