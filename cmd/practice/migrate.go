// ABOUTME: CLI command for copying records between the SQLite and key-value substrates.
// ABOUTME: Used to move data written to the fallback store back into SQLite.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/practice/internal/models"
	"github.com/harperreed/practice/internal/storage"
	"github.com/spf13/cobra"
)

var (
	migrateFrom   string
	migrateDryRun bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy records between the SQLite and key-value stores",
	Long: `Copy every collection from one record substrate to the other.

When SQLite cannot be opened, practice keeps working on a key-value store
under backup/. Once SQLite is available again, copy that data back:

  practice migrate --from kv     # key-value store -> SQLite (default)
  practice migrate --from sqlite # SQLite -> key-value store

Each destination collection is replaced, so running it twice is harmless.
Run with --dry-run first to see what would be copied.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dataDir := cfg.GetDataDir()

		kvDir := storage.KVDir(dataDir)
		hasKV, err := storage.IsDirNonEmpty(kvDir)
		if err != nil {
			return err
		}
		if migrateFrom == storage.BackendKV && !hasKV {
			return fmt.Errorf("no key-value data at %s", kvDir)
		}

		sqliteDB, err := storage.Open(storage.SQLitePath(dataDir))
		if err != nil {
			return fmt.Errorf("failed to open SQLite: %w", err)
		}
		defer sqliteDB.Close()
		kv, err := storage.OpenKV(kvDir)
		if err != nil {
			return fmt.Errorf("failed to open key-value store: %w", err)
		}
		defer kv.Close()

		var src, dst storage.Repository
		switch migrateFrom {
		case storage.BackendKV:
			src, dst = kv, sqliteDB
		case storage.BackendSQLite:
			src, dst = sqliteDB, kv
		default:
			return fmt.Errorf("unknown source: %q (use kv or sqlite)", migrateFrom)
		}

		if migrateDryRun {
			color.Yellow("Dry run mode - no changes will be made")
			for _, c := range models.AllCollections {
				records, err := src.GetItems(c)
				if err != nil {
					return err
				}
				fmt.Printf("  %-12s %d\n", c.Lower(), len(records))
			}
			return nil
		}

		summary, err := storage.MigrateData(src, dst)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		color.Green("✓ Copied %d records from %s to %s", summary.Total(), src.Backend(), dst.Backend())
		for _, c := range models.AllCollections {
			fmt.Printf("  %-12s %d\n", c.Lower(), summary.Counts[c])
		}
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateFrom, "from", storage.BackendKV, "source substrate: kv or sqlite")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	rootCmd.AddCommand(migrateCmd)
}
