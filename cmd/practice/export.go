// ABOUTME: CLI commands for exporting and importing practice data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/practice/internal/models"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportSince  string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export practice data",
	Long: `Export practice data in various formats.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export (human-readable)
  markdown   Sessions grouped by category (for sharing)

OPTIONS:

  --output, -o   Write to file instead of stdout
  --since        Only include sessions since this date (markdown only)

EXAMPLES:

  practice export json -o backup.json
  practice export yaml
  practice export markdown --since 2024-01-01`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		var err error

		switch args[0] {
		case "json":
			data, err = pa.Records.ExportJSON()
		case "yaml":
			data, err = pa.Records.ExportYAML()
		case "markdown", "md":
			var since *time.Time
			if exportSince != "" {
				t, perr := time.ParseInLocation(models.DateLayout, exportSince, time.Local)
				if perr != nil {
					return fmt.Errorf("invalid date format: %s (use YYYY-MM-DD)", exportSince)
				}
				since = &t
			}
			var md string
			md, err = pa.Records.ExportMarkdown(since)
			data = []byte(md)
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", args[0])
		}
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", exportOutput)
			return nil
		}
		fmt.Println(string(data))
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import practice data from JSON",
	Long: `Import practice data from a JSON export.

The file must contain "settings" and "categories". Each collection present
in the file replaces the stored one; collections missing from the file are
left untouched. A file that fails validation changes nothing.

EXAMPLES:

  practice import backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		summary, err := pa.Records.ImportJSON(data)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		color.Green("✓ Imported from %s", args[0])
		collections := make([]string, 0, len(summary.Replaced))
		for c := range summary.Replaced {
			collections = append(collections, string(c))
		}
		sort.Strings(collections)
		for _, c := range collections {
			fmt.Printf("  %-12s %d\n", models.Collection(c).Lower(), summary.Replaced[models.Collection(c)])
		}
		for _, c := range summary.Skipped {
			fmt.Printf("  %-12s %s\n", c.Lower(), faint.Sprint("not in file, kept"))
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "only include sessions since date (YYYY-MM-DD)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
