// ABOUTME: CLI command for the interactive browse view.
// ABOUTME: Opens the terminal UI over sessions, goals, media and stats.
package main

import (
	"github.com/harperreed/practice/internal/tui"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:     "browse",
	Aliases: []string{"ui"},
	Short:   "Browse practice data interactively",
	Long: `Browse sessions, goals, media and stats in an interactive view.

KEYS:

  tab / shift+tab   switch between views
  /                 search (enter applies, esc closes)
  c                 next category
  s                 next status or media type
  n / p             next / previous page
  space             toggle the selected goal
  d                 delete the selected record
  q                 quit

Changes made elsewhere (another terminal, the MCP server writing through
the same process) show up as soon as the view reloads.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Show(pa)
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
