// ABOUTME: CLI commands for practice sessions.
// ABOUTME: Supports add, list, notes and delete.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/practice/internal/models"
	"github.com/harperreed/practice/internal/query"
	"github.com/spf13/cobra"
)

var (
	sessionCategory string
	sessionNotes    string
	sessionAt       string
	sessionList     listFlags
)

var sessionCmd = &cobra.Command{
	Use:     "session",
	Aliases: []string{"sessions", "s"},
	Short:   "Log and review practice sessions",
}

var sessionAddCmd = &cobra.Command{
	Use:   "add <minutes>",
	Short: "Log a practice session",
	Long: `Log a practice session.

The length is a number of minutes or a duration such as 1h15m.

Examples:
  practice session add 30 -c theory
  practice session add 1h15m -c repertoire --notes "Bach prelude, bars 1-16"
  practice session add 20 --at "2024-03-05 07:30"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := parseMinutes(args[0])
		if err != nil {
			return err
		}
		categoryID, err := resolveCategory(sessionCategory)
		if err != nil {
			return err
		}

		s := models.NewSession(categoryID, d).WithNotes(sessionNotes)
		if sessionAt != "" {
			t, err := parseTime(sessionAt)
			if err != nil {
				return fmt.Errorf("invalid timestamp: %s", sessionAt)
			}
			s.WithStartTime(t)
		}

		if err := pa.Records.AddItem(models.CollectionSessions, s); err != nil {
			return fmt.Errorf("failed to add session: %w", err)
		}

		color.Green("✓ Logged %d min", s.Minutes())
		fmt.Printf("  %s %s\n", faint.Sprint(shortID(s.ID)), displayTime(s.StartTime))
		return nil
	},
}

var sessionListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List practice sessions",
	Long: `List practice sessions, newest first.

OUTPUT FORMAT:

  Each line shows: ID  STARTED  MINUTES  CATEGORY  (NOTES)

EXAMPLES:

  practice session list
  practice session list -c repertoire --from 2024-03-01
  practice session list -q "g minor" -n 50`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := runView(models.CollectionSessions, sessionList)
		if err != nil {
			return err
		}
		if r.Page.Total == 0 {
			fmt.Println("No sessions found.")
			return nil
		}

		names := categoryNames(r.Categories)
		for _, s := range models.Sessions(r.Page.Items) {
			notes := ""
			if s.Notes != "" {
				notes = faint.Sprintf(" (%s)", truncate(s.Notes, 40))
			}
			fmt.Printf("%s %s %4d min  %s%s\n",
				faint.Sprint(shortID(s.ID)),
				faint.Sprint(displayTime(query.EffectiveDate(s))),
				s.Minutes(),
				padRight(query.CategoryName(names, s.CategoryID), 16),
				notes)
		}
		printPageFooter(r)
		return nil
	},
}

var sessionNotesCmd = &cobra.Command{
	Use:   "notes <id> <notes>",
	Short: "Replace the notes of a session",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := pa.Records.ResolveID(models.CollectionSessions, args[0])
		if err != nil {
			return err
		}
		if err := pa.EditNotes(models.CollectionSessions, id, args[1]); err != nil {
			return fmt.Errorf("failed to update notes: %w", err)
		}
		color.Green("✓ Updated notes")
		return nil
	},
}

var sessionDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a session by id or id prefix",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := pa.Records.ResolveID(models.CollectionSessions, args[0])
		if err != nil {
			return err
		}
		if err := pa.Records.DeleteItem(models.CollectionSessions, id); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
		color.Yellow("✗ Deleted session %s", shortID(id))
		return nil
	},
}

func init() {
	sessionAddCmd.Flags().StringVarP(&sessionCategory, "category", "c", "", "category name or id")
	sessionAddCmd.Flags().StringVar(&sessionNotes, "notes", "", "session notes")
	sessionAddCmd.Flags().StringVar(&sessionAt, "at", "", "start time (YYYY-MM-DD HH:MM)")
	sessionList.register(sessionListCmd, "")

	sessionCmd.AddCommand(sessionAddCmd, sessionListCmd, sessionNotesCmd, sessionDeleteCmd)
	rootCmd.AddCommand(sessionCmd)
}
