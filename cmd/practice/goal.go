// ABOUTME: CLI commands for practice goals.
// ABOUTME: Supports add, list, toggle and delete.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/practice/internal/models"
	"github.com/harperreed/practice/internal/query"
	"github.com/spf13/cobra"
)

var (
	goalCategory    string
	goalDescription string
	goalDue         string
	goalList        listFlags
)

var goalCmd = &cobra.Command{
	Use:     "goal",
	Aliases: []string{"goals", "g"},
	Short:   "Manage practice goals",
}

var goalAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a goal",
	Long: `Add a practice goal.

Examples:
  practice goal add "Learn the Bach prelude" -c repertoire
  practice goal add "Memorise the prelude" --due 2024-06-01`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		categoryID, err := resolveCategory(goalCategory)
		if err != nil {
			return err
		}
		if goalDue != "" {
			if err := parseDate(goalDue); err != nil {
				return err
			}
		}

		g := models.NewGoal(args[0], categoryID)
		g.Description = goalDescription
		g.DueDate = goalDue
		if err := pa.Records.AddItem(models.CollectionGoals, g); err != nil {
			return fmt.Errorf("failed to add goal: %w", err)
		}

		color.Green("✓ Added goal")
		fmt.Printf("  %s %s\n", faint.Sprint(shortID(g.ID)), g.Title)
		return nil
	},
}

var goalListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List goals",
	Long: `List goals, newest first.

FILTERING:

  --status active      only open goals
  --status completed   only finished goals

EXAMPLES:

  practice goal list
  practice goal list -s active -c repertoire`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := runView(models.CollectionGoals, goalList)
		if err != nil {
			return err
		}
		if r.Page.Total == 0 {
			fmt.Println("No goals found.")
			return nil
		}

		names := categoryNames(r.Categories)
		for _, g := range models.Goals(r.Page.Items) {
			check := "[ ]"
			if g.Completed {
				check = color.GreenString("[x]")
			}
			due := ""
			if g.DueDate != "" {
				due = faint.Sprintf(" due %s", g.DueDate)
			}
			fmt.Printf("%s %s %s  %s%s\n",
				faint.Sprint(shortID(g.ID)),
				check,
				padRight(truncate(g.Title, 40), 40),
				query.CategoryName(names, g.CategoryID),
				due)
		}
		printPageFooter(r)
		return nil
	},
}

var goalToggleCmd = &cobra.Command{
	Use:     "toggle <id>",
	Aliases: []string{"done"},
	Short:   "Mark a goal completed, or active again",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := pa.Records.ResolveID(models.CollectionGoals, args[0])
		if err != nil {
			return err
		}
		g, err := pa.ToggleGoal(id)
		if err != nil {
			return fmt.Errorf("failed to toggle goal: %w", err)
		}
		if g.Completed {
			color.Green("✓ Completed %s", g.Title)
		} else {
			color.Yellow("○ Reopened %s", g.Title)
		}
		return nil
	},
}

var goalDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a goal by id or id prefix",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := pa.Records.ResolveID(models.CollectionGoals, args[0])
		if err != nil {
			return err
		}
		if err := pa.Records.DeleteItem(models.CollectionGoals, id); err != nil {
			return fmt.Errorf("failed to delete goal: %w", err)
		}
		color.Yellow("✗ Deleted goal %s", shortID(id))
		return nil
	},
}

func init() {
	goalAddCmd.Flags().StringVarP(&goalCategory, "category", "c", "", "category name or id")
	goalAddCmd.Flags().StringVarP(&goalDescription, "description", "d", "", "longer description")
	goalAddCmd.Flags().StringVar(&goalDue, "due", "", "due date (YYYY-MM-DD)")
	goalList.register(goalListCmd, "active, completed or all")

	goalCmd.AddCommand(goalAddCmd, goalListCmd, goalToggleCmd, goalDeleteCmd)
	rootCmd.AddCommand(goalCmd)
}
