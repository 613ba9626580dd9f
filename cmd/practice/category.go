// ABOUTME: CLI commands for practice categories.
// ABOUTME: Archive hides a category from pickers; remove deletes a user category outright.
package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/practice/internal/app"
	"github.com/harperreed/practice/internal/models"
	"github.com/spf13/cobra"
)

var (
	categoryInstrument string
	categoryListAll    bool
)

var categoryCmd = &cobra.Command{
	Use:     "category",
	Aliases: []string{"categories", "cat"},
	Short:   "Manage practice categories",
	Long: `Manage practice categories.

Archiving is the normal way to retire a category: it disappears from
filters and pickers, but sessions and goals that used it keep showing its
name. Removing deletes it, and old records then show "unknown". Default
categories can be archived but not removed.`,
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := models.NewCategory(args[0], categoryInstrument)
		if err := pa.Records.AddItem(models.CollectionCategories, c); err != nil {
			return fmt.Errorf("failed to add category: %w", err)
		}
		color.Green("✓ Added category %s", c.Name)
		fmt.Printf("  %s\n", faint.Sprint(shortID(c.ID)))
		return nil
	},
}

var categoryListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := pa.Records.GetItems(models.CollectionCategories, categoryListAll)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No categories. Run 'practice category seed' to add the defaults.")
			return nil
		}
		for _, c := range models.Categories(records) {
			tags := ""
			if c.IsDefault {
				tags += faint.Sprint(" default")
			}
			if c.Archived {
				tags += color.YellowString(" archived")
			}
			fmt.Printf("%s %s%s\n", faint.Sprint(shortID(c.ID)), c.Name, tags)
		}
		return nil
	},
}

var categoryArchiveCmd = &cobra.Command{
	Use:   "archive <name|id>",
	Short: "Archive a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveCategory(args[0])
		if err != nil {
			return err
		}
		c, err := pa.ArchiveCategory(id)
		if err != nil {
			return fmt.Errorf("failed to archive category: %w", err)
		}
		color.Yellow("✓ Archived %s", c.Name)
		return nil
	},
}

var categoryRestoreCmd = &cobra.Command{
	Use:   "restore <name|id>",
	Short: "Restore an archived category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveCategory(args[0])
		if err != nil {
			return err
		}
		c, err := pa.RestoreCategory(id)
		if err != nil {
			return fmt.Errorf("failed to restore category: %w", err)
		}
		color.Green("✓ Restored %s", c.Name)
		return nil
	},
}

var categoryRemoveCmd = &cobra.Command{
	Use:     "remove <name|id>",
	Aliases: []string{"rm"},
	Short:   "Delete a user category",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveCategory(args[0])
		if err != nil {
			return err
		}
		if err := pa.RemoveCategory(id); err != nil {
			if errors.Is(err, app.ErrDefaultCategory) {
				return fmt.Errorf("%w (use 'practice category archive')", err)
			}
			return fmt.Errorf("failed to remove category: %w", err)
		}
		color.Yellow("✗ Removed category %s", shortID(id))
		return nil
	},
}

var categorySeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Add the default categories that are missing",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := pa.SeedDefaultCategories(categoryInstrument)
		if err != nil && res.Added == 0 {
			return err
		}
		if res.Partial() {
			color.Yellow("! %s", res)
			return nil
		}
		color.Green("✓ %s", res)
		return nil
	},
}

func init() {
	categoryAddCmd.Flags().StringVar(&categoryInstrument, "instrument", "", "instrument this category belongs to")
	categorySeedCmd.Flags().StringVar(&categoryInstrument, "instrument", "", "instrument for the seeded categories")
	categoryListCmd.Flags().BoolVarP(&categoryListAll, "all", "a", false, "include archived categories")

	categoryCmd.AddCommand(categoryAddCmd, categoryListCmd, categoryArchiveCmd,
		categoryRestoreCmd, categoryRemoveCmd, categorySeedCmd)
	rootCmd.AddCommand(categoryCmd)
}
