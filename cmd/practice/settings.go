// ABOUTME: CLI commands for user settings.
// ABOUTME: Shows and updates the instrument, daily goal, theme and week start.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	settingsInstrument string
	settingsDailyGoal  int
	settingsTheme      string
	settingsWeekStart  string
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := pa.Settings()
		if err != nil {
			return err
		}
		fmt.Printf("  instrument   %s\n", s.Instrument)
		fmt.Printf("  daily goal   %d min\n", s.DailyGoalMinutes)
		fmt.Printf("  theme        %s\n", s.Theme)
		fmt.Printf("  week start   %s\n", s.WeekStart)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change settings",
	Long: `Change settings. Only the flags given are updated.

Examples:
  practice settings set --instrument cello --daily-goal 45
  practice settings set --week-start sunday`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := pa.Settings()
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("instrument") {
			s.Instrument = settingsInstrument
		}
		if flags.Changed("daily-goal") {
			if settingsDailyGoal < 0 {
				return fmt.Errorf("daily goal cannot be negative")
			}
			s.DailyGoalMinutes = settingsDailyGoal
		}
		if flags.Changed("theme") {
			s.Theme = settingsTheme
		}
		if flags.Changed("week-start") {
			if settingsWeekStart != "monday" && settingsWeekStart != "sunday" {
				return fmt.Errorf("week start must be monday or sunday")
			}
			s.WeekStart = settingsWeekStart
		}
		if err := pa.SaveSettings(s); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		color.Green("✓ Settings saved")
		return nil
	},
}

func init() {
	settingsSetCmd.Flags().StringVar(&settingsInstrument, "instrument", "", "your instrument")
	settingsSetCmd.Flags().IntVar(&settingsDailyGoal, "daily-goal", 0, "daily practice target in minutes")
	settingsSetCmd.Flags().StringVar(&settingsTheme, "theme", "", "light, dark or system")
	settingsSetCmd.Flags().StringVar(&settingsWeekStart, "week-start", "", "monday or sunday")

	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}
