// ABOUTME: CLI command for the practice summary.
// ABOUTME: Shows totals, today's progress, the streak and minutes per category.
package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/practice/internal/app"
	"github.com/harperreed/practice/internal/models"
	"github.com/harperreed/practice/internal/query"
	"github.com/harperreed/practice/internal/viewcache"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show practice statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		v := app.NewView(pa, models.CollectionSessions, func(r viewcache.Result) query.Stats {
			return query.Summarize(models.Sessions(r.All), r.Categories, time.Now())
		})
		if err := v.Bind(); err != nil {
			return err
		}
		defer v.Close()
		s, err := v.Render()
		if err != nil {
			return err
		}
		settings, err := pa.Settings()
		if err != nil {
			return err
		}

		bold := color.New(color.Bold)
		bold.Println("Practice summary")
		fmt.Printf("  sessions      %d\n", s.TotalSessions)
		fmt.Printf("  total         %s\n", formatMinutes(s.TotalMinutes))
		fmt.Printf("  last 7 days   %s\n", formatMinutes(s.LastSevenDays))

		today := fmt.Sprintf("%s of %d min", formatMinutes(s.TodayMinutes), settings.DailyGoalMinutes)
		if settings.DailyGoalMinutes > 0 && s.TodayMinutes >= settings.DailyGoalMinutes {
			today = color.GreenString(today + " ✓")
		}
		fmt.Printf("  today         %s\n", today)
		fmt.Printf("  streak        %d days\n", s.Streak)

		if len(s.ByCategory) == 0 {
			return nil
		}
		fmt.Println()
		bold.Println("By category")
		for _, c := range s.ByCategory {
			fmt.Printf("  %s %8s  %s\n", padRight(truncate(c.Name, 20), 20), formatMinutes(c.Minutes),
				faint.Sprintf("%d sessions", c.Sessions))
		}
		return nil
	},
}

func formatMinutes(m int) string {
	if m < 60 {
		return fmt.Sprintf("%d min", m)
	}
	return fmt.Sprintf("%dh%02dm", m/60, m%60)
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
