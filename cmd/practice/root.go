// ABOUTME: Root Cobra command for the practice CLI.
// ABOUTME: Builds the app context via PersistentPreRunE and closes it afterwards.
package main

import (
	"fmt"
	"os"

	"github.com/harperreed/practice/internal/app"
	"github.com/harperreed/practice/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfg *config.Config
	pa  *app.App

	flagBackend string
	flagDataDir string
	flagVerbose bool
)

// commands that run without opening the stores
var skipApp = map[string]bool{
	"help":          true,
	"completion":    true,
	"install-skill": true,
	"migrate":       true,
}

var rootCmd = &cobra.Command{
	Use:   "practice",
	Short: "Local-first music practice tracker",
	Long: `Practice is a CLI tool for logging music practice.

WHAT IT TRACKS:

  Sessions    timed practice with notes, grouped by category
  Goals       things to work towards, toggled when done
  Categories  practice areas (technique, repertoire, theory, ...)
  Media       photos, videos and text notes attached to your practice

QUICK START:

  $ practice category seed                       # Add the default categories
  $ practice session add 30 -c repertoire        # Log 30 minutes of repertoire
  $ practice goal add "Hear tritones" -c "ear training" # Set a goal
  $ practice session list --search arpeggio      # Find sessions
  $ practice stats                               # Totals, streak, per category
  $ practice browse                              # Interactive view

MCP INTEGRATION:

  Run 'practice mcp' to start the Model Context Protocol server for use with
  AI assistants:

  {
    "mcpServers": {
      "practice": { "command": "practice", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  Records are stored in SQLite at ~/.local/share/practice/practice.db. If
  SQLite cannot be opened, a key-value store under backup/ is used instead.
  Photos and videos live in media/blobs.db. Configure with
  ~/.config/practice/config.json.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if flagBackend != "" {
			cfg.Backend = flagBackend
		}
		if flagDataDir != "" {
			cfg.DataDir = flagDataDir
		}
		if flagVerbose {
			cfg.Verbose = true
		}

		if skipApp[cmd.Name()] {
			return nil
		}
		pa, err = cfg.OpenApp(cfg.Observer(os.Stderr))
		if err != nil {
			return fmt.Errorf("failed to open practice data: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if pa != nil {
			err := pa.Close()
			pa = nil
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "record store backend: auto, sqlite or kv")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.local/share/practice)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log info and debug messages")
}
