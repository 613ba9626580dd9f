// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server for AI assistant integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/practice/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP allows AI assistants to read and log your practice through a
standardized protocol. The server communicates via stdin/stdout.

CONFIGURATION:

  {
    "mcpServers": {
      "practice": {
        "command": "practice",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  list_records       Filter, search and page any collection
  add_session        Log a practice session
  add_goal           Create a goal
  toggle_goal        Complete or reopen a goal
  add_category       Create a category
  archive_category   Archive a category
  delete_record      Delete a record by id
  stats              Totals, streak and minutes per category

AVAILABLE RESOURCES:

  practice://summary   Stats, daily goal progress, active goals, recent sessions`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(pa)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
