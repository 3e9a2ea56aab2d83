// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server over the loaded health table.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harperreed/healthboard/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP lets AI assistants read the dashboard's charts and aggregates through a
standardized protocol. The server communicates via stdin/stdout and is
read-only.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "healthboard": {
        "command": "healthboard",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  list_charts     List the dashboard charts
  get_figure      Get a chart's data as JSON
  get_summary     Get the aggregate summary
  meal_averages   Average calories per meal, optionally since a date
  daily_totals    Daily calorie totals against the 1500 kcal limit
  list_records    Most recent daily records

AVAILABLE RESOURCES:

  health://dashboard/summary   Aggregate summary
  health://dashboard/layout    Page title and tabs`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable()
		if err != nil {
			return err
		}

		server, err := mcp.NewServer(t, dashboardLayout(), version)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
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
