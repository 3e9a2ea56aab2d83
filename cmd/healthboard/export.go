// ABOUTME: CLI command for exporting health data.
// ABOUTME: Supports JSON, YAML, Markdown, and CSV export formats.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/healthboard/internal/storage"
)

var (
	exportOutput string
	exportSince  string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export health data",
	Long: `Export health data in various formats.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export (human-readable)
  markdown   Markdown table (for documentation/sharing)
  csv        The daily log format read by the dashboard

OPTIONS:

  --output, -o   Write to file instead of stdout
  --since        Only include data since this date (YYYY-MM-DD)

EXAMPLES:

  healthboard export json                        # Export all data as JSON
  healthboard export json -o backup.json         # Save to file
  healthboard export yaml                        # Export as YAML
  healthboard export markdown --since 2024-01-01 # Export data from 2024 onward
  healthboard --backend sqlite export csv        # Dump the SQLite store as CSV`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown", "csv"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]

		t, err := loadTable()
		if err != nil {
			return err
		}

		if exportSince != "" {
			since, err := time.Parse("2006-01-02", exportSince)
			if err != nil {
				return fmt.Errorf("invalid date format: %s (use YYYY-MM-DD)", exportSince)
			}
			t = t.Since(since)
		}

		var data []byte
		switch format {
		case "json":
			data, err = storage.ExportJSON(t)
		case "yaml":
			data, err = storage.ExportYAML(t)
		case "markdown":
			data = []byte(storage.ExportMarkdown(t))
		case "csv":
			data, err = storage.ExportCSV(t)
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, markdown, or csv)", format)
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

		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "only include data since date (YYYY-MM-DD)")
	rootCmd.AddCommand(exportCmd)
}
