// ABOUTME: CLI command for importing health data into the SQLite store.
// ABOUTME: Accepts the daily CSV log or a JSON export.
package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/healthboard/internal/storage"
)

var importReplace bool

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import health data into SQLite",
	Long: `Import a CSV log or a JSON export into the SQLite store.

Every row is stored, including rows that share a date. Stored rows for any
date in the file are replaced. Use --replace to empty the store first. The
import runs in one transaction, so a failed import changes nothing.

After importing, read from the store with --backend sqlite or by setting
"backend": "sqlite" in the config file.

FILE TYPES:

  .csv    Daily health log
  .json   Backup written by 'healthboard export json'

EXAMPLES:

  healthboard import health.csv              # Merge into the store
  healthboard import backup.json --replace   # Restore a backup
  healthboard --backend sqlite serve         # Serve from the store`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		var src storage.Source
		switch strings.ToLower(filepath.Ext(filename)) {
		case ".json":
			src = storage.NewJSONSource(filename)
		default:
			src = storage.NewCSVSource(filename)
		}
		defer src.Close()

		db, err := storage.Open(cfg.GetDBPath())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		summary, err := storage.MigrateData(src, db, importReplace)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		logger.Debug("import finished", "db", db.Path(), "deleted", summary.Deleted, "imported", summary.Imported)
		if summary.Deleted > 0 {
			color.Yellow("Removed %d existing records", summary.Deleted)
		}
		color.Green("✓ Imported %d records from %s", summary.Imported, filename)
		return nil
	},
}

func init() {
	importCmd.Flags().BoolVar(&importReplace, "replace", false, "delete existing records before importing")
	rootCmd.AddCommand(importCmd)
}
