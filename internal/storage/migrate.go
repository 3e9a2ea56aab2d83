// ABOUTME: Copies the health table from any source into the SQLite store.
// ABOUTME: Backs the import command and CSV-to-SQLite migration.

package storage

import (
	"fmt"
)

// MigrateSummary holds counts of migrated records.
type MigrateSummary struct {
	Deleted  int
	Imported int
}

// MigrateData loads the table from src and writes it into dst.
// With replace set, dst is emptied first; otherwise rows for the imported
// dates are replaced. Nothing changes if the write fails.
func MigrateData(src Source, dst *DB, replace bool) (*MigrateSummary, error) {
	t, err := src.Load()
	if err != nil {
		return nil, fmt.Errorf("load source: %w", err)
	}

	return dst.ImportTable(t, replace)
}
