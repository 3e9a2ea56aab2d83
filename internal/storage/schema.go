// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: One row per CSV row; missing measurements are stored as NULL.
package storage

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS daily_records (
		id TEXT PRIMARY KEY,
		recorded_on TEXT NOT NULL,
		blood_glucose REAL,
		breakfast_calories REAL,
		lunch_calories REAL,
		dinner_calories REAL,
		dessert_calories REAL,
		total_calories REAL,
		exercise_minutes REAL,
		heart_rate REAL,
		systolic REAL,
		diastolic REAL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_daily_records_recorded ON daily_records(recorded_on);
	`

	_, err := d.db.Exec(schema)
	return err
}
