// ABOUTME: Daily record operations for SQLite storage.
// ABOUTME: Imports whole tables and loads them back in date order, duplicates included.
package storage

import (
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/healthboard/internal/models"
	"github.com/harperreed/healthboard/internal/table"
)

// recordColumns maps numeric columns to their SQL column names, in schema order.
var recordColumns = []struct {
	column models.Column
	name   string
}{
	{models.ColumnBloodGlucose, "blood_glucose"},
	{models.ColumnBreakfast, "breakfast_calories"},
	{models.ColumnLunch, "lunch_calories"},
	{models.ColumnDinner, "dinner_calories"},
	{models.ColumnDessert, "dessert_calories"},
	{models.ColumnTotalCalories, "total_calories"},
	{models.ColumnExercise, "exercise_minutes"},
	{models.ColumnHeartRate, "heart_rate"},
	{models.ColumnSystolic, "systolic"},
	{models.ColumnDiastolic, "diastolic"},
}

func sqlColumnList() string {
	names := make([]string, len(recordColumns))
	for i, c := range recordColumns {
		names[i] = c.name
	}
	return strings.Join(names, ", ")
}

// ImportTable writes every row of t in a single transaction, keeping rows
// that share a date. Stored rows for any date present in t are removed first;
// with replace set the whole store is emptied instead.
func (d *DB) ImportTable(t *table.Table, replace bool) (*MigrateSummary, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	records := t.Records()
	summary := &MigrateSummary{}

	if replace {
		summary.Deleted, err = execCount(tx, "DELETE FROM daily_records")
		if err != nil {
			return nil, fmt.Errorf("delete records: %w", err)
		}
	} else {
		seen := make(map[string]bool)
		for _, r := range records {
			key := recordKey(r.Date)
			if seen[key] {
				continue
			}
			seen[key] = true
			n, err := execCount(tx, "DELETE FROM daily_records WHERE recorded_on = ?", key)
			if err != nil {
				return nil, fmt.Errorf("delete records for %s: %w", r.Date.Format("2006-01-02"), err)
			}
			summary.Deleted += n
		}
	}

	query := fmt.Sprintf(`
		INSERT INTO daily_records (id, recorded_on, %s)
		VALUES (?, ?%s)
	`, sqlColumnList(), strings.Repeat(", ?", len(recordColumns)))

	stmt, err := tx.Prepare(query)
	if err != nil {
		return nil, fmt.Errorf("prepare import: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		args := []interface{}{uuid.New().String(), recordKey(r.Date)}
		for _, c := range recordColumns {
			args = append(args, nullable(r.Value(c.column)))
		}
		result, err := stmt.Exec(args...)
		if err != nil {
			return nil, fmt.Errorf("import record %s: %w", r.Date.Format("2006-01-02"), err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("import record %s: %w", r.Date.Format("2006-01-02"), err)
		}
		summary.Imported += int(n)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}
	return summary, nil
}

// ListRecords returns records in ascending date order, rows sharing a date in
// the order they were imported.
// A non-nil since keeps only records on or after it; limit <= 0 means no limit.
func (d *DB) ListRecords(since *time.Time, limit int) ([]models.DailyRecord, error) {
	query := fmt.Sprintf("SELECT recorded_on, %s FROM daily_records", sqlColumnList())
	var args []interface{}

	if since != nil {
		query += " WHERE recorded_on >= ?"
		args = append(args, recordKey(*since))
	}
	query += " ORDER BY recorded_on ASC, rowid ASC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Load reads every stored record into a table.
func (d *DB) Load() (*table.Table, error) {
	records, err := d.ListRecords(nil, 0)
	if err != nil {
		return nil, err
	}
	return table.FromRecords(records)
}

// Count returns the number of stored records.
func (d *DB) Count() (int, error) {
	var n int
	if err := d.db.QueryRow("SELECT COUNT(*) FROM daily_records").Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

func execCount(tx *sql.Tx, query string, args ...interface{}) (int, error) {
	result, err := tx.Exec(query, args...)
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func recordKey(date time.Time) string {
	return date.UTC().Format(time.RFC3339)
}

// scanRecords scans multiple rows into records. NULL cells become NaN.
func scanRecords(rows *sql.Rows) ([]models.DailyRecord, error) {
	var records []models.DailyRecord

	for rows.Next() {
		var recordedOn string
		values := make([]sql.NullFloat64, len(recordColumns))
		dest := []interface{}{&recordedOn}
		for i := range values {
			dest = append(dest, &values[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}

		date, err := time.Parse(time.RFC3339, recordedOn)
		if err != nil {
			return nil, fmt.Errorf("parse record date %q: %w", recordedOn, err)
		}
		r := models.NewDailyRecord(date)
		for i, c := range recordColumns {
			if values[i].Valid {
				r.Set(c.column, values[i].Float64)
			}
		}
		records = append(records, r)
	}

	return records, rows.Err()
}

func nullable(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}
