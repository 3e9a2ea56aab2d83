// ABOUTME: Columnar in-memory table of daily health records.
// ABOUTME: Built once at load time and only read afterwards.
package table

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"time"

	"github.com/harperreed/healthboard/internal/models"
)

// Table holds the daily health log column by column.
// A Table is never mutated after construction, so it is safe for concurrent readers.
type Table struct {
	dates   []time.Time
	columns map[models.Column][]float64
}

// New builds a table from a date column and numeric columns.
// Every numeric column in models.NumericColumns must be present with one value per date.
func New(dates []time.Time, columns map[models.Column][]float64) (*Table, error) {
	t := &Table{
		dates:   append([]time.Time(nil), dates...),
		columns: make(map[models.Column][]float64, len(models.NumericColumns)),
	}
	for _, c := range models.NumericColumns {
		vals, ok := columns[c]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, c)
		}
		if len(vals) != len(dates) {
			return nil, fmt.Errorf("column %q has %d values, want %d", c, len(vals), len(dates))
		}
		t.columns[c] = append([]float64(nil), vals...)
	}
	return t, nil
}

// Empty returns a table with every column present and no rows.
func Empty() *Table {
	t, _ := FromRecords(nil)
	return t
}

// FromRecords builds a table from row-oriented records, preserving order.
func FromRecords(records []models.DailyRecord) (*Table, error) {
	dates := make([]time.Time, len(records))
	columns := make(map[models.Column][]float64, len(models.NumericColumns))
	for _, c := range models.NumericColumns {
		columns[c] = make([]float64, len(records))
	}
	for i, r := range records {
		dates[i] = r.Date
		for _, c := range models.NumericColumns {
			columns[c][i] = r.Value(c)
		}
	}
	return New(dates, columns)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.dates)
}

// Dates returns a copy of the date column.
func (t *Table) Dates() []time.Time {
	return append([]time.Time(nil), t.dates...)
}

// Floats returns a copy of a numeric column, or nil if the column is unknown.
func (t *Table) Floats(c models.Column) []float64 {
	vals, ok := t.columns[c]
	if !ok {
		return nil
	}
	return append([]float64(nil), vals...)
}

// Records returns the table as row-oriented records.
func (t *Table) Records() []models.DailyRecord {
	records := make([]models.DailyRecord, t.Len())
	for i, d := range t.dates {
		records[i].Date = d
		for _, c := range models.NumericColumns {
			records[i].Set(c, t.columns[c][i])
		}
	}
	return records
}

// Since returns a new table holding only rows dated on or after since.
func (t *Table) Since(since time.Time) *Table {
	var kept []models.DailyRecord
	for _, r := range t.Records() {
		if !r.Date.Before(since) {
			kept = append(kept, r)
		}
	}
	out, _ := FromRecords(kept)
	return out
}

// Mean returns the arithmetic mean of a numeric column, skipping NaN cells.
// The mean of an empty, all-NaN, or unknown column is NaN.
func (t *Table) Mean(c models.Column) float64 {
	var sum float64
	var n int
	for _, v := range t.columns[c] {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// Fingerprint returns a stable hex digest of the table contents.
func (t *Table) Fingerprint() string {
	h := sha256.New()
	var buf [8]byte
	for _, d := range t.dates {
		binary.LittleEndian.PutUint64(buf[:], uint64(d.UnixNano()))
		h.Write(buf[:])
	}
	for _, c := range models.NumericColumns {
		h.Write([]byte(c))
		for _, v := range t.columns[c] {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			h.Write(buf[:])
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
