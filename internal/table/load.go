// ABOUTME: CSV loader for the daily health log.
// ABOUTME: Parses the Date column and every numeric column into a Table.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/healthboard/internal/models"
)

var (
	// ErrMissingColumn is returned when a required CSV header is absent.
	ErrMissingColumn = errors.New("missing column")
	// ErrInvalidDate is returned when a Date cell cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")
)

// dateLayouts are tried in order when parsing the Date column.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"2006/01/02",
}

// Load reads the CSV file at path into a Table.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return t, nil
}

// Read parses CSV data with a header row into a Table.
// Empty numeric cells become NaN; any other unparseable cell is an error.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %q (empty file)", ErrMissingColumn, models.ColumnDate)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}

	dateIdx, ok := index[string(models.ColumnDate)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, models.ColumnDate)
	}
	colIdx := make(map[models.Column]int, len(models.NumericColumns))
	for _, c := range models.NumericColumns {
		i, ok := index[string(c)]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, c)
		}
		colIdx[c] = i
	}

	var dates []time.Time
	columns := make(map[models.Column][]float64, len(models.NumericColumns))
	for _, c := range models.NumericColumns {
		columns[c] = nil
	}

	line := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		d, err := ParseDate(cell(row, dateIdx))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		dates = append(dates, d)

		for _, c := range models.NumericColumns {
			v, err := parseFloat(cell(row, colIdx[c]))
			if err != nil {
				return nil, fmt.Errorf("line %d: column %q: %w", line, c, err)
			}
			columns[c] = append(columns[c], v)
		}
	}

	return New(dates, columns)
}

// ParseDate parses a Date cell using the accepted layouts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}

func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return v, nil
}
