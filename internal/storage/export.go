// ABOUTME: Export and import functionality for health data.
// ABOUTME: Supports JSON, YAML, Markdown, and CSV export formats.
package storage

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/healthboard/internal/models"
	"github.com/harperreed/healthboard/internal/table"
	"gopkg.in/yaml.v3"
)

// ExportData represents the full export format for health data.
type ExportData struct {
	Version    string         `json:"version" yaml:"version"`
	ExportedAt time.Time      `json:"exported_at" yaml:"exported_at"`
	Tool       string         `json:"tool" yaml:"tool"`
	Records    []ExportRecord `json:"records" yaml:"records"`
}

// ExportRecord is one day of data. Missing measurements are null.
type ExportRecord struct {
	Date              time.Time `json:"date" yaml:"date"`
	BloodGlucose      *float64  `json:"blood_glucose" yaml:"blood_glucose"`
	BreakfastCalories *float64  `json:"breakfast_calories" yaml:"breakfast_calories"`
	LunchCalories     *float64  `json:"lunch_calories" yaml:"lunch_calories"`
	DinnerCalories    *float64  `json:"dinner_calories" yaml:"dinner_calories"`
	DessertCalories   *float64  `json:"dessert_calories" yaml:"dessert_calories"`
	TotalCalories     *float64  `json:"total_calories" yaml:"total_calories"`
	ExerciseMinutes   *float64  `json:"exercise_minutes" yaml:"exercise_minutes"`
	HeartRate         *float64  `json:"heart_rate" yaml:"heart_rate"`
	Systolic          *float64  `json:"systolic" yaml:"systolic"`
	Diastolic         *float64  `json:"diastolic" yaml:"diastolic"`
}

func (e *ExportRecord) fields() map[models.Column]**float64 {
	return map[models.Column]**float64{
		models.ColumnBloodGlucose:  &e.BloodGlucose,
		models.ColumnBreakfast:     &e.BreakfastCalories,
		models.ColumnLunch:         &e.LunchCalories,
		models.ColumnDinner:        &e.DinnerCalories,
		models.ColumnDessert:       &e.DessertCalories,
		models.ColumnTotalCalories: &e.TotalCalories,
		models.ColumnExercise:      &e.ExerciseMinutes,
		models.ColumnHeartRate:     &e.HeartRate,
		models.ColumnSystolic:      &e.Systolic,
		models.ColumnDiastolic:     &e.Diastolic,
	}
}

// NewExportRecord converts a daily record, mapping NaN to nil.
func NewExportRecord(r models.DailyRecord) ExportRecord {
	e := ExportRecord{Date: r.Date}
	for c, field := range e.fields() {
		v := r.Value(c)
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			*field = &v
		}
	}
	return e
}

// DailyRecord converts back, mapping nil to NaN.
func (e ExportRecord) DailyRecord() models.DailyRecord {
	r := models.NewDailyRecord(e.Date)
	for c, field := range e.fields() {
		if *field != nil {
			r.Set(c, **field)
		}
	}
	return r
}

// NewExportData wraps every row of t for export.
func NewExportData(t *table.Table) *ExportData {
	records := t.Records()
	data := &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now(),
		Tool:       "healthboard",
		Records:    make([]ExportRecord, 0, len(records)),
	}
	for _, r := range records {
		data.Records = append(data.Records, NewExportRecord(r))
	}
	return data
}

// ExportJSON exports the table as JSON.
func ExportJSON(t *table.Table) ([]byte, error) {
	return json.MarshalIndent(NewExportData(t), "", "  ")
}

// ExportYAML exports the table as YAML.
func ExportYAML(t *table.Table) ([]byte, error) {
	return yaml.Marshal(NewExportData(t))
}

// ExportCSV writes the table back out in the input CSV layout.
// Missing cells are left empty.
func ExportCSV(t *table.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{string(models.ColumnDate)}
	for _, c := range models.NumericColumns {
		header = append(header, string(c))
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for _, r := range t.Records() {
		row := []string{r.Date.Format("2006-01-02")}
		for _, c := range models.NumericColumns {
			row = append(row, formatCell(r.Value(c)))
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportMarkdown exports the table as a Markdown document.
func ExportMarkdown(t *table.Table) string {
	var sb strings.Builder
	now := time.Now()

	sb.WriteString(fmt.Sprintf("# Health Export - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	if t.Len() == 0 {
		sb.WriteString("No records.\n")
		return sb.String()
	}

	sb.WriteString("## Daily Records\n\n")
	sb.WriteString("| " + string(models.ColumnDate))
	sep := "|------"
	for _, c := range models.NumericColumns {
		sb.WriteString(" | " + string(c))
		sep += "|------"
	}
	sb.WriteString(" |\n")
	sb.WriteString(sep + "|\n")

	for _, r := range t.Records() {
		sb.WriteString("| " + r.Date.Format("2006-01-02"))
		for _, c := range models.NumericColumns {
			cell := formatCell(r.Value(c))
			if cell == "" {
				cell = "-"
			}
			sb.WriteString(" | " + cell)
		}
		sb.WriteString(" |\n")
	}

	return sb.String()
}

// ImportJSON decodes a JSON export back into a table.
func ImportJSON(data []byte) (*table.Table, error) {
	var exportData ExportData
	if err := json.Unmarshal(data, &exportData); err != nil {
		return nil, fmt.Errorf("unmarshal JSON: %w", err)
	}
	records := make([]models.DailyRecord, 0, len(exportData.Records))
	for _, e := range exportData.Records {
		records = append(records, e.DailyRecord())
	}
	return table.FromRecords(records)
}

func formatCell(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
