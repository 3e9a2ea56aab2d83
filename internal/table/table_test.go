// ABOUTME: Tests for the CSV loader and columnar Table.
// ABOUTME: Covers date parsing failures, NaN handling, means, and fingerprints.
package table

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/healthboard/internal/models"
)

const header = "Date,Blood Glucose,Breakfast Calories,Lunch Calories,Dinner Calories,Desert Calories,Total Calories,Exercise (minutes),Heart Rate,Systolic,Diastolic\n"

const sampleCSV = header +
	"2024-01-01,110,300,500,700,100,1600,30,72,120,80\n" +
	"2024-01-02,105,400,600,500,0,1500,45,68,118,78\n" +
	"2024-01-03,98,200,400,600,200,1400,0,75,125,82\n"

func TestReadSample(t *testing.T) {
	tbl, err := Read(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if tbl.Len() != 3 {
		t.Fatalf("Len = %d, want 3", tbl.Len())
	}

	dates := tbl.Dates()
	want := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	if !dates[1].Equal(want) {
		t.Errorf("Dates[1] = %v, want %v", dates[1], want)
	}

	hr := tbl.Floats(models.ColumnHeartRate)
	if hr[2] != 75 {
		t.Errorf("Heart Rate[2] = %v, want 75", hr[2])
	}
}

func TestMeanMatchesHandComputed(t *testing.T) {
	tbl, err := Read(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	tests := []struct {
		column models.Column
		want   float64
	}{
		{models.ColumnBreakfast, 300},
		{models.ColumnLunch, 500},
		{models.ColumnDinner, 600},
		{models.ColumnDessert, 100},
		{models.ColumnBloodGlucose, (110.0 + 105.0 + 98.0) / 3},
	}

	for _, tt := range tests {
		t.Run(string(tt.column), func(t *testing.T) {
			got := tbl.Mean(tt.column)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Mean(%s) = %v, want %v", tt.column, got, tt.want)
			}
		})
	}
}

func TestReadEmptyCellsBecomeNaN(t *testing.T) {
	data := header +
		"2024-01-01,110,300,,700,100,1600,30,72,120,80\n" +
		"2024-01-02,,400,600,500,0,1500,45,68,118,78\n"

	tbl, err := Read(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	lunch := tbl.Floats(models.ColumnLunch)
	if !math.IsNaN(lunch[0]) {
		t.Errorf("Lunch[0] = %v, want NaN", lunch[0])
	}
	if got := tbl.Mean(models.ColumnLunch); got != 600 {
		t.Errorf("Mean(Lunch) = %v, want 600 (NaN skipped)", got)
	}
	if got := tbl.Mean(models.ColumnBloodGlucose); got != 110 {
		t.Errorf("Mean(Blood Glucose) = %v, want 110", got)
	}
}

func TestReadFailsOnBadDate(t *testing.T) {
	data := header + "not-a-date,110,300,500,700,100,1600,30,72,120,80\n"

	_, err := Read(strings.NewReader(data))
	if err == nil {
		t.Fatal("expected error for unparseable date")
	}
	if !errors.Is(err, ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("expected line number in error, got %v", err)
	}
}

func TestReadFailsOnMissingColumn(t *testing.T) {
	data := "Date,Blood Glucose\n2024-01-01,110\n"

	_, err := Read(strings.NewReader(data))
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

func TestReadFailsOnNonNumericCell(t *testing.T) {
	data := header + "2024-01-01,high,300,500,700,100,1600,30,72,120,80\n"

	_, err := Read(strings.NewReader(data))
	if err == nil {
		t.Fatal("expected error for non-numeric cell")
	}
	if !strings.Contains(err.Error(), "Blood Glucose") {
		t.Errorf("expected column name in error, got %v", err)
	}
}

func TestReadHeaderOnly(t *testing.T) {
	tbl, err := Read(strings.NewReader(header))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if tbl.Len() != 0 {
		t.Errorf("Len = %d, want 0", tbl.Len())
	}
	if !math.IsNaN(tbl.Mean(models.ColumnBreakfast)) {
		t.Error("expected NaN mean for empty table")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "health.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0600); err != nil {
		t.Fatalf("write sample: %v", err)
	}

	tbl, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if tbl.Len() != 3 {
		t.Errorf("Len = %d, want 3", tbl.Len())
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"iso date", "2024-01-31", false},
		{"date and time", "2024-01-31 08:30", false},
		{"date and time with T", "2024-01-31T08:30", false},
		{"RFC3339", "2024-01-31T08:30:00Z", false},
		{"US format", "01/31/2024", false},
		{"slashes", "2024/01/31", false},
		{"padded", "  2024-01-31 ", false},
		{"day first", "31-01-2024", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseDate(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) unexpected error: %v", tt.input, err)
			}
			if got.Year() != 2024 || got.Month() != time.January || got.Day() != 31 {
				t.Errorf("ParseDate(%q) = %v, want 2024-01-31", tt.input, got)
			}
		})
	}
}

func TestRecordsRoundTrip(t *testing.T) {
	tbl, err := Read(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	again, err := FromRecords(tbl.Records())
	if err != nil {
		t.Fatalf("FromRecords failed: %v", err)
	}
	if again.Fingerprint() != tbl.Fingerprint() {
		t.Error("expected identical fingerprint after records round trip")
	}
}

func TestFingerprintChangesWithContent(t *testing.T) {
	a, _ := Read(strings.NewReader(sampleCSV))
	b, _ := Read(strings.NewReader(strings.Replace(sampleCSV, "110", "111", 1)))

	if a.Fingerprint() == b.Fingerprint() {
		t.Error("expected different fingerprints for different content")
	}
	if Empty().Fingerprint() == a.Fingerprint() {
		t.Error("expected empty table fingerprint to differ")
	}
}

func TestSince(t *testing.T) {
	tbl, _ := Read(strings.NewReader(sampleCSV))

	got := tbl.Since(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	if got.Len() != 2 {
		t.Errorf("Since Len = %d, want 2", got.Len())
	}
}

func TestFloatsReturnsCopy(t *testing.T) {
	tbl, _ := Read(strings.NewReader(sampleCSV))

	vals := tbl.Floats(models.ColumnSystolic)
	vals[0] = 0
	if tbl.Floats(models.ColumnSystolic)[0] != 120 {
		t.Error("expected table to be unaffected by caller mutation")
	}
	if tbl.Floats("Weight") != nil {
		t.Error("expected nil for unknown column")
	}
}
