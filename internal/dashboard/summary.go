// ABOUTME: Aggregate summary of the table shown by the CLI, API, and MCP server.
// ABOUTME: Missing aggregates are nil so the summary always encodes as JSON.
package dashboard

import (
	"math"
	"time"

	"github.com/harperreed/healthboard/internal/models"
	"github.com/harperreed/healthboard/internal/table"
)

// MealAverage is the mean calories of one meal column.
type MealAverage struct {
	Meal    string   `json:"meal" yaml:"meal"`
	Average *float64 `json:"average" yaml:"average"`
}

// Summary condenses the table into a handful of headline numbers.
type Summary struct {
	Days          int           `json:"days" yaml:"days"`
	From          *time.Time    `json:"from,omitempty" yaml:"from,omitempty"`
	To            *time.Time    `json:"to,omitempty" yaml:"to,omitempty"`
	MealAverages  []MealAverage `json:"meal_averages" yaml:"meal_averages"`
	GlucoseMean   *float64      `json:"glucose_mean" yaml:"glucose_mean"`
	GlucoseMin    *float64      `json:"glucose_min" yaml:"glucose_min"`
	GlucoseMax    *float64      `json:"glucose_max" yaml:"glucose_max"`
	CalorieLimit  float64       `json:"calorie_limit" yaml:"calorie_limit"`
	DaysOverLimit int           `json:"days_over_limit" yaml:"days_over_limit"`
}

// Summarize computes the summary of a table.
func Summarize(t *table.Table) Summary {
	s := Summary{
		Days:         t.Len(),
		CalorieLimit: CalorieLimit,
	}

	dates := t.Dates()
	for i := range dates {
		d := dates[i]
		if s.From == nil || d.Before(*s.From) {
			s.From = &d
		}
		if s.To == nil || d.After(*s.To) {
			s.To = &d
		}
	}

	for _, meal := range models.MealColumns {
		s.MealAverages = append(s.MealAverages, MealAverage{
			Meal:    string(meal),
			Average: finite(t.Mean(meal)),
		})
	}

	s.GlucoseMean = finite(t.Mean(models.ColumnBloodGlucose))
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range t.Floats(models.ColumnBloodGlucose) {
		if math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	s.GlucoseMin = finite(lo)
	s.GlucoseMax = finite(hi)

	for _, v := range t.Floats(models.ColumnTotalCalories) {
		if v > CalorieLimit {
			s.DaysOverLimit++
		}
	}

	return s
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
