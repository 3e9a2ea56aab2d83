// ABOUTME: DailyRecord model and Column enum for dashboard health data.
// ABOUTME: Column names match the CSV headers of the daily health log.
package models

import (
	"math"
	"time"
)

// Column identifies a field of the daily health log by its CSV header.
type Column string

const (
	ColumnDate Column = "Date"

	// Biometrics
	ColumnBloodGlucose Column = "Blood Glucose"
	ColumnHeartRate    Column = "Heart Rate"
	ColumnSystolic     Column = "Systolic"
	ColumnDiastolic    Column = "Diastolic"

	// Nutrition
	ColumnBreakfast     Column = "Breakfast Calories"
	ColumnLunch         Column = "Lunch Calories"
	ColumnDinner        Column = "Dinner Calories"
	ColumnDessert       Column = "Desert Calories" // header spelling used by existing data files
	ColumnTotalCalories Column = "Total Calories"

	// Activity
	ColumnExercise Column = "Exercise (minutes)"
)

// ColumnUnits maps numeric columns to their display units.
var ColumnUnits = map[Column]string{
	ColumnBloodGlucose:  "mg/dL",
	ColumnHeartRate:     "bpm",
	ColumnSystolic:      "mmHg",
	ColumnDiastolic:     "mmHg",
	ColumnBreakfast:     "kcal",
	ColumnLunch:         "kcal",
	ColumnDinner:        "kcal",
	ColumnDessert:       "kcal",
	ColumnTotalCalories: "kcal",
	ColumnExercise:      "min",
}

// NumericColumns lists every numeric column in header order.
var NumericColumns = []Column{
	ColumnBloodGlucose,
	ColumnBreakfast, ColumnLunch, ColumnDinner, ColumnDessert,
	ColumnTotalCalories,
	ColumnExercise, ColumnHeartRate,
	ColumnSystolic, ColumnDiastolic,
}

// MealColumns lists the per-meal calorie columns in display order.
var MealColumns = []Column{
	ColumnBreakfast, ColumnLunch, ColumnDinner, ColumnDessert,
}

// Label returns the column name with its unit, as used on chart axes.
func Label(c Column) string {
	if unit, ok := ColumnUnits[c]; ok {
		return string(c) + " (" + unit + ")"
	}
	return string(c)
}

// DailyRecord is one row of the daily health log.
// Missing measurements are stored as NaN.
type DailyRecord struct {
	Date              time.Time `json:"date" yaml:"date"`
	BloodGlucose      float64   `json:"blood_glucose" yaml:"blood_glucose"`
	BreakfastCalories float64   `json:"breakfast_calories" yaml:"breakfast_calories"`
	LunchCalories     float64   `json:"lunch_calories" yaml:"lunch_calories"`
	DinnerCalories    float64   `json:"dinner_calories" yaml:"dinner_calories"`
	DessertCalories   float64   `json:"dessert_calories" yaml:"dessert_calories"`
	TotalCalories     float64   `json:"total_calories" yaml:"total_calories"`
	ExerciseMinutes   float64   `json:"exercise_minutes" yaml:"exercise_minutes"`
	HeartRate         float64   `json:"heart_rate" yaml:"heart_rate"`
	Systolic          float64   `json:"systolic" yaml:"systolic"`
	Diastolic         float64   `json:"diastolic" yaml:"diastolic"`
}

// NewDailyRecord returns a record for the given date with every measurement missing.
func NewDailyRecord(date time.Time) DailyRecord {
	r := DailyRecord{Date: date}
	for _, c := range NumericColumns {
		r.Set(c, math.NaN())
	}
	return r
}

// Value returns the value of a numeric column. Unknown columns yield NaN.
func (r DailyRecord) Value(c Column) float64 {
	switch c {
	case ColumnBloodGlucose:
		return r.BloodGlucose
	case ColumnBreakfast:
		return r.BreakfastCalories
	case ColumnLunch:
		return r.LunchCalories
	case ColumnDinner:
		return r.DinnerCalories
	case ColumnDessert:
		return r.DessertCalories
	case ColumnTotalCalories:
		return r.TotalCalories
	case ColumnExercise:
		return r.ExerciseMinutes
	case ColumnHeartRate:
		return r.HeartRate
	case ColumnSystolic:
		return r.Systolic
	case ColumnDiastolic:
		return r.Diastolic
	}
	return math.NaN()
}

// Set assigns the value of a numeric column. Unknown columns are ignored.
func (r *DailyRecord) Set(c Column, v float64) {
	switch c {
	case ColumnBloodGlucose:
		r.BloodGlucose = v
	case ColumnBreakfast:
		r.BreakfastCalories = v
	case ColumnLunch:
		r.LunchCalories = v
	case ColumnDinner:
		r.DinnerCalories = v
	case ColumnDessert:
		r.DessertCalories = v
	case ColumnTotalCalories:
		r.TotalCalories = v
	case ColumnExercise:
		r.ExerciseMinutes = v
	case ColumnHeartRate:
		r.HeartRate = v
	case ColumnSystolic:
		r.Systolic = v
	case ColumnDiastolic:
		r.Diastolic = v
	}
}
