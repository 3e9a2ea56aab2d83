// ABOUTME: The four chart producers of the dashboard.
// ABOUTME: Each is a pure function of the loaded table to a Figure.
package dashboard

import (
	"github.com/harperreed/healthboard/internal/models"
	"github.com/harperreed/healthboard/internal/table"
)

// CalorieLimit is the recommended daily intake drawn on the daily total chart, in kcal.
const CalorieLimit = 1500

// Chart IDs, also used as URL path segments and tab anchors.
const (
	GlucoseTrendID       = "glucose-trend"
	CalorieIntakeID      = "calorie-intake"
	HealthMetricsID      = "health-metrics"
	DailyCalorieIntakeID = "daily-calorie-intake"
)

// Producer builds a figure from the full table.
type Producer func(t *table.Table) Figure

// Chart binds a producer to its tab.
type Chart struct {
	ID    string
	Label string
	Build Producer
}

// Charts lists every chart in tab order.
var Charts = []Chart{
	{ID: GlucoseTrendID, Label: "Blood Glucose Trend", Build: GlucoseTrend},
	{ID: CalorieIntakeID, Label: "Caloric Intake by Meal", Build: CalorieIntake},
	{ID: HealthMetricsID, Label: "Exercise and Health Metrics", Build: HealthMetrics},
	{ID: DailyCalorieIntakeID, Label: "Daily Calorie Intake", Build: DailyCalorieIntake},
}

// Lookup finds a chart by ID.
func Lookup(id string) (Chart, bool) {
	for _, c := range Charts {
		if c.ID == id {
			return c, true
		}
	}
	return Chart{}, false
}

// BuildAll builds every figure in tab order.
func BuildAll(t *table.Table) []Figure {
	figs := make([]Figure, 0, len(Charts))
	for _, c := range Charts {
		figs = append(figs, c.Build(t))
	}
	return figs
}

func defaultStyle() Style {
	return Style{
		FontSize:      14,
		FontColor:     DefaultColors.Text,
		TitleFontSize: 20,
		Background:    "#ffffff",
	}
}

// GlucoseTrend plots blood glucose over time as a line.
func GlucoseTrend(t *table.Table) Figure {
	return Figure{
		ID:     GlucoseTrendID,
		Title:  "Blood Glucose Trend Over Time",
		XLabel: string(models.ColumnDate),
		YLabel: models.Label(models.ColumnBloodGlucose),
		Traces: []Trace{{
			Kind:      KindLine,
			Name:      string(models.ColumnBloodGlucose),
			XColumn:   string(models.ColumnDate),
			YColumn:   string(models.ColumnBloodGlucose),
			Dates:     t.Dates(),
			Y:         t.Floats(models.ColumnBloodGlucose),
			LineColor: DefaultColors.Primary,
			LineWidth: 3,
		}},
		Style: defaultStyle(),
	}
}

// CalorieIntake plots the average calories of each meal as bars.
func CalorieIntake(t *table.Table) Figure {
	categories := make([]string, 0, len(models.MealColumns))
	averages := make(Series, 0, len(models.MealColumns))
	for _, meal := range models.MealColumns {
		categories = append(categories, string(meal))
		averages = append(averages, t.Mean(meal))
	}

	return Figure{
		ID:     CalorieIntakeID,
		Title:  "Average Caloric Intake by Meal Type",
		XLabel: "Meal Type",
		YLabel: "Average Calories",
		Traces: []Trace{{
			Kind:        KindBar,
			Name:        "Average Calories",
			XColumn:     "Meal Type",
			YColumn:     "Average Calories",
			Categories:  categories,
			Y:           averages,
			MarkerColor: DefaultColors.Primary,
		}},
		Style: defaultStyle(),
	}
}

// HealthMetrics plots heart rate against exercise minutes, sized by systolic
// and coloured by diastolic pressure.
func HealthMetrics(t *table.Table) Figure {
	return Figure{
		ID:     HealthMetricsID,
		Title:  "Exercise and Health Metrics",
		XLabel: string(models.ColumnExercise),
		YLabel: models.Label(models.ColumnHeartRate),
		Traces: []Trace{{
			Kind:        KindScatter,
			Name:        string(models.ColumnHeartRate),
			XColumn:     string(models.ColumnExercise),
			YColumn:     string(models.ColumnHeartRate),
			X:           t.Floats(models.ColumnExercise),
			Y:           t.Floats(models.ColumnHeartRate),
			SizeColumn:  string(models.ColumnSystolic),
			Size:        t.Floats(models.ColumnSystolic),
			ColorColumn: string(models.ColumnDiastolic),
			Color:       t.Floats(models.ColumnDiastolic),
		}},
		Style: defaultStyle(),
	}
}

// DailyCalorieIntake plots total calories per day as bars against the
// recommended limit.
func DailyCalorieIntake(t *table.Table) Figure {
	return Figure{
		ID:     DailyCalorieIntakeID,
		Title:  "Total Daily Calorie Intake vs Threshold",
		XLabel: string(models.ColumnDate),
		YLabel: "Calories (" + models.ColumnUnits[models.ColumnTotalCalories] + ")",
		Traces: []Trace{{
			Kind:        KindBar,
			Name:        string(models.ColumnTotalCalories),
			XColumn:     string(models.ColumnDate),
			YColumn:     string(models.ColumnTotalCalories),
			Dates:       t.Dates(),
			Y:           t.Floats(models.ColumnTotalCalories),
			MarkerColor: DefaultColors.Primary,
		}},
		RefLines: []RefLine{{
			Y:                  CalorieLimit,
			Dash:               "dash",
			Color:              "red",
			Annotation:         "1500 kcal Limit",
			AnnotationPosition: "bottom left",
		}},
		Style: defaultStyle(),
	}
}
