// ABOUTME: CLI command for printing headline numbers from the health log.
// ABOUTME: Shows meal averages, the glucose range, and days over the calorie limit.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/healthboard/internal/dashboard"
	"github.com/harperreed/healthboard/internal/models"
)

var summaryJSON bool

var summaryCmd = &cobra.Command{
	Use:     "summary",
	Aliases: []string{"sum"},
	Short:   "Print a summary of the health log",
	Long: `Print the numbers behind the dashboard.

OUTPUT:

  Days covered and the date range
  Average calories for each meal
  Blood glucose mean, minimum, and maximum
  Days above the 1500 kcal limit

Missing values are shown as "-".

EXAMPLES:

  healthboard summary           # Human-readable
  healthboard summary --json    # Machine-readable`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable()
		if err != nil {
			return err
		}

		s := dashboard.Summarize(t)
		out := cmd.OutOrStdout()
		if summaryJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(s)
		}

		printSummary(out, s)
		return nil
	},
}

func printSummary(w io.Writer, s dashboard.Summary) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	if s.Days == 0 {
		fmt.Fprintln(w, "No records found.")
		return
	}

	_, _ = bold.Fprintf(w, "%d days", s.Days)
	if s.From != nil && s.To != nil {
		fmt.Fprintf(w, " (%s to %s)", s.From.Format("2006-01-02"), s.To.Format("2006-01-02"))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w)

	_, _ = bold.Fprintln(w, "Average calories by meal")
	for _, m := range s.MealAverages {
		fmt.Fprintf(w, "  %s %s\n", padRight(m.Meal, 20), formatValue(m.Average, models.ColumnUnits[models.Column(m.Meal)], faint))
	}
	fmt.Fprintln(w)

	glucoseUnit := models.ColumnUnits[models.ColumnBloodGlucose]
	_, _ = bold.Fprintln(w, "Blood glucose")
	fmt.Fprintf(w, "  %s %s\n", padRight("mean", 20), formatValue(s.GlucoseMean, glucoseUnit, faint))
	fmt.Fprintf(w, "  %s %s\n", padRight("min", 20), formatValue(s.GlucoseMin, glucoseUnit, faint))
	fmt.Fprintf(w, "  %s %s\n", padRight("max", 20), formatValue(s.GlucoseMax, glucoseUnit, faint))
	fmt.Fprintln(w)

	over := fmt.Sprintf("%d of %d days over %.0f kcal", s.DaysOverLimit, s.Days, s.CalorieLimit)
	if s.DaysOverLimit > 0 {
		_, _ = color.New(color.FgYellow).Fprintln(w, over)
	} else {
		_, _ = color.New(color.FgGreen).Fprintln(w, over)
	}
}

func formatValue(v *float64, unit string, faint *color.Color) string {
	if v == nil {
		return faint.Sprint("-")
	}
	return fmt.Sprintf("%.1f %s", *v, unit)
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func init() {
	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false, "print as JSON")
	rootCmd.AddCommand(summaryCmd)
}
