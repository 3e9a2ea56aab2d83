// ABOUTME: Root Cobra command for healthboard CLI.
// ABOUTME: Loads config, applies flag overrides, and builds the logger before each command.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/harperreed/healthboard/internal/config"
	"github.com/harperreed/healthboard/internal/dashboard"
	"github.com/harperreed/healthboard/internal/logging"
	"github.com/harperreed/healthboard/internal/table"
)

var (
	dataFlag      string
	backendFlag   string
	logLevelFlag  string
	logFormatFlag string

	cfg    *config.Config
	logger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "healthboard",
	Short: "Personal health dashboard",
	Long: `Healthboard charts a daily health log kept as a CSV file.

WHAT IT SHOWS:

  Blood Glucose Trend          glucose over time as a line
  Caloric Intake by Meal       average breakfast, lunch, dinner, and dessert calories
  Exercise and Health Metrics  heart rate against exercise, sized by systolic and
                               coloured by diastolic pressure
  Daily Calorie Intake         total calories per day against a 1500 kcal limit

QUICK START:

  $ healthboard serve                       # Open http://localhost:8050
  $ healthboard summary                     # Print the headline numbers
  $ healthboard render ./out                # Write every chart as SVG
  $ healthboard --data ~/log.csv serve      # Use another CSV file

DATA FILE:

  The CSV needs these columns:

    Date, Blood Glucose, Breakfast Calories, Lunch Calories, Dinner Calories,
    Desert Calories, Total Calories, Exercise (minutes), Heart Rate,
    Systolic, Diastolic

  Empty cells are allowed and show as gaps. By default the file is read from
  ~/.local/share/health/health.csv.

STORAGE BACKENDS:

  csv      Read the CSV file directly (default)
  sqlite   Read records imported with 'healthboard import'

CONFIGURATION:

  Settings live in ~/.config/healthboard/config.json. Flags override them.

MCP INTEGRATION:

  Run 'healthboard mcp' to expose the charts and aggregates to AI assistants
  over the Model Context Protocol.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if dataFlag != "" {
			c.DataFile = dataFlag
		}
		if backendFlag != "" {
			c.Backend = backendFlag
		}
		if logLevelFlag != "" {
			c.LogLevel = logLevelFlag
		}
		if logFormatFlag != "" {
			c.LogFormat = logFormatFlag
		}

		l, err := logging.New(os.Stderr, c.GetLogLevel(), c.GetLogFormat())
		if err != nil {
			return err
		}

		cfg, logger = c, l
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadTable reads the table from the configured backend.
func loadTable() (*table.Table, error) {
	src, err := cfg.OpenSource()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s backend: %w", cfg.GetBackend(), err)
	}
	defer src.Close()

	t, err := src.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load health data: %w", err)
	}
	logger.Debug("table loaded", "backend", cfg.GetBackend(), "rows", t.Len())
	return t, nil
}

func dashboardLayout() dashboard.Layout {
	return dashboard.NewLayout(cfg.Owner)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataFlag, "data", "", "CSV file to read (default: ~/.local/share/health/health.csv)")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "storage backend: csv or sqlite")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "", "log format: text, json, logfmt")
}
