// ABOUTME: CLI command for writing the dashboard as static files.
// ABOUTME: Renders every chart plus an index page into a directory.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/healthboard/internal/publish"
	"github.com/harperreed/healthboard/internal/render"
	"github.com/harperreed/healthboard/internal/server"
)

var (
	renderFormat string
	renderWidth  int
	renderHeight int
)

var renderCmd = &cobra.Command{
	Use:   "render <dir>",
	Short: "Render the dashboard to a directory",
	Long: `Render every chart and the dashboard page into a directory.

The directory gets index.html plus charts/<id>.svg (or .png) for each tab.
Open index.html in a browser to view the dashboard without a server.

FORMATS:

  svg   Scalable vector images (default)
  png   Raster images

EXAMPLES:

  healthboard render ./out                  # SVG charts
  healthboard render ./out --format png     # PNG charts
  healthboard render ./out --width 1600 --height 900`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]

		format, err := render.ParseFormat(renderFormat)
		if err != nil {
			return err
		}

		t, err := loadTable()
		if err != nil {
			return err
		}

		opts := render.DefaultOptions()
		if renderWidth > 0 {
			opts.Width = renderWidth
		}
		if renderHeight > 0 {
			opts.Height = renderHeight
		}

		files, err := publish.Build(server.NewCharts(t, opts), dashboardLayout(), format)
		if err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		if err := publish.WriteDir(dir, files); err != nil {
			return fmt.Errorf("failed to write snapshot: %w", err)
		}

		color.Green("✓ Rendered %d files to %s", len(files), dir)
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "svg", "image format: svg or png")
	renderCmd.Flags().IntVar(&renderWidth, "width", 0, "image width in pixels (default: 1024)")
	renderCmd.Flags().IntVar(&renderHeight, "height", 0, "image height in pixels (default: 520)")
	rootCmd.AddCommand(renderCmd)
}
