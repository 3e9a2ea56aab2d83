// ABOUTME: CLI command for serving the dashboard over HTTP.
// ABOUTME: Loads the table once and serves until interrupted.
package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harperreed/healthboard/internal/cache"
	"github.com/harperreed/healthboard/internal/metrics"
	"github.com/harperreed/healthboard/internal/render"
	"github.com/harperreed/healthboard/internal/server"
)

var (
	serveListen   string
	serveCache    bool
	serveCacheDir string
	serveClear    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard",
	Long: `Serve the health dashboard over HTTP.

The data file is read once at startup. Restart the server to pick up changes.

ENDPOINTS:

  /                      Dashboard page with four tabs
  /charts/<id>.svg       Chart image (also .png)
  /api/figures           Chart IDs and tab labels
  /api/figures/<id>      Chart description as JSON
  /api/summary           Aggregate summary as JSON
  /healthz               Liveness check
  /metrics               Prometheus metrics

CACHING:

  With --cache, rendered images are kept in an on-disk cache keyed by the
  data file's contents and image size, so restarts on unchanged data skip
  rendering. --clear-cache empties the cache first.

EXAMPLES:

  healthboard serve                        # Listen on :8050
  healthboard serve --listen 127.0.0.1:9000
  healthboard serve --cache                # Cache renders in ~/.cache/healthboard
  healthboard serve --clear-cache          # Start from an empty cache`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable()
		if err != nil {
			return err
		}

		recorder := metrics.New()
		charts := server.NewCharts(t, render.DefaultOptions())
		charts.Metrics = recorder

		if serveCache || serveClear {
			c, err := openRenderCache()
			if err != nil {
				return err
			}
			defer c.Close()
			charts.Cache = c
		}

		addr := serveListen
		if addr == "" {
			addr = cfg.GetListen()
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv := server.New(charts, dashboardLayout(), recorder, logger)
		return server.Run(ctx, addr, srv, logger, nil)
	},
}

// openRenderCache opens the on-disk render cache, emptying it first when
// --clear-cache is set.
func openRenderCache() (*cache.Cache, error) {
	dir := serveCacheDir
	if dir == "" {
		dir = cfg.GetCacheDir()
	}
	c, err := cache.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open render cache: %w", err)
	}
	if serveClear {
		if err := c.Clear(); err != nil {
			_ = c.Close()
			return nil, err
		}
		logger.Info("render cache cleared", "dir", dir)
	}
	logger.Debug("render cache enabled", "dir", dir)
	return c, nil
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address (default: :8050)")
	serveCmd.Flags().BoolVar(&serveCache, "cache", false, "cache rendered charts on disk")
	serveCmd.Flags().StringVar(&serveCacheDir, "cache-dir", "", "render cache directory (default: ~/.cache/healthboard)")
	serveCmd.Flags().BoolVar(&serveClear, "clear-cache", false, "empty the render cache before serving (implies --cache)")
	rootCmd.AddCommand(serveCmd)
}
