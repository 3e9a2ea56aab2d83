// ABOUTME: CLI command for uploading a dashboard snapshot to S3.
// ABOUTME: Each run lands under a fresh prefix inside the bucket.
package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/healthboard/internal/publish"
	"github.com/harperreed/healthboard/internal/render"
	"github.com/harperreed/healthboard/internal/server"
)

var (
	publishBucket    string
	publishPrefix    string
	publishRegion    string
	publishEndpoint  string
	publishPathStyle bool
	publishFormat    string
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Upload a dashboard snapshot to S3",
	Long: `Render the dashboard and upload it to an S3-compatible bucket.

Every publish writes index.html and the chart images under
<prefix>/<snapshot id>/, so older snapshots are never overwritten.

CREDENTIALS:

  The standard AWS credential chain is used: AWS_ACCESS_KEY_ID and
  AWS_SECRET_ACCESS_KEY, ~/.aws/credentials, or an instance role.

EXAMPLES:

  healthboard publish --bucket my-health
  healthboard publish --bucket my-health --prefix dashboards
  healthboard publish --bucket local --endpoint http://localhost:9000 --path-style`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := render.ParseFormat(publishFormat)
		if err != nil {
			return err
		}

		t, err := loadTable()
		if err != nil {
			return err
		}

		files, err := publish.Build(server.NewCharts(t, render.DefaultOptions()), dashboardLayout(), format)
		if err != nil {
			return fmt.Errorf("render failed: %w", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		pub, err := publish.New(ctx, publish.Config{
			Bucket:    publishBucket,
			Prefix:    publishPrefix,
			Region:    publishRegion,
			Endpoint:  publishEndpoint,
			PathStyle: publishPathStyle,
		}, logger)
		if err != nil {
			return err
		}

		snap, err := pub.Publish(ctx, files)
		if err != nil {
			return fmt.Errorf("publish failed: %w", err)
		}

		color.Green("✓ Published %d files to s3://%s/%s", len(snap.Keys), publishBucket, snap.IndexKey())
		return nil
	},
}

func init() {
	publishCmd.Flags().StringVar(&publishBucket, "bucket", "", "S3 bucket (required)")
	publishCmd.Flags().StringVar(&publishPrefix, "prefix", "healthboard", "key prefix for snapshots")
	publishCmd.Flags().StringVar(&publishRegion, "region", "", "AWS region (default: us-east-1)")
	publishCmd.Flags().StringVar(&publishEndpoint, "endpoint", "", "custom S3 endpoint, e.g. MinIO")
	publishCmd.Flags().BoolVar(&publishPathStyle, "path-style", false, "use path-style bucket addressing")
	publishCmd.Flags().StringVarP(&publishFormat, "format", "f", "svg", "image format: svg or png")
	_ = publishCmd.MarkFlagRequired("bucket")
	rootCmd.AddCommand(publishCmd)
}
