// ABOUTME: CLI command for printing the build version.
// ABOUTME: The version is set at build time with -ldflags.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is overridden with -ldflags "-X main.version=...".
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "healthboard %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
