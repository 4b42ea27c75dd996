// Package cmd defines and implements the CLI commands for the seogen
// executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seogen",
		Short: "SEO snapshot generator for BilikMatch listings and tenant profiles.",
		Long: `seogen maintains a crawlable static snapshot of listings and tenant
profiles in a public storage bucket. It consumes entity-change
notifications in the steady state and exposes on-demand endpoints for
full regeneration and sitemap rebuilds.`,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	cmd.AddCommand(newServeCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
