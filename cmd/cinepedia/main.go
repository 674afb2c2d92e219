package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runner carries the global flags and builds a fresh app per command
type runner struct {
	configFile  string
	metricsAddr string
}

// with wraps a command body so the app is always closed, even on error
func (r *runner) with(fn func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(r.configFile, r.metricsAddr)
		if err != nil {
			return err
		}
		runErr := fn(cmd, args, a)
		return errors.Join(runErr, a.Close())
	}
}

// NewRootCmd constructs the root CLI command
func NewRootCmd() *cobra.Command {
	r := &runner{}

	rootCmd := &cobra.Command{
		Use:           "cinepedia",
		Short:         "Movie gallery backed by the OMDb API",
		Long:          "cinepedia keeps a local movie catalog fed from OMDb.\nRun without arguments for the interactive gallery.",
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: r.with(func(cmd *cobra.Command, args []string, a *app) error {
			return a.runInteractive(cmd.Context(), cmd.OutOrStdout())
		}),
	}

	rootCmd.PersistentFlags().StringVarP(&r.configFile, "config", "c", "", "config file (default: $XDG_CONFIG_HOME/cinepedia/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&r.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")

	rootCmd.AddCommand(
		newFetchCmd(r),
		newSearchCmd(r),
		newLookupCmd(r),
		newListCmd(r),
		newDeleteCmd(r),
		newEditCmd(r),
		newWatchlistCmd(r),
		newWatchCmd(r),
		newProfileCmd(r),
		newThemeCmd(r),
		newMaintenanceCmd(r),
		newAnnounceCmd(r),
		newResetCmd(r),
		newConfigCmd(r),
	)

	return rootCmd
}
