// Command connectdemo drives a small connected counter application: it can
// script dispatches and print the rendered HTML, serve the devtools
// inspector, and export state snapshots.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/connect/internal/config"
	cerrors "github.com/vango-dev/connect/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type globalFlags struct {
	dir     string
	verbose bool
}

func main() {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:   "connectdemo",
		Short: "Demo application for store-connected components",
		Long: `connectdemo mounts a counter application whose components are
connected to a reducer store.

Configuration is read from connect.json, connect.yaml or connect.yml in
--dir, then from .env, then from CONNECT_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if flags.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.dir, "dir", "C", ".", "Directory to read configuration from")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		runCmd(&flags),
		inspectCmd(&flags),
		snapshotCmd(&flags),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		cerrors.PrintError(err)
		os.Exit(1)
	}
}

func loadConfig(flags *globalFlags) (*config.Config, error) {
	return config.Resolve(flags.dir)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
