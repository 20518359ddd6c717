package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	combinationsPath string
	verbose          bool
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bracketctl",
		Short: "Inspect the World Cup bracket data offline",
		Long: `A command-line companion to the bracket server for checking the
combinations table and previewing round-of-32 fixtures.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&combinationsPath, "file", "static/group_combinations.csv", "Path to the third-place combinations table")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log unresolved slots and skipped rows")

	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newRound32Cmd())
	return rootCmd
}

// newLogger routes slog through charmbracelet/log so the core packages can keep
// their plain Debug/Warn port
func newLogger() *slog.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	handler := log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "bracketctl",
	})
	return slog.New(handler)
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "bracketctl: %s\n", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
