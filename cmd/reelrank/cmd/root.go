// Package cmd provides the CLI commands for ReelRank.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/reelrank/reelrank/internal/config"
	"github.com/reelrank/reelrank/internal/logging"
	"github.com/reelrank/reelrank/pkg/version"
)

var (
	flagDataset    string
	flagConfigFile string
	debugMode      bool

	loggingCleanup func()
)

// NewRootCmd creates the root command for the reelrank CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reelrank",
		Short: "Content-based movie recommendations with typo-tolerant search",
		Long: `ReelRank recommends movies by content similarity over a local dataset.

It builds a term-weighted semantic index from each movie's genres, cast,
companies, director and overview, corrects misspelled titles and entity
names with fuzzy matching, and supports entity-filtered search.

Point it at a dataset with --dataset (or a .reelrank.yaml config) and
run 'reelrank search "space adventure"'.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.SetVersionTemplate("reelrank version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&flagDataset, "dataset", "", "Movie dataset CSV path (overrides config)")
	cmd.PersistentFlags().StringVar(&flagConfigFile, "config", "", "Config file path (default .reelrank.yaml in the working directory)")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.reelrank/logs/")

	cmd.PersistentPreRunE = startLogging
	cmd.PersistentPostRun = stopLogging

	cmd.AddCommand(newIndexCmd())
	cmd.AddCommand(newRecommendCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newSmartCmd())
	cmd.AddCommand(newPredictCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// startLogging routes structured logs to the log file. Stderr mirroring
// stays off so command output is the only thing the user sees.
func startLogging(_ *cobra.Command, _ []string) error {
	logCfg := logging.DefaultConfig()
	logCfg.WriteToStderr = false
	if debugMode {
		logCfg.Level = "debug"
	}

	logger, cleanup, err := logging.Setup(logCfg)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	loggingCleanup = cleanup
	slog.SetDefault(logger)

	if debugMode {
		slog.Debug("debug logging enabled",
			slog.String("log_file", logging.DefaultLogPath()),
			slog.String("version", version.Version))
	}
	return nil
}

func stopLogging(_ *cobra.Command, _ []string) {
	if loggingCleanup != nil {
		loggingCleanup()
		loggingCleanup = nil
	}
}

// loadConfig builds the effective configuration from the config file,
// environment and command-line flags.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if flagConfigFile != "" {
		cfg, err = config.LoadFile(flagConfigFile)
	} else {
		cfg, err = config.Load(".")
	}
	if err != nil {
		return nil, err
	}

	if flagDataset != "" {
		cfg.Dataset.Path = flagDataset
	}
	return cfg, nil
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
