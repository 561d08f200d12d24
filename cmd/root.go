// =============================================================================
// Purchasing Analytics - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every analysis
// command is attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (purchasing)
//   ├── monthlyCmd    (purchasing monthly)
//   ├── trendsCmd     (purchasing trends)
//   ├── searchCmd     (purchasing search)
//   ├── dependencyCmd (purchasing dependency)
//   ├── reportCmd     (purchasing report)
//   ├── validateCmd   (purchasing validate)
//   └── versionCmd    (purchasing version)
//
// CONFIGURATION:
//   Before any subcommand runs, the root command:
//   1. Loads the configuration file (--config), environment overrides and
//      defaults
//   2. Builds the logger (--verbose forces debug level)
//   3. Stores the logger in the command context
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/purchasing-analytics/internal/config"
	"github.com/ginjaninja78/purchasing-analytics/internal/logger"
	"github.com/ginjaninja78/purchasing-analytics/internal/store"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// appConfig is the configuration loaded in PersistentPreRunE.
var appConfig *config.MainConfig

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "purchasing",
	Short: "Purchasing Analytics - analyse municipal purchasing records",
	Long: `Purchasing Analytics reads municipal purchasing datasets (CSV or XLSX) and
derives analytic views from them:

  - Monthly purchase totals with a moving average
  - Suppliers with strongly rising or falling yearly purchases
  - Case-insensitive supplier search
  - Suppliers ranked by how much of their turnover comes from the municipality

Every command recomputes its results from the full dataset.

Example Usage:
  purchasing monthly --years 2018,2019 --window 3
  purchasing trends --rise-size 500000
  purchasing search --query bygg --sort amount
  purchasing report --config ./my.yaml`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == versionCmd.Name() {
			return nil
		}

		cfg, err := config.LoadMainConfig(cfgFile)
		if err != nil {
			return err
		}
		appConfig = cfg

		level := cfg.Logging.Level
		if verbose {
			level = "debug"
		}
		log := logger.New(logger.Config{Level: level, Format: cfg.Logging.Format})
		log.Debug().Str("config", cfgFile).Msg("Configuration loaded")

		cmd.SetContext(logger.WithContext(cmd.Context(), log))
		return nil
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	// Persistent flags are available to this command and all subcommands.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// commandLogger returns the logger stored by PersistentPreRunE.
func commandLogger(cmd *cobra.Command) zerolog.Logger {
	return logger.FromContext(cmd.Context())
}

// loadStore loads the configured datasets.
func loadStore(cmd *cobra.Command) (*store.RecordStore, error) {
	return store.Load(cmd.Context(), appConfig.Datasets, commandLogger(cmd))
}
