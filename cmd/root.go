// =============================================================================
// Zoho to Tally Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all pipeline commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (tallybridge)
//   ├── extractCmd  (tallybridge extract)
//   ├── cleanCmd    (tallybridge clean)
//   ├── generateCmd (tallybridge generate)
//   ├── validateCmd (tallybridge validate)
//   └── versionCmd  (tallybridge version)
//
// EXIT CODES:
//   0 - the command completed cleanly
//   1 - the command failed
//   2 - the command completed but recorded warnings worth reviewing
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tallybridge/tallybridge/internal/config"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use: "tallybridge",

	Short: "Zoho to Tally Converter - Migrate Zoho Books exports into Tally ERP",

	Long: `Zoho to Tally Converter is a CLI tool that migrates a Zoho Books
backup into Tally ERP import documents through a three-stage pipeline.

Pipeline Stages:
  extract   - Unpack the Zoho backup archive and verify the CSV exports
  clean     - Normalize the exports and resolve names via the mapping workbook
  generate  - Emit Tally XML import documents (masters and vouchers)

Every stage reads its input from and writes its output to the directories in
the configuration file, so stages can be re-run independently after fixing
the mapping workbook.

Example Usage:
  tallybridge extract                     # Unpack the configured backup ZIP
  tallybridge clean                       # Build the normalized tables
  tallybridge generate                    # Emit the Tally XML documents
  tallybridge validate --config my.yaml   # Check config and workbook only`,

	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, print the help message.
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// SHARED SETUP
// =============================================================================

// loadConfig reads the configuration file named by --config.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// newLogger builds the run logger from the configuration. The --verbose
// flag forces debug level regardless of the configured level.
func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	if verbose {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)

	return log
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init sets up the global flags shared by all subcommands.
func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file (default is config.yaml)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}
