// =============================================================================
// Zoho to Tally Converter - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which checks the configuration
// file and the mapping workbook without converting anything. Useful after
// editing the workbook and before a long run.
//
// COMMAND USAGE:
//   tallybridge validate
//   tallybridge validate --config ./my.yaml
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tallybridge/tallybridge/internal/mapping"
)

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration and mapping workbook without converting",
	Long: `Load and validate the configuration file, then load the mapping
workbook and check it for structural problems (missing sheets, duplicate
source names, unparseable opening balances). Nothing is converted.`,
	RunE: runValidate,
}

// runValidate executes the validation checks.
func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("Configuration %s is valid.\n", cfgFile)
	fmt.Printf("  Resolution mode: %s\n", cfg.ResolutionMode)
	fmt.Printf("  Balance policy:  %s (tolerance %s)\n",
		cfg.BalancePolicy, cfg.Tolerance().StringFixed(2))

	if _, err := os.Stat(cfg.MappingsFile); os.IsNotExist(err) {
		return fmt.Errorf("mapping workbook not found: %s", cfg.MappingsFile)
	}

	maps, err := mapping.Load(cfg.MappingsFile, cfg.ResolutionMode, cfg.DefaultLedger)
	if err != nil {
		return fmt.Errorf("mapping workbook invalid: %w", err)
	}

	fmt.Printf("Mapping workbook %s is valid.\n", cfg.MappingsFile)
	fmt.Printf("  Ledger mappings: %d\n", maps.LedgerCount())
	fmt.Printf("  Party mappings:  %d\n", maps.PartyCount())

	if custom := maps.CustomParentGroups(); len(custom) > 0 {
		fmt.Printf("  Custom parent groups (GROUP units will be created): %s\n",
			strings.Join(custom, ", "))
	}

	return nil
}

// init registers the validate command with the root command.
func init() {
	rootCmd.AddCommand(validateCmd)
}
