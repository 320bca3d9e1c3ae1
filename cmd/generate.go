// =============================================================================
// Zoho to Tally Converter - Generate Command
// =============================================================================
//
// This file defines the 'generate' command: stage three of the pipeline. It
// reads the normalized tables and emits the Tally XML import documents plus
// the consolidated run report.
//
// COMMAND USAGE:
//   tallybridge generate
//   tallybridge generate --config ./my.yaml
//
// EXIT CODES:
//   0 - every document generated cleanly
//   1 - at least one document failed to generate
//   2 - all documents generated but warnings were recorded
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tallybridge/tallybridge/internal/generator"
)

// generateCmd represents the 'generate' command.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Emit the Tally XML import documents",
	Long: `Read the normalized tables from the processed directory and emit
the Tally import documents into the output directory: ledger masters, party
masters, and one voucher document per category, in import order.

Every voucher is balance-checked before it is emitted. An out-of-balance
voucher is skipped or adjusted with a round-off entry, per balance_policy.
A failure inside one category aborts only that category's document. The
consolidated run report in the output directory lists every warning and
failure from the pass.`,
	RunE: runGenerate,
}

// runGenerate executes the generation stage.
func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	result, err := generator.New(cfg, log).Run()
	if err != nil {
		return err
	}

	fmt.Printf("Generated %d documents in %s (import in this order):\n",
		len(result.Files), cfg.OutputDir)
	for _, f := range result.Files {
		fmt.Printf("  %s\n", f)
	}
	fmt.Printf("Run report: %s\n", result.ReportPath)

	if len(result.Failures) > 0 {
		return fmt.Errorf("%d document(s) failed to generate, see %s",
			len(result.Failures), result.ReportPath)
	}
	if len(result.Warnings) > 0 {
		fmt.Printf("Completed with %d warning(s), see %s\n",
			len(result.Warnings), result.ReportPath)
		os.Exit(2)
	}

	return nil
}

// init registers the generate command with the root command.
func init() {
	rootCmd.AddCommand(generateCmd)
}
