// =============================================================================
// Zoho to Tally Converter - Clean Command
// =============================================================================
//
// This file defines the 'clean' command: stage two of the pipeline. It
// normalizes the extracted Zoho exports, resolves every account and party
// name through the mapping workbook, and writes the normalized tables the
// generation stage consumes.
//
// COMMAND USAGE:
//   tallybridge clean
//   tallybridge clean --config ./my.yaml
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tallybridge/tallybridge/internal/cleaner"
	"github.com/tallybridge/tallybridge/internal/mapping"
	"github.com/tallybridge/tallybridge/internal/types"
)

// cleanCmd represents the 'clean' command.
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Normalize the exports and resolve names via the mapping workbook",
	Long: `Read the extracted Zoho CSV exports, normalize dates, amounts and
identifiers, resolve every source account and party name through the mapping
workbook, and write the normalized tables into the processed directory.

In strict resolution mode the command fails with the complete list of names
missing from the workbook, so it can be fixed in one editing pass. In lenient
mode missing names fall back to the configured default ledger.`,
	RunE: runClean,
}

// runClean executes the cleaning stage.
func runClean(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	c, err := cleaner.New(cfg, log)
	if err != nil {
		return err
	}

	summary, err := c.Run()
	if err != nil {
		var missing *mapping.MissingMappingError
		if errors.As(err, &missing) {
			fmt.Println("The mapping workbook is missing entries for:")
			for _, name := range missing.Names {
				fmt.Printf("  - %s\n", name)
			}
			fmt.Printf("Add them to %s and re-run.\n", cfg.MappingsFile)
		}
		return err
	}

	fmt.Printf("Normalized tables written to %s\n", cfg.ProcessedDir)
	fmt.Printf("  Ledgers: %d\n", summary.Ledgers)
	fmt.Printf("  Parties: %d\n", summary.Parties)
	for _, cat := range types.AllCategories {
		if n, ok := summary.Vouchers[cat]; ok {
			fmt.Printf("  %s vouchers: %d\n", cat, n)
		}
	}

	return nil
}

// init registers the clean command with the root command.
func init() {
	rootCmd.AddCommand(cleanCmd)
}
