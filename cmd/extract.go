// =============================================================================
// Zoho to Tally Converter - Extract Command
// =============================================================================
//
// This file defines the 'extract' command: stage one of the pipeline. It
// unpacks the configured Zoho backup archive into the extracted directory
// and reports which expected exports are present.
//
// COMMAND USAGE:
//   tallybridge extract
//   tallybridge extract --config ./my.yaml
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tallybridge/tallybridge/internal/extractor"
)

// extractCmd represents the 'extract' command.
var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Unpack the Zoho backup archive and verify the CSV exports",
	Long: `Unpack the Zoho Books backup ZIP named by backup_zip in the
configuration file into the extracted directory, then verify which of the
expected CSV exports it contains.

Missing exports are reported as warnings; the later stages skip the
corresponding voucher categories. The command exits with code 2 when any
expected export is missing so scripted runs can notice.`,
	RunE: runExtract,
}

// runExtract executes the extraction stage.
func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	if cfg.BackupZip == "" {
		return fmt.Errorf("backup_zip is not set in %s", cfgFile)
	}

	summary, err := extractor.Extract(cfg.BackupZip, cfg.ExtractedDir, log)
	if err != nil {
		return err
	}

	fmt.Printf("Extracted %d files to %s\n", summary.Extracted, cfg.ExtractedDir)
	fmt.Printf("Expected exports present: %d of %d\n",
		len(summary.Found), len(extractor.ExpectedExports))

	if len(summary.Missing) > 0 {
		fmt.Println("Missing exports:")
		for _, m := range summary.Missing {
			fmt.Printf("  - %s\n", m)
		}
		os.Exit(2)
	}

	return nil
}

// init registers the extract command with the root command.
func init() {
	rootCmd.AddCommand(extractCmd)
}
