// =============================================================================
// Zoho to Tally Converter - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Zoho to Tally Converter CLI. It
// initializes the Cobra CLI framework and delegates command execution to the
// cmd package.
//
// USAGE:
//   tallybridge extract      - Unpack the Zoho backup archive
//   tallybridge clean        - Normalize exports and resolve mappings
//   tallybridge generate     - Emit Tally XML import documents
//   tallybridge validate     - Check configuration and mapping workbook
//   tallybridge version      - Display the application version
//
// ARCHITECTURE:
//   This application follows a modular design where:
//   - cmd/           : Contains all CLI command definitions (Cobra)
//   - internal/      : Contains core business logic (not for external import)
//   - pkg/           : Contains shared utilities
//
// =============================================================================

package main

import (
	"github.com/tallybridge/tallybridge/cmd"
)

// main is the entry point of the application.
func main() {
	cmd.Execute()
}
