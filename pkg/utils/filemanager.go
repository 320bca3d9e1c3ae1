// =============================================================================
// Zoho to Tally Converter - File Manager Utility
// =============================================================================
//
// File management utilities shared by the pipeline stages:
//   - Directory management
//   - Atomic file publication (write to temp, rename on success)
//   - Run report generation
//
// Atomic publication matters because the Tally importer treats any file in
// the output directory as a complete document. A process killed mid-write
// must never leave a half-built XML file where a finished one is expected.
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// EnsureDir creates the directory (and parents) if it does not exist.
func EnsureDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// AtomicWriteFile writes data to a temporary file in the target directory
// and renames it into place only after the write fully succeeds. The rename
// is atomic on POSIX filesystems, so readers observe either the old file or
// the complete new one, never a partial write.
func AtomicWriteFile(path string, data []byte) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to sync %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close %s: %w", filepath.Base(path), err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to publish %s: %w", filepath.Base(path), err)
	}

	return nil
}

// WriteRunReport writes the consolidated end-of-run report into the output
// directory. The report lists every warning and failure with enough context
// to fix the mapping workbook and re-run.
func WriteRunReport(outputDir string, warnings, failures []string) (string, error) {
	var b strings.Builder

	b.WriteString("=== Tally Conversion Run Report ===\n")
	b.WriteString(fmt.Sprintf("Generated: %s\n\n", time.Now().Format(time.RFC3339)))

	b.WriteString(fmt.Sprintf("Failures: %d\n", len(failures)))
	for _, f := range failures {
		b.WriteString("  ✗ " + f + "\n")
	}

	b.WriteString(fmt.Sprintf("\nWarnings: %d\n", len(warnings)))
	for _, w := range warnings {
		b.WriteString("  ⚠ " + w + "\n")
	}

	path := filepath.Join(outputDir, "run_report.txt")
	if err := AtomicWriteFile(path, []byte(b.String())); err != nil {
		return "", err
	}
	return path, nil
}
