// =============================================================================
// Zoho to Tally Converter - Backup Extraction Stage
// =============================================================================
//
// This module drives the first pipeline stage: unpack the Zoho Books backup
// archive into the extracted directory and verify which of the expected
// exports it contains. Missing exports are warnings, not errors; a backup
// only holds the modules the company actually used.
//
// =============================================================================

package extractor

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/tallybridge/tallybridge/pkg/utils"
)

// ExpectedExports are the Zoho CSV exports the pipeline knows about.
// Sales_Order.csv, Purchase_Order.csv and Item.csv are inventory-side
// exports: their presence is reported but they are not converted.
var ExpectedExports = []string{
	"Chart_of_Accounts.csv",
	"Contacts.csv",
	"Vendors.csv",
	"Invoice.csv",
	"Customer_Payment.csv",
	"Vendor_Payment.csv",
	"Credit_Note.csv",
	"Journal.csv",
	"Bill.csv",
	"Sales_Order.csv",
	"Purchase_Order.csv",
	"Item.csv",
}

// Summary reports what the extraction produced.
type Summary struct {
	// Extracted is the number of archive entries written to disk.
	Extracted int

	// Found are the expected exports present after extraction.
	Found []string

	// Missing are the expected exports absent from the backup.
	Missing []string
}

// Extract unpacks the backup archive at zipPath into destDir and verifies
// the expected exports. Entries are flattened to their base names: Zoho
// sometimes nests the CSVs under a company-named folder inside the archive,
// and the cleaning stage expects them at the directory root.
func Extract(zipPath, destDir string, log *logrus.Logger) (*Summary, error) {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open backup archive %s: %w", zipPath, err)
	}
	defer reader.Close()

	if err := utils.EnsureDir(destDir); err != nil {
		return nil, err
	}

	summary := &Summary{}
	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() {
			continue
		}

		name := filepath.Base(entry.Name)
		// Guard against hostile entry names; base names never traverse.
		if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
			continue
		}

		if err := extractEntry(entry, filepath.Join(destDir, name)); err != nil {
			return nil, err
		}
		summary.Extracted++

		log.WithField("file", name).Debug("extracted archive entry")
	}

	for _, expected := range ExpectedExports {
		if _, err := os.Stat(filepath.Join(destDir, expected)); err == nil {
			summary.Found = append(summary.Found, expected)
		} else {
			summary.Missing = append(summary.Missing, expected)
		}
	}

	log.WithFields(logrus.Fields{
		"extracted": summary.Extracted,
		"found":     len(summary.Found),
		"missing":   len(summary.Missing),
	}).Info("backup extracted")

	for _, m := range summary.Missing {
		log.WithField("file", m).Warn("expected export missing from backup")
	}

	return summary, nil
}

// extractEntry writes one archive entry to destPath.
func extractEntry(entry *zip.File, destPath string) error {
	src, err := entry.Open()
	if err != nil {
		return fmt.Errorf("failed to open archive entry %s: %w", entry.Name, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", destPath, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("failed to extract %s: %w", entry.Name, err)
	}

	return dst.Close()
}
