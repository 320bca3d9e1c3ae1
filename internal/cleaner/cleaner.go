// =============================================================================
// Zoho to Tally Converter - Cleaning & Mapping Stage
// =============================================================================
//
// This module drives the second pipeline stage. It loads the raw Zoho CSV
// exports from the extracted directory, normalizes field values (dates,
// amounts, identifiers), resolves every source account and party name
// through the mapping workbook, and writes fully-resolved normalized tables
// into the processed directory.
//
// The stage contract is strictly file-mediated: everything the generation
// stage needs is in the tables this stage writes; no lookups survive past
// this point.
//
// STRICTNESS:
//   In strict mode every unresolved name across the whole run is collected
//   and reported in one MissingMappingError, so the workbook can be fixed in
//   a single pass. Lenient mode substitutes the configured default ledger
//   and logs each substitution.
//
// =============================================================================

package cleaner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/tallybridge/tallybridge/internal/config"
	"github.com/tallybridge/tallybridge/internal/csvparser"
	"github.com/tallybridge/tallybridge/internal/mapping"
	"github.com/tallybridge/tallybridge/internal/tables"
	"github.com/tallybridge/tallybridge/internal/types"
)

// Zoho export file names inside the extracted directory.
const (
	FileChartOfAccounts = "Chart_of_Accounts.csv"
	FileContacts        = "Contacts.csv"
	FileVendors         = "Vendors.csv"
	FileInvoices        = "Invoice.csv"
	FileCustomerPayment = "Customer_Payment.csv"
	FileVendorPayment   = "Vendor_Payment.csv"
	FileCreditNotes     = "Credit_Note.csv"
	FileJournals        = "Journal.csv"
	FileBills           = "Bill.csv"
)

// voucherSources pairs each category with the export it is built from.
var voucherSources = []struct {
	Category types.Category
	File     string
}{
	{types.CategorySales, FileInvoices},
	{types.CategoryPurchase, FileBills},
	{types.CategoryReceipt, FileCustomerPayment},
	{types.CategoryPayment, FileVendorPayment},
	{types.CategoryCreditNote, FileCreditNotes},
	{types.CategoryJournal, FileJournals},
}

// =============================================================================
// CLEANER
// =============================================================================

// Cleaner holds the run-scoped state of the cleaning stage.
type Cleaner struct {
	cfg  *config.Config
	maps *mapping.Tables
	log  *logrus.Logger
}

// Summary reports what the cleaning stage produced.
type Summary struct {
	Ledgers  int
	Parties  int
	Vouchers map[types.Category]int
}

// New creates a Cleaner. The mapping tables are loaded once here and are
// read-only for the rest of the run.
func New(cfg *config.Config, log *logrus.Logger) (*Cleaner, error) {
	maps, err := mapping.Load(cfg.MappingsFile, cfg.ResolutionMode, cfg.DefaultLedger)
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"ledger_rows": maps.LedgerCount(),
		"party_rows":  maps.PartyCount(),
		"mode":        cfg.ResolutionMode,
	}).Info("loaded mapping workbook")

	return &Cleaner{cfg: cfg, maps: maps, log: log}, nil
}

// Run executes the full cleaning pass: masters first, then one normalized
// voucher table per category. In strict mode the accumulated missing-name
// error is returned after the whole pass so the report is complete.
func (c *Cleaner) Run() (*Summary, error) {
	summary := &Summary{Vouchers: make(map[types.Category]int)}

	ledgers, err := c.cleanLedgers()
	if err != nil {
		return nil, err
	}
	if err := tables.WriteLedgers(c.cfg.ProcessedDir, ledgers); err != nil {
		return nil, err
	}
	summary.Ledgers = len(ledgers)

	parties, err := c.cleanParties()
	if err != nil {
		return nil, err
	}
	if err := tables.WriteParties(c.cfg.ProcessedDir, parties); err != nil {
		return nil, err
	}
	summary.Parties = len(parties)

	for _, src := range voucherSources {
		data, ok, err := c.load(src.File)
		if err != nil {
			return nil, err
		}
		if !ok {
			c.log.WithField("file", src.File).Warn("export not found, skipping category")
			continue
		}

		vouchers, err := c.normalize(src.Category, data)
		if err != nil {
			return nil, err
		}

		if err := tables.WriteVouchers(c.cfg.ProcessedDir, src.Category, vouchers); err != nil {
			return nil, err
		}
		summary.Vouchers[src.Category] = len(vouchers)

		c.log.WithFields(logrus.Fields{
			"category": src.Category,
			"vouchers": len(vouchers),
			"rows":     data.RowCount(),
		}).Info("normalized voucher table written")
	}

	// Surface every unresolved name at once, after the full pass.
	if err := c.maps.Missing(); err != nil {
		return nil, err
	}

	return summary, nil
}

// normalize dispatches to the category normalizer.
func (c *Cleaner) normalize(cat types.Category, data *csvparser.CSVData) ([]types.Voucher, error) {
	switch cat {
	case types.CategorySales:
		return c.normalizeSales(data)
	case types.CategoryPurchase:
		return c.normalizePurchases(data)
	case types.CategoryReceipt:
		return c.normalizeReceipts(data)
	case types.CategoryPayment:
		return c.normalizePayments(data)
	case types.CategoryCreditNote:
		return c.normalizeCreditNotes(data)
	case types.CategoryJournal:
		return c.normalizeJournals(data)
	}
	return nil, fmt.Errorf("unknown voucher category %q", cat)
}

// load parses one export from the extracted directory. A missing file is
// not an error; backups only contain the modules the company used.
func (c *Cleaner) load(name string) (*csvparser.CSVData, bool, error) {
	path := filepath.Join(c.cfg.ExtractedDir, name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, false, nil
	}

	data, err := csvparser.Parse(path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to parse %s: %w", name, err)
	}

	c.log.WithFields(logrus.Fields{
		"file": name,
		"rows": data.RowCount(),
	}).Debug("loaded export")

	return data, true, nil
}

// =============================================================================
// FIELD HELPERS
// =============================================================================

// amount is the package-local shorthand for the shared raw-amount parser.
func amount(s string) decimal.Decimal {
	return types.ParseAmount(s)
}

// date normalizes a date cell, wrapping failures with file/row/field context.
func (c *Cleaner) date(data *csvparser.CSVData, rowIdx int, field string) (string, error) {
	raw := data.Rows[rowIdx][field]
	iso, err := NormalizeDate(raw)
	if err != nil {
		return "", &DateFormatError{
			File:  filepath.Base(data.SourceFile),
			Row:   data.RowNumbers[rowIdx],
			Field: field,
			Value: raw,
		}
	}
	return iso, nil
}

// dateValue normalizes a date already plucked from a row (used with grouped
// rows where the CSVData index is known).
func dateValue(file string, rowNumber int, field, raw string) (string, error) {
	iso, err := NormalizeDate(raw)
	if err != nil {
		return "", &DateFormatError{File: file, Row: rowNumber, Field: field, Value: raw}
	}
	return iso, nil
}

// stateCode extracts the numeric jurisdiction code from Zoho's
// "NN-StateName" place-of-supply form.
func stateCode(placeOfSupply string) string {
	code, _, _ := strings.Cut(placeOfSupply, "-")
	return strings.TrimSpace(code)
}

// shipToAddress picks the consignee address from an invoice or credit-note
// header: shipping address when present, billing otherwise. Zoho names the
// second line "Shipping Street2" on invoices but "Shipping Street 2" on
// credit notes, so both spellings are checked.
func shipToAddress(header map[string]string) (line1, line2 string) {
	if header["Shipping Address"] != "" {
		return header["Shipping Address"],
			firstNonEmpty(header["Shipping Street2"], header["Shipping Street 2"])
	}
	return header["Billing Address"],
		firstNonEmpty(header["Billing Street2"], header["Billing Street 2"])
}

// firstNonEmpty returns the first non-blank value.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
