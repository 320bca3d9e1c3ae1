package cleaner

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tallybridge/tallybridge/internal/config"
	"github.com/tallybridge/tallybridge/internal/csvparser"
	"github.com/tallybridge/tallybridge/internal/mapping"
	"github.com/tallybridge/tallybridge/internal/types"
)

// =============================================================================
// TEST FIXTURES
// =============================================================================

// writeWorkbook builds a small mapping workbook on disk.
func writeWorkbook(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	f.SetSheetName("Sheet1", mapping.LedgerSheet)

	ledgerRows := [][]interface{}{
		{"Source Account Name", "Tally Ledger Name", "Tally Parent Group", "Opening Balance", "Balance Sign"},
		{"Sales", "Sales A/c", "Sales Accounts", "", ""},
		{"Office Expenses", "Office Expenses", "Indirect Expenses", "", ""},
		{"HDFC Bank", "HDFC Bank", "Bank Accounts", "25000", "Dr"},
	}
	writeSheet(t, f, mapping.LedgerSheet, ledgerRows)

	_, err := f.NewSheet(mapping.PartySheet)
	require.NoError(t, err)
	partyRows := [][]interface{}{
		{"Source Name", "Tally Party Name", "Party Type", "GSTIN", "Registration Type", "Address", "State Code", "Opening Balance"},
		{"Acme Traders", "Acme Traders", "Debtor", "27ABCDE1234F1Z5", "Regular", "", "27", ""},
		{"Supply Co", "Supply Co", "Creditor", "29XYZDE1234F1Z5", "Regular", "", "29", ""},
	}
	writeSheet(t, f, mapping.PartySheet, partyRows)

	path := filepath.Join(t.TempDir(), "mappings.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func writeSheet(t *testing.T, f *excelize.File, sheet string, rows [][]interface{}) {
	t.Helper()
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, value))
		}
	}
}

// testCleaner builds a Cleaner wired to the fixture workbook.
func testCleaner(t *testing.T, mode config.ResolutionMode) *Cleaner {
	t.Helper()

	cfg := &config.Config{
		CompanyStateCode: "27",
		DefaultCountry:   "India",
		ResolutionMode:   mode,
		DefaultLedger:    "Suspense A/c",
		RoundOffLedger:   "Round Off",
	}

	maps, err := mapping.Load(writeWorkbook(t), mode, cfg.DefaultLedger)
	require.NoError(t, err)

	log := logrus.New()
	log.SetOutput(io.Discard)

	return &Cleaner{cfg: cfg, maps: maps, log: log}
}

// testData builds CSVData from literal rows.
func testData(file string, rows ...map[string]string) *csvparser.CSVData {
	d := &csvparser.CSVData{SourceFile: file}
	for i, row := range rows {
		d.Rows = append(d.Rows, row)
		d.RowNumbers = append(d.RowNumbers, i+2)
	}
	return d
}

// =============================================================================
// DATE NORMALIZATION
// =============================================================================

func TestNormalizeDateLayouts(t *testing.T) {
	cases := map[string]string{
		"2025-04-01":          "2025-04-01",
		"01/04/2025":          "2025-04-01",
		"01-04-2025":          "2025-04-01",
		"2025/04/01":          "2025-04-01",
		"01 Apr 2025":         "2025-04-01",
		"Apr 1, 2025":         "2025-04-01",
		"2025-04-01 10:30:00": "2025-04-01",
		"":                    "",
	}

	for input, want := range cases {
		got, err := NormalizeDate(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, want, got, "input %q", input)
	}
}

func TestNormalizeDateRejectsGarbage(t *testing.T) {
	_, err := NormalizeDate("first of April")
	assert.Error(t, err)
}

func TestDateFormatErrorContext(t *testing.T) {
	_, err := dateValue("Invoice.csv", 17, "Invoice Date", "not-a-date")
	require.Error(t, err)

	var dfe *DateFormatError
	require.ErrorAs(t, err, &dfe)
	assert.Equal(t, "Invoice.csv", dfe.File)
	assert.Equal(t, 17, dfe.Row)
	assert.Contains(t, dfe.Error(), `"not-a-date"`)
}

// =============================================================================
// FIELD HELPERS
// =============================================================================

func TestAmountScrubbing(t *testing.T) {
	assert.True(t, amount("1,18,000.50").Equal(decimal.NewFromFloat(118000.50)))
	assert.True(t, amount("₹ 500").Equal(decimal.NewFromInt(500)))
	assert.True(t, amount("-42.10").Equal(decimal.NewFromFloat(-42.10)))
	assert.True(t, amount("").IsZero())
	assert.True(t, amount("n/a").IsZero())
}

func TestStateCode(t *testing.T) {
	assert.Equal(t, "27", stateCode("27-Maharashtra"))
	assert.Equal(t, "27", stateCode("27"))
	assert.Equal(t, "", stateCode(""))
}

func TestRegistrationType(t *testing.T) {
	assert.Equal(t, "Regular", registrationType("business_gst"))
	assert.Equal(t, "Consumer", registrationType("business_none"))
	assert.Equal(t, "Composition", registrationType("business_registered_composition"))
	assert.Equal(t, "SEZ", registrationType("business_sez"))
	assert.Equal(t, "Regular", registrationType("something else"))
	assert.Equal(t, "Consumer", registrationType("Consumer"))
}

// =============================================================================
// PARTY MASTERS
// =============================================================================

func TestPartiesFromVendorCapturesBankDetails(t *testing.T) {
	c := testCleaner(t, config.ModeStrict)

	data := testData("Vendors.csv", map[string]string{
		"Display Name":               "Supply Co",
		"GST Treatment":              "business_gst",
		"Vendor Bank Account Number": "50100123456789",
		"Vendor Bank Name":           "HDFC Bank",
		"Vendor Bank Code":           "HDFC0000123",
	})

	parties := c.partiesFrom(data, types.PartyCreditor)
	require.Len(t, parties, 1)

	p := parties[0]
	assert.Equal(t, types.PartyCreditor, p.Type)
	assert.Equal(t, "50100123456789", p.BankAccountNo)
	assert.Equal(t, "HDFC Bank", p.BankName)
	assert.Equal(t, "HDFC0000123", p.BankIFSC)
}

// =============================================================================
// STRICT RESOLUTION
// =============================================================================

func TestStrictModeCollectsEveryMissingName(t *testing.T) {
	c := testCleaner(t, config.ModeStrict)

	data := testData("Journal.csv",
		map[string]string{"Journal Number": "J-1", "Journal Date": "2025-04-01", "Account": "Mystery A", "Debit": "100", "Credit": ""},
		map[string]string{"Journal Number": "J-1", "Journal Date": "2025-04-01", "Account": "Mystery B", "Debit": "", "Credit": "100"},
	)

	_, err := c.normalizeJournals(data)
	require.NoError(t, err)

	err = c.maps.Missing()
	require.Error(t, err)

	var missing *mapping.MissingMappingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"Mystery A", "Mystery B"}, missing.Names)
}

func TestLenientModeFallsBackToDefaultLedger(t *testing.T) {
	c := testCleaner(t, config.ModeLenient)

	data := testData("Journal.csv",
		map[string]string{"Journal Number": "J-1", "Journal Date": "2025-04-01", "Account": "Mystery A", "Debit": "100", "Credit": ""},
		map[string]string{"Journal Number": "J-1", "Journal Date": "2025-04-01", "Account": "Sales", "Debit": "", "Credit": "100"},
	)

	vouchers, err := c.normalizeJournals(data)
	require.NoError(t, err)
	require.NoError(t, c.maps.Missing())

	require.Len(t, vouchers, 1)
	assert.Equal(t, "Suspense A/c", vouchers[0].Allocations[0].Ledger)
	assert.Equal(t, "Sales A/c", vouchers[0].Allocations[1].Ledger)
}
