package generator

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallybridge/tallybridge/internal/config"
	"github.com/tallybridge/tallybridge/internal/tables"
	"github.com/tallybridge/tallybridge/internal/tallyxml"
	"github.com/tallybridge/tallybridge/internal/types"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testGenerator(t *testing.T, policy config.BalancePolicy) *Generator {
	t.Helper()

	cfg := &config.Config{
		ProcessedDir:      filepath.Join(t.TempDir(), "processed"),
		OutputDir:         filepath.Join(t.TempDir(), "output"),
		BaseCurrency:      "Rupees",
		RoundingTolerance: "0.01",
		BalancePolicy:     policy,
		RoundOffLedger:    "Round Off",
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	return New(cfg, log)
}

func balancedVoucher() types.Voucher {
	return types.Voucher{
		Category: types.CategorySales,
		SourceID: "10001",
		Number:   "INV-001",
		Date:     "2025-04-01",
		Party:    "Acme Traders",
		Allocations: []types.Allocation{
			{Ledger: "Acme Traders", Amount: dec("11800"),
				Bill: &types.BillRef{Name: "INV-001", Type: types.BillTypeNew, Amount: dec("11800")}},
			{Ledger: "Sales A/c", Amount: dec("-10000")},
			{Ledger: "Output CGST", Amount: dec("-900")},
			{Ledger: "Output SGST", Amount: dec("-900")},
		},
	}
}

// =============================================================================
// BALANCE POLICY
// =============================================================================

func TestBalanceWithinToleranceEmitsUnchanged(t *testing.T) {
	g := testGenerator(t, config.PolicyAdjust)

	v := balancedVoucher()
	out, ok := g.balance(v)
	assert.True(t, ok)
	assert.Len(t, out.Allocations, len(v.Allocations))
	assert.Empty(t, g.warnings)
}

func TestBalancePolicySkipDropsVoucher(t *testing.T) {
	g := testGenerator(t, config.PolicySkip)

	v := balancedVoucher()
	v.Allocations[1].Amount = dec("-9990") // 10 rupees off

	_, ok := g.balance(v)
	assert.False(t, ok)
	require.Len(t, g.warnings, 1)
	assert.Contains(t, g.warnings[0], "INV-001")
	assert.Contains(t, g.warnings[0], "skipped")
}

func TestBalancePolicyAdjustInsertsRoundOff(t *testing.T) {
	g := testGenerator(t, config.PolicyAdjust)

	v := balancedVoucher()
	v.Allocations[1].Amount = dec("-9999.98") // 0.02 over tolerance

	out, ok := g.balance(v)
	require.True(t, ok)

	last := out.Allocations[len(out.Allocations)-1]
	assert.Equal(t, "Round Off", last.Ledger)
	assert.True(t, last.Amount.Equal(dec("-0.02")))
	assert.True(t, out.Balance().IsZero())
	require.Len(t, g.warnings, 1)
}

// =============================================================================
// VOUCHER UNITS
// =============================================================================

func TestVoucherGUIDIsDeterministic(t *testing.T) {
	v := balancedVoucher()
	assert.Equal(t, voucherGUID(v), voucherGUID(v))

	other := balancedVoucher()
	other.SourceID = "10002"
	assert.NotEqual(t, voucherGUID(v), voucherGUID(other))
}

func TestVoucherUnitStructure(t *testing.T) {
	out := string(tallyxml.Render(voucherUnit(balancedVoucher())))

	assert.Contains(t, out, `REMOTEID="10001"`)
	assert.Contains(t, out, `VCHTYPE="Sales"`)
	assert.Contains(t, out, `ACTION="CREATE"`)
	assert.Contains(t, out, "<DATE>20250401</DATE>")
	assert.Contains(t, out, "<VOUCHERTYPENAME>Sales</VOUCHERTYPENAME>")
	assert.Contains(t, out, "<PARTYLEDGERNAME>Acme Traders</PARTYLEDGERNAME>")

	// Debit deemed positive, credit not.
	assert.Contains(t, out, "<ISDEEMEDPOSITIVE>Yes</ISDEEMEDPOSITIVE>")
	assert.Contains(t, out, "<ISDEEMEDPOSITIVE>No</ISDEEMEDPOSITIVE>")
	assert.Contains(t, out, "<AMOUNT>11800.00</AMOUNT>")
	assert.Contains(t, out, "<AMOUNT>-10000.00</AMOUNT>")

	// Bill-wise allocation on the party entry.
	assert.Contains(t, out, "<BILLTYPE>New Ref</BILLTYPE>")
}

func TestVoucherUnitEmitsBuyerDetails(t *testing.T) {
	v := balancedVoucher()
	v.GSTIN = "27ABCDE1234F1Z5"
	v.RegistrationType = "Regular"
	v.PartyAddress1 = "Plot 4, MIDC"
	v.PartyAddress2 = "Phase II"
	v.PartyState = "Maharashtra"
	v.PartyCountry = "India"

	out := string(tallyxml.Render(voucherUnit(v)))

	assert.Contains(t, out, "<BUYERDETAILS.LIST>")
	assert.Contains(t, out, "<CONSNAME>Acme Traders</CONSNAME>")
	assert.Contains(t, out, "<ADDRESS>Plot 4, MIDC</ADDRESS>")
	assert.Contains(t, out, "<ADDRESS>Phase II</ADDRESS>")
	assert.Contains(t, out, "<STATENAME>Maharashtra</STATENAME>")
	assert.Contains(t, out, "<COUNTRYNAME>India</COUNTRYNAME>")
	assert.Contains(t, out, "<GSTREGISTRATIONTYPE>Regular</GSTREGISTRATIONTYPE>")
	assert.Contains(t, out, "<GSTIN>27ABCDE1234F1Z5</GSTIN>")
	assert.NotContains(t, out, "SELLERDETAILS")
}

func TestVoucherUnitEmitsSellerDetailsOnPurchases(t *testing.T) {
	v := types.Voucher{
		Category: types.CategoryPurchase,
		SourceID: "20001",
		Number:   "BILL-77",
		Date:     "2025-05-10",
		Party:    "Supply Co",
		GSTIN:    "29XYZDE1234F1Z5",
		Allocations: []types.Allocation{
			{Ledger: "Supply Co", Amount: dec("-1180")},
			{Ledger: "Office Expenses", Amount: dec("1180")},
		},
	}

	out := string(tallyxml.Render(voucherUnit(v)))

	assert.Contains(t, out, "<SELLERDETAILS.LIST>")
	assert.Contains(t, out, "<CONSNAME>Supply Co</CONSNAME>")
	assert.Contains(t, out, "<GSTIN>29XYZDE1234F1Z5</GSTIN>")
	// Registration type defaults to Regular when the table row carries none.
	assert.Contains(t, out, "<GSTREGISTRATIONTYPE>Regular</GSTREGISTRATIONTYPE>")
	assert.NotContains(t, out, "BUYERDETAILS")
}

func TestVoucherUnitLinksCreditNoteToInvoice(t *testing.T) {
	v := types.Voucher{
		Category:            types.CategoryCreditNote,
		SourceID:            "50001",
		Number:              "CN-3",
		Date:                "2025-07-01",
		Party:               "Acme Traders",
		OriginalInvoice:     "INV-001",
		OriginalInvoiceDate: "2025-04-01",
		Allocations: []types.Allocation{
			{Ledger: "Sales Returns", Amount: dec("1180")},
			{Ledger: "Acme Traders", Amount: dec("-1180")},
		},
	}

	out := string(tallyxml.Render(voucherUnit(v)))

	assert.Contains(t, out, "<ORIGINALINVOICEDETAILS.LIST>")
	assert.Contains(t, out, "<REFNUM>INV-001</REFNUM>")
	assert.Contains(t, out, "<DATE>20250401</DATE>")

	// A voucher without the linkage emits no such block.
	plain := balancedVoucher()
	assert.NotContains(t, string(tallyxml.Render(voucherUnit(plain))), "ORIGINALINVOICEDETAILS")
}

// =============================================================================
// MASTER UNITS
// =============================================================================

func TestPartyUnitEmitsVendorBankDetails(t *testing.T) {
	g := testGenerator(t, config.PolicyAdjust)

	p := types.PartyMaster{
		Name:          "Supply Co",
		Type:          types.PartyCreditor,
		BankAccountNo: "50100123456789",
		BankName:      "HDFC Bank",
		BankIFSC:      "HDFC0000123",
	}

	out := string(tallyxml.Render(g.partyUnit(p)))
	assert.Contains(t, out, "<BANKDETAILS.LIST>")
	assert.Contains(t, out, "<BANKACCOUNTNO>50100123456789</BANKACCOUNTNO>")
	assert.Contains(t, out, "<BANKNAME>HDFC Bank</BANKNAME>")
	assert.Contains(t, out, "<IFSCCODE>HDFC0000123</IFSCCODE>")

	// An account number without a bank name is not importable.
	p.BankName = ""
	assert.NotContains(t, string(tallyxml.Render(g.partyUnit(p))), "BANKDETAILS")
}

func TestCustomGroupsSkipsPrimaryGroups(t *testing.T) {
	ledgers := []types.LedgerMaster{
		{Name: "A", Parent: "Sales Accounts"},   // Tally primary
		{Name: "B", Parent: "Marketing Spend"},  // custom
		{Name: "C", Parent: "Marketing Spend"},  // duplicate custom
		{Name: "D", Parent: "Director Advance"}, // custom
	}

	groups := customGroups(ledgers)
	assert.Equal(t, []string{"Director Advance", "Marketing Spend"}, groups)
}

// =============================================================================
// FULL PASS
// =============================================================================

func TestRunGeneratesDocumentsAndReport(t *testing.T) {
	g := testGenerator(t, config.PolicyAdjust)

	require.NoError(t, tables.WriteLedgers(g.cfg.ProcessedDir, []types.LedgerMaster{
		{Name: "Sales A/c", Parent: "Sales Accounts"},
		{Name: "HDFC Bank", Parent: "Bank Accounts", IsBank: true, OpeningBalance: dec("25000")},
	}))
	require.NoError(t, tables.WriteParties(g.cfg.ProcessedDir, []types.PartyMaster{
		{Name: "Acme Traders", Type: types.PartyDebtor, GSTIN: "27ABCDE1234F1Z5",
			RegistrationType: "Regular", StateCode: "27", Country: "India"},
	}))
	require.NoError(t, tables.WriteVouchers(g.cfg.ProcessedDir, types.CategorySales,
		[]types.Voucher{balancedVoucher()}))

	result, err := g.Run()
	require.NoError(t, err)

	// Ledgers, parties, sales. The other five categories have no tables and
	// are warnings, not failures.
	require.Len(t, result.Files, 3)
	assert.Empty(t, result.Failures)
	assert.NotEmpty(t, result.Warnings)

	ledgerXML, err := os.ReadFile(filepath.Join(g.cfg.OutputDir, LedgersFile))
	require.NoError(t, err)
	assert.Contains(t, string(ledgerXML), "<REPORTNAME>All Masters</REPORTNAME>")
	assert.Contains(t, string(ledgerXML), "<ISBANKLEDGER>Yes</ISBANKLEDGER>")

	partyXML, err := os.ReadFile(filepath.Join(g.cfg.OutputDir, PartiesFile))
	require.NoError(t, err)
	assert.Contains(t, string(partyXML), "<PARENT>Sundry Debtors</PARENT>")
	assert.Contains(t, string(partyXML), "<GSTIN>27ABCDE1234F1Z5</GSTIN>")

	salesXML, err := os.ReadFile(filepath.Join(g.cfg.OutputDir, VouchersFile(types.CategorySales)))
	require.NoError(t, err)
	assert.Contains(t, string(salesXML), "<REPORTNAME>Vouchers</REPORTNAME>")
	assert.Contains(t, string(salesXML), "<VOUCHERNUMBER>INV-001</VOUCHERNUMBER>")

	report, err := os.ReadFile(result.ReportPath)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(report), "Warnings:"))
}

func TestRunIsIdempotent(t *testing.T) {
	g := testGenerator(t, config.PolicyAdjust)

	require.NoError(t, tables.WriteLedgers(g.cfg.ProcessedDir, []types.LedgerMaster{
		{Name: "Sales A/c", Parent: "Sales Accounts"},
	}))
	require.NoError(t, tables.WriteParties(g.cfg.ProcessedDir, nil))
	require.NoError(t, tables.WriteVouchers(g.cfg.ProcessedDir, types.CategorySales,
		[]types.Voucher{balancedVoucher()}))

	_, err := g.Run()
	require.NoError(t, err)
	first, err := os.ReadFile(filepath.Join(g.cfg.OutputDir, VouchersFile(types.CategorySales)))
	require.NoError(t, err)

	_, err = g.Run()
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(g.cfg.OutputDir, VouchersFile(types.CategorySales)))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
