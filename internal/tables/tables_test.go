package tables

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallybridge/tallybridge/internal/types"
)

func TestVoucherTableRegroupsAllocations(t *testing.T) {
	dir := t.TempDir()

	in := []types.Voucher{
		{
			Category:         types.CategorySales,
			SourceID:         "10001",
			Number:           "INV-001",
			Date:             "2025-04-01",
			Party:            "Acme Traders",
			GSTIN:            "27ABCDE1234F1Z5",
			RegistrationType: "Regular",
			PartyAddress1:    "Plot 4, MIDC",
			PartyState:       "Maharashtra",
			Allocations: []types.Allocation{
				{Ledger: "Acme Traders", Amount: decimal.NewFromInt(11800),
					Bill: &types.BillRef{Name: "INV-001", Type: types.BillTypeNew, Amount: decimal.NewFromInt(11800)}},
				{Ledger: "Sales A/c", Amount: decimal.NewFromInt(-11800)},
			},
		},
		{
			Category: types.CategorySales,
			SourceID: "10002",
			Number:   "INV-002",
			Date:     "2025-04-02",
			Party:    "Acme Traders",
			Allocations: []types.Allocation{
				{Ledger: "Acme Traders", Amount: decimal.NewFromInt(500)},
				{Ledger: "Sales A/c", Amount: decimal.NewFromInt(-500)},
			},
		},
	}

	require.NoError(t, WriteVouchers(dir, types.CategorySales, in))
	assert.True(t, Exists(dir, types.CategorySales))
	assert.False(t, Exists(dir, types.CategoryJournal))

	out, err := ReadVouchers(dir, types.CategorySales)
	require.NoError(t, err)
	require.Len(t, out, 2)

	first := out[0]
	assert.Equal(t, "INV-001", first.Number)
	assert.Equal(t, "27ABCDE1234F1Z5", first.GSTIN)
	assert.Equal(t, "Regular", first.RegistrationType)
	assert.Equal(t, "Plot 4, MIDC", first.PartyAddress1)
	assert.Equal(t, "Maharashtra", first.PartyState)
	require.Len(t, first.Allocations, 2)
	require.NotNil(t, first.Allocations[0].Bill)
	assert.Equal(t, types.BillTypeNew, first.Allocations[0].Bill.Type)
	assert.True(t, first.Allocations[0].Bill.Amount.Equal(decimal.NewFromInt(11800)))
	assert.Nil(t, first.Allocations[1].Bill)

	assert.Equal(t, "INV-002", out[1].Number)
}

func TestLedgerTableRoundTrip(t *testing.T) {
	dir := t.TempDir()

	in := []types.LedgerMaster{
		{Name: "HDFC Bank", Parent: "Bank Accounts", IsBank: true,
			OpeningBalance: decimal.NewFromInt(25000)},
		{Name: "Acme Traders", Parent: "Sundry Debtors", IsBillwise: true,
			Description: "key account, net 30"},
	}

	require.NoError(t, WriteLedgers(dir, in))

	out, err := ReadLedgers(dir)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.True(t, out[0].IsBank)
	assert.True(t, out[0].OpeningBalance.Equal(decimal.NewFromInt(25000)))
	assert.True(t, out[1].IsBillwise)
	assert.Equal(t, "key account, net 30", out[1].Description)
}

func TestVoucherTableCarriesInvoiceLinkage(t *testing.T) {
	dir := t.TempDir()

	in := []types.Voucher{{
		Category:            types.CategoryCreditNote,
		SourceID:            "50001",
		Number:              "CN-3",
		Date:                "2025-07-01",
		Party:               "Acme Traders",
		OriginalInvoice:     "INV-001",
		OriginalInvoiceDate: "2025-04-01",
		Allocations: []types.Allocation{
			{Ledger: "Sales Returns", Amount: decimal.NewFromInt(1180)},
			{Ledger: "Acme Traders", Amount: decimal.NewFromInt(-1180)},
		},
	}}

	require.NoError(t, WriteVouchers(dir, types.CategoryCreditNote, in))

	out, err := ReadVouchers(dir, types.CategoryCreditNote)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "INV-001", out[0].OriginalInvoice)
	assert.Equal(t, "2025-04-01", out[0].OriginalInvoiceDate)
}

func TestPartyTableRoundTrip(t *testing.T) {
	dir := t.TempDir()

	in := []types.PartyMaster{{
		Name:             "Supply Co",
		Type:             types.PartyCreditor,
		GSTIN:            "29XYZDE1234F1Z5",
		RegistrationType: "Regular",
		StateCode:        "29",
		AddressLine1:     "14, Industrial Layout",
		City:             "Bengaluru",
		State:            "Karnataka",
		Country:          "India",
		BankAccountNo:    "50100123456789",
		BankName:         "HDFC Bank",
		BankIFSC:         "HDFC0000123",
		OpeningBalance:   decimal.NewFromInt(-5000),
	}}

	require.NoError(t, WriteParties(dir, in))

	out, err := ReadParties(dir)
	require.NoError(t, err)
	require.Len(t, out, 1)

	p := out[0]
	assert.Equal(t, types.PartyCreditor, p.Type)
	assert.Equal(t, "29XYZDE1234F1Z5", p.GSTIN)
	assert.Equal(t, "50100123456789", p.BankAccountNo)
	assert.Equal(t, "HDFC Bank", p.BankName)
	assert.Equal(t, "HDFC0000123", p.BankIFSC)
	assert.True(t, p.OpeningBalance.Equal(decimal.NewFromInt(-5000)))
}

func TestReadVouchersMissingTable(t *testing.T) {
	_, err := ReadVouchers(t.TempDir(), types.CategorySales)
	assert.Error(t, err)
}
