// =============================================================================
// Zoho to Tally Converter - Normalized Tables
// =============================================================================
//
// The cleaning and generation stages never call each other in-process; they
// communicate through the normalized tables defined here. The cleaner writes
// them into the processed directory, the generator reads them back. Every
// field the generator needs is present in the table; no lookups survive
// past the cleaning stage.
//
// TABLE FILES:
//   ledgers.csv            - one row per ledger master
//   parties.csv            - one row per party master
//   vouchers_<category>.csv - one row per voucher allocation; consecutive
//                             rows sharing source_id+number form one voucher
//
// =============================================================================

package tables

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tallybridge/tallybridge/internal/types"
	"github.com/tallybridge/tallybridge/pkg/utils"
)

// File names inside the processed directory.
const (
	LedgersFile = "ledgers.csv"
	PartiesFile = "parties.csv"
)

// VouchersFile returns the table file name for a voucher category.
func VouchersFile(cat types.Category) string {
	return fmt.Sprintf("vouchers_%s.csv", cat)
}

var ledgerHeader = []string{
	"name", "parent", "opening_balance", "description",
	"is_bank", "is_cash", "is_billwise",
}

var partyHeader = []string{
	"name", "type", "gstin", "registration_type", "state_code",
	"address1", "address2", "city", "state", "country", "pincode",
	"email", "phone", "mobile",
	"bank_account_no", "bank_name", "bank_ifsc", "opening_balance",
}

var voucherHeader = []string{
	"source_id", "number", "date", "party", "narration",
	"place_of_supply", "gstin", "registration_type",
	"party_address1", "party_address2", "party_state", "party_country",
	"original_invoice", "original_invoice_date",
	"ledger", "amount", "bill_name", "bill_type", "bill_amount",
}

// =============================================================================
// WRITING
// =============================================================================

// WriteLedgers writes the ledger masters table.
func WriteLedgers(dir string, ledgers []types.LedgerMaster) error {
	rows := [][]string{ledgerHeader}
	for _, l := range ledgers {
		rows = append(rows, []string{
			l.Name, l.Parent, l.OpeningBalance.StringFixed(2), l.Description,
			boolText(l.IsBank), boolText(l.IsCash), boolText(l.IsBillwise),
		})
	}
	return writeTable(filepath.Join(dir, LedgersFile), rows)
}

// WriteParties writes the party masters table.
func WriteParties(dir string, parties []types.PartyMaster) error {
	rows := [][]string{partyHeader}
	for _, p := range parties {
		rows = append(rows, []string{
			p.Name, string(p.Type), p.GSTIN, p.RegistrationType, p.StateCode,
			p.AddressLine1, p.AddressLine2, p.City, p.State, p.Country, p.Pincode,
			p.Email, p.Phone, p.Mobile,
			p.BankAccountNo, p.BankName, p.BankIFSC, p.OpeningBalance.StringFixed(2),
		})
	}
	return writeTable(filepath.Join(dir, PartiesFile), rows)
}

// WriteVouchers writes one category's voucher table, one row per allocation.
func WriteVouchers(dir string, cat types.Category, vouchers []types.Voucher) error {
	rows := [][]string{voucherHeader}
	for _, v := range vouchers {
		for _, a := range v.Allocations {
			row := []string{
				v.SourceID, v.Number, v.Date, v.Party, v.Narration,
				v.PlaceOfSupply, v.GSTIN, v.RegistrationType,
				v.PartyAddress1, v.PartyAddress2, v.PartyState, v.PartyCountry,
				v.OriginalInvoice, v.OriginalInvoiceDate,
				a.Ledger, a.Amount.StringFixed(2), "", "", "",
			}
			if a.Bill != nil {
				row[16] = a.Bill.Name
				row[17] = string(a.Bill.Type)
				row[18] = a.Bill.Amount.StringFixed(2)
			}
			rows = append(rows, row)
		}
	}
	return writeTable(filepath.Join(dir, VouchersFile(cat)), rows)
}

// writeTable serializes rows as CSV and publishes the file atomically so an
// interrupted run never leaves a truncated table behind.
func writeTable(path string, rows [][]string) error {
	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	return utils.AtomicWriteFile(path, []byte(b.String()))
}

func boolText(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// =============================================================================
// READING
// =============================================================================

// ReadLedgers loads the ledger masters table.
func ReadLedgers(dir string) ([]types.LedgerMaster, error) {
	rows, err := readTable(filepath.Join(dir, LedgersFile), len(ledgerHeader))
	if err != nil {
		return nil, err
	}

	ledgers := make([]types.LedgerMaster, 0, len(rows))
	for _, r := range rows {
		ledgers = append(ledgers, types.LedgerMaster{
			Name:           r[0],
			Parent:         r[1],
			OpeningBalance: amount(r[2]),
			Description:    r[3],
			IsBank:         r[4] == "true",
			IsCash:         r[5] == "true",
			IsBillwise:     r[6] == "true",
		})
	}
	return ledgers, nil
}

// ReadParties loads the party masters table.
func ReadParties(dir string) ([]types.PartyMaster, error) {
	rows, err := readTable(filepath.Join(dir, PartiesFile), len(partyHeader))
	if err != nil {
		return nil, err
	}

	parties := make([]types.PartyMaster, 0, len(rows))
	for _, r := range rows {
		parties = append(parties, types.PartyMaster{
			Name:             r[0],
			Type:             types.PartyType(r[1]),
			GSTIN:            r[2],
			RegistrationType: r[3],
			StateCode:        r[4],
			AddressLine1:     r[5],
			AddressLine2:     r[6],
			City:             r[7],
			State:            r[8],
			Country:          r[9],
			Pincode:          r[10],
			Email:            r[11],
			Phone:            r[12],
			Mobile:           r[13],
			BankAccountNo:    r[14],
			BankName:         r[15],
			BankIFSC:         r[16],
			OpeningBalance:   amount(r[17]),
		})
	}
	return parties, nil
}

// ReadVouchers loads one category's voucher table, regrouping consecutive
// allocation rows into vouchers.
func ReadVouchers(dir string, cat types.Category) ([]types.Voucher, error) {
	rows, err := readTable(filepath.Join(dir, VouchersFile(cat)), len(voucherHeader))
	if err != nil {
		return nil, err
	}

	var vouchers []types.Voucher
	var current *types.Voucher

	for _, r := range rows {
		key := r[0] + "\x00" + r[1]
		if current == nil || current.SourceID+"\x00"+current.Number != key {
			vouchers = append(vouchers, types.Voucher{
				Category:            cat,
				SourceID:            r[0],
				Number:              r[1],
				Date:                r[2],
				Party:               r[3],
				Narration:           r[4],
				PlaceOfSupply:       r[5],
				GSTIN:               r[6],
				RegistrationType:    r[7],
				PartyAddress1:       r[8],
				PartyAddress2:       r[9],
				PartyState:          r[10],
				PartyCountry:        r[11],
				OriginalInvoice:     r[12],
				OriginalInvoiceDate: r[13],
			})
			current = &vouchers[len(vouchers)-1]
		}

		alloc := types.Allocation{
			Ledger: r[14],
			Amount: amount(r[15]),
		}
		if r[16] != "" {
			alloc.Bill = &types.BillRef{
				Name:   r[16],
				Type:   types.BillType(r[17]),
				Amount: amount(r[18]),
			}
		}
		current.Allocations = append(current.Allocations, alloc)
	}

	return vouchers, nil
}

// readTable reads a CSV table, validates the column count and strips the
// header row.
func readTable(path string, wantCols int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open table: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = wantCols

	all, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("%s is empty", filepath.Base(path))
	}
	return all[1:], nil
}

func amount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Exists reports whether a category table was produced by the cleaning
// stage. A backup without, say, credit notes simply has no table.
func Exists(dir string, cat types.Category) bool {
	_, err := os.Stat(filepath.Join(dir, VouchersFile(cat)))
	return err == nil
}
