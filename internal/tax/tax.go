// =============================================================================
// Zoho to Tally Converter - GST Computation
// =============================================================================
//
// Given a taxable line amount, a tax rate and the two jurisdiction codes
// (party's place of supply vs. the issuing company's state), this module
// decides between the intra-state split (CGST + SGST at half rate each) and
// the inter-state single component (IGST at full rate), and names the tax
// ledger each component posts to.
//
// Ledger names are fixed by direction and component: output tax for sales
// and credit notes, input tax for purchases.
//
// =============================================================================

package tax

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Direction says which side of the tax the transaction sits on.
type Direction int

const (
	// Output tax is collected on sales and reversed on credit notes.
	Output Direction = iota
	// Input tax is paid on purchases.
	Input
)

// Tax ledger names. These must exist in the destination chart of accounts
// (the ledgers document creates them under Duties & Taxes when the chart of
// accounts carries them).
const (
	OutputCGST = "Output CGST"
	OutputSGST = "Output SGST"
	OutputIGST = "Output IGST"
	InputCGST  = "Input CGST"
	InputSGST  = "Input SGST"
	InputIGST  = "Input IGST"
)

// Component is one computed tax posting.
type Component struct {
	Ledger string
	Amount decimal.Decimal
}

// two is hoisted so Compute does not rebuild it per line.
var two = decimal.NewFromInt(2)

// IntraState reports whether the party and company share a jurisdiction.
// A blank party code is treated as intra-state, matching how Zoho leaves
// the place of supply empty for local consumers.
func IntraState(partyStateCode, companyStateCode string) bool {
	p := strings.TrimSpace(partyStateCode)
	if p == "" {
		return true
	}
	return p == strings.TrimSpace(companyStateCode)
}

// Compute derives the tax components for one line.
//
// PARAMETERS:
//   - taxable: the pre-tax line amount (always positive).
//   - ratePercent: the combined GST rate, e.g. 18 for 18%.
//   - partyStateCode, companyStateCode: jurisdiction codes.
//   - dir: Output or Input.
//
// RETURNS:
//   - Two equal half-rate components (CGST, SGST) when intra-state, or one
//     full-rate component (IGST) when inter-state. A zero rate yields nil.
//
// Amounts are rounded to two decimal places. The intra-state split halves
// the computed total rather than computing each half independently, so the
// two components always sum to the full-rate amount minus at most one cent
// of rounding, which the voucher-level balance check absorbs.
func Compute(taxable decimal.Decimal, ratePercent decimal.Decimal, partyStateCode, companyStateCode string, dir Direction) []Component {
	if ratePercent.Sign() <= 0 || taxable.Sign() == 0 {
		return nil
	}

	total := taxable.Mul(ratePercent).Div(decimal.NewFromInt(100))

	if IntraState(partyStateCode, companyStateCode) {
		half := total.Div(two).Round(2)
		cgst, sgst := InputCGST, InputSGST
		if dir == Output {
			cgst, sgst = OutputCGST, OutputSGST
		}
		return []Component{
			{Ledger: cgst, Amount: half},
			{Ledger: sgst, Amount: half},
		}
	}

	igst := InputIGST
	if dir == Output {
		igst = OutputIGST
	}
	return []Component{{Ledger: igst, Amount: total.Round(2)}}
}

// FromExported builds components straight from Zoho's exported CGST/SGST/
// IGST amount columns. Exported amounts win over recomputation because they
// are what the source books actually posted.
func FromExported(cgst, sgst, igst decimal.Decimal, dir Direction) []Component {
	var out []Component

	if igst.Sign() > 0 {
		ledger := InputIGST
		if dir == Output {
			ledger = OutputIGST
		}
		return append(out, Component{Ledger: ledger, Amount: igst})
	}

	cgstLedger, sgstLedger := InputCGST, InputSGST
	if dir == Output {
		cgstLedger, sgstLedger = OutputCGST, OutputSGST
	}
	if cgst.Sign() > 0 {
		out = append(out, Component{Ledger: cgstLedger, Amount: cgst})
	}
	if sgst.Sign() > 0 {
		out = append(out, Component{Ledger: sgstLedger, Amount: sgst})
	}
	return out
}
