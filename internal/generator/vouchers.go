// =============================================================================
// Zoho to Tally Converter - Voucher Document Generation
// =============================================================================
//
// Builds one "Vouchers" document per category from the normalized voucher
// tables. Every voucher is balance-checked before it is emitted: allocations
// must sum to zero within the configured tolerance. The configured policy
// decides what happens to a voucher that fails the check:
//
//   skip   - drop the voucher and record a warning
//   adjust - insert a balancing allocation on the round-off ledger and
//            record a warning
//
// GUIDs are derived deterministically from the category prefix and the
// source entity ID, so re-running the pipeline over the same backup yields
// byte-identical documents and Tally-side duplicate detection keeps working.
//
// =============================================================================

package generator

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tallybridge/tallybridge/internal/config"
	"github.com/tallybridge/tallybridge/internal/tables"
	"github.com/tallybridge/tallybridge/internal/tallyxml"
	"github.com/tallybridge/tallybridge/internal/types"
)

// generateVouchers builds the document for one category.
func (g *Generator) generateVouchers(cat types.Category) (string, error) {
	vouchers, err := tables.ReadVouchers(g.cfg.ProcessedDir, cat)
	if err != nil {
		return "", err
	}

	root, message := tallyxml.Envelope(tallyxml.ReportVouchers, tallyxml.TagsVouchers)

	emitted := 0
	for _, v := range vouchers {
		balanced, ok := g.balance(v)
		if !ok {
			continue
		}
		message.Add(voucherUnit(balanced))
		emitted++
	}

	g.log.WithFields(logrus.Fields{
		"category": cat,
		"vouchers": emitted,
		"read":     len(vouchers),
	}).Info("voucher document built")

	return g.publish(VouchersFile(cat), root)
}

// balance applies the balance check and policy. It returns the voucher to
// emit (possibly with a round-off allocation appended) and whether to emit
// it at all.
func (g *Generator) balance(v types.Voucher) (types.Voucher, bool) {
	diff := v.Balance()
	if diff.Abs().LessThanOrEqual(g.cfg.Tolerance()) {
		return v, true
	}

	balErr := &BalanceError{Category: v.Category, Number: v.Number, Difference: diff}

	if g.cfg.BalancePolicy == config.PolicySkip {
		g.warn("%v, voucher skipped", balErr)
		return v, false
	}

	// Adjust: the counter-entry cancels the difference exactly.
	v.Allocations = append(v.Allocations, types.Allocation{
		Ledger: g.cfg.RoundOffLedger,
		Amount: diff.Neg(),
	})
	g.warn("%v, %s round-off entry inserted", balErr, diff.Neg().StringFixed(2))
	return v, true
}

// =============================================================================
// VOUCHER UNITS
// =============================================================================

// voucherGUID derives the stable voucher GUID from the category prefix and
// source entity ID.
func voucherGUID(v types.Voucher) string {
	seed := v.Category.GUIDPrefix() + "-" + v.SourceID
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed)).String()
}

// voucherUnit builds one VOUCHER element with its ledger entries.
func voucherUnit(v types.Voucher) *tallyxml.Element {
	date := tallyxml.TallyDate(v.Date)

	unit := tallyxml.NewElement("VOUCHER").
		SetAttr("REMOTEID", v.SourceID).
		SetAttr("VCHTYPE", v.Category.VoucherTypeName()).
		SetAttr("ACTION", "CREATE").
		AddText("DATE", date).
		AddText("EFFECTIVEDATE", date).
		AddText("GUID", voucherGUID(v)).
		AddText("VOUCHERTYPENAME", v.Category.VoucherTypeName()).
		AddText("VOUCHERNUMBER", v.Number)

	if v.Party != "" {
		unit.AddText("PARTYLEDGERNAME", v.Party)
	}
	unit.AddText("PERSISTEDVIEW", "Accounting Voucher")
	if v.PlaceOfSupply != "" {
		unit.AddText("PLACEOFSUPPLY", v.PlaceOfSupply)
	}

	if v.Party != "" {
		switch v.Category {
		case types.CategorySales, types.CategoryCreditNote:
			unit.Add(partyDetails("BUYERDETAILS.LIST", v))
		case types.CategoryPurchase:
			unit.Add(partyDetails("SELLERDETAILS.LIST", v))
		}
	}

	unit.AddText("NARRATION", v.Narration)

	if v.OriginalInvoice != "" {
		unit.Add(
			tallyxml.NewElement("ORIGINALINVOICEDETAILS.LIST").Add(
				tallyxml.NewElement("ORIGINALINVOICEDETAILS").
					AddText("DATE", tallyxml.TallyDate(v.OriginalInvoiceDate)).
					AddText("REFNUM", v.OriginalInvoice),
			),
		)
	}

	entries := tallyxml.NewElement("ALLLEDGERENTRIES.LIST")
	for _, a := range v.Allocations {
		entries.Add(allocationEntry(a))
	}

	return unit.Add(entries)
}

// partyDetails builds the buyer/seller block carrying the counterparty's GST
// context: sales and credit notes emit the buyer side, purchases the seller
// side. Address and state are only present on the buyer side; the export
// carries no seller address on bills.
func partyDetails(listName string, v types.Voucher) *tallyxml.Element {
	details := tallyxml.NewElement(listName).AddText("CONSNAME", v.Party)

	if v.PartyAddress1 != "" || v.PartyAddress2 != "" {
		address := tallyxml.NewElement("ADDRESS.LIST")
		if v.PartyAddress1 != "" {
			address.AddText("ADDRESS", v.PartyAddress1)
		}
		if v.PartyAddress2 != "" {
			address.AddText("ADDRESS", v.PartyAddress2)
		}
		details.Add(address)
	}
	if v.PartyState != "" {
		details.AddText("STATENAME", v.PartyState)
	}
	if v.PartyCountry != "" {
		details.AddText("COUNTRYNAME", v.PartyCountry)
	}

	if v.GSTIN != "" {
		regType := v.RegistrationType
		if regType == "" {
			regType = "Regular"
		}
		details.AddText("GSTREGISTRATIONTYPE", regType).
			AddText("GSTIN", v.GSTIN)
	}

	return details
}

// allocationEntry builds one ALLLEDGERENTRIES line. The deemed-positive flag
// follows the sign convention: debits are positive and deemed positive.
func allocationEntry(a types.Allocation) *tallyxml.Element {
	entry := tallyxml.NewElement("ALLLEDGERENTRIES").
		AddText("LEDGERNAME", a.Ledger).
		AddText("ISDEEMEDPOSITIVE", tallyxml.YesNo(a.IsDebit())).
		AddText("AMOUNT", tallyxml.Amount(a.Amount))

	if a.Bill != nil {
		entry.Add(
			tallyxml.NewElement("BILLALLOCATIONS.LIST").Add(
				tallyxml.NewElement("BILLALLOCATIONS").
					AddText("NAME", a.Bill.Name).
					AddText("BILLTYPE", string(a.Bill.Type)).
					AddText("AMOUNT", tallyxml.Amount(a.Bill.Amount)),
			),
		)
	}

	return entry
}
