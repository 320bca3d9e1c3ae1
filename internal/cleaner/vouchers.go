// =============================================================================
// Zoho to Tally Converter - Voucher Normalization
// =============================================================================
//
// One normalizer per voucher category. Each produces fully-resolved voucher
// records: destination ledger names, canonical dates, signed amounts (debit
// positive, credit negative) and bill-wise references, so the generation
// stage can emit XML without consulting anything else.
//
// Zoho flattens multi-line documents into repeated CSV rows sharing the
// document ID; invoices, bills, credit notes and journals are therefore
// regrouped before a voucher is built. Payments and receipts are one row
// per voucher.
//
// =============================================================================

package cleaner

import (
	"path/filepath"

	"github.com/tallybridge/tallybridge/internal/csvparser"
	"github.com/tallybridge/tallybridge/internal/tax"
	"github.com/tallybridge/tallybridge/internal/types"
)

// Default source ledger names used when a Zoho row leaves its account
// column blank.
const (
	defaultSalesAccount    = "Sales Account"
	defaultPurchaseAccount = "Purchase Account"
	defaultSalesReturns    = "Sales Returns"
	defaultCashLedger      = "Cash-in-Hand"
)

// =============================================================================
// SALES (Invoice.csv)
// =============================================================================

// normalizeSales turns invoice rows into sales vouchers. The party is
// debited for the invoice total under a New Ref bill allocation; sales and
// output-tax ledgers carry the matching credits.
func (c *Cleaner) normalizeSales(data *csvparser.CSVData) ([]types.Voucher, error) {
	file := filepath.Base(data.SourceFile)
	var vouchers []types.Voucher

	for _, group := range csvparser.GroupBy(data, "Invoice ID") {
		header := group.Rows[0]

		date, err := dateValue(file, group.RowNumbers[0], "Invoice Date", header["Invoice Date"])
		if err != nil {
			return nil, err
		}

		party, _ := c.maps.ResolveParty(header["Customer Name"])
		total := amount(header["Total"])
		number := header["Invoice Number"]
		pos := stateCode(header["Place of Supply(With State Code)"])

		line1, line2 := shipToAddress(header)
		v := types.Voucher{
			Category:         types.CategorySales,
			SourceID:         firstNonEmpty(group.Key, number),
			Number:           number,
			Date:             date,
			Party:            party,
			Narration:        header["Notes"],
			PlaceOfSupply:    pos,
			GSTIN:            header["GST Identification Number (GSTIN)"],
			RegistrationType: registrationType(header["GST Treatment"]),
			PartyAddress1:    line1,
			PartyAddress2:    line2,
			PartyState:       firstNonEmpty(header["Shipping State"], header["Billing State"]),
			PartyCountry:     firstNonEmpty(header["Shipping Country"], header["Billing Country"], c.cfg.DefaultCountry),
		}

		// Debit the debtor for the full invoice value, raising the bill.
		v.Allocations = append(v.Allocations, types.Allocation{
			Ledger: party,
			Amount: total,
			Bill:   &types.BillRef{Name: number, Type: types.BillTypeNew, Amount: total},
		})

		// Credit income and output tax per item row.
		for _, row := range group.Rows {
			if row["Item Name"] == "" {
				continue
			}

			itemTotal := amount(row["Item Total"])
			ledger := c.maps.ResolveLedger(firstNonEmpty(row["Account"], defaultSalesAccount))
			v.Allocations = append(v.Allocations, types.Allocation{
				Ledger: ledger,
				Amount: itemTotal.Neg(),
			})

			for _, comp := range c.lineTax(row, pos, tax.Output) {
				v.Allocations = append(v.Allocations, types.Allocation{
					Ledger: comp.Ledger,
					Amount: comp.Amount.Neg(),
				})
			}
		}

		// Zoho's round-off is already inside Total; the counter-entry
		// keeps the voucher balanced.
		if roundOff := amount(header["Round Off"]); !roundOff.IsZero() {
			v.Allocations = append(v.Allocations, types.Allocation{
				Ledger: c.cfg.RoundOffLedger,
				Amount: roundOff.Neg(),
			})
		}

		vouchers = append(vouchers, v)
	}

	return vouchers, nil
}

// =============================================================================
// PURCHASE (Bill.csv)
// =============================================================================

// normalizePurchases mirrors sales: the creditor is credited for the bill
// total under a New Ref; purchase and input-tax ledgers carry the debits.
func (c *Cleaner) normalizePurchases(data *csvparser.CSVData) ([]types.Voucher, error) {
	file := filepath.Base(data.SourceFile)
	var vouchers []types.Voucher

	for _, group := range csvparser.GroupBy(data, "Bill ID") {
		header := group.Rows[0]

		date, err := dateValue(file, group.RowNumbers[0], "Bill Date", header["Bill Date"])
		if err != nil {
			return nil, err
		}

		party, _ := c.maps.ResolveParty(header["Vendor Name"])
		total := amount(header["Total"])
		number := header["Bill Number"]
		pos := stateCode(header["Source of Supply"])

		v := types.Voucher{
			Category:         types.CategoryPurchase,
			SourceID:         firstNonEmpty(group.Key, number),
			Number:           number,
			Date:             date,
			Party:            party,
			Narration:        header["Vendor Notes"],
			PlaceOfSupply:    pos,
			GSTIN:            header["GST Identification Number (GSTIN)"],
			RegistrationType: registrationType(header["GST Treatment"]),
		}

		v.Allocations = append(v.Allocations, types.Allocation{
			Ledger: party,
			Amount: total.Neg(),
			Bill:   &types.BillRef{Name: number, Type: types.BillTypeNew, Amount: total.Neg()},
		})

		for _, row := range group.Rows {
			if row["Item Name"] == "" && row["Account"] == "" {
				continue
			}

			itemTotal := amount(row["Item Total"])
			ledger := c.maps.ResolveLedger(firstNonEmpty(row["Account"], defaultPurchaseAccount))
			v.Allocations = append(v.Allocations, types.Allocation{
				Ledger: ledger,
				Amount: itemTotal,
			})

			for _, comp := range c.lineTax(row, pos, tax.Input) {
				v.Allocations = append(v.Allocations, types.Allocation{
					Ledger: comp.Ledger,
					Amount: comp.Amount,
				})
			}
		}

		if adjustment := amount(header["Adjustment"]); !adjustment.IsZero() {
			v.Allocations = append(v.Allocations, types.Allocation{
				Ledger: c.cfg.RoundOffLedger,
				Amount: adjustment,
			})
		}

		vouchers = append(vouchers, v)
	}

	return vouchers, nil
}

// =============================================================================
// RECEIPT (Customer_Payment.csv)
// =============================================================================

// normalizeReceipts builds receipt vouchers: debit the deposit ledger,
// credit the customer, applying the credited amount against the settled
// invoice when one is referenced.
func (c *Cleaner) normalizeReceipts(data *csvparser.CSVData) ([]types.Voucher, error) {
	var vouchers []types.Voucher

	for i, row := range data.Rows {
		date, err := c.date(data, i, "Date")
		if err != nil {
			return nil, err
		}

		party, _ := c.maps.ResolveParty(row["Customer Name"])
		amt := amount(row["Amount"])
		deposit := c.maps.ResolveLedger(firstNonEmpty(row["Deposit To"], defaultCashLedger))

		v := types.Voucher{
			Category:  types.CategoryReceipt,
			SourceID:  firstNonEmpty(row["CustomerPayment ID"], row["Payment Number"]),
			Number:    row["Payment Number"],
			Date:      date,
			Party:     party,
			Narration: firstNonEmpty(row["Description"], "Customer Payment"),
		}

		v.Allocations = append(v.Allocations, types.Allocation{
			Ledger: deposit,
			Amount: amt,
		})

		credit := types.Allocation{Ledger: party, Amount: amt.Neg()}
		if invoice := row["Invoice Number"]; invoice != "" {
			if applied := amount(row["Amount Applied to Invoice"]); !applied.IsZero() {
				credit.Bill = &types.BillRef{
					Name:   invoice,
					Type:   types.BillTypeAgainst,
					Amount: applied.Neg(),
				}
			}
		}
		v.Allocations = append(v.Allocations, credit)

		vouchers = append(vouchers, v)
	}

	return vouchers, nil
}

// =============================================================================
// PAYMENT (Vendor_Payment.csv)
// =============================================================================

// normalizePayments builds payment vouchers: debit the vendor (applied
// against the settled bill), credit the paying bank/cash ledger.
func (c *Cleaner) normalizePayments(data *csvparser.CSVData) ([]types.Voucher, error) {
	var vouchers []types.Voucher

	for i, row := range data.Rows {
		date, err := c.date(data, i, "Date")
		if err != nil {
			return nil, err
		}

		party, _ := c.maps.ResolveParty(row["Vendor Name"])
		amt := amount(row["Amount"])
		paidThrough := c.maps.ResolveLedger(firstNonEmpty(row["Paid Through"], defaultCashLedger))

		v := types.Voucher{
			Category:  types.CategoryPayment,
			SourceID:  firstNonEmpty(row["VendorPayment ID"], row["Payment Number"]),
			Number:    row["Payment Number"],
			Date:      date,
			Party:     party,
			Narration: firstNonEmpty(row["Description"], "Vendor Payment"),
		}

		debit := types.Allocation{Ledger: party, Amount: amt}
		if bill := row["Bill Number"]; bill != "" {
			if applied := amount(row["Bill Amount"]); !applied.IsZero() {
				debit.Bill = &types.BillRef{
					Name:   bill,
					Type:   types.BillTypeAgainst,
					Amount: applied,
				}
			}
		}
		v.Allocations = append(v.Allocations, debit)

		v.Allocations = append(v.Allocations, types.Allocation{
			Ledger: paidThrough,
			Amount: amt.Neg(),
		})

		vouchers = append(vouchers, v)
	}

	return vouchers, nil
}

// =============================================================================
// CREDIT NOTE (Credit_Note.csv)
// =============================================================================

// normalizeCreditNotes reverses a sale: debit the sales-return and
// output-tax ledgers, credit the customer against the associated invoice.
func (c *Cleaner) normalizeCreditNotes(data *csvparser.CSVData) ([]types.Voucher, error) {
	file := filepath.Base(data.SourceFile)
	var vouchers []types.Voucher

	for _, group := range csvparser.GroupBy(data, "CreditNotes ID") {
		header := group.Rows[0]

		date, err := dateValue(file, group.RowNumbers[0], "Credit Note Date", header["Credit Note Date"])
		if err != nil {
			return nil, err
		}

		party, _ := c.maps.ResolveParty(header["Customer Name"])
		total := amount(header["Total"])
		number := header["Credit Note Number"]
		pos := stateCode(header["Place of Supply(With State Code)"])

		line1, line2 := shipToAddress(header)
		v := types.Voucher{
			Category:         types.CategoryCreditNote,
			SourceID:         firstNonEmpty(group.Key, number),
			Number:           number,
			Date:             date,
			Party:            party,
			Narration:        firstNonEmpty(header["Reason"], "Credit Note issued"),
			PlaceOfSupply:    pos,
			GSTIN:            header["GST Identification Number (GSTIN)"],
			RegistrationType: registrationType(header["GST Treatment"]),
			PartyAddress1:    line1,
			PartyAddress2:    line2,
			PartyState:       firstNonEmpty(header["Shipping State"], header["Billing State"]),
			PartyCountry:     firstNonEmpty(header["Shipping Country"], header["Billing Country"], c.cfg.DefaultCountry),
		}

		// Link the reversal to its invoice for GST reporting.
		if invoice := header["Associated Invoice Number"]; invoice != "" {
			v.OriginalInvoice = invoice
			if raw := header["Associated Invoice Date"]; raw != "" {
				invDate, err := dateValue(file, group.RowNumbers[0], "Associated Invoice Date", raw)
				if err != nil {
					return nil, err
				}
				v.OriginalInvoiceDate = invDate
			}
		}

		for _, row := range group.Rows {
			if row["Item Name"] == "" {
				continue
			}

			itemTotal := amount(row["Item Total"])
			ledger := c.maps.ResolveLedger(firstNonEmpty(row["Account"], defaultSalesReturns))
			v.Allocations = append(v.Allocations, types.Allocation{
				Ledger: ledger,
				Amount: itemTotal,
			})

			// Reversing a sale debits the output-tax ledgers.
			for _, comp := range c.lineTax(row, pos, tax.Output) {
				v.Allocations = append(v.Allocations, types.Allocation{
					Ledger: comp.Ledger,
					Amount: comp.Amount,
				})
			}
		}

		credit := types.Allocation{Ledger: party, Amount: total.Neg()}
		if invoice := header["Associated Invoice Number"]; invoice != "" {
			credit.Bill = &types.BillRef{
				Name:   invoice,
				Type:   types.BillTypeAgainst,
				Amount: total.Neg(),
			}
		}
		v.Allocations = append(v.Allocations, credit)

		vouchers = append(vouchers, v)
	}

	return vouchers, nil
}

// =============================================================================
// JOURNAL (Journal.csv)
// =============================================================================

// normalizeJournals regroups Zoho's one-leg-per-row journal export by
// journal number. Debit cells become positive allocations, credit cells
// negative ones.
func (c *Cleaner) normalizeJournals(data *csvparser.CSVData) ([]types.Voucher, error) {
	file := filepath.Base(data.SourceFile)
	var vouchers []types.Voucher

	for _, group := range csvparser.GroupBy(data, "Journal Number") {
		header := group.Rows[0]

		date, err := dateValue(file, group.RowNumbers[0], "Journal Date", header["Journal Date"])
		if err != nil {
			return nil, err
		}

		v := types.Voucher{
			Category:  types.CategoryJournal,
			SourceID:  group.Key,
			Number:    group.Key,
			Date:      date,
			Narration: firstNonEmpty(header["Notes"], "Journal Entry"),
		}

		for _, row := range group.Rows {
			ledger := c.maps.ResolveLedger(row["Account"])

			if debit := amount(row["Debit"]); debit.Sign() > 0 {
				v.Allocations = append(v.Allocations, types.Allocation{
					Ledger: ledger,
					Amount: debit,
				})
			} else if credit := amount(row["Credit"]); credit.Sign() > 0 {
				v.Allocations = append(v.Allocations, types.Allocation{
					Ledger: ledger,
					Amount: credit.Neg(),
				})
			}
		}

		vouchers = append(vouchers, v)
	}

	return vouchers, nil
}

// =============================================================================
// TAX HELPERS
// =============================================================================

// lineTax derives the tax components for one item row. Exported amount
// columns win; a bare rate is recomputed against the jurisdiction codes.
func (c *Cleaner) lineTax(row map[string]string, partyStateCode string, dir tax.Direction) []tax.Component {
	exported := tax.FromExported(
		amount(row["CGST"]),
		amount(row["SGST"]),
		amount(row["IGST"]),
		dir,
	)
	if len(exported) > 0 {
		return exported
	}

	rate := amount(row["Item Tax %"])
	if rate.Sign() <= 0 {
		return nil
	}
	return tax.Compute(amount(row["Item Total"]), rate, partyStateCode, c.cfg.CompanyStateCode, dir)
}
