// =============================================================================
// Zoho to Tally Converter - Shared Types
// =============================================================================
//
// This package contains the domain records shared across the pipeline stages
// to avoid import cycles. Types defined here are used by:
//   - cleaner   (builds the records from raw Zoho CSV rows)
//   - generator (turns the records into Tally XML units)
//   - mapping   (resolves destination names referenced by the records)
//
// SIGN CONVENTION:
//   Debits are positive, credits are negative. Every amount in this package
//   and everything downstream of it follows that rule; Tally's
//   ISDEEMEDPOSITIVE flag is derived from the sign at serialization time.
//
// =============================================================================

package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// VOUCHER CATEGORIES
// =============================================================================

// Category identifies one class of financial voucher.
type Category string

const (
	CategorySales      Category = "sales"
	CategoryPurchase   Category = "purchase"
	CategoryReceipt    Category = "receipt"
	CategoryPayment    Category = "payment"
	CategoryCreditNote Category = "creditnote"
	CategoryJournal    Category = "journal"
)

// AllCategories lists every voucher category in the order the generated
// documents must be imported into Tally. Masters (ledgers, then parties)
// always go first; receipts, payments and credit notes reference invoices
// and bills that must already exist.
var AllCategories = []Category{
	CategorySales,
	CategoryPurchase,
	CategoryReceipt,
	CategoryPayment,
	CategoryCreditNote,
	CategoryJournal,
}

// VoucherTypeName returns the Tally voucher type tag for the category.
func (c Category) VoucherTypeName() string {
	switch c {
	case CategorySales:
		return "Sales"
	case CategoryPurchase:
		return "Purchase"
	case CategoryReceipt:
		return "Receipt"
	case CategoryPayment:
		return "Payment"
	case CategoryCreditNote:
		return "Credit Note"
	case CategoryJournal:
		return "Journal"
	}
	return string(c)
}

// GUIDPrefix returns the short prefix used when deriving voucher GUIDs.
func (c Category) GUIDPrefix() string {
	switch c {
	case CategorySales:
		return "SAL"
	case CategoryPurchase:
		return "PUR"
	case CategoryReceipt:
		return "RCP"
	case CategoryPayment:
		return "PAY"
	case CategoryCreditNote:
		return "CRN"
	case CategoryJournal:
		return "JRN"
	}
	return "VCH"
}

// =============================================================================
// BILL-WISE REFERENCES
// =============================================================================

// BillType distinguishes a freshly raised reference from a settlement
// against an earlier one. Tally rejects a settlement emitted as "New Ref",
// so the two must never be conflated.
type BillType string

const (
	// BillTypeNew marks the original invoice/bill reference.
	BillTypeNew BillType = "New Ref"

	// BillTypeAgainst marks an amount applied against a prior reference
	// (receipt settling an invoice, payment settling a bill, credit note
	// reducing an invoice).
	BillTypeAgainst BillType = "Agst Ref"
)

// BillRef links an allocation to a bill-wise reference.
type BillRef struct {
	// Name is the referenced voucher number (e.g. "INV-102").
	Name string

	// Type says whether the reference is new or applied-against.
	Type BillType

	// Amount is the signed portion allocated to this reference.
	Amount decimal.Decimal
}

// =============================================================================
// VOUCHER RECORDS
// =============================================================================

// Allocation is a single signed ledger line inside a voucher.
type Allocation struct {
	// Ledger is the fully resolved Tally ledger name.
	Ledger string

	// Amount is signed per the package convention (debit > 0, credit < 0).
	Amount decimal.Decimal

	// Bill is the optional bill-wise reference attached to this line.
	Bill *BillRef
}

// IsDebit reports whether the allocation sits on the debit side.
func (a Allocation) IsDebit() bool {
	return a.Amount.Sign() > 0
}

// Voucher is one financial transaction, fully resolved: every ledger name is
// already a destination name and no further lookups are required.
type Voucher struct {
	Category Category

	// SourceID is the Zoho entity ID (Invoice ID, Bill ID, ...) and seeds
	// the deterministic GUID. Falls back to the voucher number when Zoho
	// did not export an ID.
	SourceID string

	// Number is the voucher number as it should appear in Tally.
	Number string

	// Date is the canonical voucher date in ISO form (YYYY-MM-DD), already
	// normalized by the cleaning stage.
	Date string

	// Party is the debtor/creditor ledger name, empty for journals.
	Party string

	Narration     string
	PlaceOfSupply string

	// GSTIN and RegistrationType feed the buyer/seller details block on the
	// emitted voucher (BUYERDETAILS.LIST on sales and credit notes,
	// SELLERDETAILS.LIST on purchases).
	GSTIN            string
	RegistrationType string

	// Consignee address context for the buyer details block. Shipping
	// columns win over billing columns on the export.
	PartyAddress1 string
	PartyAddress2 string
	PartyState    string
	PartyCountry  string

	// OriginalInvoice links a credit note back to the invoice it reverses,
	// emitted as ORIGINALINVOICEDETAILS so Tally's GST reports can pair the
	// two. Blank on every other category.
	OriginalInvoice     string
	OriginalInvoiceDate string

	Allocations []Allocation
}

// Balance returns the sum of the signed allocation amounts. A balanced
// voucher sums to zero.
func (v Voucher) Balance() decimal.Decimal {
	sum := decimal.Zero
	for _, a := range v.Allocations {
		sum = sum.Add(a.Amount)
	}
	return sum
}

// =============================================================================
// MASTER RECORDS
// =============================================================================

// LedgerMaster is one destination ledger built from the chart of accounts.
type LedgerMaster struct {
	Name           string
	Parent         string
	OpeningBalance decimal.Decimal
	Description    string

	IsBank     bool
	IsCash     bool
	IsBillwise bool
}

// PartyType says which side of the books a party sits on.
type PartyType string

const (
	PartyDebtor   PartyType = "debtor"
	PartyCreditor PartyType = "creditor"
)

// ParentGroup returns the fixed Tally parent group for the party type.
func (t PartyType) ParentGroup() string {
	if t == PartyCreditor {
		return "Sundry Creditors"
	}
	return "Sundry Debtors"
}

// PartyMaster is one customer or vendor ledger with its GST metadata.
type PartyMaster struct {
	Name string
	Type PartyType

	GSTIN            string
	RegistrationType string
	StateCode        string

	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	Country      string
	Pincode      string

	Email  string
	Phone  string
	Mobile string

	// Bank details, exported for vendors only. Emitted as BANKDETAILS.LIST
	// when both the account number and bank name are present.
	BankAccountNo string
	BankName      string
	BankIFSC      string

	OpeningBalance decimal.Decimal
}

// =============================================================================
// AMOUNT PARSING
// =============================================================================

// ParseAmount scrubs thousands separators and currency symbols, then parses
// the remainder as a decimal. Blank and unparseable values become zero,
// matching how the source system exports untouched numeric columns. Every
// stage parses raw amounts through this one function so the scrub rules
// cannot drift apart.
func ParseAmount(s string) decimal.Decimal {
	s = strings.NewReplacer(",", "", "₹", "", " ", "").Replace(strings.TrimSpace(s))
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
