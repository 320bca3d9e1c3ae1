// =============================================================================
// Zoho to Tally Converter - Mapping Workbook
// =============================================================================
//
// This module loads the user-editable XLSX workbook that translates Zoho
// account and party names into Tally names and group classifications. The
// workbook is the only place mapping knowledge lives; nothing is hard-coded
// beyond the account-type fallback table at the bottom of this file.
//
// WORKBOOK STRUCTURE (Expected Sheets):
//
//   Sheet "Ledgers":
//   | Column A            | Column B          | Column C           | Column D        | Column E     |
//   |---------------------|-------------------|--------------------|-----------------|--------------|
//   | Source Account Name | Tally Ledger Name | Tally Parent Group | Opening Balance | Balance Sign |
//
//   Sheet "Parties":
//   | Column A    | Column B         | Column C   | Column D | Column E          | Column F | Column G   | Column H        |
//   |-------------|------------------|------------|----------|-------------------|----------|------------|-----------------|
//   | Source Name | Tally Party Name | Party Type | GSTIN    | Registration Type | Address  | State Code | Opening Balance |
//
// Source names must be unique within a sheet; a duplicate is a load error,
// never a silent last-one-wins.
//
// =============================================================================

package mapping

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/tallybridge/tallybridge/internal/config"
	"github.com/tallybridge/tallybridge/internal/types"
)

// Sheet names in the mapping workbook.
const (
	LedgerSheet = "Ledgers"
	PartySheet  = "Parties"
)

// =============================================================================
// ERRORS
// =============================================================================

// MissingMappingError reports every source name that could not be resolved,
// so the workbook can be extended in a single pass instead of one failure
// per run.
type MissingMappingError struct {
	Names []string
}

// Error implements the error interface.
func (e *MissingMappingError) Error() string {
	return fmt.Sprintf("%d source name(s) missing from the mapping workbook: %s",
		len(e.Names), strings.Join(e.Names, ", "))
}

// DuplicateError reports a source name that appears on more than one row of
// a mapping sheet.
type DuplicateError struct {
	Sheet string
	Name  string
	Row   int
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("sheet %q row %d: duplicate source name %q", e.Sheet, e.Row, e.Name)
}

// =============================================================================
// MAPPING ENTRIES
// =============================================================================

// LedgerEntry maps one Zoho account name to its Tally identity.
type LedgerEntry struct {
	SourceName     string
	TallyName      string
	ParentGroup    string
	OpeningBalance decimal.Decimal
}

// PartyEntry maps one Zoho contact/vendor to its Tally identity.
type PartyEntry struct {
	SourceName       string
	TallyName        string
	Type             types.PartyType
	GSTIN            string
	RegistrationType string
	Address          string
	StateCode        string
	OpeningBalance   decimal.Decimal
}

// =============================================================================
// MAPPING TABLES
// =============================================================================

// Tables holds both mapping tables plus the resolution policy. It is loaded
// once at run start and never mutated during a run.
type Tables struct {
	mode          config.ResolutionMode
	defaultLedger string

	ledgers map[string]*LedgerEntry
	parties map[string]*PartyEntry

	// missing accumulates unresolved names in strict mode so they can be
	// reported together at the end of the cleaning pass.
	missing map[string]bool
}

// Load reads the mapping workbook at path.
//
// RETURNS:
//   - The loaded tables.
//   - An error if the workbook cannot be opened, a sheet is missing, or a
//     source name is duplicated.
func Load(path string, mode config.ResolutionMode, defaultLedger string) (*Tables, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mapping workbook: %w", err)
	}
	defer f.Close()

	t := &Tables{
		mode:          mode,
		defaultLedger: defaultLedger,
		ledgers:       make(map[string]*LedgerEntry),
		parties:       make(map[string]*PartyEntry),
		missing:       make(map[string]bool),
	}

	if err := t.loadLedgerSheet(f); err != nil {
		return nil, err
	}
	if err := t.loadPartySheet(f); err != nil {
		return nil, err
	}

	return t, nil
}

// loadLedgerSheet reads the "Ledgers" sheet into the ledger table.
func (t *Tables) loadLedgerSheet(f *excelize.File) error {
	rows, err := f.GetRows(LedgerSheet)
	if err != nil {
		return fmt.Errorf("failed to read sheet %q: %w", LedgerSheet, err)
	}

	for i, row := range rows {
		if i == 0 || rowBlank(row) {
			continue // header
		}

		entry := &LedgerEntry{
			SourceName:  cell(row, 0),
			TallyName:   cell(row, 1),
			ParentGroup: cell(row, 2),
		}
		if entry.SourceName == "" {
			continue
		}
		if entry.TallyName == "" {
			entry.TallyName = entry.SourceName
		}

		entry.OpeningBalance = types.ParseAmount(cell(row, 3))
		if strings.EqualFold(cell(row, 4), "Cr") {
			entry.OpeningBalance = entry.OpeningBalance.Neg()
		}

		key := normalize(entry.SourceName)
		if _, exists := t.ledgers[key]; exists {
			return &DuplicateError{Sheet: LedgerSheet, Name: entry.SourceName, Row: i + 1}
		}
		t.ledgers[key] = entry
	}

	return nil
}

// loadPartySheet reads the "Parties" sheet into the party table.
func (t *Tables) loadPartySheet(f *excelize.File) error {
	rows, err := f.GetRows(PartySheet)
	if err != nil {
		return fmt.Errorf("failed to read sheet %q: %w", PartySheet, err)
	}

	for i, row := range rows {
		if i == 0 || rowBlank(row) {
			continue
		}

		entry := &PartyEntry{
			SourceName:       cell(row, 0),
			TallyName:        cell(row, 1),
			GSTIN:            cell(row, 3),
			RegistrationType: cell(row, 4),
			Address:          cell(row, 5),
			StateCode:        cell(row, 6),
			OpeningBalance:   types.ParseAmount(cell(row, 7)),
		}
		if entry.SourceName == "" {
			continue
		}
		if entry.TallyName == "" {
			entry.TallyName = entry.SourceName
		}

		switch strings.ToLower(cell(row, 2)) {
		case "creditor", "vendor", "supplier":
			entry.Type = types.PartyCreditor
		default:
			entry.Type = types.PartyDebtor
		}

		key := normalize(entry.SourceName)
		if _, exists := t.parties[key]; exists {
			return &DuplicateError{Sheet: PartySheet, Name: entry.SourceName, Row: i + 1}
		}
		t.parties[key] = entry
	}

	return nil
}

// =============================================================================
// RESOLUTION
// =============================================================================

// ResolveLedger returns the Tally ledger name for a Zoho account name.
// In lenient mode an unmapped name resolves to the default ledger; in strict
// mode it is recorded and the default is returned as a placeholder; the
// caller must check Missing() before using the output.
func (t *Tables) ResolveLedger(sourceName string) string {
	if entry, ok := t.ledgers[normalize(sourceName)]; ok {
		return entry.TallyName
	}
	if t.mode == config.ModeStrict {
		t.missing[sourceName] = true
	}
	return t.defaultLedger
}

// ResolveParty returns the party entry for a Zoho contact/vendor name, or
// nil when unmapped. Unmapped party names are tracked the same way as
// ledgers in strict mode; lenient mode passes the source name through.
func (t *Tables) ResolveParty(sourceName string) (string, *PartyEntry) {
	if entry, ok := t.parties[normalize(sourceName)]; ok {
		return entry.TallyName, entry
	}
	if t.mode == config.ModeStrict {
		t.missing[sourceName] = true
	}
	return sourceName, nil
}

// LedgerEntryFor returns the full ledger entry when one exists.
func (t *Tables) LedgerEntryFor(sourceName string) (*LedgerEntry, bool) {
	entry, ok := t.ledgers[normalize(sourceName)]
	return entry, ok
}

// Missing returns the MissingMappingError accumulated during resolution, or
// nil when every referenced name resolved. The names are sorted so repeated
// runs report identically.
func (t *Tables) Missing() error {
	if len(t.missing) == 0 {
		return nil
	}
	names := make([]string, 0, len(t.missing))
	for name := range t.missing {
		names = append(names, name)
	}
	sort.Strings(names)
	return &MissingMappingError{Names: names}
}

// LedgerCount returns the number of ledger mapping rows.
func (t *Tables) LedgerCount() int { return len(t.ledgers) }

// PartyCount returns the number of party mapping rows.
func (t *Tables) PartyCount() int { return len(t.parties) }

// CustomParentGroups returns the parent groups named in the ledger sheet
// that are not built-in Tally primary groups, sorted. Each of these needs
// its own GROUP unit during import.
func (t *Tables) CustomParentGroups() []string {
	seen := make(map[string]bool)
	for _, entry := range t.ledgers {
		if entry.ParentGroup != "" && !KnownPrimaryGroups[entry.ParentGroup] {
			seen[entry.ParentGroup] = true
		}
	}
	groups := make([]string, 0, len(seen))
	for g := range seen {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}

// =============================================================================
// HELPERS
// =============================================================================

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func rowBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// =============================================================================
// ACCOUNT TYPE FALLBACK TABLE
// =============================================================================

// accountTypeGroups maps Zoho account types to Tally parent groups. It is
// used only when a ledger mapping row leaves the Parent Group column blank
// (or the account never appears in the workbook in lenient mode).
var accountTypeGroups = map[string]string{
	"Asset":                    "Current Assets",
	"Bank":                     "Bank Accounts",
	"Cash":                     "Cash-in-Hand",
	"Expense":                  "Indirect Expenses",
	"Cost of Goods Sold":       "Direct Expenses",
	"Equity":                   "Capital Account",
	"Income":                   "Indirect Incomes",
	"Other Income":             "Indirect Incomes",
	"Liability":                "Current Liabilities",
	"Other Current Asset":      "Current Assets",
	"Other Current Liability":  "Current Liabilities",
	"Account Receivable":       "Sundry Debtors",
	"Account Payable":          "Sundry Creditors",
	"Fixed Asset":              "Fixed Assets",
	"Loan (Liability)":         "Loans (Liability)",
	"Other Asset":              "Current Assets",
	"Stock":                    "Stock-in-Hand",
	"Cess":                     "Duties & Taxes",
	"TDS Receivable":           "Duties & Taxes",
	"TDS Payable":              "Duties & Taxes",
	"CGST":                     "Duties & Taxes",
	"SGST":                     "Duties & Taxes",
	"IGST":                     "Duties & Taxes",
	"Service Tax":              "Duties & Taxes",
	"Professional Tax":         "Duties & Taxes",
	"TCS":                      "Duties & Taxes",
	"Advance Tax":              "Duties & Taxes",
	"Secured Loan":             "Secured Loans",
	"Unsecured Loan":           "Unsecured Loans",
	"Provisions":               "Provisions",
	"Branch / Division":        "Branch / Divisions",
	"Statutory":                "Duties & Taxes",
	"Other Liability":          "Current Liabilities",
	"Retained Earnings":        "Reserves & Surplus",
	"Long Term Liability":      "Loans (Liability)",
	"Long Term Asset":          "Fixed Assets",
	"Loan & Advance (Asset)":   "Loans & Advances (Asset)",
	"Stock Adjustment Account": "Direct Expenses",
	"Uncategorized":            "Suspense A/c",
}

// GroupForAccountType returns the Tally parent group for a Zoho account
// type, falling back to Suspense A/c for anything unrecognized.
func GroupForAccountType(accountType string) string {
	if group, ok := accountTypeGroups[strings.TrimSpace(accountType)]; ok {
		return group
	}
	return "Suspense A/c"
}

// KnownPrimaryGroups lists Tally's reserved top-level groups. A parent group
// outside this list is created under Primary before any ledger references it.
var KnownPrimaryGroups = map[string]bool{
	"Capital Account":          true,
	"Loans (Liability)":        true,
	"Fixed Assets":             true,
	"Investments":              true,
	"Current Assets":           true,
	"Current Liabilities":      true,
	"Suspense A/c":             true,
	"Sales Accounts":           true,
	"Purchase Accounts":        true,
	"Direct Incomes":           true,
	"Direct Expenses":          true,
	"Indirect Incomes":         true,
	"Indirect Expenses":        true,
	"Bank Accounts":            true,
	"Cash-in-Hand":             true,
	"Duties & Taxes":           true,
	"Stock-in-Hand":            true,
	"Branch / Divisions":       true,
	"Reserves & Surplus":       true,
	"Secured Loans":            true,
	"Unsecured Loans":          true,
	"Provisions":               true,
	"Loans & Advances (Asset)": true,
	"Sundry Debtors":           true,
	"Sundry Creditors":         true,
}
