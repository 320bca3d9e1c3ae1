// =============================================================================
// Zoho to Tally Converter - Master Document Generation
// =============================================================================
//
// Builds the two "All Masters" documents: ledger masters (with the custom
// groups they need) and party masters. Groups are emitted before ledgers in
// the same document so a single import creates the hierarchy top-down.
//
// =============================================================================

package generator

import (
	"sort"

	"github.com/tallybridge/tallybridge/internal/mapping"
	"github.com/tallybridge/tallybridge/internal/tables"
	"github.com/tallybridge/tallybridge/internal/tallyxml"
	"github.com/tallybridge/tallybridge/internal/types"
)

// generateLedgers builds the ledger master document from the normalized
// ledgers table. Returns "" without error when the table holds no rows.
func (g *Generator) generateLedgers() (string, error) {
	ledgers, err := tables.ReadLedgers(g.cfg.ProcessedDir)
	if err != nil {
		return "", err
	}
	if len(ledgers) == 0 {
		g.warn("no ledger masters to generate")
		return "", nil
	}

	root, message := tallyxml.Envelope(tallyxml.ReportMasters, tallyxml.TagsAccounts)

	// Custom parent groups first; Tally's own primary groups already exist.
	for _, group := range customGroups(ledgers) {
		message.Add(groupUnit(group))
	}

	for _, ledger := range ledgers {
		message.Add(g.ledgerUnit(ledger))
	}

	return g.publish(LedgersFile, root)
}

// generateParties builds the party master document from the normalized
// parties table. Returns "" without error when the table holds no rows.
func (g *Generator) generateParties() (string, error) {
	parties, err := tables.ReadParties(g.cfg.ProcessedDir)
	if err != nil {
		return "", err
	}
	if len(parties) == 0 {
		g.warn("no party masters to generate")
		return "", nil
	}

	root, message := tallyxml.Envelope(tallyxml.ReportMasters, tallyxml.TagsAccounts)
	for _, party := range parties {
		message.Add(g.partyUnit(party))
	}

	return g.publish(PartiesFile, root)
}

// =============================================================================
// MASTER UNITS
// =============================================================================

// customGroups returns the sorted parent groups that must be created before
// the ledgers referencing them, i.e. every parent that is not one of Tally's
// primary groups.
func customGroups(ledgers []types.LedgerMaster) []string {
	seen := make(map[string]bool)
	var groups []string

	for _, l := range ledgers {
		if l.Parent == "" || mapping.KnownPrimaryGroups[l.Parent] || seen[l.Parent] {
			continue
		}
		seen[l.Parent] = true
		groups = append(groups, l.Parent)
	}

	sort.Strings(groups)
	return groups
}

// groupUnit builds one GROUP master. Custom groups hang off Primary.
func groupUnit(name string) *tallyxml.Element {
	return tallyxml.NewElement("GROUP").
		SetAttr("NAME", name).
		SetAttr("ACTION", "CREATE").
		AddText("NAME", name).
		AddText("PARENT", "Primary").
		AddText("ISADDABLE", "Yes").
		Add(languageName(name))
}

// ledgerUnit builds one LEDGER master from a chart-of-accounts row.
func (g *Generator) ledgerUnit(l types.LedgerMaster) *tallyxml.Element {
	unit := tallyxml.NewElement("LEDGER").
		SetAttr("NAME", l.Name).
		SetAttr("ACTION", "CREATE").
		AddText("NAME", l.Name).
		AddText("PARENT", l.Parent).
		AddText("OPENINGBALANCE", tallyxml.Amount(l.OpeningBalance)).
		AddText("CURRENCYID", g.cfg.BaseCurrency).
		AddText("ISBANKLEDGER", tallyxml.YesNo(l.IsBank)).
		AddText("ISCASHLEDGER", tallyxml.YesNo(l.IsCash)).
		AddText("ISBILLWISEON", tallyxml.YesNo(l.IsBillwise))

	if l.Description != "" {
		unit.AddText("DESCRIPTION", l.Description)
	}

	return unit.Add(languageName(l.Name))
}

// partyUnit builds one LEDGER master for a customer or vendor.
func (g *Generator) partyUnit(p types.PartyMaster) *tallyxml.Element {
	unit := tallyxml.NewElement("LEDGER").
		SetAttr("NAME", p.Name).
		SetAttr("ACTION", "CREATE").
		AddText("NAME", p.Name).
		AddText("PARENT", p.Type.ParentGroup()).
		AddText("ISBILLWISEON", "Yes").
		AddText("OPENINGBALANCE", tallyxml.Amount(p.OpeningBalance))

	if p.AddressLine1 != "" || p.AddressLine2 != "" {
		address := tallyxml.NewElement("ADDRESS.LIST")
		if p.AddressLine1 != "" {
			address.AddText("ADDRESS", p.AddressLine1)
		}
		if p.AddressLine2 != "" {
			address.AddText("ADDRESS", p.AddressLine2)
		}
		unit.Add(address)
	}
	if p.City != "" {
		unit.AddText("CITY", p.City)
	}
	if p.State != "" {
		unit.AddText("STATENAME", p.State)
	}
	if p.Country != "" {
		unit.AddText("COUNTRYNAME", p.Country)
	}
	if p.Pincode != "" {
		unit.AddText("PINCODE", p.Pincode)
	}

	if p.Phone != "" {
		unit.AddText("PHONENUMBER", p.Phone)
	}
	if p.Mobile != "" {
		unit.AddText("MOBILENUMBER", p.Mobile)
	}
	if p.Email != "" {
		unit.AddText("EMAIL", p.Email)
	}

	if p.GSTIN != "" {
		unit.AddText("HASGSTIN", "Yes").
			AddText("GSTREGISTRATIONTYPE", p.RegistrationType).
			AddText("GSTIN", p.GSTIN)
		if p.StateCode != "" {
			unit.AddText("PLACEOFSUPPLY", p.StateCode)
		}
	}

	// Vendor bank details; an account number without a bank name is not
	// importable, so both must be present.
	if p.BankAccountNo != "" && p.BankName != "" {
		bank := tallyxml.NewElement("BANKDETAILS.LIST").
			AddText("BANKACCOUNTNO", p.BankAccountNo).
			AddText("BANKNAME", p.BankName)
		if p.BankIFSC != "" {
			bank.AddText("IFSCCODE", p.BankIFSC)
		}
		unit.Add(bank)
	}

	return unit.Add(languageName(p.Name))
}

// languageName builds the LANGUAGENAME.LIST block Tally requires on every
// master for display.
func languageName(name string) *tallyxml.Element {
	return tallyxml.NewElement("LANGUAGENAME.LIST").Add(
		tallyxml.NewElement("NAME.LIST").AddText("NAME", name),
	)
}
