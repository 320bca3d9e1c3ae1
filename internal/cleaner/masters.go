// =============================================================================
// Zoho to Tally Converter - Master Normalization
// =============================================================================
//
// Chart of accounts rows become ledger masters; contact and vendor rows
// become party masters. Mapping workbook entries override what the export
// carries (name, parent group, opening balance, GST metadata); the built-in
// account-type table fills parent groups the workbook leaves blank.
//
// =============================================================================

package cleaner

import (
	"github.com/tallybridge/tallybridge/internal/csvparser"
	"github.com/tallybridge/tallybridge/internal/mapping"
	"github.com/tallybridge/tallybridge/internal/types"
)

// cleanLedgers builds ledger masters from Chart_of_Accounts.csv.
func (c *Cleaner) cleanLedgers() ([]types.LedgerMaster, error) {
	data, ok, err := c.load(FileChartOfAccounts)
	if err != nil {
		return nil, err
	}
	if !ok {
		c.log.Warn("chart of accounts export not found, ledger masters skipped")
		return nil, nil
	}

	var ledgers []types.LedgerMaster
	for _, row := range data.Rows {
		sourceName := row["Account Name"]
		if sourceName == "" {
			continue
		}

		accountType := row["Account Type"]

		ledger := types.LedgerMaster{
			Name:           sourceName,
			Parent:         mapping.GroupForAccountType(accountType),
			OpeningBalance: amount(row["Opening Balance"]),
			Description:    row["Description"],
			IsBank:         accountType == "Bank",
			IsCash:         accountType == "Cash",
		}

		// Workbook entries win over the export.
		if entry, found := c.maps.LedgerEntryFor(sourceName); found {
			ledger.Name = entry.TallyName
			if entry.ParentGroup != "" {
				ledger.Parent = entry.ParentGroup
			}
			if !entry.OpeningBalance.IsZero() {
				ledger.OpeningBalance = entry.OpeningBalance
			}
		}

		ledger.IsBillwise = ledger.Parent == "Sundry Debtors" || ledger.Parent == "Sundry Creditors"

		ledgers = append(ledgers, ledger)
	}

	c.log.WithField("ledgers", len(ledgers)).Info("chart of accounts normalized")
	return ledgers, nil
}

// cleanParties builds party masters from Contacts.csv (debtors) and
// Vendors.csv (creditors).
func (c *Cleaner) cleanParties() ([]types.PartyMaster, error) {
	var parties []types.PartyMaster

	contacts, ok, err := c.load(FileContacts)
	if err != nil {
		return nil, err
	}
	if ok {
		parties = append(parties, c.partiesFrom(contacts, types.PartyDebtor)...)
	}

	vendors, ok, err := c.load(FileVendors)
	if err != nil {
		return nil, err
	}
	if ok {
		parties = append(parties, c.partiesFrom(vendors, types.PartyCreditor)...)
	}

	c.log.WithField("parties", len(parties)).Info("contacts and vendors normalized")
	return parties, nil
}

// partiesFrom converts one contact/vendor export. Both exports share the
// column names used here; the bank columns only exist on Vendors.csv and
// read back blank for contacts.
func (c *Cleaner) partiesFrom(data *csvparser.CSVData, defaultType types.PartyType) []types.PartyMaster {
	var parties []types.PartyMaster

	for _, row := range data.Rows {
		sourceName := row["Display Name"]
		if sourceName == "" {
			continue
		}

		name, entry := c.maps.ResolveParty(sourceName)

		party := types.PartyMaster{
			Name:             name,
			Type:             defaultType,
			GSTIN:            row["GST Identification Number (GSTIN)"],
			RegistrationType: registrationType(row["GST Treatment"]),
			StateCode:        stateCode(row["Place of Contact(With State Code)"]),
			AddressLine1:     row["Billing Address"],
			AddressLine2:     row["Billing Street2"],
			City:             row["Billing City"],
			State:            row["Billing State"],
			Country:          firstNonEmpty(row["Billing Country"], c.cfg.DefaultCountry),
			Pincode:          row["Billing Code"],
			Email:            row["EmailID"],
			Phone:            row["Phone"],
			Mobile:           row["MobilePhone"],
			BankAccountNo:    row["Vendor Bank Account Number"],
			BankName:         row["Vendor Bank Name"],
			BankIFSC:         row["Vendor Bank Code"],
			OpeningBalance:   amount(row["Opening Balance"]),
		}

		if entry != nil {
			party.Type = entry.Type
			if entry.GSTIN != "" {
				party.GSTIN = entry.GSTIN
			}
			if entry.RegistrationType != "" {
				party.RegistrationType = entry.RegistrationType
			}
			if entry.StateCode != "" {
				party.StateCode = entry.StateCode
			}
			if entry.Address != "" {
				party.AddressLine1 = entry.Address
				party.AddressLine2 = ""
			}
			if !entry.OpeningBalance.IsZero() {
				party.OpeningBalance = entry.OpeningBalance
			}
		}

		parties = append(parties, party)
	}

	return parties
}

// registrationType maps Zoho's GST treatment values onto the registration
// types Tally accepts, defaulting to Regular.
func registrationType(gstTreatment string) string {
	switch gstTreatment {
	case "Regular", "Consumer", "Unregistered", "Composition", "SEZ":
		return gstTreatment
	case "business_gst", "business_registered_regular":
		return "Regular"
	case "business_none", "consumer":
		return "Consumer"
	case "business_registered_composition":
		return "Composition"
	case "business_sez":
		return "SEZ"
	default:
		return "Regular"
	}
}
