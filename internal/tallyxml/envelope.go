// =============================================================================
// Zoho to Tally Converter - Import Envelope
// =============================================================================

package tallyxml

// Report names accepted by Tally's import request descriptor.
const (
	ReportMasters  = "All Masters"
	ReportVouchers = "Vouchers"
)

// Request XML tag hints paired with the report names above.
const (
	TagsAccounts = "ACCOUNTS"
	TagsVouchers = "VOUCHERS"
)

// Envelope builds the outer import document and returns both the root and
// the TALLYMESSAGE element the caller appends master or voucher units to.
//
// reportName selects the import mode: ReportMasters for groups and ledgers,
// ReportVouchers for transactions. xmlTags carries the matching
// TagsAccounts/TagsVouchers hint.
func Envelope(reportName, xmlTags string) (root, message *Element) {
	header := NewElement("HEADER").
		AddText("TALLYREQUEST", "Import").
		AddText("VERSION", "1")

	staticVars := NewElement("STATICVARIABLES").Add(
		NewElement("SVEXPORTFORMAT").AddText("IMPORTDATA.ENDFORMTYPE", "XML Software"),
		NewElement("SVEXPORTFORMAT").AddText("IMPORTDATA.REQUEST.XMLTAGS", xmlTags),
	)

	requestDesc := NewElement("REQUESTDESC").
		AddText("REPORTNAME", reportName).
		Add(staticVars)

	message = NewElement("TALLYMESSAGE")
	requestData := NewElement("REQUESTDATA").Add(message)

	root = NewElement("ENVELOPE").Add(
		header,
		NewElement("BODY").Add(
			NewElement("IMPORTDATA").Add(requestDesc, requestData),
		),
	)

	return root, message
}
