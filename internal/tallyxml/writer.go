// =============================================================================
// Zoho to Tally Converter - Tally XML Writer
// =============================================================================
//
// This module renders the element trees built by the generation stage into
// the XML text Tally's import facility accepts. Tally's parser predates the
// namespace-aware XML world: tag names contain dots (LANGUAGENAME.LIST),
// there are no attributes beyond the rare REQNAME, and empty container tags
// must still appear as open/close pairs.
//
// XML STRUCTURE:
//   Every document shares one outer shape:
//
//   <ENVELOPE>
//     <HEADER>
//       <TALLYREQUEST>Import</TALLYREQUEST>
//       <VERSION>1</VERSION>
//     </HEADER>
//     <BODY>
//       <IMPORTDATA>
//         <REQUESTDESC>
//           <REPORTNAME>All Masters</REPORTNAME>   <!-- or "Vouchers" -->
//           <STATICVARIABLES>...</STATICVARIABLES>
//         </REQUESTDESC>
//         <REQUESTDATA>
//           <TALLYMESSAGE>...</TALLYMESSAGE>       <!-- all units -->
//         </REQUESTDATA>
//       </IMPORTDATA>
//     </BODY>
//   </ENVELOPE>
//
// =============================================================================

package tallyxml

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// SchemaWriteError reports a structurally invalid element tree caught before
// serialization. Path is the slash-joined tag path to the offending element.
type SchemaWriteError struct {
	Path   string
	Reason string
}

func (e *SchemaWriteError) Error() string {
	return fmt.Sprintf("invalid document structure at %s: %s", e.Path, e.Reason)
}

// =============================================================================
// ELEMENT TREE
// =============================================================================

// Element is one node of a Tally XML document. An element carries either a
// text value or children, never both.
type Element struct {
	// Name is the raw tag name. Tally tag names may contain dots
	// (e.g. LEDGERENTRIES.LIST) so no XML name validation is applied.
	Name string

	// Attributes in definition order. Tally uses these sparingly
	// (NAME and RESERVEDNAME on master units, TYPE on message lines).
	Attributes []Attr

	// Value is the text content for leaf elements.
	Value string

	// Children are the nested elements for container elements.
	Children []*Element
}

// Attr is a single name="value" attribute.
type Attr struct {
	Name  string
	Value string
}

// NewElement creates a container element.
func NewElement(name string) *Element {
	return &Element{Name: name}
}

// Text creates a leaf element with a text value.
func Text(name, value string) *Element {
	return &Element{Name: name, Value: value}
}

// Add appends children and returns the element for chaining.
func (e *Element) Add(children ...*Element) *Element {
	e.Children = append(e.Children, children...)
	return e
}

// AddText appends a leaf child and returns the element for chaining.
func (e *Element) AddText(name, value string) *Element {
	return e.Add(Text(name, value))
}

// SetAttr appends an attribute and returns the element for chaining.
func (e *Element) SetAttr(name, value string) *Element {
	e.Attributes = append(e.Attributes, Attr{Name: name, Value: value})
	return e
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate walks the tree and rejects shapes the Tally importer cannot
// accept: blank tag or attribute names, and elements carrying both a text
// value and children. Generation validates every document before it is
// serialized so a malformed tree never reaches the output directory.
func Validate(root *Element) error {
	return validate(root, root.Name)
}

func validate(element *Element, path string) error {
	if strings.TrimSpace(element.Name) == "" {
		return &SchemaWriteError{Path: path, Reason: "blank tag name"}
	}
	for _, attr := range element.Attributes {
		if strings.TrimSpace(attr.Name) == "" {
			return &SchemaWriteError{Path: path, Reason: "blank attribute name"}
		}
	}
	if element.Value != "" && len(element.Children) > 0 {
		return &SchemaWriteError{Path: path, Reason: "element mixes text and child elements"}
	}
	for _, child := range element.Children {
		if err := validate(child, path+"/"+child.Name); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// RENDERING
// =============================================================================

// Render serializes the element tree into a complete XML document with a
// UTF-8 declaration and two-space indentation. The output is deterministic:
// identical trees render to identical bytes, which keeps re-runs diffable.
func Render(root *Element) []byte {
	var buffer bytes.Buffer
	buffer.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	writeElement(&buffer, root, "  ", 0)
	return buffer.Bytes()
}

// writeElement writes one element and its subtree to the buffer.
func writeElement(buffer *bytes.Buffer, element *Element, indent string, level int) {
	for i := 0; i < level; i++ {
		buffer.WriteString(indent)
	}

	buffer.WriteString("<")
	buffer.WriteString(element.Name)
	for _, attr := range element.Attributes {
		buffer.WriteString(fmt.Sprintf(" %s=\"%s\"", attr.Name, escapeXML(attr.Value)))
	}

	// Tally rejects self-closing tags on some container elements, so empty
	// elements are always written as an open/close pair.
	if len(element.Children) == 0 {
		buffer.WriteString(">")
		buffer.WriteString(escapeXML(element.Value))
		buffer.WriteString("</")
		buffer.WriteString(element.Name)
		buffer.WriteString(">\n")
		return
	}

	buffer.WriteString(">\n")
	for _, child := range element.Children {
		writeElement(buffer, child, indent, level+1)
	}

	for i := 0; i < level; i++ {
		buffer.WriteString(indent)
	}
	buffer.WriteString("</")
	buffer.WriteString(element.Name)
	buffer.WriteString(">\n")
}

// escapeXML escapes the five XML special characters.
func escapeXML(s string) string {
	var buffer bytes.Buffer

	for _, r := range s {
		switch r {
		case '&':
			buffer.WriteString("&amp;")
		case '<':
			buffer.WriteString("&lt;")
		case '>':
			buffer.WriteString("&gt;")
		case '"':
			buffer.WriteString("&quot;")
		case '\'':
			buffer.WriteString("&apos;")
		default:
			buffer.WriteRune(r)
		}
	}

	return buffer.String()
}

// =============================================================================
// VALUE FORMATTING
// =============================================================================

// TallyDate converts a canonical ISO date (2006-01-02) to Tally's compact
// YYYYMMDD form. Blank stays blank.
func TallyDate(isoDate string) string {
	if len(isoDate) != 10 {
		return isoDate
	}
	return isoDate[0:4] + isoDate[5:7] + isoDate[8:10]
}

// Amount renders a decimal amount with exactly two fraction digits, the
// form Tally expects in AMOUNT and OPENINGBALANCE tags.
func Amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// YesNo renders a boolean as Tally's Yes/No literal.
func YesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
