// =============================================================================
// Zoho to Tally Converter - Date Normalization
// =============================================================================

package cleaner

import (
	"fmt"
	"strings"
	"time"
)

// DateFormatError reports a date value that matched none of the accepted
// layouts, with enough context to locate the offending cell.
type DateFormatError struct {
	File  string
	Row   int
	Field string
	Value string
}

// Error implements the error interface.
func (e *DateFormatError) Error() string {
	return fmt.Sprintf("%s row %d, field %q: unrecognized date %q",
		e.File, e.Row, e.Field, e.Value)
}

// dateLayouts are the text forms seen across Zoho exports, most common
// first. All parse into an unambiguous calendar date; the canonical output
// is always ISO (2006-01-02).
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"2006/01/02",
	"02 Jan 2006",
	"Jan 2, 2006",
	"2006-01-02 15:04:05",
}

// NormalizeDate converts a source date string to the canonical ISO form.
// A blank input stays blank (many optional date columns are empty); any
// other unparseable value is an error the caller wraps with row context.
func NormalizeDate(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}

	return "", fmt.Errorf("unrecognized date %q", value)
}
