// =============================================================================
// Zoho to Tally Converter - CSV Parser Module
// =============================================================================
//
// This module parses the flat CSV exports found in a Zoho Books backup. The
// exports are uniform: UTF-8, comma separated, one header row, quoted fields.
// Rows are surfaced as header -> value maps so the cleaning stage can address
// fields by the documented Zoho column names.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// =============================================================================
// CSV DATA STRUCTURE
// =============================================================================

// CSVData represents one parsed CSV file.
type CSVData struct {
	// Headers contains the cleaned column headers.
	Headers []string

	// Rows contains the data rows as maps of header -> trimmed value.
	Rows []map[string]string

	// RowNumbers holds the original 1-indexed file row for each entry of
	// Rows, for error reporting (empty rows are skipped, so the two can
	// diverge).
	RowNumbers []int

	// SourceFile is the path to the source CSV file.
	SourceFile string
}

// RowCount returns the number of data rows.
func (d *CSVData) RowCount() int { return len(d.Rows) }

// HasColumn reports whether the file carries the named header.
func (d *CSVData) HasColumn(header string) bool {
	for _, h := range d.Headers {
		if h == header {
			return true
		}
	}
	return false
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV file and returns the parsed data.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//
// RETURNS:
//   - A pointer to the CSVData struct containing the parsed data.
//   - An error if the file cannot be read or parsed.
func Parse(filePath string) (*CSVData, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(bufio.NewReader(file))

	// Zoho exports occasionally carry ragged rows and loose quoting.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(allRows) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	headers := cleanHeaders(allRows[0])

	data := &CSVData{
		Headers:    headers,
		SourceFile: filePath,
	}

	for i, row := range allRows[1:] {
		if isRowEmpty(row) {
			continue
		}

		rowMap := make(map[string]string, len(headers))
		for col, header := range headers {
			if col < len(row) {
				rowMap[header] = strings.TrimSpace(row[col])
			} else {
				rowMap[header] = ""
			}
		}

		data.Rows = append(data.Rows, rowMap)
		data.RowNumbers = append(data.RowNumbers, i+2) // +2: header row and 1-indexing
	}

	return data, nil
}

// cleanHeaders trims header values and names any blank columns so row maps
// never collide on the empty key.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))

	for i, header := range headers {
		header = strings.TrimSpace(header)
		// Strip a UTF-8 BOM left on the first header by some exporters.
		header = strings.TrimPrefix(header, "\uFEFF")
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
	}

	return cleaned
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// =============================================================================
// GROUPING
// =============================================================================

// Group is a run of rows sharing one key value, in file order.
type Group struct {
	Key        string
	Rows       []map[string]string
	RowNumbers []int
}

// GroupBy splits the data rows by the value of the named column, preserving
// first-seen order of the keys. Zoho flattens multi-line documents (invoice
// items, journal legs) into repeated rows keyed by the document ID, so this
// is the reassembly step.
func GroupBy(data *CSVData, column string) []Group {
	index := make(map[string]int)
	var groups []Group

	for i, row := range data.Rows {
		key := row[column]
		gi, ok := index[key]
		if !ok {
			gi = len(groups)
			index[key] = gi
			groups = append(groups, Group{Key: key})
		}
		groups[gi].Rows = append(groups[gi].Rows, row)
		groups[gi].RowNumbers = append(groups[gi].RowNumbers, data.RowNumbers[i])
	}

	return groups
}
