// =============================================================================
// PO Payment Schedule - CSV Parser Module
// =============================================================================
//
// This module parses the delimited reference tables maintained by finance:
// the payment-term definitions (PTDefine.csv) and the paid ledger
// (paid_<Mon>.csv). Both are spreadsheet exports, so the parser is lenient:
//   - Configurable delimiter (comma, pipe, tab, semicolon)
//   - Multi-row headers merged column-wise
//   - Ragged rows (missing trailing cells read as "")
//   - Lazy quotes
//   - A leading UTF-8 byte order mark on the first header
//
// Rows are consumed one at a time through StreamingParser so callers never
// hold the whole file in memory.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ginjaninja78/po-payment-schedule/internal/config"
)

const byteOrderMark = "\ufeff"

// =============================================================================
// STREAMING PARSER
// =============================================================================

// StreamingParser reads a CSV file row by row.
//
// USAGE:
//
//	parser, err := NewStreamingParser(filePath, settings)
//	if err != nil {
//	    return err
//	}
//	defer parser.Close()
//
//	for parser.Next() {
//	    row := parser.Row()
//	    // Process the row...
//	}
//
//	if err := parser.Err(); err != nil {
//	    return err
//	}
type StreamingParser struct {
	closer     io.Closer
	reader     *csv.Reader
	source     string
	headers    []string
	currentRow map[string]string
	rowNumber  int
	err        error
	settings   config.CSVSettings
}

// NewStreamingParser opens a CSV file and reads its header rows.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: The CSV parsing settings.
//
// RETURNS:
//   - A pointer to the StreamingParser positioned before the first data row.
//   - An error if the file cannot be opened or has no header.
func NewStreamingParser(filePath string, settings config.CSVSettings) (*StreamingParser, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	parser, err := NewStreamingReader(file, filePath, settings)
	if err != nil {
		file.Close()
		return nil, err
	}
	parser.closer = file
	return parser, nil
}

// NewStreamingReader is NewStreamingParser over an already open reader.
// The source name is only used in error messages.
func NewStreamingReader(r io.Reader, source string, settings config.CSVSettings) (*StreamingParser, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	configureReader(reader, settings)

	parser := &StreamingParser{
		reader:   reader,
		source:   source,
		settings: settings,
	}

	if err := parser.readHeaders(); err != nil {
		return nil, err
	}
	if err := parser.skipToDataStart(); err != nil {
		return nil, err
	}
	return parser, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	switch settings.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(settings.Delimiter) > 0 {
			reader.Comma = rune(settings.Delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	// Spreadsheet exports drop trailing empty cells.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}

// readHeaders reads and merges the header rows.
func (p *StreamingParser) readHeaders() error {
	headerRows := p.settings.HeaderRows
	if headerRows <= 0 {
		headerRows = 1
	}

	rows := make([][]string, 0, headerRows)
	for i := 0; i < headerRows; i++ {
		row, err := p.reader.Read()
		if err == io.EOF {
			return fmt.Errorf("%s: unexpected end of file while reading headers", p.source)
		}
		if err != nil {
			return fmt.Errorf("%s: error reading header row %d: %w", p.source, i+1, err)
		}
		rows = append(rows, row)
		p.rowNumber++
	}

	p.headers = mergeHeaders(rows)
	return nil
}

// mergeHeaders joins the non-empty values of each column across header rows.
//
// MULTI-LINE HEADER HANDLING:
//
//	Row 1: "Prepay %", "",         "Net Days"
//	Row 2: "(Due <= ERD)", "Memo", "(Due post ERD)"
//	Result: "Prepay % (Due <= ERD)", "Memo", "Net Days (Due post ERD)"
func mergeHeaders(rows [][]string) []string {
	if len(rows) == 1 {
		return cleanHeaders(rows[0])
	}

	maxCols := 0
	for _, row := range rows {
		if len(row) > maxCols {
			maxCols = len(row)
		}
	}

	headers := make([]string, maxCols)
	for col := 0; col < maxCols; col++ {
		var parts []string
		for _, row := range rows {
			if col < len(row) {
				if value := strings.TrimSpace(row[col]); value != "" {
					parts = append(parts, value)
				}
			}
		}
		headers[col] = strings.Join(parts, " ")
	}
	return cleanHeaders(headers)
}

// cleanHeaders trims headers, strips a byte order mark and names empty
// columns by position.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, header := range headers {
		if i == 0 {
			header = strings.TrimPrefix(header, byteOrderMark)
		}
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
	}
	return cleaned
}

// skipToDataStart skips rows until the data start row.
func (p *StreamingParser) skipToDataStart() error {
	targetRow := p.settings.DataStartRow
	if targetRow <= 0 {
		targetRow = p.rowNumber + 1
	}

	for p.rowNumber < targetRow-1 {
		_, err := p.reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: error skipping to data start: %w", p.source, err)
		}
		p.rowNumber++
	}
	return nil
}

// Next advances to the next non-empty row. Returns false at end of input or
// on error; check Err afterwards.
func (p *StreamingParser) Next() bool {
	for {
		if p.err != nil {
			return false
		}

		row, err := p.reader.Read()
		if err == io.EOF {
			return false
		}
		if err != nil {
			p.err = fmt.Errorf("%s: error reading row %d: %w", p.source, p.rowNumber+1, err)
			return false
		}
		p.rowNumber++

		if isRowEmpty(row) {
			continue
		}

		p.currentRow = make(map[string]string, len(p.headers))
		for i, header := range p.headers {
			if i < len(row) {
				p.currentRow[header] = strings.TrimSpace(row[i])
			} else {
				p.currentRow[header] = ""
			}
		}
		return true
	}
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

// Row returns the current row keyed by header.
func (p *StreamingParser) Row() map[string]string {
	return p.currentRow
}

// Headers returns the parsed headers.
func (p *StreamingParser) Headers() []string {
	return p.headers
}

// HasColumn reports whether a header with this exact name exists.
func (p *StreamingParser) HasColumn(name string) bool {
	for _, h := range p.headers {
		if h == name {
			return true
		}
	}
	return false
}

// RowNumber returns the current row number (1-indexed).
func (p *StreamingParser) RowNumber() int {
	return p.rowNumber
}

// Source returns the file name the parser reads from.
func (p *StreamingParser) Source() string {
	return p.source
}

// Err returns any error that occurred during parsing.
func (p *StreamingParser) Err() error {
	return p.err
}

// Close closes the underlying file, if the parser opened one.
func (p *StreamingParser) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}
