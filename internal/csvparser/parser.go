// =============================================================================
// Purchasing Analytics - CSV Parser Module
// =============================================================================
//
// This module reads the CSV exports of the purchasing datasets into a raw
// types.Table. It handles:
//   - Different delimiters (comma, semicolon, pipe, tab)
//   - Multi-line headers
//   - Custom data start rows
//   - Legacy encodings (ISO-8859-1 / Windows-1252 exports from Swedish
//     municipal systems) and UTF-8 byte order marks
//   - Unnamed index columns written by dataframe exports
//
// Typing of values is not done here; see the validation package.
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

	"github.com/ginjaninja78/purchasing-analytics/internal/config"
	"github.com/ginjaninja78/purchasing-analytics/internal/types"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV file and returns the parsed table.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: The CSV parsing settings from the configuration.
//
// RETURNS:
//   - A pointer to the Table containing headers and rows.
//   - An error if the file cannot be read or parsed.
func Parse(filePath string, settings config.CSVSettings) (*types.Table, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ParseReader(file, filePath, settings)
}

// ParseReader parses CSV content from an arbitrary reader.
//
// PARSING PROCESS:
//   1. Decode the input from the configured encoding to UTF-8
//   2. Configure the CSV reader with the delimiter
//   3. Read and merge header rows (for multi-line headers)
//   4. Read data rows starting from the configured data start row
//   5. Convert each row to a map of header -> value
func ParseReader(r io.Reader, source string, settings config.CSVSettings) (*types.Table, error) {
	dec, err := decoderFor(settings.Encoding)
	if err != nil {
		return nil, err
	}

	csvReader := csv.NewReader(bufio.NewReader(transform.NewReader(r, dec)))
	configureReader(csvReader, settings)

	allRows, lines, err := readAll(csvReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(allRows) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	headers, err := extractHeaders(allRows, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to extract headers: %w", err)
	}

	rows, rowNumbers := extractDataRows(allRows, lines, headers, settings)

	return &types.Table{
		Headers:    headers,
		Rows:       rows,
		RowNumbers: rowNumbers,
		SourceFile: source,
	}, nil
}

// readAll reads every record along with the source line it starts on.
// encoding/csv skips blank lines, so record index and line number differ.
func readAll(reader *csv.Reader) ([][]string, []int, error) {
	var rows [][]string
	var lines []int

	for {
		record, err := reader.Read()
		if err == io.EOF {
			return rows, lines, nil
		}
		if err != nil {
			return nil, nil, err
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, record)
		lines = append(lines, line)
	}
}

// decoderFor returns a decoder converting the named encoding to UTF-8.
// UTF-8 input has any leading byte order mark removed.
func decoderFor(name string) (transform.Transformer, error) {
	var enc encoding.Encoding

	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		enc = unicode.UTF8BOM
	case "iso-8859-1", "latin1":
		enc = charmap.ISO8859_1
	case "windows-1252", "cp1252":
		enc = charmap.Windows1252
	default:
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}

	return enc.NewDecoder(), nil
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

	// Exports are not always rectangular; missing trailing cells read as "".
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}

// extractHeaders extracts and merges headers from the CSV.
//
// MULTI-LINE HEADER HANDLING:
//   Non-empty values of each column are joined with a space.
//
//   Row 1: "Financial", "",           "Proportion"
//   Row 2: "Turnover",  "Org number", "of turnover"
//   Result: "Financial Turnover", "Org number", "Proportion of turnover"
func extractHeaders(allRows [][]string, settings config.CSVSettings) ([]string, error) {
	headerRows := settings.HeaderRows
	if headerRows <= 0 {
		headerRows = 1
	}

	if len(allRows) < headerRows {
		return nil, fmt.Errorf("file has fewer rows than header_rows setting")
	}

	if headerRows == 1 {
		return cleanHeaders(allRows[0]), nil
	}

	maxCols := 0
	for i := 0; i < headerRows; i++ {
		if len(allRows[i]) > maxCols {
			maxCols = len(allRows[i])
		}
	}

	headers := make([]string, maxCols)
	for col := 0; col < maxCols; col++ {
		var parts []string

		for row := 0; row < headerRows; row++ {
			if col < len(allRows[row]) {
				value := strings.TrimSpace(allRows[row][col])
				if value != "" {
					parts = append(parts, value)
				}
			}
		}

		headers[col] = strings.Join(parts, " ")
	}

	return cleanHeaders(headers), nil
}

// cleanHeaders trims headers and names empty ones by position.
// Dataframe exports write the row index under an empty header; it becomes
// "Column_1" and is ignored by the decoders.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))

	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
	}

	return cleaned
}

// extractDataRows converts data rows to maps and records their source line
// numbers. Empty rows are skipped.
func extractDataRows(allRows [][]string, lines []int, headers []string, settings config.CSVSettings) ([]map[string]string, []int) {
	startIndex := settings.DataStartRow - 1
	if startIndex < 0 {
		startIndex = settings.HeaderRows
	}

	if startIndex >= len(allRows) {
		return []map[string]string{}, []int{}
	}

	dataRows := make([]map[string]string, 0, len(allRows)-startIndex)
	rowNumbers := make([]int, 0, len(allRows)-startIndex)

	for rowIndex := startIndex; rowIndex < len(allRows); rowIndex++ {
		row := allRows[rowIndex]

		if isRowEmpty(row) {
			continue
		}

		rowMap := make(map[string]string, len(headers))
		for colIndex, header := range headers {
			if colIndex < len(row) {
				rowMap[header] = strings.TrimSpace(row[colIndex])
			} else {
				rowMap[header] = ""
			}
		}

		dataRows = append(dataRows, rowMap)
		rowNumbers = append(rowNumbers, lines[rowIndex])
	}

	return dataRows, rowNumbers
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
