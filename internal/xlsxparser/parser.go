// =============================================================================
// Purchasing Analytics - XLSX Table Parser
// =============================================================================
//
// This module reads a worksheet of an XLSX workbook into a raw types.Table,
// so that any dataset may be delivered as a spreadsheet instead of a CSV.
//
// SHEET STRUCTURE (Expected):
//
//   | Column A   | Column B | Column C | Column D   |
//   |------------|----------|----------|------------|
//   | year       | month    | period   | sum        |   <- header row
//   | 2016       | 1        | 201601   | 1523000000 |   <- data rows
//
// Cell values are read raw (unformatted) so number formats in the workbook,
// such as thousands separators, do not leak into the values.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/purchasing-analytics/internal/types"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads one worksheet of an XLSX file.
//
// PARAMETERS:
//   - filePath: The path to the XLSX file.
//   - sheet: The worksheet to read. Empty selects the first sheet.
//
// RETURNS:
//   - A pointer to the Table. The first non-empty row is the header row.
//   - An error if the file or sheet cannot be read.
func Parse(filePath, sheet string) (*types.Table, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
		if sheet == "" {
			return nil, fmt.Errorf("workbook has no sheets")
		}
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet %q not found in %s", sheet, filePath)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	return buildTable(rows, filePath)
}

// SheetNames lists the worksheets of an XLSX file.
func SheetNames(filePath string) ([]string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return f.GetSheetList(), nil
}

// buildTable converts raw sheet rows into a Table.
func buildTable(rows [][]string, source string) (*types.Table, error) {
	headerIndex := -1
	for i, row := range rows {
		if !isRowEmpty(row) {
			headerIndex = i
			break
		}
	}
	if headerIndex < 0 {
		return nil, fmt.Errorf("sheet is empty")
	}

	headers := make([]string, len(rows[headerIndex]))
	for i, h := range rows[headerIndex] {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Column_%d", i+1)
		}
		headers[i] = h
	}

	table := &types.Table{
		Headers:    headers,
		Rows:       []map[string]string{},
		RowNumbers: []int{},
		SourceFile: source,
	}

	for i := headerIndex + 1; i < len(rows); i++ {
		row := rows[i]
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

		table.Rows = append(table.Rows, rowMap)
		table.RowNumbers = append(table.RowNumbers, i+1)
	}

	return table, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
