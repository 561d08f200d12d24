// =============================================================================
// Purchasing Analytics - Report Writer
// =============================================================================
//
// Writes report tables to the configured formats:
//   - csv:  one file per analysis
//   - xlsx: one workbook with one sheet per analysis
//   - text: one aligned plain-text report with every analysis
//
// File names come from the output file name format through the FileManager,
// so every file of one run shares the run id and timestamp.
//
// =============================================================================

package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/purchasing-analytics/pkg/utils"
)

// Supported output formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatText = "text"
)

// workbookName is the {analysis} value used for the combined files.
const workbookName = "report"

// maxSheetName is the sheet name length limit of the XLSX format.
const maxSheetName = 31

// =============================================================================
// WRITER
// =============================================================================

// Writer writes tables for one report run.
type Writer struct {
	files   *utils.FileManager
	formats []string
}

// NewWriter creates a writer for the given formats.
func NewWriter(files *utils.FileManager, formats []string) *Writer {
	return &Writer{files: files, formats: formats}
}

// Write renders tables in every configured format.
//
// RETURNS:
//   - The paths of the files written, in format order.
//   - An error from the first format that fails.
func (w *Writer) Write(tables []Table) ([]string, error) {
	if err := w.files.EnsureDirectories(); err != nil {
		return nil, err
	}

	var written []string
	for _, format := range w.formats {
		switch format {
		case FormatCSV:
			for _, t := range tables {
				path := w.files.OutputPath(t.Name, ".csv")
				if err := writeFile(path, func(out io.Writer) error { return WriteCSV(out, t) }); err != nil {
					return written, err
				}
				written = append(written, path)
			}

		case FormatXLSX:
			path := w.files.OutputPath(workbookName, ".xlsx")
			if err := WriteXLSX(path, tables); err != nil {
				return written, err
			}
			written = append(written, path)

		case FormatText:
			path := w.files.OutputPath(workbookName, ".txt")
			if err := writeFile(path, func(out io.Writer) error { return WriteText(out, tables...) }); err != nil {
				return written, err
			}
			written = append(written, path)

		default:
			return written, fmt.Errorf("unsupported report format '%s'", format)
		}
	}

	return written, nil
}

func writeFile(path string, render func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := render(file); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

// =============================================================================
// CSV
// =============================================================================

// WriteCSV writes a table as CSV with a header row.
func WriteCSV(out io.Writer, t Table) error {
	cw := csv.NewWriter(out)

	if err := cw.Write(t.Headers); err != nil {
		return err
	}

	record := make([]string, len(t.Headers))
	for _, row := range t.Rows {
		for i := range record {
			record[i] = ""
			if i < len(row) {
				record[i] = formatCell(row[i], FormatDecimal)
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// =============================================================================
// XLSX
// =============================================================================

// WriteXLSX writes every table to its own sheet of one workbook.
func WriteXLSX(path string, tables []Table) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	defaultSheet := f.GetSheetName(0)

	for i, t := range tables {
		sheet := sheetName(t.Name)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sheet); err != nil {
				return fmt.Errorf("failed to name sheet %s: %w", sheet, err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}

		if err := writeSheet(f, sheet, t, headerStyle); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, t Table, headerStyle int) error {
	header := make([]interface{}, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", sheet, err)
	}

	if len(t.Headers) > 0 {
		lastCol, err := excelize.ColumnNumberToName(len(t.Headers))
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
			return fmt.Errorf("failed to style header of %s: %w", sheet, err)
		}
	}

	for r, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		copy(values, row)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", r+2, sheet, err)
		}
	}

	return nil
}

func sheetName(name string) string {
	if len(name) > maxSheetName {
		return name[:maxSheetName]
	}
	return name
}

// =============================================================================
// TEXT
// =============================================================================

// WriteText writes tables as aligned plain text, one titled block per table.
// Multi-line cells are joined with "; ".
func WriteText(out io.Writer, tables ...Table) error {
	for i, t := range tables {
		if i > 0 {
			if _, err := fmt.Fprintln(out); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprintf(out, "%s\n%s\n", t.Title, strings.Repeat("=", len(t.Title))); err != nil {
			return err
		}

		if len(t.Rows) == 0 {
			if _, err := fmt.Fprintln(out, "(no rows)"); err != nil {
				return err
			}
			continue
		}

		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, strings.Join(t.Headers, "\t")+"\t")
		for _, row := range t.Rows {
			cells := make([]string, len(row))
			for c, v := range row {
				cells[c] = strings.ReplaceAll(formatCell(v, FormatAmount), "\n", "; ")
			}
			fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t")
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}
