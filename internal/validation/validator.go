// =============================================================================
// Purchasing Analytics - Record Decoding and Validation
// =============================================================================
//
// This module turns raw types.Table rows into typed records and checks every
// row against the data model:
//   - Numeric fields parse (integers for year/month, decimals for amounts)
//   - Months are 1..12
//   - Periods are six digits whose first four equal the year and last two
//     equal the month
//   - (year, month) is unique in the monthly table
//   - Names and organisation numbers are non-empty
//
// ERROR HANDLING:
//   - Errors are collected per row, not returned at the first failure
//   - Each error carries file, row, column and value
//   - The caller decides whether invalid rows fail the load or are dropped
//
// =============================================================================

package validation

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/ginjaninja78/purchasing-analytics/internal/config"
	"github.com/ginjaninja78/purchasing-analytics/internal/types"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrMissingColumn is returned when a required column is absent.
	ErrMissingColumn = errors.New("missing column")

	// ErrInvalidRows is wrapped by Result.Err when any row was rejected.
	ErrInvalidRows = errors.New("invalid rows")
)

// RowError describes one rejected row.
type RowError struct {
	File    string
	Row     int
	Column  string
	Value   string
	Message string
}

// Error implements the error interface.
func (e *RowError) Error() string {
	return fmt.Sprintf("%s row %d, column '%s': %s (value: '%s')",
		e.File, e.Row, e.Column, e.Message, e.Value)
}

// Result summarises the decoding of one table.
type Result struct {
	Table        string
	RowsRead     int
	RowsAccepted int
	Errors       []*RowError
}

// IsValid is true if no row was rejected.
func (r *Result) IsValid() bool {
	return len(r.Errors) == 0
}

// Err returns nil for a valid result, otherwise an error wrapping
// ErrInvalidRows that names the first offending row.
func (r *Result) Err() error {
	if r.IsValid() {
		return nil
	}
	return fmt.Errorf("%w: %d of %d rows rejected in %s; first: %s",
		ErrInvalidRows, len(r.Errors), r.RowsRead, r.Table, r.Errors[0].Error())
}

// =============================================================================
// DECODERS
// =============================================================================

// DecodePurchases decodes the monthly purchase table. Accepted records are
// returned sorted by period ascending.
func DecodePurchases(table *types.Table, cols config.ColumnNames) ([]types.PurchaseRecord, *Result, error) {
	if err := requireColumns(table, cols.Year, cols.Month, cols.Sum); err != nil {
		return nil, nil, err
	}
	hasPeriod := table.HasColumn(cols.Period)

	res := newResult(table)
	records := make([]types.PurchaseRecord, 0, len(table.Rows))
	seen := make(map[[2]int]int)

	for i, row := range table.Rows {
		rc := rowContext{table: table, index: i, res: res}

		year, ok := rc.integer(row, cols.Year)
		if !ok {
			continue
		}
		month, ok := rc.integer(row, cols.Month)
		if !ok {
			continue
		}
		if month < 1 || month > 12 {
			rc.reject(cols.Month, row[cols.Month], "month must be between 1 and 12")
			continue
		}
		amount, ok := rc.decimal(row, cols.Sum)
		if !ok {
			continue
		}

		period := fmt.Sprintf("%04d%02d", year, month)
		if hasPeriod && strings.TrimSpace(row[cols.Period]) != "" {
			raw := normalizeIdentifier(row[cols.Period])
			if msg := checkPeriod(raw, year, month); msg != "" {
				rc.reject(cols.Period, row[cols.Period], msg)
				continue
			}
			period = raw
		}

		key := [2]int{year, month}
		if first, dup := seen[key]; dup {
			rc.reject(cols.Period, period, fmt.Sprintf("duplicate period, first seen on row %d", first))
			continue
		}
		seen[key] = rc.rowNumber()

		records = append(records, types.PurchaseRecord{
			Year:   year,
			Month:  month,
			Period: period,
			Amount: amount,
		})
	}

	slices.SortStableFunc(records, func(a, b types.PurchaseRecord) int {
		return cmp.Compare(a.Period, b.Period)
	})

	res.RowsAccepted = len(records)
	return records, res, nil
}

// DecodeSupplierYears decodes the supplier-year table.
func DecodeSupplierYears(table *types.Table, cols config.ColumnNames) ([]types.SupplierYearRecord, *Result, error) {
	if err := requireColumns(table, cols.Supplier, cols.Year, cols.Amount); err != nil {
		return nil, nil, err
	}

	res := newResult(table)
	records := make([]types.SupplierYearRecord, 0, len(table.Rows))

	for i, row := range table.Rows {
		rc := rowContext{table: table, index: i, res: res}

		name, ok := rc.text(row, cols.Supplier)
		if !ok {
			continue
		}
		year, ok := rc.integer(row, cols.Year)
		if !ok {
			continue
		}
		amount, ok := rc.decimal(row, cols.Amount)
		if !ok {
			continue
		}

		records = append(records, types.SupplierYearRecord{
			SupplierName: name,
			Year:         year,
			Amount:       amount,
		})
	}

	res.RowsAccepted = len(records)
	return records, res, nil
}

// DecodeFinancials decodes the single-year financial table.
func DecodeFinancials(table *types.Table, cols config.ColumnNames) ([]types.FinancialRecord, *Result, error) {
	if err := requireColumns(table, cols.OrgNumber, cols.Turnover, cols.Proportion); err != nil {
		return nil, nil, err
	}

	res := newResult(table)
	records := make([]types.FinancialRecord, 0, len(table.Rows))

	for i, row := range table.Rows {
		rc := rowContext{table: table, index: i, res: res}

		org, ok := rc.identifier(row, cols.OrgNumber)
		if !ok {
			continue
		}
		turnover, ok := rc.decimal(row, cols.Turnover)
		if !ok {
			continue
		}
		proportion, ok := rc.decimal(row, cols.Proportion)
		if !ok {
			continue
		}

		records = append(records, types.FinancialRecord{
			OrgNumber:            org,
			Turnover:             turnover,
			ProportionOfTurnover: proportion,
		})
	}

	res.RowsAccepted = len(records)
	return records, res, nil
}

// DecodeOrgNames decodes the organisation number to supplier name table.
func DecodeOrgNames(table *types.Table, cols config.ColumnNames) ([]types.OrgNameMapping, *Result, error) {
	if err := requireColumns(table, cols.Supplier, cols.OrgNumber); err != nil {
		return nil, nil, err
	}

	res := newResult(table)
	records := make([]types.OrgNameMapping, 0, len(table.Rows))

	for i, row := range table.Rows {
		rc := rowContext{table: table, index: i, res: res}

		org, ok := rc.identifier(row, cols.OrgNumber)
		if !ok {
			continue
		}
		name, ok := rc.text(row, cols.Supplier)
		if !ok {
			continue
		}

		records = append(records, types.OrgNameMapping{OrgNumber: org, SupplierName: name})
	}

	res.RowsAccepted = len(records)
	return records, res, nil
}

// =============================================================================
// ROW HELPERS
// =============================================================================

func newResult(table *types.Table) *Result {
	return &Result{Table: table.SourceFile, RowsRead: len(table.Rows)}
}

func requireColumns(table *types.Table, names ...string) error {
	for _, name := range names {
		if !table.HasColumn(name) {
			return fmt.Errorf("%w '%s' in %s", ErrMissingColumn, name, table.SourceFile)
		}
	}
	return nil
}

// rowContext binds one row to the result collecting its errors.
type rowContext struct {
	table *types.Table
	index int
	res   *Result
}

func (rc rowContext) rowNumber() int {
	if rc.index < len(rc.table.RowNumbers) {
		return rc.table.RowNumbers[rc.index]
	}
	return rc.index + 1
}

func (rc rowContext) reject(column, value, message string) {
	rc.res.Errors = append(rc.res.Errors, &RowError{
		File:    rc.table.SourceFile,
		Row:     rc.rowNumber(),
		Column:  column,
		Value:   value,
		Message: message,
	})
}

func (rc rowContext) text(row map[string]string, column string) (string, bool) {
	value := strings.TrimSpace(row[column])
	if value == "" {
		rc.reject(column, value, "value is required")
		return "", false
	}
	return value, true
}

func (rc rowContext) identifier(row map[string]string, column string) (string, bool) {
	value := normalizeIdentifier(row[column])
	if value == "" {
		rc.reject(column, row[column], "value is required")
		return "", false
	}
	return value, true
}

func (rc rowContext) integer(row map[string]string, column string) (int, bool) {
	value, err := ParseInt(row[column])
	if err != nil {
		rc.reject(column, row[column], err.Error())
		return 0, false
	}
	return value, true
}

func (rc rowContext) decimal(row map[string]string, column string) (float64, bool) {
	value, err := ParseDecimal(row[column])
	if err != nil {
		rc.reject(column, row[column], err.Error())
		return 0, false
	}
	return value, true
}

// =============================================================================
// VALUE PARSERS
// =============================================================================

// ParseDecimal parses an amount. Spaces (including non-breaking spaces used
// as thousands separators) are removed, and a lone decimal comma is accepted.
// When both "," and "." appear the right-most one is the decimal mark, so
// "1,234.56" and "1.234,56" both read as 1234.56.
// NaN and infinities are rejected.
func ParseDecimal(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("value is required")
	}

	s = strings.Map(func(r rune) rune {
		if r == ' ' || r == '\u00a0' || r == '\u202f' {
			return -1
		}
		return r
	}, s)

	switch {
	case strings.Contains(s, ",") && strings.Contains(s, "."):
		// The right-most separator is the decimal mark.
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case strings.Count(s, ",") == 1:
		s = strings.Replace(s, ",", ".", 1)
	case strings.Count(s, ",") > 1:
		s = strings.ReplaceAll(s, ",", "")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.New("not a decimal number")
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("not a finite number")
	}
	return v, nil
}

// ParseInt parses an integer, accepting an integral decimal such as "2016.0"
// as written by float-typed dataframe columns.
func ParseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("value is required")
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, errors.New("not an integer")
	}
	return int(f), nil
}

// normalizeIdentifier trims an identifier and drops a ".0" suffix left by
// numeric columns, so "5560001122.0" and "5560001122" compare equal.
func normalizeIdentifier(s string) string {
	s = strings.TrimSpace(s)
	if head, ok := strings.CutSuffix(s, ".0"); ok && head != "" && isDigits(head) {
		return head
	}
	return s
}

func checkPeriod(period string, year, month int) string {
	if len(period) != 6 || !isDigits(period) {
		return "period must be six digits YYYYMM"
	}
	if period[:4] != fmt.Sprintf("%04d", year) {
		return "period year does not match year column"
	}
	if period[4:] != fmt.Sprintf("%02d", month) {
		return "period month does not match month column"
	}
	return ""
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
