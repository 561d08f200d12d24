// =============================================================================
// Purchasing Analytics - Shared Types
// =============================================================================
//
// This package contains the record types shared across modules to avoid
// import cycles. Types defined here are used by:
//   - csvparser / xlsxparser (Table)
//   - validation (decoding Table rows into typed records)
//   - store (the immutable RecordStore)
//   - analytics (every computation)
//   - report (rendering)
//
// =============================================================================

package types

// =============================================================================
// RAW TABLE
// =============================================================================

// Table is a parsed tabular file before any typing is applied.
// Both the CSV and the XLSX readers produce a Table.
type Table struct {
	// Headers contains the column headers in file order.
	Headers []string

	// Rows contains the data rows as maps of header -> value.
	Rows []map[string]string

	// RowNumbers holds the 1-indexed source row of each entry in Rows.
	// Used for error reporting.
	RowNumbers []int

	// SourceFile is the path the table was read from.
	SourceFile string
}

// HasColumn reports whether the table has a header with the given name.
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// =============================================================================
// RECORD TYPES
// =============================================================================

// PurchaseRecord is the municipality's total purchase for one month.
// Unique per (Year, Month); a set of them is ordered by Period ascending.
type PurchaseRecord struct {
	Year  int
	Month int

	// Period is the canonical "YYYYMM" key.
	Period string

	Amount float64
}

// SupplierYearRecord is the amount billed by one supplier in one year.
type SupplierYearRecord struct {
	SupplierName string
	Year         int
	Amount       float64
}

// FinancialRecord holds one organisation's accounts for the year in scope.
type FinancialRecord struct {
	OrgNumber string
	Turnover  float64

	// ProportionOfTurnover is the share (0..1) of turnover attributable to
	// municipal purchases.
	ProportionOfTurnover float64
}

// OrgNameMapping links an organisation number to one supplier display name.
// An org number may appear several times (mergers, renames).
type OrgNameMapping struct {
	OrgNumber    string
	SupplierName string
}
