// =============================================================================
// Purchasing Analytics - Report Tables
// =============================================================================
//
// Converts analysis results into format-neutral tables. Each table becomes
// one CSV file, one XLSX sheet, and one block of the text report.
//
// CELL TYPES:
//   Cells hold string, int or float64 values. The CSV and text writers format
//   floats through FormatDecimal / FormatAmount; the XLSX writer stores them
//   as numbers so spreadsheets can compute with them.
//
// =============================================================================

package report

import (
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/purchasing-analytics/internal/analytics"
	"github.com/ginjaninja78/purchasing-analytics/internal/pipeline"
	"github.com/ginjaninja78/purchasing-analytics/internal/types"
)

// Table is one rendered analysis.
type Table struct {
	// Name is the analysis name, used for file and sheet names.
	Name string

	// Title is the heading shown in the text report.
	Title string

	Headers []string
	Rows    [][]any
}

// =============================================================================
// TABLE BUILDERS
// =============================================================================

// Tables builds every table of a pipeline result, in pipeline order.
func Tables(result *pipeline.Result) []Table {
	return []Table{
		MonthlyTable(result.Monthly),
		TrendTable(pipeline.AnalysisRising, "Rising suppliers", result.Rising),
		TrendTable(pipeline.AnalysisFalling, "Falling suppliers", result.Falling),
		SearchTable(result.Search),
		DependencyTable(result.Dependency),
	}
}

// MonthlyTable renders the filtered monthly series.
func MonthlyTable(points []analytics.MovingAveragePoint) Table {
	t := Table{
		Name:    pipeline.AnalysisMonthly,
		Title:   "Monthly purchases",
		Headers: []string{"period", "year", "month", "amount", "moving_average"},
	}
	for _, p := range points {
		t.Rows = append(t.Rows, []any{p.Period, p.Year, p.Month, p.Amount, p.Average})
	}
	return t
}

// TrendTable renders a rising or falling ranking.
func TrendTable(name, title string, ranked []analytics.RankedSupplier) Table {
	t := Table{
		Name:    name,
		Title:   title,
		Headers: []string{"supplier", "pct_change_vs_mean", "mean", "total_diff"},
	}
	for _, r := range ranked {
		t.Rows = append(t.Rows, []any{r.Name, r.PctChangeVsMean, r.Mean, r.TotalDiff})
	}
	return t
}

// SearchTable renders the supplier search matches.
func SearchTable(records []types.SupplierYearRecord) Table {
	t := Table{
		Name:    pipeline.AnalysisSearch,
		Title:   "Supplier search",
		Headers: []string{"supplier", "year", "amount"},
	}
	for _, r := range records {
		t.Rows = append(t.Rows, []any{r.SupplierName, r.Year, r.Amount})
	}
	return t
}

// DependencyTable renders the dependency ranking.
func DependencyTable(entries []analytics.DependencyEntry) Table {
	t := Table{
		Name:    pipeline.AnalysisDependency,
		Title:   "Financial dependency",
		Headers: []string{"org_number", "suppliers", "proportion_of_turnover", "turnover"},
	}
	for _, e := range entries {
		t.Rows = append(t.Rows, []any{e.OrgNumber, e.Label, e.Proportion, e.Turnover})
	}
	return t
}

// =============================================================================
// NUMBER FORMATTING
// =============================================================================

// DecimalPlaces is the precision of amounts in the text report.
const DecimalPlaces = 2

// FormatDecimal renders the shortest decimal that reads back as v, with no
// grouping, for machine-readable output. Ratios keep all their digits.
func FormatDecimal(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "NaN"
	}
	return decimal.NewFromFloat(v).String()
}

// FormatAmount renders a float with thousands separators, for reading.
func FormatAmount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "NaN"
	}
	rounded, _ := decimal.NewFromFloat(v).Round(DecimalPlaces).Float64()
	return humanize.FormatFloat("#,###.##", rounded)
}

// formatCell renders a cell with the given float formatter.
func formatCell(v any, formatFloat func(float64) string) string {
	switch c := v.(type) {
	case float64:
		return formatFloat(c)
	case int:
		return strconv.Itoa(c)
	case string:
		return c
	default:
		return ""
	}
}
