// =============================================================================
// Purchasing Analytics - Supplier Search
// =============================================================================
//
// Case-insensitive substring search over supplier names and stable sorting of
// supplier-year records. Matching uses Unicode case folding so that Swedish
// letters such as Å/å and Ö/ö compare equal regardless of case.
//
// =============================================================================

package analytics

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ginjaninja78/purchasing-analytics/internal/types"
)

// Sort keys accepted by SortSupplierRecords. The Swedish column names are
// aliases for the English keys.
const (
	SortBySupplier = "supplier"
	SortByYear     = "year"
	SortByAmount   = "amount"
)

var sortKeyAliases = map[string]string{
	SortBySupplier: SortBySupplier,
	"leverantör":   SortBySupplier,
	SortByYear:     SortByYear,
	SortByAmount:   SortByAmount,
	"belopp":       SortByAmount,
}

// SearchSuppliers returns the records whose supplier name contains query,
// ignoring case. Both sides are lower-cased with Swedish rules, so "ÅKERI"
// finds "Åkeri AB" but "strasse" does not find "Straße AB". The query is
// matched literally. An empty query matches every record. The input slice is
// not modified.
func SearchSuppliers(records []types.SupplierYearRecord, query string) []types.SupplierYearRecord {
	lower := cases.Lower(language.Swedish)
	needle := lower.String(query)

	out := []types.SupplierYearRecord{}
	for _, r := range records {
		if strings.Contains(lower.String(r.SupplierName), needle) {
			out = append(out, r)
		}
	}
	return out
}

// NormalizeSortKey maps a sort key or one of its aliases to its canonical
// name.
func NormalizeSortKey(key string) (string, error) {
	canonical, ok := sortKeyAliases[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return "", fmt.Errorf("%w '%s': expected supplier, year or amount", ErrUnknownSortKey, key)
	}
	return canonical, nil
}

// SortSupplierRecords returns a copy of records stably sorted ascending by
// key. Records with equal keys keep their input order.
func SortSupplierRecords(records []types.SupplierYearRecord, key string) ([]types.SupplierYearRecord, error) {
	canonical, err := NormalizeSortKey(key)
	if err != nil {
		return nil, err
	}

	var compare func(a, b types.SupplierYearRecord) int
	switch canonical {
	case SortBySupplier:
		compare = func(a, b types.SupplierYearRecord) int { return cmp.Compare(a.SupplierName, b.SupplierName) }
	case SortByYear:
		compare = func(a, b types.SupplierYearRecord) int { return cmp.Compare(a.Year, b.Year) }
	case SortByAmount:
		compare = func(a, b types.SupplierYearRecord) int { return cmp.Compare(a.Amount, b.Amount) }
	}

	out := slices.Clone(records)
	if out == nil {
		out = []types.SupplierYearRecord{}
	}
	slices.SortStableFunc(out, compare)
	return out, nil
}
