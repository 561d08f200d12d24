// =============================================================================
// Purchasing Analytics - Financial Dependency
// =============================================================================
//
// Ranks organisations by the share of their turnover that comes from the
// municipality, restricted to organisations above a turnover threshold, and
// labels each one with the supplier names registered for its organisation
// number.
//
// =============================================================================

package analytics

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/ginjaninja78/purchasing-analytics/internal/types"
)

// DefaultTurnoverThreshold is the standard lower bound on turnover.
const DefaultTurnoverThreshold = 1_000_000.0

// DefaultDependencyLimit is the standard number of ranked organisations.
const DefaultDependencyLimit = 10

// NameResolver maps organisation numbers to supplier names.
type NameResolver struct {
	names map[string][]string
}

// NewNameResolver indexes mapping. Names for one organisation number are
// kept in the order they appear, repeated rows included.
func NewNameResolver(mapping []types.OrgNameMapping) *NameResolver {
	names := make(map[string][]string)
	for _, m := range mapping {
		names[m.OrgNumber] = append(names[m.OrgNumber], m.SupplierName)
	}
	return &NameResolver{names: names}
}

// Names returns a copy of the names registered for orgNumber.
func (r *NameResolver) Names(orgNumber string) []string {
	return slices.Clone(r.names[orgNumber])
}

// Label joins the names for orgNumber with newlines. It is empty when the
// organisation number is unknown.
func (r *NameResolver) Label(orgNumber string) string {
	return strings.Join(r.Names(orgNumber), "\n")
}

// DependencyEntry is one row of the dependency ranking.
type DependencyEntry struct {
	OrgNumber  string
	Label      string
	Proportion float64
	Turnover   float64
}

// RankDependency keeps organisations whose turnover is strictly greater than
// turnoverThreshold, sorts them descending by proportion of turnover and
// returns at most limit entries. Equal proportions keep their input order.
func RankDependency(financial []types.FinancialRecord, mapping []types.OrgNameMapping, turnoverThreshold float64, limit int) ([]DependencyEntry, error) {
	if limit < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLimit, limit)
	}

	resolver := NewNameResolver(mapping)

	entries := []DependencyEntry{}
	for _, f := range financial {
		if !(f.Turnover > turnoverThreshold) {
			continue
		}
		entries = append(entries, DependencyEntry{
			OrgNumber:  f.OrgNumber,
			Label:      resolver.Label(f.OrgNumber),
			Proportion: f.ProportionOfTurnover,
			Turnover:   f.Turnover,
		})
	}

	slices.SortStableFunc(entries, func(a, b DependencyEntry) int {
		return cmp.Compare(b.Proportion, a.Proportion)
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
