// =============================================================================
// Purchasing Analytics - Supplier Trend Classification
// =============================================================================
//
// Groups supplier-year amounts by supplier, classifies each supplier's yearly
// series as strictly increasing / decreasing, and measures the change from
// the first to the last year relative to the supplier's mean.
//
// CLASSIFICATION CONTRACT:
//   A series is only classified when it has exactly TrendPoints (4) years.
//   Any other length gives Increasing=false, Decreasing=false and
//   PctChangeVsMean=0. Mean and TotalDiff are computed for every length.
//
// ZERO MEAN:
//   With four points and a mean of exactly zero the percentage change is
//   undefined and PctChangeVsMean is NaN. Rankings never select NaN.
//
// =============================================================================

package analytics

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/ginjaninja78/purchasing-analytics/internal/types"
)

// TrendPoints is the series length required for classification.
const TrendPoints = 4

// Default ranking parameters.
const (
	DefaultMeanThreshold       = 100_000.0
	DefaultRisingPctThreshold  = 200.0
	DefaultFallingPctThreshold = -200.0
	DefaultTrendLimit          = 20
)

// =============================================================================
// CLASSIFICATION
// =============================================================================

// TrendSummary is the classification of one supplier's yearly series.
type TrendSummary struct {
	Increasing      bool
	Decreasing      bool
	Mean            float64
	TotalDiff       float64
	PctChangeVsMean float64

	// Points is the number of years in the series.
	Points int
}

// PctDefined reports whether PctChangeVsMean is a finite number.
func (s TrendSummary) PctDefined() bool {
	return !math.IsNaN(s.PctChangeVsMean) && !math.IsInf(s.PctChangeVsMean, 0)
}

// ClassifyTrends groups records by supplier name and summarises each group.
// Within a group amounts are ordered by year ascending; records sharing a
// year keep their input order.
func ClassifyTrends(records []types.SupplierYearRecord) map[string]TrendSummary {
	groups := make(map[string][]types.SupplierYearRecord)
	for _, r := range records {
		groups[r.SupplierName] = append(groups[r.SupplierName], r)
	}

	summaries := make(map[string]TrendSummary, len(groups))
	for name, group := range groups {
		slices.SortStableFunc(group, func(a, b types.SupplierYearRecord) int {
			return cmp.Compare(a.Year, b.Year)
		})

		amounts := make([]float64, len(group))
		for i, r := range group {
			amounts[i] = r.Amount
		}
		summaries[name] = Summarize(amounts)
	}

	return summaries
}

// Summarize classifies a single year-ordered series of amounts.
func Summarize(amounts []float64) TrendSummary {
	s := TrendSummary{Points: len(amounts)}
	if len(amounts) == 0 {
		return s
	}

	s.Mean = mean(amounts)
	s.TotalDiff = amounts[len(amounts)-1] - amounts[0]

	if len(amounts) != TrendPoints {
		return s
	}

	s.Increasing = strictlyMonotonic(amounts, func(a, b float64) bool { return a < b })
	s.Decreasing = strictlyMonotonic(amounts, func(a, b float64) bool { return a > b })

	if s.Mean == 0 {
		s.PctChangeVsMean = math.NaN()
	} else {
		s.PctChangeVsMean = 100 * s.TotalDiff / s.Mean
	}

	return s
}

func strictlyMonotonic(values []float64, ordered func(a, b float64) bool) bool {
	for i := 1; i < len(values); i++ {
		if !ordered(values[i-1], values[i]) {
			return false
		}
	}
	return true
}

// =============================================================================
// RANKING
// =============================================================================

// RankedSupplier is one row of a rising or falling ranking.
type RankedSupplier struct {
	Name            string
	PctChangeVsMean float64
	Mean            float64
	TotalDiff       float64
}

// RankOptions parameterises RankRising and RankFalling.
type RankOptions struct {
	// MeanThreshold is the exclusive lower bound on a supplier's mean.
	MeanThreshold float64

	// PctThreshold is the exclusive bound on PctChangeVsMean: a lower
	// bound for rising suppliers, an upper bound for falling ones.
	PctThreshold float64

	// Limit is the number of entries returned.
	Limit int
}

// DefaultRisingOptions returns the standard rising parameters for a size threshold.
func DefaultRisingOptions(meanThreshold float64) RankOptions {
	return RankOptions{MeanThreshold: meanThreshold, PctThreshold: DefaultRisingPctThreshold, Limit: DefaultTrendLimit}
}

// DefaultFallingOptions returns the standard falling parameters for a size threshold.
func DefaultFallingOptions(meanThreshold float64) RankOptions {
	return RankOptions{MeanThreshold: meanThreshold, PctThreshold: DefaultFallingPctThreshold, Limit: DefaultTrendLimit}
}

// RankRising selects suppliers with Mean > MeanThreshold and
// PctChangeVsMean > PctThreshold, sorts them ascending by percentage change
// and returns the last Limit entries: the largest risers, smallest first.
func RankRising(summaries map[string]TrendSummary, opts RankOptions) ([]RankedSupplier, error) {
	return rank(summaries, opts, func(pct float64) bool { return pct > opts.PctThreshold }, true)
}

// RankFalling selects suppliers with Mean > MeanThreshold and
// PctChangeVsMean < PctThreshold, sorts them descending by percentage change
// and returns the last Limit entries of that order: the steepest fallers,
// least negative first.
func RankFalling(summaries map[string]TrendSummary, opts RankOptions) ([]RankedSupplier, error) {
	return rank(summaries, opts, func(pct float64) bool { return pct < opts.PctThreshold }, false)
}

// rank filters, sorts, then takes the tail. Candidates enter the stable sort
// in supplier name order so equal percentages are ordered by name.
func rank(summaries map[string]TrendSummary, opts RankOptions, keep func(float64) bool, ascending bool) ([]RankedSupplier, error) {
	if opts.Limit < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLimit, opts.Limit)
	}

	names := make([]string, 0, len(summaries))
	for name := range summaries {
		names = append(names, name)
	}
	sort.Strings(names)

	selected := []RankedSupplier{}
	for _, name := range names {
		s := summaries[name]
		if !s.PctDefined() || !(s.Mean > opts.MeanThreshold) || !keep(s.PctChangeVsMean) {
			continue
		}
		selected = append(selected, RankedSupplier{
			Name:            name,
			PctChangeVsMean: s.PctChangeVsMean,
			Mean:            s.Mean,
			TotalDiff:       s.TotalDiff,
		})
	}

	slices.SortStableFunc(selected, func(a, b RankedSupplier) int {
		if ascending {
			return cmp.Compare(a.PctChangeVsMean, b.PctChangeVsMean)
		}
		return cmp.Compare(b.PctChangeVsMean, a.PctChangeVsMean)
	})

	return tail(selected, opts.Limit), nil
}

// tail returns the last n elements of s.
func tail[T any](s []T, n int) []T {
	if n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}
