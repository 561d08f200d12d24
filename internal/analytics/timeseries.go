// =============================================================================
// Purchasing Analytics - Monthly Time Series
// =============================================================================
//
// TimeSeriesFilter and RollingAverageCalculator. Both are pure functions over
// the monthly purchase series; neither modifies its input.
//
// =============================================================================

package analytics

import (
	"fmt"

	"github.com/ginjaninja78/purchasing-analytics/internal/types"
)

// =============================================================================
// FILTERING
// =============================================================================

// FilterPeriods keeps every record whose year is in years and whose month is
// in months. Surviving records keep their relative order. An empty years or
// months set yields an empty result.
func FilterPeriods(records []types.PurchaseRecord, years, months []int) []types.PurchaseRecord {
	out := []types.PurchaseRecord{}
	if len(years) == 0 || len(months) == 0 {
		return out
	}

	yearSet := toSet(years)
	monthSet := toSet(months)

	for _, r := range records {
		if yearSet[r.Year] && monthSet[r.Month] {
			out = append(out, r)
		}
	}
	return out
}

// Amounts extracts the amount column of a series, in order.
func Amounts(records []types.PurchaseRecord) []float64 {
	values := make([]float64, len(records))
	for i, r := range records {
		values[i] = r.Amount
	}
	return values
}

// GroupByYear splits a series into per-year subseries, keeping order within
// each year. Years are returned in order of first appearance.
func GroupByYear(records []types.PurchaseRecord) ([]int, map[int][]types.PurchaseRecord) {
	var order []int
	groups := make(map[int][]types.PurchaseRecord)

	for _, r := range records {
		if _, ok := groups[r.Year]; !ok {
			order = append(order, r.Year)
		}
		groups[r.Year] = append(groups[r.Year], r)
	}
	return order, groups
}

// =============================================================================
// ROLLING AVERAGE
// =============================================================================

// RollingAverage returns the moving average of values over window points.
//
// For i >= window-1 the output is the mean of values[i-window+1..i]. The
// leading positions i < window-1 have no full window; they are filled with
// values[window], the input value at index window, not with a partial mean.
// When leading positions exist and index window is past the end of values,
// the error wraps ErrIndexOutOfRange.
func RollingAverage(values []float64, window int) ([]float64, error) {
	if window < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWindow, window)
	}

	out := make([]float64, len(values))
	if len(values) == 0 {
		return out, nil
	}

	if window > 1 {
		if window >= len(values) {
			return nil, fmt.Errorf("%w: window %d needs value at index %d, series has %d values",
				ErrIndexOutOfRange, window, window, len(values))
		}
		fill := values[window]
		for i := 0; i < window-1; i++ {
			out[i] = fill
		}
	}

	for i := window - 1; i < len(values); i++ {
		out[i] = mean(values[i-window+1 : i+1])
	}

	return out, nil
}

// MovingAveragePoint pairs a period with its amount and moving average.
type MovingAveragePoint struct {
	Period  string
	Year    int
	Month   int
	Amount  float64
	Average float64
}

// MovingAverageSeries filters the monthly series and attaches the rolling
// average of the filtered amounts to every surviving period.
func MovingAverageSeries(records []types.PurchaseRecord, years, months []int, window int) ([]MovingAveragePoint, error) {
	filtered := FilterPeriods(records, years, months)

	averages, err := RollingAverage(Amounts(filtered), window)
	if err != nil {
		return nil, err
	}

	points := make([]MovingAveragePoint, len(filtered))
	for i, r := range filtered {
		points[i] = MovingAveragePoint{
			Period:  r.Period,
			Year:    r.Year,
			Month:   r.Month,
			Amount:  r.Amount,
			Average: averages[i],
		}
	}
	return points, nil
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func toSet(values []int) map[int]bool {
	set := make(map[int]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
