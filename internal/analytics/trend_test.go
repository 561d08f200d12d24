package analytics

import (
	"math"
	"testing"

	"github.com/ginjaninja78/purchasing-analytics/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func supplierSeries(name string, amounts ...float64) []types.SupplierYearRecord {
	out := make([]types.SupplierYearRecord, len(amounts))
	for i, a := range amounts {
		out[i] = types.SupplierYearRecord{SupplierName: name, Year: 2016 + i, Amount: a}
	}
	return out
}

func TestClassifyTrends_FourPoints(t *testing.T) {
	summaries := ClassifyTrends(supplierSeries("Acme AB", 100, 150, 200, 300))

	s := summaries["Acme AB"]
	assert.True(t, s.Increasing)
	assert.False(t, s.Decreasing)
	assert.Equal(t, 187.5, s.Mean)
	assert.Equal(t, 200.0, s.TotalDiff)
	assert.InDelta(t, 106.6666666, s.PctChangeVsMean, 1e-6)
	assert.Equal(t, 4, s.Points)
}

func TestClassifyTrends_OrdersByYear(t *testing.T) {
	records := []types.SupplierYearRecord{
		{SupplierName: "Bygg AB", Year: 2019, Amount: 10},
		{SupplierName: "Bygg AB", Year: 2016, Amount: 40},
		{SupplierName: "Bygg AB", Year: 2018, Amount: 20},
		{SupplierName: "Bygg AB", Year: 2017, Amount: 30},
	}

	s := ClassifyTrends(records)["Bygg AB"]
	assert.True(t, s.Decreasing)
	assert.False(t, s.Increasing)
	assert.Equal(t, -30.0, s.TotalDiff)
	assert.Equal(t, 25.0, s.Mean)
	assert.Equal(t, -120.0, s.PctChangeVsMean)

	assert.Equal(t, 2019, records[0].Year, "input must not be reordered")
}

func TestClassifyTrends_OtherLengths(t *testing.T) {
	tests := []struct {
		name          string
		amounts       []float64
		wantMean      float64
		wantTotalDiff float64
	}{
		{"one point", []float64{50}, 50, 0},
		{"three increasing points", []float64{1, 2, 3}, 2, 2},
		{"five increasing points", []float64{1, 2, 3, 4, 5}, 3, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ClassifyTrends(supplierSeries("X", tt.amounts...))["X"]
			assert.False(t, s.Increasing)
			assert.False(t, s.Decreasing)
			assert.Equal(t, 0.0, s.PctChangeVsMean)
			assert.Equal(t, tt.wantMean, s.Mean)
			assert.Equal(t, tt.wantTotalDiff, s.TotalDiff)
		})
	}
}

func TestClassifyTrends_NotStrict(t *testing.T) {
	s := ClassifyTrends(supplierSeries("Flat", 100, 100, 200, 300))["Flat"]
	assert.False(t, s.Increasing)
	assert.False(t, s.Decreasing)
	assert.InDelta(t, 114.2857142, s.PctChangeVsMean, 1e-6)
}

func TestClassifyTrends_ZeroMean(t *testing.T) {
	s := ClassifyTrends(supplierSeries("Zero", -100, -50, 50, 100))["Zero"]
	assert.True(t, s.Increasing)
	assert.True(t, math.IsNaN(s.PctChangeVsMean))
	assert.False(t, s.PctDefined())
}

func TestClassifyTrends_Groups(t *testing.T) {
	records := append(supplierSeries("A", 1, 2, 3, 4), supplierSeries("B", 9, 8)...)
	summaries := ClassifyTrends(records)
	require.Len(t, summaries, 2)
	assert.True(t, summaries["A"].Increasing)
	assert.Equal(t, 2, summaries["B"].Points)
}

func TestRankRising(t *testing.T) {
	summaries := map[string]TrendSummary{
		"A": {Mean: 500000, PctChangeVsMean: 250},
		"B": {Mean: 90000, PctChangeVsMean: 300},
	}

	got, err := RankRising(summaries, DefaultRisingOptions(100000))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Name)
	assert.Equal(t, 250.0, got[0].PctChangeVsMean)
}

func TestRankRising_TailAscending(t *testing.T) {
	summaries := map[string]TrendSummary{
		"A": {Mean: 1000, PctChangeVsMean: 210},
		"B": {Mean: 1000, PctChangeVsMean: 500},
		"C": {Mean: 1000, PctChangeVsMean: 300},
		"D": {Mean: 1000, PctChangeVsMean: 200},
		"E": {Mean: 1000, PctChangeVsMean: math.NaN()},
	}

	got, err := RankRising(summaries, RankOptions{MeanThreshold: 0, PctThreshold: 200, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "B"}, names(got))
}

func TestRankFalling_TailDescending(t *testing.T) {
	summaries := map[string]TrendSummary{
		"A": {Mean: 1000, PctChangeVsMean: -210},
		"B": {Mean: 1000, PctChangeVsMean: -500},
		"C": {Mean: 1000, PctChangeVsMean: -300},
		"D": {Mean: 1000, PctChangeVsMean: -200},
		"E": {Mean: 10, PctChangeVsMean: -900},
	}

	got, err := RankFalling(summaries, RankOptions{MeanThreshold: 100, PctThreshold: -200, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "B"}, names(got))

	all, err := RankFalling(summaries, DefaultFallingOptions(100))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C", "B"}, names(all))
}

func TestRank_TiesAndLimits(t *testing.T) {
	summaries := map[string]TrendSummary{
		"Beta":  {Mean: 1000, PctChangeVsMean: 300},
		"Alpha": {Mean: 1000, PctChangeVsMean: 300},
	}

	got, err := RankRising(summaries, RankOptions{PctThreshold: 200, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Beta"}, names(got))

	got, err = RankRising(summaries, RankOptions{PctThreshold: 200, Limit: 0})
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = RankFalling(summaries, RankOptions{Limit: -1})
	assert.ErrorIs(t, err, ErrInvalidLimit)
}

func names(ranked []RankedSupplier) []string {
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.Name
	}
	return out
}
