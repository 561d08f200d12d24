package analytics

import (
	"testing"

	"github.com/ginjaninja78/purchasing-analytics/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankDependency_ResolvesLabels(t *testing.T) {
	financial := []types.FinancialRecord{
		{OrgNumber: "5560001122", Turnover: 5_000_000, ProportionOfTurnover: 0.42},
	}
	mapping := []types.OrgNameMapping{
		{OrgNumber: "5560001122", SupplierName: "Acme AB"},
		{OrgNumber: "5569998877", SupplierName: "Other AB"},
		{OrgNumber: "5560001122", SupplierName: "Acme Holding AB"},
	}

	got, err := RankDependency(financial, mapping, DefaultTurnoverThreshold, DefaultDependencyLimit)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Acme AB\nAcme Holding AB", got[0].Label)
	assert.Equal(t, 0.42, got[0].Proportion)
}

func TestRankDependency_FilterSortLimit(t *testing.T) {
	financial := []types.FinancialRecord{
		{OrgNumber: "1", Turnover: 2_000_000, ProportionOfTurnover: 0.10},
		{OrgNumber: "2", Turnover: 1_000_000, ProportionOfTurnover: 0.99},
		{OrgNumber: "3", Turnover: 3_000_000, ProportionOfTurnover: 0.50},
		{OrgNumber: "4", Turnover: 9_000_000, ProportionOfTurnover: 0.50},
		{OrgNumber: "5", Turnover: 9_000_000, ProportionOfTurnover: 0.05},
	}

	got, err := RankDependency(financial, nil, 1_000_000, 3)
	require.NoError(t, err)

	orgs := make([]string, len(got))
	for i, e := range got {
		orgs[i] = e.OrgNumber
		assert.Empty(t, e.Label)
	}
	assert.Equal(t, []string{"3", "4", "1"}, orgs)
}

func TestRankDependency_InvalidLimit(t *testing.T) {
	_, err := RankDependency(nil, nil, 0, -1)
	assert.ErrorIs(t, err, ErrInvalidLimit)

	got, err := RankDependency(nil, nil, 0, 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNameResolver(t *testing.T) {
	r := NewNameResolver([]types.OrgNameMapping{
		{OrgNumber: "1", SupplierName: "B"},
		{OrgNumber: "1", SupplierName: "A"},
		{OrgNumber: "1", SupplierName: "B"},
	})

	assert.Equal(t, []string{"B", "A", "B"}, r.Names("1"))
	assert.Equal(t, "B\nA\nB", r.Label("1"))
	assert.Equal(t, "", r.Label("2"))
	assert.Nil(t, r.Names("2"))
}
