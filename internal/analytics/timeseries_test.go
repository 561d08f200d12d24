package analytics

import (
	"testing"

	"github.com/ginjaninja78/purchasing-analytics/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monthlySeries() []types.PurchaseRecord {
	var out []types.PurchaseRecord
	for _, year := range []int{2016, 2017} {
		for month := 1; month <= 12; month++ {
			out = append(out, types.PurchaseRecord{
				Year:   year,
				Month:  month,
				Period: periodOf(year, month),
				Amount: float64(year-2016)*100 + float64(month),
			})
		}
	}
	return out
}

func periodOf(year, month int) string {
	digits := []byte{
		byte('0' + year/1000%10), byte('0' + year/100%10), byte('0' + year/10%10), byte('0' + year%10),
		byte('0' + month/10), byte('0' + month%10),
	}
	return string(digits)
}

func TestFilterPeriods(t *testing.T) {
	records := monthlySeries()

	t.Run("full domain is identity", func(t *testing.T) {
		got := FilterPeriods(records, []int{2016, 2017}, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12})
		assert.Equal(t, records, got)
	})

	t.Run("subset keeps order", func(t *testing.T) {
		got := FilterPeriods(records, []int{2017, 2016}, []int{12, 1})
		require.Len(t, got, 4)
		assert.Equal(t, []string{"201601", "201612", "201701", "201712"},
			[]string{got[0].Period, got[1].Period, got[2].Period, got[3].Period})
	})

	t.Run("empty sets", func(t *testing.T) {
		assert.Empty(t, FilterPeriods(records, nil, []int{1}))
		assert.Empty(t, FilterPeriods(records, []int{2016}, []int{}))
	})

	t.Run("unknown year", func(t *testing.T) {
		assert.Empty(t, FilterPeriods(records, []int{1999}, []int{1}))
	})

	t.Run("source untouched", func(t *testing.T) {
		before := monthlySeries()
		_ = FilterPeriods(records, []int{2016}, []int{3})
		assert.Equal(t, before, records)
	})
}

func TestRollingAverage(t *testing.T) {
	tests := []struct {
		name    string
		values  []float64
		window  int
		want    []float64
		wantErr error
	}{
		{
			name:   "window of three fills leading positions from index window",
			values: []float64{10, 20, 30, 40, 50},
			window: 3,
			want:   []float64{40, 40, 20, 30, 40},
		},
		{
			name:   "window of one is identity",
			values: []float64{1.1, -2.5, 3.3333},
			window: 1,
			want:   []float64{1.1, -2.5, 3.3333},
		},
		{
			name:   "window of two",
			values: []float64{2, 4, 8},
			window: 2,
			want:   []float64{8, 3, 6},
		},
		{
			name:   "empty input",
			values: []float64{},
			window: 3,
			want:   []float64{},
		},
		{
			name:    "window larger than series",
			values:  []float64{1, 2},
			window:  3,
			wantErr: ErrIndexOutOfRange,
		},
		{
			name:    "window equal to series length has no fallback value",
			values:  []float64{1, 2, 3},
			window:  3,
			wantErr: ErrIndexOutOfRange,
		},
		{
			name:    "zero window",
			values:  []float64{1, 2, 3},
			window:  0,
			wantErr: ErrInvalidWindow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RollingAverage(tt.values, tt.window)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRollingAverage_DoesNotModifyInput(t *testing.T) {
	values := []float64{10, 20, 30, 40, 50}
	_, err := RollingAverage(values, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 20, 30, 40, 50}, values)
}

func TestMovingAverageSeries(t *testing.T) {
	points, err := MovingAverageSeries(monthlySeries(), []int{2016}, []int{1, 2, 3, 4, 5}, 3)
	require.NoError(t, err)
	require.Len(t, points, 5)

	assert.Equal(t, "201601", points[0].Period)
	assert.Equal(t, 4.0, points[0].Average)
	assert.Equal(t, 4.0, points[1].Average)
	assert.Equal(t, 2.0, points[2].Average)
	assert.Equal(t, 4.0, points[4].Average)
	assert.Equal(t, 5.0, points[4].Amount)

	_, err = MovingAverageSeries(monthlySeries(), []int{2016}, []int{1, 2}, 3)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestGroupByYear(t *testing.T) {
	order, groups := GroupByYear(monthlySeries())
	assert.Equal(t, []int{2016, 2017}, order)
	assert.Len(t, groups[2016], 12)
	assert.Equal(t, "201701", groups[2017][0].Period)
}
