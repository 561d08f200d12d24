package validation

import (
	"testing"

	"github.com/ginjaninja78/purchasing-analytics/internal/config"
	"github.com/ginjaninja78/purchasing-analytics/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func columns() config.ColumnNames {
	return config.Default().Datasets.Columns
}

func table(source string, headers []string, rows ...[]string) *types.Table {
	t := &types.Table{Headers: headers, SourceFile: source}
	for i, r := range rows {
		m := make(map[string]string, len(headers))
		for c, h := range headers {
			if c < len(r) {
				m[h] = r[c]
			}
		}
		t.Rows = append(t.Rows, m)
		t.RowNumbers = append(t.RowNumbers, i+2)
	}
	return t
}

func TestDecodePurchases_SortsAndTypes(t *testing.T) {
	tb := table("months.csv", []string{"year", "month", "period", "sum"},
		[]string{"2017", "1", "201701", "300"},
		[]string{"2016", "12", "201612", "200"},
		[]string{"2016.0", "11", "201611.0", "1,5"},
	)

	records, res, err := DecodePurchases(tb, columns())
	require.NoError(t, err)
	require.NoError(t, res.Err())

	require.Len(t, records, 3)
	assert.Equal(t, []string{"201611", "201612", "201701"},
		[]string{records[0].Period, records[1].Period, records[2].Period})
	assert.Equal(t, 2016, records[0].Year)
	assert.Equal(t, 1.5, records[0].Amount)
	assert.Equal(t, 3, res.RowsAccepted)
}

func TestDecodePurchases_DerivesMissingPeriod(t *testing.T) {
	tb := table("months.csv", []string{"year", "month", "sum"},
		[]string{"2018", "3", "10"},
	)

	records, res, err := DecodePurchases(tb, columns())
	require.NoError(t, err)
	assert.True(t, res.IsValid())
	assert.Equal(t, "201803", records[0].Period)
}

func TestDecodePurchases_RejectsBadRows(t *testing.T) {
	tb := table("months.csv", []string{"year", "month", "period", "sum"},
		[]string{"2016", "1", "201601", "100"},
		[]string{"2016", "13", "201613", "100"},
		[]string{"2016", "2", "20162", "100"},
		[]string{"2016", "3", "201703", "100"},
		[]string{"2016", "1", "201601", "999"},
		[]string{"2016", "4", "201604", "abc"},
		[]string{"x", "5", "201605", "1"},
	)

	records, res, err := DecodePurchases(tb, columns())
	require.NoError(t, err)

	assert.Len(t, records, 1)
	require.Len(t, res.Errors, 6)
	assert.Equal(t, "month", res.Errors[0].Column)
	assert.Contains(t, res.Errors[1].Message, "six digits")
	assert.Contains(t, res.Errors[2].Message, "year does not match")
	assert.Contains(t, res.Errors[3].Message, "duplicate period")
	assert.Equal(t, 6, res.Errors[3].Row)
	assert.Equal(t, "sum", res.Errors[4].Column)
	assert.Equal(t, "year", res.Errors[5].Column)

	err = res.Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRows)
	assert.Contains(t, err.Error(), "6 of 7 rows rejected in months.csv")
}

func TestDecodePurchases_MissingColumn(t *testing.T) {
	tb := table("months.csv", []string{"year", "month"})
	_, _, err := DecodePurchases(tb, columns())
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestDecodeSupplierYears(t *testing.T) {
	tb := table("supp.csv", []string{"leverantör", "year", "belopp"},
		[]string{" Acme AB ", "2016", "-100.5"},
		[]string{"", "2016", "1"},
	)

	records, res, err := DecodeSupplierYears(tb, columns())
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, types.SupplierYearRecord{SupplierName: "Acme AB", Year: 2016, Amount: -100.5}, records[0])
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "value is required", res.Errors[0].Message)
}

func TestDecodeFinancialsAndOrgNames(t *testing.T) {
	fin := table("fin.csv", []string{"organisationsnummer", "financial_turnover", "proportion_of_turnover"},
		[]string{"5560001122.0", "5000000", "0.42"},
	)
	names := table("names.csv", []string{"leverantör", "organisationsnummer"},
		[]string{"Acme AB", "5560001122"},
		[]string{"Acme Holding AB", " 5560001122 "},
	)

	f, res, err := DecodeFinancials(fin, columns())
	require.NoError(t, err)
	require.True(t, res.IsValid())
	assert.Equal(t, "5560001122", f[0].OrgNumber)
	assert.Equal(t, 0.42, f[0].ProportionOfTurnover)

	m, res, err := DecodeOrgNames(names, columns())
	require.NoError(t, err)
	require.True(t, res.IsValid())
	assert.Equal(t, []types.OrgNameMapping{
		{OrgNumber: "5560001122", SupplierName: "Acme AB"},
		{OrgNumber: "5560001122", SupplierName: "Acme Holding AB"},
	}, m)
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"1523000000", 1523000000, false},
		{"1.5e9", 1.5e9, false},
		{"-12,5", -12.5, false},
		{"1 234 567,25", 1234567.25, false},
		{"1 234", 1234, false},
		{"1,234,567.5", 1234567.5, false},
		{"1,234,567", 1234567, false},
		{"1.234,56", 1234.56, false},
		{"1.234.567,5", 1234567.5, false},
		{"-1.234,5", -1234.5, false},
		{"1,234.5,6", 0, true},
		{"", 0, true},
		{"NaN", 0, true},
		{"inf", 0, true},
		{"12kr", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDecimal(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParseInt(t *testing.T) {
	v, err := ParseInt("2019.0")
	require.NoError(t, err)
	assert.Equal(t, 2019, v)

	_, err = ParseInt("2019.5")
	assert.Error(t, err)

	_, err = ParseInt(" ")
	assert.Error(t, err)
}
