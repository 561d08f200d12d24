package csvparser

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ginjaninja78/purchasing-analytics/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func defaultSettings() config.CSVSettings {
	return config.CSVSettings{Delimiter: ",", HeaderRows: 1, DataStartRow: 2, Encoding: "UTF-8"}
}

func TestParse_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "df_yy_mm.csv")
	content := ",year,month,period,sum\n0,2016,1,201601,1.5e9\n1,2016,2,201602,1.2e9\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	table, err := Parse(path, defaultSettings())
	require.NoError(t, err)

	assert.Equal(t, []string{"Column_1", "year", "month", "period", "sum"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "201602", table.Rows[1]["period"])
	assert.Equal(t, []int{2, 3}, table.RowNumbers)
	assert.Equal(t, path, table.SourceFile)
}

func TestParse_MissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "nope.csv"), defaultSettings())
	assert.Error(t, err)
}

func TestParseReader_Delimiters(t *testing.T) {
	tests := []struct {
		name      string
		delimiter string
		input     string
	}{
		{"semicolon", ";", "leverantör;year;belopp\nAcme AB;2016;100\n"},
		{"pipe alias", "pipe", "leverantör|year|belopp\nAcme AB|2016|100\n"},
		{"tab escape", "\\t", "leverantör\tyear\tbelopp\nAcme AB\t2016\t100\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := defaultSettings()
			s.Delimiter = tt.delimiter
			table, err := ParseReader(strings.NewReader(tt.input), tt.name, s)
			require.NoError(t, err)
			require.Len(t, table.Rows, 1)
			assert.Equal(t, "Acme AB", table.Rows[0]["leverantör"])
			assert.Equal(t, "100", table.Rows[0]["belopp"])
		})
	}
}

func TestParseReader_Windows1252(t *testing.T) {
	raw := "leverantör,year,belopp\nÅkeriet i Göteborg AB,2017,2500\n"
	encoded, err := charmap.Windows1252.NewEncoder().String(raw)
	require.NoError(t, err)

	s := defaultSettings()
	s.Encoding = "Windows-1252"
	table, err := ParseReader(strings.NewReader(encoded), "cp1252", s)
	require.NoError(t, err)

	assert.Equal(t, []string{"leverantör", "year", "belopp"}, table.Headers)
	assert.Equal(t, "Åkeriet i Göteborg AB", table.Rows[0]["leverantör"])
}

func TestParseReader_StripsBOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("year,month\n2016,1\n")...)

	table, err := ParseReader(bytes.NewReader(input), "bom", defaultSettings())
	require.NoError(t, err)
	assert.Equal(t, "year", table.Headers[0])
	assert.Equal(t, "2016", table.Rows[0]["year"])
}

func TestParseReader_UnsupportedEncoding(t *testing.T) {
	s := defaultSettings()
	s.Encoding = "EBCDIC"
	_, err := ParseReader(strings.NewReader("a\n1\n"), "x", s)
	assert.ErrorContains(t, err, "unsupported encoding")
}

func TestParseReader_Empty(t *testing.T) {
	_, err := ParseReader(strings.NewReader(""), "empty", defaultSettings())
	assert.ErrorContains(t, err, "empty")
}

func TestParseReader_MultiLineHeaderAndGaps(t *testing.T) {
	input := "Financial,,Proportion\nTurnover,Org number,of turnover\n,,\n5000000,5560001122,0.42\n1000,5560003344\n"
	s := config.CSVSettings{Delimiter: ",", HeaderRows: 2, DataStartRow: 3}

	table, err := ParseReader(strings.NewReader(input), "multi", s)
	require.NoError(t, err)

	assert.Equal(t, []string{"Financial Turnover", "Org number", "Proportion of turnover"}, table.Headers)
	require.Len(t, table.Rows, 2, "blank row skipped")
	assert.Equal(t, []int{4, 5}, table.RowNumbers)
	assert.Equal(t, "", table.Rows[1]["Proportion of turnover"], "short row padded")
}
