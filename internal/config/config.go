// =============================================================================
// Purchasing Analytics - Configuration Module
// =============================================================================
//
// This module is responsible for loading and validating the application
// configuration. A single YAML file describes where the datasets live, how
// they are parsed, the default analysis parameters, and the report output.
//
// LOADING ORDER:
//   1. Numeric defaults
//   2. YAML file (config.yaml by default; a missing file is not an error)
//   3. Environment overrides (prefix PURCHASING_, e.g. PURCHASING_ANALYSIS_ROLLING_WINDOW)
//   4. Defaults for strings and lists still empty
//   5. Struct validation
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/purchasing-analytics/internal/analytics"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "PURCHASING"

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the complete application configuration.
type MainConfig struct {
	Datasets DatasetsConfig `yaml:"datasets" envconfig:"DATASETS"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
	Output   OutputConfig   `yaml:"output" envconfig:"OUTPUT"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
}

// =============================================================================
// DATASET SETTINGS
// =============================================================================

// DatasetsConfig describes the four input tables.
type DatasetsConfig struct {
	// Purchases is the monthly purchase table (year, month, period, sum).
	Purchases DatasetSource `yaml:"purchases" envconfig:"PURCHASES"`

	// SupplierYears is the supplier-year table (leverantör, year, belopp).
	SupplierYears DatasetSource `yaml:"supplier_years" envconfig:"SUPPLIER_YEARS"`

	// Financials is the single-year financial table. Optional.
	Financials DatasetSource `yaml:"financials" envconfig:"FINANCIALS"`

	// OrgNames maps organisation numbers to supplier names. Optional.
	OrgNames DatasetSource `yaml:"org_names" envconfig:"ORG_NAMES"`

	// CSVSettings applies to every CSV dataset.
	CSVSettings CSVSettings `yaml:"csv_settings" envconfig:"CSV"`

	// Columns names the columns read from each table.
	Columns ColumnNames `yaml:"columns" envconfig:"COLUMNS"`

	// SkipInvalidRows drops rows that fail decoding instead of failing the load.
	// Default: false
	SkipInvalidRows bool `yaml:"skip_invalid_rows" split_words:"true"`
}

// DatasetSource locates one table. The reader is chosen by file extension:
// ".xlsx" uses the XLSX reader, anything else the CSV reader.
type DatasetSource struct {
	Path string `yaml:"path"`

	// Sheet is the worksheet to read for XLSX files.
	// Default: the first sheet.
	Sheet string `yaml:"sheet"`
}

// IsSet reports whether a path was configured.
func (d DatasetSource) IsSet() bool {
	return strings.TrimSpace(d.Path) != ""
}

// CSVSettings contains settings for parsing CSV files.
type CSVSettings struct {
	// Delimiter is the character used to separate fields.
	// Common values: "," (comma), ";" (semicolon), "|" (pipe), "\t" (tab)
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// HeaderRows is the number of header rows.
	// Default: 1
	HeaderRows int `yaml:"header_rows" validate:"min=0" split_words:"true"`

	// DataStartRow is the 1-indexed row where data begins.
	// Default: HeaderRows + 1
	DataStartRow int `yaml:"data_start_row" validate:"min=0" split_words:"true"`

	// Encoding is the character encoding of the file.
	// Supported: "UTF-8", "ISO-8859-1", "Windows-1252"
	// Default: "UTF-8"
	Encoding string `yaml:"encoding" validate:"omitempty,oneof=UTF-8 utf-8 utf8 ISO-8859-1 iso-8859-1 latin1 Windows-1252 windows-1252 cp1252"`
}

// ColumnNames holds the column headers used by the decoders.
// Defaults match the Gothenburg open data exports.
type ColumnNames struct {
	Year       string `yaml:"year"`
	Month      string `yaml:"month"`
	Period     string `yaml:"period"`
	Sum        string `yaml:"sum"`
	Supplier   string `yaml:"supplier"`
	Amount     string `yaml:"amount"`
	OrgNumber  string `yaml:"org_number" split_words:"true"`
	Turnover   string `yaml:"turnover"`
	Proportion string `yaml:"proportion"`
}

// =============================================================================
// ANALYSIS SETTINGS
// =============================================================================

// AnalysisConfig holds the default parameters for every analysis.
// CLI flags override these per invocation.
type AnalysisConfig struct {
	// Years and Months select the monthly series.
	// Default: 2016-2019 and all twelve months.
	Years  []int `yaml:"years" validate:"dive,min=1900,max=2100"`
	Months []int `yaml:"months" validate:"dive,min=1,max=12"`

	// RollingWindow is the moving average window in months.
	// Default: 1
	RollingWindow int `yaml:"rolling_window" validate:"min=1,max=12" split_words:"true"`

	// RiseMeanThreshold / FallMeanThreshold are the "size of company"
	// thresholds applied to a supplier's mean yearly amount.
	// Default: 100000
	RiseMeanThreshold float64 `yaml:"rise_mean_threshold" split_words:"true"`
	FallMeanThreshold float64 `yaml:"fall_mean_threshold" split_words:"true"`

	// RisePctThreshold / FallPctThreshold bound the percentage change vs mean.
	// Default: 200 / -200
	RisePctThreshold float64 `yaml:"rise_pct_threshold" split_words:"true"`
	FallPctThreshold float64 `yaml:"fall_pct_threshold" split_words:"true"`

	// TrendLimit is the number of rising / falling suppliers shown.
	// Default: 20
	TrendLimit int `yaml:"trend_limit" validate:"min=0" split_words:"true"`

	// SearchQuery is the default supplier search. An empty query matches
	// every supplier.
	// Default: "test"
	SearchQuery string `yaml:"search_query" split_words:"true"`

	// SortKey orders search results.
	// Default: "supplier"
	SortKey string `yaml:"sort_key" validate:"omitempty,oneof=supplier leverantör year amount belopp" split_words:"true"`

	// TurnoverThreshold excludes organisations with smaller turnover from the
	// dependency ranking.
	// Default: 1000000
	TurnoverThreshold float64 `yaml:"turnover_threshold" split_words:"true"`

	// DependencyLimit is the number of organisations ranked.
	// Default: 10
	DependencyLimit int `yaml:"dependency_limit" validate:"min=0" split_words:"true"`
}

// =============================================================================
// OUTPUT AND LOGGING SETTINGS
// =============================================================================

// OutputConfig controls the files written by the report command.
type OutputConfig struct {
	// Dir is where report files are written.
	// Default: "./output"
	Dir string `yaml:"dir"`

	// FileNameFormat names each report file.
	// Placeholders: {run}, {timestamp}, {analysis}
	// Default: "{analysis}_{timestamp}"
	FileNameFormat string `yaml:"file_name_format" split_words:"true"`

	// Formats lists the report formats to write.
	// Default: ["csv", "xlsx", "text"]
	Formats []string `yaml:"formats" validate:"dive,oneof=csv xlsx text"`
}

// LoggingConfig controls the application logger.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`

	// Format is "console" or "json".
	// Default: "console"
	Format string `yaml:"format" validate:"omitempty,oneof=console json"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadMainConfig loads the configuration from a YAML file, applies
// environment overrides and defaults, and validates the result.
//
// Numeric defaults are seeded before the file is read, so an explicit zero
// in the file or environment is kept. Empty strings and lists are filled in
// afterwards.
//
// PARAMETERS:
//   - configPath: The path to the configuration file. A missing file yields
//     the defaults.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be parsed or the result is invalid.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	config := seed()

	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// No file: run on defaults and environment only.
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Environment overrides. Fields without a matching variable keep the
	// value read from the file.
	if err := envconfig.Process(EnvPrefix, config); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	ApplyDefaults(config)

	if err := Validate(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Default returns a configuration populated with defaults only.
func Default() *MainConfig {
	config := seed()
	ApplyDefaults(config)
	return config
}

// seed holds the defaults whose zero value is a legitimate setting.
// DataStartRow is left unset because it follows HeaderRows.
func seed() *MainConfig {
	rising := analytics.DefaultRisingOptions(analytics.DefaultMeanThreshold)
	falling := analytics.DefaultFallingOptions(analytics.DefaultMeanThreshold)

	return &MainConfig{
		Datasets: DatasetsConfig{
			CSVSettings: CSVSettings{HeaderRows: 1},
		},
		Analysis: AnalysisConfig{
			RollingWindow:     1,
			RiseMeanThreshold: rising.MeanThreshold,
			FallMeanThreshold: falling.MeanThreshold,
			RisePctThreshold:  rising.PctThreshold,
			FallPctThreshold:  falling.PctThreshold,
			TrendLimit:        rising.Limit,
			SearchQuery:       "test",
			TurnoverThreshold: analytics.DefaultTurnoverThreshold,
			DependencyLimit:   analytics.DefaultDependencyLimit,
		},
	}
}

// ApplyDefaults fills options left empty. Empty strings and lists are
// never meaningful for these fields.
func ApplyDefaults(config *MainConfig) {
	applyDatasetDefaults(&config.Datasets)
	applyAnalysisDefaults(&config.Analysis)

	setDefault(&config.Output.Dir, "./output")
	setDefault(&config.Output.FileNameFormat, "{analysis}_{timestamp}")
	if len(config.Output.Formats) == 0 {
		config.Output.Formats = []string{"csv", "xlsx", "text"}
	}

	setDefault(&config.Logging.Level, "info")
	setDefault(&config.Logging.Format, "console")
}

func applyDatasetDefaults(ds *DatasetsConfig) {
	setDefault(&ds.CSVSettings.Delimiter, ",")
	if ds.CSVSettings.DataStartRow == 0 {
		ds.CSVSettings.DataStartRow = ds.CSVSettings.HeaderRows + 1
	}
	setDefault(&ds.CSVSettings.Encoding, "UTF-8")

	c := &ds.Columns
	setDefault(&c.Year, "year")
	setDefault(&c.Month, "month")
	setDefault(&c.Period, "period")
	setDefault(&c.Sum, "sum")
	setDefault(&c.Supplier, "leverantör")
	setDefault(&c.Amount, "belopp")
	setDefault(&c.OrgNumber, "organisationsnummer")
	setDefault(&c.Turnover, "financial_turnover")
	setDefault(&c.Proportion, "proportion_of_turnover")
}

func applyAnalysisDefaults(a *AnalysisConfig) {
	if len(a.Years) == 0 {
		a.Years = []int{2016, 2017, 2018, 2019}
	}
	if len(a.Months) == 0 {
		a.Months = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	}
	setDefault(&a.SortKey, analytics.SortBySupplier)
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration against its struct tags and the rules
// that span several fields.
func Validate(config *MainConfig) error {
	if err := validate.Struct(config); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed '%s' (value: %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}

	cs := config.Datasets.CSVSettings
	if cs.DataStartRow <= cs.HeaderRows {
		return fmt.Errorf("data_start_row (%d) must be after header_rows (%d)", cs.DataStartRow, cs.HeaderRows)
	}

	return nil
}
