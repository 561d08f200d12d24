// =============================================================================
// Purchasing Analytics - Record Store
// =============================================================================
//
// The RecordStore holds the four parsed datasets for the lifetime of a
// command. It is built once, either by Load from the configured files or by
// New from in-memory slices, and is read-only afterwards. Every accessor
// returns a copy so callers cannot modify the stored records.
//
// LOADING:
//   1. Each configured dataset is read concurrently (one goroutine per table)
//   2. The reader is chosen by file extension: .xlsx or CSV
//   3. Rows are decoded into typed records and validated
//   4. Invalid rows fail the load unless SkipInvalidRows is set
//
// The monthly purchase and supplier-year tables are required. The financial
// and org-name tables are optional; when absent the dependency analysis has
// nothing to rank.
//
// =============================================================================

package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ginjaninja78/purchasing-analytics/internal/config"
	"github.com/ginjaninja78/purchasing-analytics/internal/csvparser"
	"github.com/ginjaninja78/purchasing-analytics/internal/types"
	"github.com/ginjaninja78/purchasing-analytics/internal/validation"
	"github.com/ginjaninja78/purchasing-analytics/internal/xlsxparser"
	"github.com/ginjaninja78/purchasing-analytics/pkg/utils"
)

// Dataset names used in logs and load statistics.
const (
	DatasetPurchases     = "purchases"
	DatasetSupplierYears = "supplier_years"
	DatasetFinancials    = "financials"
	DatasetOrgNames      = "org_names"
)

// ErrDatasetNotConfigured is returned when a required dataset has no path.
var ErrDatasetNotConfigured = errors.New("dataset not configured")

// ErrDatasetNotFound is returned when a configured dataset file is absent.
var ErrDatasetNotFound = errors.New("dataset file not found")

// =============================================================================
// RECORD STORE
// =============================================================================

// RecordStore holds the immutable datasets.
type RecordStore struct {
	purchases     []types.PurchaseRecord
	supplierYears []types.SupplierYearRecord
	financials    []types.FinancialRecord
	orgNames      []types.OrgNameMapping

	stats LoadStats
}

// New builds a store from in-memory records. The slices are copied.
func New(purchases []types.PurchaseRecord, supplierYears []types.SupplierYearRecord,
	financials []types.FinancialRecord, orgNames []types.OrgNameMapping) *RecordStore {
	return &RecordStore{
		purchases:     clone(purchases),
		supplierYears: clone(supplierYears),
		financials:    clone(financials),
		orgNames:      clone(orgNames),
	}
}

// Purchases returns the monthly series ordered by period.
func (s *RecordStore) Purchases() []types.PurchaseRecord {
	return clone(s.purchases)
}

// SupplierYears returns the supplier-year records in load order.
func (s *RecordStore) SupplierYears() []types.SupplierYearRecord {
	return clone(s.supplierYears)
}

// Financials returns the financial records in load order.
func (s *RecordStore) Financials() []types.FinancialRecord {
	return clone(s.financials)
}

// OrgNames returns the org-name mapping in load order.
func (s *RecordStore) OrgNames() []types.OrgNameMapping {
	return clone(s.orgNames)
}

// Stats returns the statistics collected by Load. A store built with New
// has empty statistics.
func (s *RecordStore) Stats() LoadStats {
	out := s.stats
	out.Tables = clone(s.stats.Tables)
	return out
}

func clone[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return slices.Clone(s)
}

// =============================================================================
// LOAD STATISTICS
// =============================================================================

// LoadStats describes one Load call.
type LoadStats struct {
	// Tables holds one entry per dataset that was read, in dataset order.
	Tables []TableStats

	// Duration is the wall time of the whole load.
	Duration time.Duration
}

// TableStats summarises the decoding of one dataset.
type TableStats struct {
	Dataset  string
	Path     string
	RowsRead int
	Accepted int
	Rejected []*validation.RowError
}

// RejectedCount returns the total number of rejected rows.
func (l LoadStats) RejectedCount() int {
	n := 0
	for _, t := range l.Tables {
		n += len(t.Rejected)
	}
	return n
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads every configured dataset and builds a RecordStore.
//
// PARAMETERS:
//   - ctx: Cancels loading. The first failing dataset cancels the others.
//   - cfg: The dataset configuration.
//   - log: The logger for load progress.
//
// RETURNS:
//   - The populated store.
//   - An error if a required dataset is missing, a file cannot be read, a
//     column is missing, or (unless SkipInvalidRows) any row is invalid.
func Load(ctx context.Context, cfg config.DatasetsConfig, log zerolog.Logger) (*RecordStore, error) {
	start := time.Now()
	log = log.With().Str("component", "store").Logger()

	if !cfg.Purchases.IsSet() {
		return nil, fmt.Errorf("%w: %s", ErrDatasetNotConfigured, DatasetPurchases)
	}
	if !cfg.SupplierYears.IsSet() {
		return nil, fmt.Errorf("%w: %s", ErrDatasetNotConfigured, DatasetSupplierYears)
	}

	s := &RecordStore{}
	stats := make([]*TableStats, 4)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		records, st, err := loadTable(ctx, cfg, DatasetPurchases, cfg.Purchases, log, validation.DecodePurchases)
		s.purchases, stats[0] = records, st
		return err
	})

	g.Go(func() error {
		records, st, err := loadTable(ctx, cfg, DatasetSupplierYears, cfg.SupplierYears, log, validation.DecodeSupplierYears)
		s.supplierYears, stats[1] = records, st
		return err
	})

	if cfg.Financials.IsSet() {
		g.Go(func() error {
			records, st, err := loadTable(ctx, cfg, DatasetFinancials, cfg.Financials, log, validation.DecodeFinancials)
			s.financials, stats[2] = records, st
			return err
		})
	} else {
		log.Warn().Str("dataset", DatasetFinancials).Msg("Dataset not configured, dependency ranking will be empty")
	}

	if cfg.OrgNames.IsSet() {
		g.Go(func() error {
			records, st, err := loadTable(ctx, cfg, DatasetOrgNames, cfg.OrgNames, log, validation.DecodeOrgNames)
			s.orgNames, stats[3] = records, st
			return err
		})
	} else {
		log.Warn().Str("dataset", DatasetOrgNames).Msg("Dataset not configured, dependency labels will be empty")
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, st := range stats {
		if st != nil {
			s.stats.Tables = append(s.stats.Tables, *st)
		}
	}
	s.stats.Duration = time.Since(start)

	log.Info().
		Int("purchases", len(s.purchases)).
		Int("supplier_years", len(s.supplierYears)).
		Int("financials", len(s.financials)).
		Int("org_names", len(s.orgNames)).
		Int("rejected", s.stats.RejectedCount()).
		Dur("duration", s.stats.Duration).
		Msg("Datasets loaded")

	return s, nil
}

// loadTable reads and decodes one dataset.
func loadTable[T any](ctx context.Context, cfg config.DatasetsConfig, dataset string, src config.DatasetSource,
	log zerolog.Logger, decode func(*types.Table, config.ColumnNames) ([]T, *validation.Result, error)) ([]T, *TableStats, error) {

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	log = log.With().Str("dataset", dataset).Str("path", src.Path).Logger()
	log.Debug().Msg("Reading dataset")

	if !utils.FileExists(src.Path) {
		return nil, nil, fmt.Errorf("failed to read %s: %w: %s", dataset, ErrDatasetNotFound, src.Path)
	}

	table, err := ReadTable(src, cfg.CSVSettings)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", dataset, err)
	}

	records, res, err := decode(table, cfg.Columns)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode %s: %w", dataset, err)
	}

	st := &TableStats{
		Dataset:  dataset,
		Path:     src.Path,
		RowsRead: res.RowsRead,
		Accepted: res.RowsAccepted,
		Rejected: res.Errors,
	}

	if !res.IsValid() {
		if !cfg.SkipInvalidRows {
			return nil, st, res.Err()
		}
		for _, rowErr := range res.Errors {
			log.Warn().
				Int("row", rowErr.Row).
				Str("column", rowErr.Column).
				Str("value", rowErr.Value).
				Msg(rowErr.Message)
		}
	}

	log.Debug().Int("rows", res.RowsRead).Int("accepted", res.RowsAccepted).Msg("Dataset decoded")
	return records, st, nil
}

// ReadTable reads a dataset with the reader matching its extension.
func ReadTable(src config.DatasetSource, settings config.CSVSettings) (*types.Table, error) {
	if strings.EqualFold(filepath.Ext(src.Path), ".xlsx") {
		return xlsxparser.Parse(src.Path, src.Sheet)
	}
	return csvparser.Parse(src.Path, settings)
}
