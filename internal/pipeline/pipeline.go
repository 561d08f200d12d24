// =============================================================================
// Purchasing Analytics - Analysis Pipeline
// =============================================================================
//
// This module runs every analysis for one parameter set against a
// RecordStore and collects the results for the report writer.
//
// PIPELINE:
//   1. Filter the monthly series and compute its moving average
//   2. Classify supplier trends
//   3. Rank rising and falling suppliers
//   4. Search suppliers and sort the matches
//   5. Rank organisations by financial dependency
//
// Each step reads its own copy of the data from the store, so the steps are
// independent of each other. A failing step stops the pipeline.
//
// =============================================================================

package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/ginjaninja78/purchasing-analytics/internal/analytics"
	"github.com/ginjaninja78/purchasing-analytics/internal/config"
	"github.com/ginjaninja78/purchasing-analytics/internal/logger"
	"github.com/ginjaninja78/purchasing-analytics/internal/store"
	"github.com/ginjaninja78/purchasing-analytics/internal/types"
)

// Analysis names, used for step statistics and report file names.
const (
	AnalysisMonthly    = "monthly"
	AnalysisRising     = "rising"
	AnalysisFalling    = "falling"
	AnalysisSearch     = "search"
	AnalysisDependency = "dependency"
)

// =============================================================================
// PARAMETERS
// =============================================================================

// Params holds the inputs of one pipeline run.
type Params struct {
	Years  []int
	Months []int

	// Window is the moving average window. Raw skips the average.
	Window int
	Raw    bool

	Rising  analytics.RankOptions
	Falling analytics.RankOptions

	SearchQuery string
	SortKey     string

	TurnoverThreshold float64
	DependencyLimit   int
}

// ParamsFromConfig builds the parameters from the analysis configuration.
func ParamsFromConfig(cfg config.AnalysisConfig) Params {
	return Params{
		Years:  cfg.Years,
		Months: cfg.Months,
		Window: cfg.RollingWindow,
		Rising: analytics.RankOptions{
			MeanThreshold: cfg.RiseMeanThreshold,
			PctThreshold:  cfg.RisePctThreshold,
			Limit:         cfg.TrendLimit,
		},
		Falling: analytics.RankOptions{
			MeanThreshold: cfg.FallMeanThreshold,
			PctThreshold:  cfg.FallPctThreshold,
			Limit:         cfg.TrendLimit,
		},
		SearchQuery:       cfg.SearchQuery,
		SortKey:           cfg.SortKey,
		TurnoverThreshold: cfg.TurnoverThreshold,
		DependencyLimit:   cfg.DependencyLimit,
	}
}

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result holds the output of every analysis.
type Result struct {
	Monthly    []analytics.MovingAveragePoint
	Trends     map[string]analytics.TrendSummary
	Rising     []analytics.RankedSupplier
	Falling    []analytics.RankedSupplier
	Search     []types.SupplierYearRecord
	Dependency []analytics.DependencyEntry

	Stats Stats
}

// Stats contains statistics about one run.
type Stats struct {
	// Steps holds one entry per analysis, in pipeline order.
	Steps []StepStats

	// Suppliers is the number of distinct suppliers classified.
	Suppliers int

	// Duration is the time taken by the whole run.
	Duration time.Duration
}

// StepStats describes one analysis step.
type StepStats struct {
	Analysis   string
	RecordsIn  int
	RecordsOut int
	Duration   time.Duration
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes every analysis against s.
//
// PARAMETERS:
//   - ctx: Checked between steps. Carries the logger (see logger.WithContext).
//   - s: The loaded record store.
//   - params: The analysis parameters.
//
// RETURNS:
//   - The collected results.
//   - An error from the first failing step.
func Run(ctx context.Context, s *store.RecordStore, params Params) (*Result, error) {
	start := time.Now()
	log := logger.WithComponent(logger.FromContext(ctx), "pipeline")
	result := &Result{}

	step := func(name string, in int, fn func() (int, error)) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stepStart := time.Now()
		out, err := fn()
		if err != nil {
			return fmt.Errorf("%s analysis failed: %w", name, err)
		}
		st := StepStats{Analysis: name, RecordsIn: in, RecordsOut: out, Duration: time.Since(stepStart)}
		result.Stats.Steps = append(result.Stats.Steps, st)
		log.Debug().Str("analysis", name).Int("in", in).Int("out", out).Dur("duration", st.Duration).Msg("Step complete")
		return nil
	}

	// =========================================================================
	// STEP 1: MONTHLY SERIES
	// =========================================================================
	// With Raw set the average column repeats the amount, as a window of 1.

	purchases := s.Purchases()
	err := step(AnalysisMonthly, len(purchases), func() (int, error) {
		window := params.Window
		if params.Raw {
			window = 1
		}
		points, err := analytics.MovingAverageSeries(purchases, params.Years, params.Months, window)
		if err != nil {
			return 0, err
		}
		result.Monthly = points
		return len(points), nil
	})
	if err != nil {
		return nil, err
	}

	// =========================================================================
	// STEP 2 & 3: TRENDS AND RANKINGS
	// =========================================================================

	supplierYears := s.SupplierYears()
	result.Trends = analytics.ClassifyTrends(supplierYears)
	result.Stats.Suppliers = len(result.Trends)

	err = step(AnalysisRising, len(result.Trends), func() (int, error) {
		ranked, err := analytics.RankRising(result.Trends, params.Rising)
		result.Rising = ranked
		return len(ranked), err
	})
	if err != nil {
		return nil, err
	}

	err = step(AnalysisFalling, len(result.Trends), func() (int, error) {
		ranked, err := analytics.RankFalling(result.Trends, params.Falling)
		result.Falling = ranked
		return len(ranked), err
	})
	if err != nil {
		return nil, err
	}

	// =========================================================================
	// STEP 4: SUPPLIER SEARCH
	// =========================================================================

	err = step(AnalysisSearch, len(supplierYears), func() (int, error) {
		matches, err := analytics.SortSupplierRecords(analytics.SearchSuppliers(supplierYears, params.SearchQuery), params.SortKey)
		result.Search = matches
		return len(matches), err
	})
	if err != nil {
		return nil, err
	}

	// =========================================================================
	// STEP 5: FINANCIAL DEPENDENCY
	// =========================================================================

	financials := s.Financials()
	err = step(AnalysisDependency, len(financials), func() (int, error) {
		entries, err := analytics.RankDependency(financials, s.OrgNames(), params.TurnoverThreshold, params.DependencyLimit)
		result.Dependency = entries
		return len(entries), err
	})
	if err != nil {
		return nil, err
	}

	result.Stats.Duration = time.Since(start)
	log.Info().
		Int("periods", len(result.Monthly)).
		Int("suppliers", result.Stats.Suppliers).
		Int("rising", len(result.Rising)).
		Int("falling", len(result.Falling)).
		Int("matches", len(result.Search)).
		Int("dependency", len(result.Dependency)).
		Dur("duration", result.Stats.Duration).
		Msg("Pipeline complete")

	return result, nil
}
