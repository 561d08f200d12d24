// =============================================================================
// Purchasing Analytics - Trends Command
// =============================================================================
//
// COMMAND USAGE:
//   purchasing trends [flags]
//
// FLAGS:
//   --rise-size : Minimum mean yearly amount for rising suppliers
//   --fall-size : Minimum mean yearly amount for falling suppliers
//   --limit     : Number of suppliers per table
//
// Percentage thresholds come from the configuration (analysis.rise_pct_threshold
// and analysis.fall_pct_threshold).
//
// =============================================================================

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/purchasing-analytics/internal/analytics"
	"github.com/ginjaninja78/purchasing-analytics/internal/pipeline"
	"github.com/ginjaninja78/purchasing-analytics/internal/report"
)

var (
	trendsRiseSize float64
	trendsFallSize float64
	trendsLimit    int
)

// trendsCmd represents the 'trends' command.
var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show suppliers with strongly rising or falling purchases",
	Long: `Classify every supplier's yearly purchase amounts and list the suppliers
whose change from the first to the last year, relative to their mean, passes
the configured thresholds.

Only suppliers with exactly four years of data are classified. Rising
suppliers are listed smallest change first; falling suppliers are listed
least negative change first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		params := pipeline.ParamsFromConfig(appConfig.Analysis)
		if cmd.Flags().Changed("rise-size") {
			params.Rising.MeanThreshold = trendsRiseSize
		}
		if cmd.Flags().Changed("fall-size") {
			params.Falling.MeanThreshold = trendsFallSize
		}
		if cmd.Flags().Changed("limit") {
			params.Rising.Limit = trendsLimit
			params.Falling.Limit = trendsLimit
		}

		s, err := loadStore(cmd)
		if err != nil {
			return err
		}

		summaries := analytics.ClassifyTrends(s.SupplierYears())
		log := commandLogger(cmd)
		log.Debug().Int("suppliers", len(summaries)).Msg("Suppliers classified")

		rising, err := analytics.RankRising(summaries, params.Rising)
		if err != nil {
			return err
		}
		falling, err := analytics.RankFalling(summaries, params.Falling)
		if err != nil {
			return err
		}

		return report.WriteText(cmd.OutOrStdout(),
			report.TrendTable(pipeline.AnalysisRising, "Rising suppliers", rising),
			report.TrendTable(pipeline.AnalysisFalling, "Falling suppliers", falling),
		)
	},
}

func init() {
	rootCmd.AddCommand(trendsCmd)

	trendsCmd.Flags().Float64Var(&trendsRiseSize, "rise-size", 0, "Minimum mean yearly amount for rising suppliers")
	trendsCmd.Flags().Float64Var(&trendsFallSize, "fall-size", 0, "Minimum mean yearly amount for falling suppliers")
	trendsCmd.Flags().IntVar(&trendsLimit, "limit", 0, "Number of suppliers per table")
}
