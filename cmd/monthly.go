// =============================================================================
// Purchasing Analytics - Monthly Command
// =============================================================================
//
// COMMAND USAGE:
//   purchasing monthly [flags]
//
// FLAGS:
//   --years   : Years to include (default from config)
//   --months  : Months to include, 1-12 (default from config)
//   --window  : Moving average window in months (default from config)
//   --raw     : Show raw amounts only, without a moving average
//
// OUTPUT:
//   The filtered monthly series with its moving average, followed by the
//   total per year.
//
// =============================================================================

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/purchasing-analytics/internal/analytics"
	"github.com/ginjaninja78/purchasing-analytics/internal/report"
	"github.com/ginjaninja78/purchasing-analytics/internal/types"
)

var (
	monthlyYears  []int
	monthlyMonths []int
	monthlyWindow int
	monthlyRaw    bool
)

// monthlyCmd represents the 'monthly' command.
var monthlyCmd = &cobra.Command{
	Use:   "monthly",
	Short: "Show monthly purchase totals with a moving average",
	Long: `Filter the monthly purchase series to the selected years and months and
compute a moving average over the filtered amounts.

The first window-1 months have no complete window. They show the amount of
the month at position <window> of the filtered series instead. The window
must therefore be smaller than the number of selected months.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := appConfig.Analysis
		if !cmd.Flags().Changed("years") {
			monthlyYears = a.Years
		}
		if !cmd.Flags().Changed("months") {
			monthlyMonths = a.Months
		}
		if !cmd.Flags().Changed("window") {
			monthlyWindow = a.RollingWindow
		}
		if monthlyRaw {
			monthlyWindow = 1
		}

		s, err := loadStore(cmd)
		if err != nil {
			return err
		}

		points, err := analytics.MovingAverageSeries(s.Purchases(), monthlyYears, monthlyMonths, monthlyWindow)
		if err != nil {
			return err
		}

		totals := yearlyTotals(analytics.FilterPeriods(s.Purchases(), monthlyYears, monthlyMonths))
		return report.WriteText(cmd.OutOrStdout(), report.MonthlyTable(points), totals)
	},
}

// yearlyTotals sums a filtered series per year.
func yearlyTotals(records []types.PurchaseRecord) report.Table {
	t := report.Table{Name: "yearly", Title: "Yearly totals", Headers: []string{"year", "months", "amount"}}

	years, groups := analytics.GroupByYear(records)
	for _, year := range years {
		var sum float64
		for _, r := range groups[year] {
			sum += r.Amount
		}
		t.Rows = append(t.Rows, []any{year, len(groups[year]), sum})
	}
	return t
}

func init() {
	rootCmd.AddCommand(monthlyCmd)

	monthlyCmd.Flags().IntSliceVar(&monthlyYears, "years", nil, "Years to include, e.g. 2016,2017")
	monthlyCmd.Flags().IntSliceVar(&monthlyMonths, "months", nil, "Months to include, 1-12")
	monthlyCmd.Flags().IntVar(&monthlyWindow, "window", 0, "Moving average window in months")
	monthlyCmd.Flags().BoolVar(&monthlyRaw, "raw", false, "Show raw amounts without a moving average")
}
