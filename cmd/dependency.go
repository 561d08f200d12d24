// =============================================================================
// Purchasing Analytics - Dependency Command
// =============================================================================
//
// COMMAND USAGE:
//   purchasing dependency [flags]
//
// FLAGS:
//   --threshold : Minimum turnover of a listed organisation
//   --limit     : Number of organisations listed
//
// Requires the financials dataset. The org_names dataset is optional; without
// it every organisation is listed by number only.
//
// =============================================================================

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/purchasing-analytics/internal/analytics"
	"github.com/ginjaninja78/purchasing-analytics/internal/report"
)

var (
	dependencyThreshold float64
	dependencyLimit     int
)

// dependencyCmd represents the 'dependency' command.
var dependencyCmd = &cobra.Command{
	Use:   "dependency",
	Short: "Rank organisations by their financial dependency on the municipality",
	Long: `List the organisations with the largest proportion of their turnover coming
from municipal purchases, among organisations whose turnover exceeds the
threshold. Each organisation is labelled with every supplier name registered
for its organisation number.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("threshold") {
			dependencyThreshold = appConfig.Analysis.TurnoverThreshold
		}
		if !cmd.Flags().Changed("limit") {
			dependencyLimit = appConfig.Analysis.DependencyLimit
		}

		s, err := loadStore(cmd)
		if err != nil {
			return err
		}

		entries, err := analytics.RankDependency(s.Financials(), s.OrgNames(), dependencyThreshold, dependencyLimit)
		if err != nil {
			return err
		}

		return report.WriteText(cmd.OutOrStdout(), report.DependencyTable(entries))
	},
}

func init() {
	rootCmd.AddCommand(dependencyCmd)

	dependencyCmd.Flags().Float64Var(&dependencyThreshold, "threshold", 0, "Minimum turnover of a listed organisation")
	dependencyCmd.Flags().IntVar(&dependencyLimit, "limit", 0, "Number of organisations listed")
}
