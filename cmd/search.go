// =============================================================================
// Purchasing Analytics - Search Command
// =============================================================================
//
// COMMAND USAGE:
//   purchasing search [flags]
//
// FLAGS:
//   --query : Text to look for in supplier names (empty matches all)
//   --sort  : Sort key: supplier, year or amount (leverantör and belopp
//             are accepted as aliases)
//
// =============================================================================

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/purchasing-analytics/internal/analytics"
	"github.com/ginjaninja78/purchasing-analytics/internal/report"
)

var (
	searchQuery string
	searchSort  string
)

// searchCmd represents the 'search' command.
var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search supplier-year amounts by supplier name",
	Long: `List every supplier-year record whose supplier name contains the query,
ignoring case. The query is plain text: characters such as '.' or '*' match
themselves.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("query") {
			searchQuery = appConfig.Analysis.SearchQuery
		}
		if !cmd.Flags().Changed("sort") {
			searchSort = appConfig.Analysis.SortKey
		}

		s, err := loadStore(cmd)
		if err != nil {
			return err
		}

		matches, err := analytics.SortSupplierRecords(analytics.SearchSuppliers(s.SupplierYears(), searchQuery), searchSort)
		if err != nil {
			return err
		}

		log := commandLogger(cmd)
		log.Debug().Str("query", searchQuery).Int("matches", len(matches)).Msg("Search complete")
		return report.WriteText(cmd.OutOrStdout(), report.SearchTable(matches))
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVar(&searchQuery, "query", "", "Text to look for in supplier names")
	searchCmd.Flags().StringVar(&searchSort, "sort", "", "Sort key: supplier, year or amount")
}
