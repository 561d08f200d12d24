// =============================================================================
// Purchasing Analytics - Validate Command
// =============================================================================
//
// COMMAND USAGE:
//   purchasing validate [flags]
//
// FLAGS:
//   --log : Also write the rejected rows to a log file in the output directory
//
// Loads every configured dataset with invalid rows skipped, prints the row
// counts per dataset and lists the rejected rows. Exits with an error when
// any row was rejected.
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/purchasing-analytics/internal/report"
	"github.com/ginjaninja78/purchasing-analytics/internal/store"
	"github.com/ginjaninja78/purchasing-analytics/internal/validation"
	"github.com/ginjaninja78/purchasing-analytics/internal/xlsxparser"
	"github.com/ginjaninja78/purchasing-analytics/pkg/utils"
)

var writeRejectedLog bool

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configured datasets without running any analysis",
	RunE: func(cmd *cobra.Command, args []string) error {
		datasets := appConfig.Datasets
		datasets.SkipInvalidRows = true

		s, err := store.Load(cmd.Context(), datasets, commandLogger(cmd))
		if err != nil {
			return err
		}
		stats := s.Stats()

		summary := report.Table{
			Name:    "validation",
			Title:   "Datasets",
			Headers: []string{"dataset", "path", "sheets", "rows", "accepted", "rejected"},
		}
		rejected := report.Table{
			Name:    "rejected",
			Title:   "Rejected rows",
			Headers: []string{"dataset", "row", "column", "value", "message"},
		}
		var entries []utils.ErrorLogEntry

		for _, t := range stats.Tables {
			summary.Rows = append(summary.Rows, []any{t.Dataset, t.Path, workbookSheets(t.Path), t.RowsRead, t.Accepted, len(t.Rejected)})
			for _, e := range t.Rejected {
				rejected.Rows = append(rejected.Rows, []any{t.Dataset, e.Row, e.Column, e.Value, e.Message})
				entries = append(entries, utils.ErrorLogEntry{
					Dataset:  t.Dataset,
					FileName: e.File,
					Row:      e.Row,
					Column:   e.Column,
					Value:    e.Value,
					Message:  e.Message,
				})
			}
		}

		if err := report.WriteText(cmd.OutOrStdout(), summary, rejected); err != nil {
			return err
		}

		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "\nAll datasets are valid.")
			return nil
		}

		if writeRejectedLog {
			files := utils.NewFileManager(appConfig.Output.Dir, appConfig.Output.FileNameFormat)
			if err := files.EnsureDirectories(); err != nil {
				return err
			}
			path, err := utils.WriteErrorLog(entries, files.OutputDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nRejected rows written to %s\n", path)
		}

		return fmt.Errorf("%w: %d rows rejected", validation.ErrInvalidRows, len(entries))
	},
}

// workbookSheets lists the worksheets of an XLSX dataset. It is empty for
// other files.
func workbookSheets(path string) string {
	if !strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ""
	}
	names, err := xlsxparser.SheetNames(path)
	if err != nil {
		return ""
	}
	return strings.Join(names, ", ")
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&writeRejectedLog, "log", false, "Write rejected rows to a log file in the output directory")
}
