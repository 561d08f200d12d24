// =============================================================================
// Purchasing Analytics - Report Command
// =============================================================================
//
// This file defines the 'report' command, which runs every analysis with the
// configured parameters and writes the results to files.
//
// COMMAND USAGE:
//   purchasing report [flags]
//
// FLAGS:
//   --dry-run : Run the analyses and print them without writing files
//   --output  : Output directory (overrides output.dir)
//   --formats : Report formats: csv, xlsx, text (overrides output.formats)
//
// PROCESSING PIPELINE:
//   1. Load the datasets
//   2. Run every analysis (see internal/pipeline)
//   3. Write one CSV per analysis, one XLSX workbook and one text report
//   4. Write the run summary
//
// =============================================================================

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/purchasing-analytics/internal/pipeline"
	"github.com/ginjaninja78/purchasing-analytics/internal/report"
	"github.com/ginjaninja78/purchasing-analytics/pkg/utils"
)

var (
	dryRun        bool
	outputDir     string
	reportFormats []string
)

// reportCmd represents the 'report' command.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run every analysis and write the results to files",
	Long: `The report command loads the datasets once, runs every analysis with the
parameters from the configuration, and writes the results:

  - One CSV file per analysis
  - One XLSX workbook with one sheet per analysis
  - One plain-text report
  - A run summary listing every file written

File names follow output.file_name_format. Files from one run share the same
{run} id and {timestamp}.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd)
	},
}

func runReport(cmd *cobra.Command) error {
	start := time.Now()
	log := commandLogger(cmd)

	out := appConfig.Output
	if cmd.Flags().Changed("output") {
		out.Dir = outputDir
	}
	if cmd.Flags().Changed("formats") {
		out.Formats = reportFormats
	}

	// =========================================================================
	// STEP 1: LOAD DATASETS
	// =========================================================================

	s, err := loadStore(cmd)
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 2: RUN ANALYSES
	// =========================================================================

	result, err := pipeline.Run(cmd.Context(), s, pipeline.ParamsFromConfig(appConfig.Analysis))
	if err != nil {
		return err
	}

	tables := report.Tables(result)

	if dryRun {
		log.Info().Msg("Dry run, no files written")
		return report.WriteText(cmd.OutOrStdout(), tables...)
	}

	// =========================================================================
	// STEP 3: WRITE REPORT FILES
	// =========================================================================

	files := utils.NewFileManager(out.Dir, out.FileNameFormat)
	written, err := report.NewWriter(files, out.Formats).Write(tables)
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 4: WRITE RUN SUMMARY
	// =========================================================================

	summary := utils.RunSummary{
		RunID:     files.RunID,
		StartTime: start,
		EndTime:   time.Now(),
		Files:     written,
	}
	for _, step := range result.Stats.Steps {
		summary.Analyses = append(summary.Analyses, utils.AnalysisInfo{
			Name:     step.Analysis,
			Rows:     step.RecordsOut,
			Duration: step.Duration,
		})
	}

	summaryPath, err := utils.WriteSummaryLog(summary, out.Dir)
	if err != nil {
		return err
	}

	log.Info().
		Str("run", files.RunID).
		Int("files", len(written)).
		Str("summary", summaryPath).
		Msg("Report written")

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d files to %s (summary: %s)\n", len(written), out.Dir, summaryPath)
	return nil
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run the analyses and print them without writing files")
	reportCmd.Flags().StringVar(&outputDir, "output", "", "Output directory")
	reportCmd.Flags().StringSliceVar(&reportFormats, "formats", nil, "Report formats: csv, xlsx, text")
}
