// =============================================================================
// Purchasing Analytics - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for the report writer:
//   - Output directory management
//   - Report file naming
//   - Rejected-row log generation
//   - Run summary generation
//
// NAMING:
//   Every file written by one report run shares the same run id, so the
//   {run} placeholder groups the files of a run together.
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager names and places the files of one report run.
type FileManager struct {
	// OutputDir is the directory where report files are placed.
	OutputDir string

	// FileNameFormat is the name template for report files.
	FileNameFormat string

	// RunID identifies the run in file names and summaries.
	RunID string

	// Started is the run start time, used for the {timestamp} placeholder.
	Started time.Time
}

// NewFileManager creates a FileManager with a fresh run id.
func NewFileManager(outputDir, fileNameFormat string) *FileManager {
	return &FileManager{
		OutputDir:      outputDir,
		FileNameFormat: fileNameFormat,
		RunID:          uuid.New().String(),
		Started:        time.Now(),
	}
}

// EnsureDirectories creates the output directory if it doesn't exist.
func (fm *FileManager) EnsureDirectories() error {
	if err := os.MkdirAll(fm.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fm.OutputDir, err)
	}
	return nil
}

// OutputPath returns the path for one analysis file of this run.
//
// PARAMETERS:
//   - analysis: The analysis name, substituted for {analysis}.
//   - ext: The file extension including the dot, e.g. ".csv".
func (fm *FileManager) OutputPath(analysis, ext string) string {
	name := GenerateOutputFileName(fm.FileNameFormat, fm.Started, map[string]string{
		"run":      fm.RunID,
		"analysis": analysis,
	})
	return filepath.Join(fm.OutputDir, name+ext)
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName expands the placeholders of a file name format.
//
// PARAMETERS:
//   - format: The format string for the file name.
//     Placeholders:
//     {run}       - The run id (a UUID unless given in params)
//     {timestamp} - The time as YYYYMMDD_HHMMSS
//     {date}      - The date as YYYYMMDD
//     {analysis}  - The analysis name (from params)
//   - at: The time used for the time placeholders.
//   - params: Extra placeholder values, keyed without braces.
//
// EXAMPLE:
//
//	format: "{analysis}_{timestamp}"
//	params: {"analysis": "rising"}
//	output: "rising_20240115_143022"
func GenerateOutputFileName(format string, at time.Time, params map[string]string) string {
	replacements := map[string]string{
		"{timestamp}": at.Format("20060102_150405"),
		"{date}":      at.Format("20060102"),
	}
	if strings.Contains(format, "{run}") {
		replacements["{run}"] = uuid.New().String()
	}

	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	return sanitizeFileName(result)
}

// sanitizeFileName replaces path separators so a placeholder value cannot
// move the file out of the output directory.
func sanitizeFileName(name string) string {
	return strings.NewReplacer("/", "_", "\\", "_").Replace(name)
}

// =============================================================================
// REJECTED ROW LOG
// =============================================================================

// ErrorLogEntry represents one rejected input row.
type ErrorLogEntry struct {
	Dataset  string
	FileName string
	Row      int
	Column   string
	Value    string
	Message  string
}

// WriteErrorLog writes rejected rows to a log file in outputDir.
//
// RETURNS:
//   - The path to the log file, or "" when there are no entries.
//   - An error if writing fails.
func WriteErrorLog(entries []ErrorLogEntry, outputDir string) (string, error) {
	if len(entries) == 0 {
		return "", nil
	}

	logPath := filepath.Join(outputDir, fmt.Sprintf("rejected_rows_%s.txt", time.Now().Format("20060102_150405")))

	file, err := os.Create(logPath)
	if err != nil {
		return "", fmt.Errorf("failed to create error log: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)

	fmt.Fprintf(w, "Purchasing Analytics - Rejected Rows\n"+
		"Generated: %s\n"+
		"Total Rejected: %d\n"+
		"%s\n\n",
		time.Now().Format("2006-01-02 15:04:05"), len(entries), rule)

	for i, e := range entries {
		fmt.Fprintf(w, "Row #%d\n"+
			"  Dataset:  %s\n"+
			"  File:     %s\n"+
			"  Row:      %d\n"+
			"  Column:   %s\n"+
			"  Value:    %s\n"+
			"  Message:  %s\n\n",
			i+1, e.Dataset, e.FileName, e.Row, e.Column, e.Value, e.Message)
	}

	fmt.Fprintf(w, "%s\nEnd of Log\n", rule)

	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush error log: %w", err)
	}

	return logPath, nil
}

// =============================================================================
// RUN SUMMARY
// =============================================================================

const rule = "================================================================================"

// RunSummary contains summary information about a report run.
type RunSummary struct {
	RunID     string
	StartTime time.Time
	EndTime   time.Time

	// Analyses lists each analysis with its row count, in run order.
	Analyses []AnalysisInfo

	// Files lists every file written by the run.
	Files []string
}

// AnalysisInfo is one analysis line of the summary.
type AnalysisInfo struct {
	Name     string
	Rows     int
	Duration time.Duration
}

// WriteSummaryLog writes a run summary to a file in outputDir.
//
// RETURNS:
//   - The path to the summary file.
//   - An error if writing fails.
func WriteSummaryLog(summary RunSummary, outputDir string) (string, error) {
	summaryPath := filepath.Join(outputDir,
		fmt.Sprintf("run_summary_%s.txt", summary.StartTime.Format("20060102_150405")))

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)

	fmt.Fprintf(w, "Purchasing Analytics - Run Summary\n"+
		"%s\n\n"+
		"Run Information:\n"+
		"  Run ID:         %s\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n\n",
		rule,
		summary.RunID,
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Sub(summary.StartTime).String())

	if len(summary.Analyses) > 0 {
		fmt.Fprintf(w, "Analyses:\n%s\n", strings.Repeat("-", len(rule)))
		for _, a := range summary.Analyses {
			fmt.Fprintf(w, "  %-12s %6d rows  %s\n", a.Name, a.Rows, a.Duration.String())
		}
		fmt.Fprintln(w)
	}

	if len(summary.Files) > 0 {
		fmt.Fprintf(w, "Files Written:\n%s\n", strings.Repeat("-", len(rule)))
		for _, f := range summary.Files {
			fmt.Fprintf(w, "  %s\n", f)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "%s\nEnd of Summary\n", rule)

	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}

	return summaryPath, nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
