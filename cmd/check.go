package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"hrsync/config"
	"hrsync/importer"
	"hrsync/internal/timeutil"
	"hrsync/pipeline"
	"hrsync/worklog"
)

var (
	checkInput    string
	checkFormat   string
	checkMode     string
	checkEncoding string
	checkTimezone string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate a working time file locally",
	Long: `Run the local validation stages without contacting HRworks:
header and row shape, duplicate rows, date/time conversion and overlapping intervals.

Project status and team membership are not checked; use "hrsync import --dry-run" for that.`,
	Example: `
  # Validate a CSV file
  hrsync check -i ./arbeitszeiten.csv

  # Validate an Excel export whose project column holds names
  hrsync check -i ./arbeitszeiten.xlsx --mode name
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		cmd.SilenceUsage = true

		result, err := runLocal(cfg, checkInput, checkFormat, checkMode, checkEncoding, checkTimezone)
		if err != nil {
			return err
		}

		entries := result.Batch.Resolved
		fmt.Printf("Check passed. Rows: %d, Persons: %d, Projects: %d, File: %s\n",
			len(entries), countPersons(entries), countProjects(entries), checkInput)
		return nil
	},
}

// runLocal runs the offline pipeline stages with flag values falling back to config.
func runLocal(cfg *config.Config, input, format, modeFlag, encoding, timezone string) (*pipeline.Result, error) {
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	mode, err := importer.ParseMode(firstNonEmpty(modeFlag, cfg.Import.Mode))
	if err != nil {
		return nil, err
	}
	loc, err := timeutil.LoadLocation(firstNonEmpty(timezone, cfg.Import.Timezone))
	if err != nil {
		return nil, err
	}

	return pipeline.Local(context.Background(), pipeline.Session{
		Path:     input,
		Format:   format,
		Mode:     mode,
		Encoding: firstNonEmpty(encoding, cfg.Import.Encoding),
		Location: loc,
		Logger:   logger,
	})
}

func countPersons(entries []worklog.ResolvedEntry) int {
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		seen[entry.PersonNumber] = struct{}{}
	}
	return len(seen)
}

func countProjects(entries []worklog.ResolvedEntry) int {
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		key := entry.ProjectName
		if entry.ProjectNumber > 0 {
			key = fmt.Sprintf("#%d", entry.ProjectNumber)
		}
		seen[key] = struct{}{}
	}
	return len(seen)
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkInput, "input", "i", "", "Input file (.csv, .xlsx, .xlsm)")
	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", "", "Input format: csv|excel (optional, inferred from extension)")
	checkCmd.Flags().StringVar(&checkMode, "mode", "", "Project column mode: id|name (default from config)")
	checkCmd.Flags().StringVar(&checkEncoding, "encoding", "", "CSV encoding: utf-8|utf-16|windows-1252 (default from config)")
	checkCmd.Flags().StringVar(&checkTimezone, "timezone", "", "Timezone of the civil dates and times (default from config)")

	_ = checkCmd.MarkFlagRequired("input")
}
