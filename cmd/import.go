package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"hrsync/config"
	"hrsync/importer"
	"hrsync/internal/timeutil"
	"hrsync/pipeline"
	"hrsync/worklog"
)

var (
	importInput           string
	importFormat          string
	importMode            string
	importEncoding        string
	importDryRun          bool
	importAccessKey       string
	importSecretAccessKey string
	importTimezone        string
	importTimeout         time.Duration
	importHistoryDB       string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Validate a working time file and submit it to HRworks",
	Long: `Read a CSV or Excel working time file, validate it, and submit all entries to HRworks.

Stages, in order; the first failure aborts the run and nothing is submitted:
- header and row shape check
- duplicate rows
- date/time conversion (civil time in --timezone, sent as UTC)
- overlapping intervals of the same personnel number
- project status and active team membership (one lookup per entry)
- single batch submission

Credentials are taken from --access-key/--secret-access-key, then
HRWORKS_ACCESS_KEY/HRWORKS_SECRET_ACCESS_KEY (also read from .env), then the config file.`,
	Example: `
  # Submit a CSV file
  hrsync import -i ./arbeitszeiten.csv

  # Validate against HRworks without submitting
  hrsync import -i ./arbeitszeiten.xlsx --dry-run

  # Project column holds names, file exported from legacy Excel
  hrsync import -i ./arbeitszeiten.csv --mode name --encoding windows-1252

  # Record the run in a history database
  hrsync import -i ./arbeitszeiten.csv --history-db ./history.db
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}

		mode, err := importer.ParseMode(firstNonEmpty(importMode, cfg.Import.Mode))
		if err != nil {
			return err
		}
		loc, err := timeutil.LoadLocation(firstNonEmpty(importTimezone, cfg.Import.Timezone))
		if err != nil {
			return err
		}
		creds, err := resolveCredentials(importAccessKey, importSecretAccessKey, cfg.HRworks, nil)
		if err != nil {
			return err
		}
		cmd.SilenceUsage = true

		started := time.Now()
		client, err := connectHRworks(cfg.HRworks, creds, resolveTimeout(importTimeout, cfg.HRworks), logger)
		if err != nil {
			recordHistory(historyPath(importHistoryDB, cfg.History), runRecord(importInput, started, importDryRun, nil, err), nil, logger)
			return err
		}

		result, runErr := pipeline.Run(context.Background(), pipeline.Session{
			Path:      importInput,
			Format:    importFormat,
			Mode:      mode,
			Encoding:  firstNonEmpty(importEncoding, cfg.Import.Encoding),
			Location:  loc,
			Lookup:    client,
			Lister:    client,
			Submitter: client,
			DryRun:    importDryRun,
			Logger:    logger,
		})

		var resolved []worklog.ResolvedEntry
		if result != nil {
			resolved = result.Batch.Resolved
		}
		recordHistory(historyPath(importHistoryDB, cfg.History), runRecord(importInput, started, importDryRun, result, runErr), resolved, logger)
		if runErr != nil {
			return runErr
		}

		if importDryRun {
			fmt.Printf("Dry run completed. Entries validated: %d, File: %s (nothing submitted)\n", len(resolved), importInput)
			return nil
		}
		fmt.Printf("Import completed. Entries submitted: %d, Status: %d, File: %s\n", len(resolved), result.StatusCode, importInput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVarP(&importInput, "input", "i", "", "Input file (.csv, .xlsx, .xlsm)")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "Input format: csv|excel (optional, inferred from extension)")
	importCmd.Flags().StringVar(&importMode, "mode", "", "Project column mode: id|name (default from config)")
	importCmd.Flags().StringVar(&importEncoding, "encoding", "", "CSV encoding: utf-8|utf-16|windows-1252 (default from config)")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Validate against HRworks without submitting")
	importCmd.Flags().StringVar(&importAccessKey, "access-key", "", "HRworks access key")
	importCmd.Flags().StringVar(&importSecretAccessKey, "secret-access-key", "", "HRworks secret access key")
	importCmd.Flags().StringVar(&importTimezone, "timezone", "", "Timezone of the civil dates and times (default from config, Europe/Berlin)")
	importCmd.Flags().DurationVar(&importTimeout, "timeout", 0, "Timeout per HRworks request (default from config, 60s)")
	importCmd.Flags().StringVar(&importHistoryDB, "history-db", "", "Record the run in this SQLite database (default from config when history.enabled)")

	_ = importCmd.MarkFlagRequired("input")
}
