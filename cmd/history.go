package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"hrsync/config"
	"hrsync/internal/timeutil"
	"hrsync/pipeline"
	"hrsync/storage"
	"hrsync/worklog"
)

var (
	historyDBPath string
	historyLimit  int
	historyRunID  string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded import runs",
	Long: `List import runs recorded in the history database, newest first.

Runs are recorded by "hrsync import" when history.enabled is set in the config
or --history-db is given. Use --run to list the entries of a single run.`,
	Example: `
  # Last 20 runs from the configured database
  hrsync history

  # Entries of one run
  hrsync history --run 7f9c2d7e-3c1a-4a53-9d4e-0b4b1c3f6e21

  # Custom database
  hrsync history --history-db ./history.db --limit 5
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		path := firstNonEmpty(historyDBPath, cfg.History.DBPath)
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("no history database at %s", path)
		}
		store, err := openHistory(path)
		if err != nil {
			return err
		}
		defer store.Close()

		out := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		defer out.Flush()

		if strings.TrimSpace(historyRunID) != "" {
			entries, err := store.ListRunEntries(historyRunID)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "ROW\tPERSONNEL\tPROJECT\tBEGIN (UTC)\tEND (UTC)")
			for _, entry := range entries {
				fmt.Fprintf(out, "%d\t%s\t%d\t%s\t%s\n",
					entry.RowNumber,
					entry.PersonnelNumber,
					entry.ProjectNumber,
					timeutil.FormatDisplay(entry.Begin),
					timeutil.FormatDisplay(entry.End),
				)
			}
			return nil
		}

		runs, err := store.ListRuns(historyLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No import runs recorded.")
			return nil
		}
		fmt.Fprintln(out, "ID\tSTARTED\tSTATUS\tROWS\tHTTP\tFILE\tERROR")
		for _, run := range runs {
			fmt.Fprintf(out, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
				run.ID,
				run.StartedAt.Local().Format("2006-01-02 15:04:05"),
				run.Status,
				run.Rows,
				statusCodeLabel(run.StatusCode),
				run.SourceFile,
				firstLine(run.Error),
			)
		}
		return nil
	},
}

// runRecord summarises a finished (or failed) pipeline run for the history store.
func runRecord(path string, started time.Time, dryRun bool, result *pipeline.Result, runErr error) storage.Run {
	run := storage.Run{
		StartedAt:  started,
		SourceFile: path,
		Status:     storage.StatusSubmitted,
	}
	if dryRun {
		run.Status = storage.StatusDryRun
	}
	if result != nil {
		run.Rows = len(result.Batch.Raw)
		run.StatusCode = result.StatusCode
	}
	if runErr != nil {
		run.Status = storage.StatusFailed
		run.Error = runErr.Error()
		var pipelineErr worklog.PipelineError
		if errors.As(runErr, &pipelineErr) {
			run.ErrorKind = string(pipelineErr.Kind())
		}
	}
	return run
}

// recordHistory stores run when path is set. Failures are logged and never
// change the outcome of the import.
func recordHistory(path string, run storage.Run, entries []worklog.ResolvedEntry, logger *log.Logger) {
	if strings.TrimSpace(path) == "" {
		return
	}
	store, err := openHistory(path)
	if err != nil {
		logger.Warn("history not recorded", "err", err)
		return
	}
	defer store.Close()

	if run.Status == storage.StatusFailed {
		entries = nil
	}
	id, err := store.RecordRun(run, entries)
	if err != nil {
		logger.Warn("history not recorded", "err", err)
		return
	}
	logger.Info("run recorded", "id", id, "status", run.Status, "db", path)
}

func statusCodeLabel(code int) string {
	if code == 0 {
		return "-"
	}
	return fmt.Sprintf("%d", code)
}

func firstLine(value string) string {
	if line, _, found := strings.Cut(value, "\n"); found {
		return line
	}
	return value
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVar(&historyDBPath, "history-db", "", "History SQLite database (default from config)")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to list (0 lists all)")
	historyCmd.Flags().StringVar(&historyRunID, "run", "", "List the entries of this run ID")
}
