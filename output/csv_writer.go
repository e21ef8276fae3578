package output

import (
	"encoding/csv"
	"fmt"
	"os"

	"hrsync/worklog"
)

// CSVWriter writes semicolon-separated previews, matching the input convention.
type CSVWriter struct{}

func (w *CSVWriter) Write(path string, entries []worklog.ResolvedEntry) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	writer.Comma = ';'

	if err := writer.Write(previewHeaders); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}
	for _, entry := range entries {
		if err := writer.Write(previewRow(entry)); err != nil {
			return fmt.Errorf("write csv row %d: %w", entry.RowNumber, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv output %s: %w", path, err)
	}
	return nil
}
