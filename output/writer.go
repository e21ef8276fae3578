package output

import (
	"fmt"
	"strconv"
	"strings"

	"hrsync/internal/timeutil"
	"hrsync/worklog"
)

// Writer renders resolved entries into a preview file.
type Writer interface {
	Write(path string, entries []worklog.ResolvedEntry) error
}

var previewHeaders = []string{"Personalnummer", "Projektnummer", "Projektname", "Beginn (UTC)", "Ende (UTC)", "Zeile"}

func WriterForFormat(format string) (Writer, error) {
	switch normalizeFormat(format) {
	case "csv":
		return &CSVWriter{}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

func previewRow(entry worklog.ResolvedEntry) []string {
	project := ""
	if entry.ProjectNumber > 0 {
		project = strconv.FormatInt(entry.ProjectNumber, 10)
	}
	return []string{
		entry.PersonNumber,
		project,
		entry.ProjectName,
		timeutil.FormatDisplay(entry.Begin),
		timeutil.FormatDisplay(entry.End),
		strconv.Itoa(entry.RowNumber),
	}
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}
