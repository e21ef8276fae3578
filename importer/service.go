package importer

import (
	"fmt"
	"path/filepath"
	"strings"

	"hrsync/worklog"
)

type ParseOptions struct {
	// Format is csv or excel; inferred from the extension when empty.
	Format   string
	Mode     Mode
	Encoding string
}

// Parse reads path and returns its rows as raw entries in file order.
func Parse(path string, options ParseOptions) ([]worklog.RawEntry, error) {
	format, err := inferFormat(path, options.Format)
	if err != nil {
		return nil, err
	}
	schema, err := SchemaForFormat(format)
	if err != nil {
		return nil, err
	}
	mode := options.Mode
	if mode == "" {
		mode = ModeID
	}

	reader, err := ReaderForFormat(format, options.Encoding)
	if err != nil {
		return nil, err
	}
	records, err := reader.Read(path, schema)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &worklog.EmptyBatchError{Path: path}
	}

	entries := make([]worklog.RawEntry, 0, len(records))
	for _, record := range records {
		entry, err := MapRecord(record, schema, mode)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func inferFormat(path string, format string) (string, error) {
	if strings.TrimSpace(format) != "" {
		return normalizeFormat(format), nil
	}

	extension := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch extension {
	case "csv":
		return FormatCSV, nil
	case "xlsx", "xlsm":
		return FormatExcel, nil
	default:
		return "", fmt.Errorf("unsupported file extension for %s (use .csv, .xlsx or .xlsm, or set --format)", path)
	}
}
