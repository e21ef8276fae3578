package importer

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"hrsync/worklog"
)

const csvDelimiter = ';'

// CSVReader reads semicolon-separated files.
type CSVReader struct {
	Encoding string
}

func (r *CSVReader) Read(path string, schema Schema) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file %s: %w", path, err)
	}
	defer file.Close()

	decoded, err := decodingReader(file, r.Encoding)
	if err != nil {
		return nil, err
	}

	buffered := bufio.NewReader(decoded)
	firstLine, err := buffered.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read csv header line: %w", err)
	}
	if !strings.ContainsRune(firstLine, csvDelimiter) {
		return nil, &worklog.FormatError{Path: path, Expected: "semicolon ';' delimiter in the first row"}
	}

	reader := csv.NewReader(io.MultiReader(strings.NewReader(firstLine), buffered))
	reader.Comma = csvDelimiter
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, quotingError(path, err)
	}
	if !schema.matches(headers) {
		return nil, &worklog.SchemaError{Expected: schema.Headers(), Actual: headers}
	}

	records := make([]Record, 0, 128)
	lastLine := recordEndLine(reader, headers)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, quotingError(path, err)
		}
		line, _ := reader.FieldPos(0)
		// encoding/csv drops empty lines; a gap between records is an empty row.
		if line > lastLine+1 {
			return nil, &worklog.RowShapeError{Row: lastLine + 1, Expected: schema.Width(), Values: []string{}}
		}
		if len(row) != schema.Width() {
			return nil, &worklog.RowShapeError{Row: line, Expected: schema.Width(), Values: row}
		}

		records = append(records, Record{RowNumber: line, Values: row})
		lastLine = recordEndLine(reader, row)
	}

	return records, nil
}

// recordEndLine is the physical line the record just read ends on.
// Quoted fields may span lines.
func recordEndLine(reader *csv.Reader, row []string) int {
	last := len(row) - 1
	line, _ := reader.FieldPos(last)
	return line + strings.Count(row[last], "\n")
}

func quotingError(path string, err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return &worklog.FormatError{Path: path, Expected: "valid CSV quoting", Line: parseErr.Line, Err: parseErr.Err}
	}
	return fmt.Errorf("read csv %s: %w", path, err)
}
