package importer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"hrsync/internal/timeutil"
	"hrsync/worklog"
)

// ExcelReader reads the working time sheet of an .xlsx/.xlsm workbook.
type ExcelReader struct{}

func (r *ExcelReader) Read(path string, schema Schema) ([]Record, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open excel file %s: %w", path, err)
	}
	defer file.Close()

	sheetName := schema.Sheet
	if sheetName == "" {
		sheetName = SheetName
	}
	index, err := file.GetSheetIndex(sheetName)
	if err != nil || index < 0 {
		return nil, &worklog.FormatError{Path: path, Expected: fmt.Sprintf("sheet %q", sheetName)}
	}

	rows, err := file.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %s: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, &worklog.SchemaError{Expected: schema.Headers()}
	}

	headers := trimTrailingEmpty(rows[0])
	if !schema.matches(headers) {
		return nil, &worklog.SchemaError{Expected: schema.Headers(), Actual: headers}
	}

	date1904 := false
	if props, err := file.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	width := schema.Width()
	records := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rowNumber := i + 2
		for col := width; col < len(row); col++ {
			if !isBlank(row[col]) {
				return nil, &worklog.RowShapeError{Row: rowNumber, Expected: width, Values: row}
			}
		}

		values := make([]string, width)
		for col := 0; col < width && col < len(row); col++ {
			values[col] = renderCell(row[col], schema.Columns[col].field, date1904)
		}

		record := Record{RowNumber: rowNumber, Values: values}
		if record.isEmpty() {
			continue
		}
		if record.isPartial() {
			return nil, &worklog.PartialRowError{Row: rowNumber}
		}
		records = append(records, record)
	}

	return records, nil
}

// renderCell turns raw serial date and time cells into the text patterns
// the time converter expects. Text cells pass through untouched.
func renderCell(value string, f field, date1904 bool) string {
	if f != fieldDate && f != fieldStartTime && f != fieldEndTime {
		return value
	}
	serial, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return value
	}

	if f == fieldDate {
		parsed, err := excelize.ExcelDateToTime(serial, date1904)
		if err != nil {
			return value
		}
		return timeutil.FormatDate(parsed)
	}

	_, fraction := math.Modf(serial)
	minutes := int(math.Round(fraction*24*60)) % (24 * 60)
	return timeutil.FormatClock(time.Date(0, 1, 1, minutes/60, minutes%60, 0, 0, time.UTC))
}

func trimTrailingEmpty(values []string) []string {
	end := len(values)
	for end > 0 && isBlank(values[end-1]) {
		end--
	}
	return values[:end]
}
