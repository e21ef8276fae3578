package importer

import (
	"fmt"
	"strings"
)

const (
	FormatCSV   = "csv"
	FormatExcel = "excel"

	// SheetName is the worksheet that holds working times in spreadsheet input.
	SheetName = "Arbeitszeiten"

	HeaderPersonNumber     = "Personalnummer"
	HeaderProjectName      = "Projektname"
	HeaderSheetProjectName = "ProjektName"
	HeaderSheetProjectID   = "ProjektID"
	HeaderDate             = "Datum"
	HeaderStartTime        = "Startzeit"
	HeaderEndTime          = "Endzeit"
)

// Mode selects how the project column is interpreted.
type Mode string

const (
	// ModeID expects numeric project numbers.
	ModeID Mode = "id"
	// ModeName expects project names that are resolved through a project listing.
	ModeName Mode = "name"
)

func ParseMode(value string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "id", "number":
		return ModeID, nil
	case "name":
		return ModeName, nil
	default:
		return "", fmt.Errorf("unsupported import mode %q (supported: id|name)", value)
	}
}

type field int

const (
	fieldPersonNumber field = iota
	// fieldProjectRef is stored as name or number depending on the Mode.
	fieldProjectRef
	fieldProjectName
	fieldProjectNumber
	fieldDate
	fieldStartTime
	fieldEndTime
)

type column struct {
	Header string
	field  field
}

// Schema is the ordered column layout an input file must match exactly.
type Schema struct {
	Format  string
	Sheet   string
	Columns []column
}

func (s Schema) Headers() []string {
	headers := make([]string, len(s.Columns))
	for i, col := range s.Columns {
		headers[i] = col.Header
	}
	return headers
}

func (s Schema) Width() int {
	return len(s.Columns)
}

func (s Schema) matches(headers []string) bool {
	if len(headers) != len(s.Columns) {
		return false
	}
	for i, col := range s.Columns {
		if headers[i] != col.Header {
			return false
		}
	}
	return true
}

var csvSchema = Schema{
	Format: FormatCSV,
	Columns: []column{
		{Header: HeaderPersonNumber, field: fieldPersonNumber},
		{Header: HeaderProjectName, field: fieldProjectRef},
		{Header: HeaderDate, field: fieldDate},
		{Header: HeaderStartTime, field: fieldStartTime},
		{Header: HeaderEndTime, field: fieldEndTime},
	},
}

var excelSchema = Schema{
	Format: FormatExcel,
	Sheet:  SheetName,
	Columns: []column{
		{Header: HeaderPersonNumber, field: fieldPersonNumber},
		{Header: HeaderSheetProjectName, field: fieldProjectName},
		{Header: HeaderSheetProjectID, field: fieldProjectNumber},
		{Header: HeaderDate, field: fieldDate},
		{Header: HeaderStartTime, field: fieldStartTime},
		{Header: HeaderEndTime, field: fieldEndTime},
	},
}

func SchemaForFormat(format string) (Schema, error) {
	switch normalizeFormat(format) {
	case FormatCSV:
		return csvSchema, nil
	case FormatExcel:
		return excelSchema, nil
	default:
		return Schema{}, fmt.Errorf("unsupported input format: %s", format)
	}
}

func normalizeFormat(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return FormatCSV
	case "excel", "xlsx", "xlsm":
		return FormatExcel
	default:
		return strings.ToLower(strings.TrimSpace(format))
	}
}
