package importer

import (
	"fmt"

	"hrsync/worklog"
)

// MapRecord copies the cells of record into a RawEntry according to the
// schema columns. The project column of the CSV layout is stored as number or
// name depending on mode.
func MapRecord(record Record, schema Schema, mode Mode) (worklog.RawEntry, error) {
	if len(record.Values) != schema.Width() {
		return worklog.RawEntry{}, &worklog.RowShapeError{Row: record.RowNumber, Expected: schema.Width(), Values: record.Values}
	}

	entry := worklog.RawEntry{RowNumber: record.RowNumber}
	for i, col := range schema.Columns {
		value := record.Values[i]
		switch col.field {
		case fieldPersonNumber:
			entry.PersonNumber = value
		case fieldProjectRef:
			if mode == ModeName {
				entry.ProjectName = value
			} else {
				entry.ProjectNumber = value
			}
		case fieldProjectName:
			entry.ProjectName = value
		case fieldProjectNumber:
			entry.ProjectNumber = value
		case fieldDate:
			entry.Date = value
		case fieldStartTime:
			entry.StartTime = value
		case fieldEndTime:
			entry.EndTime = value
		default:
			return worklog.RawEntry{}, fmt.Errorf("column %q has no entry field", col.Header)
		}
	}
	return entry, nil
}
