package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"hrsync/worklog"
)

const previewSheet = "Vorschau"

type ExcelWriter struct{}

func (w *ExcelWriter) Write(path string, entries []worklog.ResolvedEntry) error {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName(file.GetSheetName(0), previewSheet); err != nil {
		return fmt.Errorf("rename excel sheet: %w", err)
	}

	for col, header := range previewHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := file.SetCellValue(previewSheet, cell, header); err != nil {
			return fmt.Errorf("set excel header %s: %w", cell, err)
		}
	}

	for i, entry := range entries {
		row := i + 2
		for col, value := range previewRow(entry) {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := file.SetCellValue(previewSheet, cell, value); err != nil {
				return fmt.Errorf("set excel value %s: %w", cell, err)
			}
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel output %s: %w", path, err)
	}

	return nil
}
