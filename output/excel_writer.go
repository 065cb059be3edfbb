package output

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

type ExcelWriter struct{}

func (w *ExcelWriter) Write(path string, table Table) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	if name := strings.TrimSpace(table.Sheet); name != "" && name != sheet {
		if err := file.SetSheetName(sheet, name); err != nil {
			return fmt.Errorf("rename excel sheet: %w", err)
		}
		sheet = name
	}

	for col, header := range table.Headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("set excel header %s: %w", cell, err)
		}
	}

	for i, values := range table.Rows {
		row := i + 2
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("set excel value %s: %w", cell, err)
			}
		}
	}

	if len(table.Headers) > 0 {
		if err := file.AutoFilter(sheet, autoFilterRange(len(table.Headers), len(table.Rows)+1), nil); err != nil {
			return fmt.Errorf("set excel auto filter: %w", err)
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel output %s: %w", path, err)
	}

	return nil
}

func autoFilterRange(columns, rows int) string {
	last, _ := excelize.CoordinatesToCellName(columns, rows)
	return "A1:" + last
}
