package importer

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ExcelReader reads roster and punch workbooks. Sheet selects the worksheet
// by name; the first sheet is used when it is empty. Title rows above the
// header are skipped: the header is the first row with more than one
// non-empty cell.
type ExcelReader struct {
	Sheet string
}

func (r *ExcelReader) Read(path string) ([]Record, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open excel file %s: %w", path, err)
	}
	defer file.Close()

	sheetName := strings.TrimSpace(r.Sheet)
	if sheetName == "" {
		sheetName = file.GetSheetName(0)
	}
	if sheetName == "" {
		return nil, fmt.Errorf("excel file has no sheets: %s", path)
	}
	if index, err := file.GetSheetIndex(sheetName); err != nil || index < 0 {
		return nil, fmt.Errorf("sheet %q not found in %s", sheetName, path)
	}

	rows, err := file.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %s: %w", sheetName, err)
	}

	headerRow := -1
	for i, row := range rows {
		if len(nonEmpty(row)) > 1 {
			headerRow = i
			break
		}
	}
	if headerRow < 0 {
		return nil, fmt.Errorf("sheet %s has no header row", sheetName)
	}

	head := newHeader(rows[headerRow])
	records := make([]Record, 0, len(rows)-headerRow-1)
	for i := headerRow + 1; i < len(rows); i++ {
		records = append(records, head.record(i+1, rows[i]))
	}

	return records, nil
}
