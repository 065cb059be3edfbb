package output

import (
	"encoding/csv"
	"fmt"
	"os"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter writes one table per file. Comma defaults to ','.
type CSVWriter struct {
	Comma rune
	BOM   bool
}

func (w *CSVWriter) Write(path string, table Table) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output %s: %w", path, err)
	}
	defer file.Close()

	if w.BOM {
		if _, err := file.Write(utf8BOM); err != nil {
			return fmt.Errorf("write csv bom: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	if w.Comma != 0 {
		writer.Comma = w.Comma
	}

	if err := writer.Write(table.Headers); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}
	if err := writer.WriteAll(table.Rows); err != nil {
		return fmt.Errorf("write csv rows of %s: %w", path, err)
	}

	return file.Close()
}
