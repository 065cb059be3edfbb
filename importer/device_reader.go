package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DeviceReader reads tab-separated punch exports written by clock terminals.
// Terminals commonly emit UTF-16 with a BOM; UTF-8 files are read unchanged.
// Title lines before the header are skipped: the header is the first row whose
// first column is non-empty and which has more than one column. Reading stops
// at the first empty row or at a "Total" summary row.
type DeviceReader struct{}

func (r *DeviceReader) Read(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open device export %s: %w", path, err)
	}
	defer file.Close()

	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	csvReader := csv.NewReader(transform.NewReader(file, decoder))
	csvReader.Comma = '\t'
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true

	var headers []string
	rowNumber := 0
	for headers == nil {
		row, err := csvReader.Read()
		if err == io.EOF {
			return nil, fmt.Errorf("device export %s has no header row", path)
		}
		if err != nil {
			return nil, fmt.Errorf("read device export header: %w", err)
		}
		rowNumber++
		if len(nonEmpty(row)) > 1 {
			headers = row
		}
	}

	head := newHeader(headers)

	records := make([]Record, 0, 128)
	for {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read device export row %d: %w", rowNumber+1, err)
		}
		rowNumber++

		if len(row) == 0 {
			break
		}
		first := strings.TrimSpace(row[0])
		if first == "" || strings.EqualFold(first, "Total") {
			break
		}

		records = append(records, head.record(rowNumber, row))
	}

	return records, nil
}
