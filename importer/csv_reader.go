package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVReader reads delimited punch, roster and holiday exports. A leading
// UTF-8 BOM is dropped and the delimiter is taken from the header line:
// comma, semicolon or tab, whichever occurs most.
type CSVReader struct {
	// Comma forces the delimiter when set.
	Comma rune
}

func (r *CSVReader) Read(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file %s: %w", path, err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = r.Comma
	if reader.Comma == 0 {
		reader.Comma = detectDelimiter(data)
	}
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv file %s is empty", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	head := newHeader(headers)

	records := make([]Record, 0, 128)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv %s: %w", path, err)
		}
		line, _ := reader.FieldPos(0)
		records = append(records, head.record(line, row))
	}

	return records, nil
}

func detectDelimiter(data []byte) rune {
	line := data
	if end := bytes.IndexByte(data, '\n'); end >= 0 {
		line = data[:end]
	}

	best, bestCount := ',', bytes.Count(line, []byte{','})
	for _, candidate := range []byte{';', '\t'} {
		if count := bytes.Count(line, []byte{candidate}); count > bestCount {
			best, bestCount = rune(candidate), count
		}
	}
	return best
}
