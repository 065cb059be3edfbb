package output

import (
	"fmt"
	"strings"
)

// Table is one exported sheet: a header row plus data rows of equal width.
type Table struct {
	Sheet   string
	Headers []string
	Rows    [][]string
}

type Writer interface {
	Write(path string, table Table) error
}

// Options tune the CSV output for spreadsheet locales: a semicolon or tab
// delimiter, and a UTF-8 BOM so Excel detects the encoding of names.
type Options struct {
	Delimiter string
	BOM       bool
}

func WriterForFormat(format string, options Options) (Writer, error) {
	switch normalizeFormat(format) {
	case "csv":
		comma, err := ParseDelimiter(options.Delimiter)
		if err != nil {
			return nil, err
		}
		return &CSVWriter{Comma: comma, BOM: options.BOM}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// ParseDelimiter accepts ",", ";", "tab" or "\t"; empty means comma.
func ParseDelimiter(value string) (rune, error) {
	if value == "\t" {
		return '\t', nil
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", ",", "comma":
		return ',', nil
	case ";", "semicolon":
		return ';', nil
	case "tab", `\t`:
		return '\t', nil
	}
	return 0, fmt.Errorf("unsupported csv delimiter %q (supported: comma, semicolon, tab)", value)
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}
