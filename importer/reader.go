package importer

import (
	"fmt"
	"path/filepath"
	"strings"

	"attendly/config"
)

type Reader interface {
	Read(path string) ([]Record, error)
}

// ReaderForFormat returns the reader of format, configured by the matched
// import rule.
func ReaderForFormat(format string, rule config.ImportRule) (Reader, error) {
	switch normalizeHeader(format) {
	case "csv":
		return &CSVReader{}, nil
	case "excel", "xlsx", "xlsm", "xls":
		return &ExcelReader{Sheet: rule.Sheet}, nil
	case "device", "tsv", "txt":
		return &DeviceReader{}, nil
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}
}

func inferFormat(path string, format string) (string, error) {
	if strings.TrimSpace(format) != "" {
		return format, nil
	}

	extension := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch extension {
	case "csv":
		return "csv", nil
	case "xlsx", "xlsm", "xls":
		return "excel", nil
	case "tsv", "txt":
		return "device", nil
	default:
		return "", fmt.Errorf("unsupported file extension for %s", path)
	}
}
