package importer

import (
	"strings"
)

// Record is one data row of an import file, keyed by normalized header.
// RowNumber is the 1-based line or sheet row it came from.
type Record struct {
	RowNumber int
	Values    map[string]string
}

// Get returns the first non-empty value among the header aliases, trimmed.
func (r Record) Get(aliases ...string) string {
	for _, alias := range aliases {
		if value := strings.TrimSpace(r.Values[normalizeHeader(alias)]); value != "" {
			return value
		}
	}
	return ""
}

// header is the normalized header row of a file. When a terminal repeats a
// column name the first column wins.
type header struct {
	names   []string
	columns map[string]int
}

func newHeader(cells []string) header {
	h := header{names: make([]string, len(cells)), columns: make(map[string]int, len(cells))}
	for i, cell := range cells {
		name := normalizeHeader(cell)
		h.names[i] = name
		if name == "" {
			continue
		}
		if _, exists := h.columns[name]; !exists {
			h.columns[name] = i
		}
	}
	return h
}

func (h header) record(rowNumber int, cells []string) Record {
	values := make(map[string]string, len(h.columns))
	for name, col := range h.columns {
		if col < len(cells) {
			values[name] = cells[col]
		} else {
			values[name] = ""
		}
	}
	return Record{RowNumber: rowNumber, Values: values}
}

// normalizeHeader folds "Employee ID", "employee_id" and "Emp-ID." style
// headers to one key. "In/Out" becomes "inout".
func normalizeHeader(input string) string {
	trimmed := strings.TrimSpace(strings.ToLower(strings.TrimPrefix(input, "\ufeff")))
	return strings.NewReplacer("_", "", "-", "", " ", "", ".", "", "/", "").Replace(trimmed)
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			out = append(out, value)
		}
	}
	return out
}
