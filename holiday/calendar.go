package holiday

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"attendly/internal/timeutil"
)

// CalendarFile is the on-disk per-year holiday calendar.
type CalendarFile struct {
	Year     int            `json:"year"`
	Holidays []CalendarItem `json:"holidays"`
}

type CalendarItem struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// LoadCalendarJSON reads a calendar file and returns its holidays. The year is
// required and must match both the file header and every entry.
func LoadCalendarJSON(path string, year int, loc *time.Location) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read holiday calendar %s: %w", path, err)
	}
	return ParseCalendarJSON(data, year, loc)
}

func ParseCalendarJSON(data []byte, year int, loc *time.Location) ([]Record, error) {
	if year <= 0 {
		return nil, fmt.Errorf("holiday calendar year is required")
	}

	var file CalendarFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal holiday calendar: %w", err)
	}
	if file.Year != year {
		return nil, fmt.Errorf("holiday calendar is for year %d, expected %d", file.Year, year)
	}

	records := make([]Record, 0, len(file.Holidays))
	for i, item := range file.Holidays {
		date, err := timeutil.ParseDate(item.Date, loc)
		if err != nil {
			return nil, fmt.Errorf("holidays[%d]: %w", i, err)
		}
		if date.Year() != year {
			return nil, fmt.Errorf("holidays[%d]: date %s is outside year %d", i, item.Date, year)
		}
		records = append(records, Record{Date: date, Name: strings.TrimSpace(item.Name)})
	}

	return records, nil
}
