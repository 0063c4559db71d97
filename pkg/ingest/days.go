package ingest

import (
	"fmt"
	"io"
	"strings"
)

// DayRow is one convention day: a display name plus the local open and
// close datetimes from the sheet.
type DayRow struct {
	Name  string
	Start string
	End   string
}

// ParseDays reads the convention day list used when bootstrapping a new
// convention.
func ParseDays(r io.Reader) ([]DayRow, error) {
	header, rows, err := readRows(r, func(h string) string {
		switch {
		case strings.Contains(h, "Start"):
			return "start"
		case strings.Contains(h, "End"):
			return "end"
		case strings.Contains(h, "Name"):
			return "name"
		}
		return ""
	})
	if err != nil {
		return nil, err
	}

	var days []DayRow
	for i, row := range rows {
		day := DayRow{
			Name:  cell(header, row, "name"),
			Start: cell(header, row, "start"),
			End:   cell(header, row, "end"),
		}
		if day.Name == "" {
			continue
		}
		if day.Start == "" || day.End == "" {
			return nil, fmt.Errorf("row %d: day %q needs both start and end", i+2, day.Name)
		}
		days = append(days, day)
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("day sheet has no rows")
	}
	return days, nil
}
