package ingest

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// SlotTime is one slot-matrix column: the shift window volunteers sign
// up for. Start is the local wall-clock datetime from the sheet.
type SlotTime struct {
	Number int
	Start  string
	Hours  int
}

// TableConfig is one layout row: a table type (which becomes a room)
// and the numbered tables it runs.
type TableConfig struct {
	Type       string
	TableStart int
	TableEnd   int
}

// Layout is the parsed room/slot matrix.
type Layout struct {
	Slots  []SlotTime
	Tables []TableConfig
}

// ParseLayout reads the layout matrix. Each row names a table type with
// its table number range; the Slot N columns carry the slot start
// datetime, with X marking a slot that table type does not run.
func ParseLayout(r io.Reader) (*Layout, error) {
	header, rows, err := readRows(r, func(h string) string {
		switch {
		case strings.Contains(h, "Table Start"):
			return "table_start"
		case strings.Contains(h, "Table End"):
			return "table_end"
		case strings.Contains(h, "Table Type"):
			return "table_type"
		case strings.Contains(h, "Length"):
			return "length"
		case strings.Contains(h, "Slot"):
			return slotKey(h)
		}
		return ""
	})
	if err != nil {
		return nil, err
	}

	layout := &Layout{}
	seenSlots := map[int]bool{}

	for i, row := range rows {
		length := cell(header, row, "length")
		hours := 0
		if length != "" {
			hours, err = strconv.Atoi(length)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid slot length %q: %w", i+2, length, err)
			}
		}

		for col, key := range header {
			if !strings.HasPrefix(key, "slot ") || col >= len(row) {
				continue
			}
			value := strings.TrimSpace(row[col])
			if value == "" || value == "X" {
				continue
			}
			number := slotNumber(key)
			if seenSlots[number] {
				continue
			}
			seenSlots[number] = true
			layout.Slots = append(layout.Slots, SlotTime{Number: number, Start: value, Hours: hours})
		}

		tableType := cell(header, row, "table_type")
		if tableType == "" {
			continue
		}
		start, err := strconv.Atoi(cell(header, row, "table_start"))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid table start: %w", i+2, err)
		}
		end, err := strconv.Atoi(cell(header, row, "table_end"))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid table end: %w", i+2, err)
		}
		if end < start {
			return nil, fmt.Errorf("row %d: table range %d-%d is inverted", i+2, start, end)
		}
		layout.Tables = append(layout.Tables, TableConfig{Type: tableType, TableStart: start, TableEnd: end})
	}

	if len(layout.Slots) == 0 {
		return nil, fmt.Errorf("layout has no slot columns")
	}
	sort.Slice(layout.Slots, func(i, j int) bool { return layout.Slots[i].Number < layout.Slots[j].Number })
	return layout, nil
}
