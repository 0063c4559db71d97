// Package ingest parses the convention spreadsheets: the room/slot
// layout matrix, the volunteer availability matrix, and the event
// list. Headers are matched loosely (a column only has to contain the
// expected phrase) because the sheets are maintained by hand; unknown
// columns are ignored.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// readRows reads all CSV records and returns the normalized header row
// plus the data rows. Normalization maps each recognized header to a
// canonical key via the match function; unrecognized headers map to "".
func readRows(r io.Reader, match func(header string) string) ([]string, [][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("csv has no header row")
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = match(strings.TrimSpace(h))
	}
	return header, records[1:], nil
}

// slotKey normalizes a "Slot N" header into its canonical key,
// returning "" when the column number is missing or malformed.
func slotKey(header string) string {
	fields := strings.Fields(header)
	if len(fields) < 2 {
		return ""
	}
	if _, err := strconv.Atoi(fields[1]); err != nil {
		return ""
	}
	return "slot " + fields[1]
}

// slotNumber recovers the column number from a canonical slot key.
func slotNumber(key string) int {
	n, _ := strconv.Atoi(strings.TrimPrefix(key, "slot "))
	return n
}

// cell returns the trimmed value of the named column in a row, or ""
// when the row is short or the column is absent.
func cell(header []string, row []string, key string) string {
	for i, h := range header {
		if h == key && i < len(row) {
			return strings.TrimSpace(row[i])
		}
	}
	return ""
}
