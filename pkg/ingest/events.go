package ingest

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// EventRow is one event-list entry. Datetime is the local wall-clock
// start from the sheet; Hosts are optional pre-assigned host emails.
type EventRow struct {
	Name       string
	Datetime   string
	Duration   int
	TableCount int
	Hosts      []string
	Type       string
	Tier       int
}

// ParseEvents reads the event list. The Hosts cell is a space-separated
// email list; a blank Tier means the event has no minimum capability.
func ParseEvents(r io.Reader) ([]EventRow, error) {
	header, rows, err := readRows(r, func(h string) string {
		switch {
		case strings.Contains(h, "Event Name"):
			return "name"
		case strings.Contains(h, "Datetime"):
			return "datetime"
		case strings.Contains(h, "Duration"):
			return "duration"
		case strings.Contains(h, "Table Count"):
			return "tablecount"
		case strings.Contains(h, "Hosts"):
			return "hosts"
		case strings.Contains(h, "Tier"):
			return "tier"
		case strings.Contains(h, "Type"):
			return "type"
		}
		return ""
	})
	if err != nil {
		return nil, err
	}

	var events []EventRow
	for i, row := range rows {
		name := cell(header, row, "name")
		if name == "" {
			continue
		}

		event := EventRow{
			Name:     name,
			Datetime: cell(header, row, "datetime"),
			Type:     cell(header, row, "type"),
			Hosts:    splitHosts(cell(header, row, "hosts")),
		}
		if event.Datetime == "" {
			return nil, fmt.Errorf("row %d: event %q has no datetime", i+2, name)
		}
		if event.Type == "" {
			return nil, fmt.Errorf("row %d: event %q has no type", i+2, name)
		}

		event.Duration, err = strconv.Atoi(cell(header, row, "duration"))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid duration for event %q: %w", i+2, name, err)
		}
		event.TableCount, err = strconv.Atoi(cell(header, row, "tablecount"))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid table count for event %q: %w", i+2, name, err)
		}
		if tier := cell(header, row, "tier"); tier != "" {
			event.Tier, err = strconv.Atoi(tier)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid tier for event %q: %w", i+2, name, err)
			}
		}

		events = append(events, event)
	}
	return events, nil
}

func splitHosts(value string) []string {
	var hosts []string
	for _, field := range strings.Fields(value) {
		hosts = append(hosts, strings.ToLower(field))
	}
	return hosts
}
