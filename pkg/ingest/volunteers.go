package ingest

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// VolunteerRow is one roster entry: identity, capability, and the slot
// columns the volunteer marked themselves available for.
type VolunteerRow struct {
	Email       string
	Name        string
	Role        string
	Hours       int
	Tier        int
	SlotNumbers []int
}

// ParseVolunteers reads the volunteer availability matrix. A non-empty
// slot cell other than X means the volunteer offered that slot. The
// Tiers column holds the highest tier the volunteer will run; None or
// blank means they will not host at all.
func ParseVolunteers(r io.Reader) ([]VolunteerRow, error) {
	header, rows, err := readRows(r, func(h string) string {
		switch {
		case strings.Contains(h, "Email Address"):
			return "email"
		case strings.Contains(h, "Name"):
			return "name"
		case strings.Contains(h, "Role"):
			return "role"
		case strings.Contains(h, "Hours"):
			return "hours"
		case strings.Contains(h, "Tiers"):
			return "tiers"
		case strings.Contains(h, "Slot"):
			return slotKey(h)
		}
		return ""
	})
	if err != nil {
		return nil, err
	}

	var volunteers []VolunteerRow
	for i, row := range rows {
		email := strings.ToLower(cell(header, row, "email"))
		if email == "" {
			continue
		}

		volunteer := VolunteerRow{
			Email: email,
			Name:  cell(header, row, "name"),
			Role:  cell(header, row, "role"),
		}

		if hours := cell(header, row, "hours"); hours != "" {
			volunteer.Hours, err = strconv.Atoi(hours)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid hours %q: %w", i+2, hours, err)
			}
		}
		volunteer.Tier = parseTier(cell(header, row, "tiers"))

		for col, key := range header {
			if !strings.HasPrefix(key, "slot ") || col >= len(row) {
				continue
			}
			value := strings.TrimSpace(row[col])
			if value == "" || value == "X" {
				continue
			}
			volunteer.SlotNumbers = append(volunteer.SlotNumbers, slotNumber(key))
		}
		sort.Ints(volunteer.SlotNumbers)

		volunteers = append(volunteers, volunteer)
	}
	return volunteers, nil
}

// parseTier reads the highest tier out of a Tiers cell; the cell can
// list several ("1 2 3") or opt out entirely ("None").
func parseTier(value string) int {
	highest := 0
	for _, field := range strings.Fields(value) {
		if n, err := strconv.Atoi(field); err == nil && n > highest {
			highest = n
		}
	}
	return highest
}
