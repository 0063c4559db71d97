package schedule

import "fmt"

// SlotPreference is one volunteer's row from the slot-preference matrix:
// the organizer-facing slot numbers the volunteer marked as available.
type SlotPreference struct {
	VolunteerID string
	SlotNumbers []int
}

// AvailabilityIndex answers, per volunteer, which dayparts the volunteer
// is both marked-available for and not already committed to. It is a pure
// derivation over the snapshot; building it has no side effects.
type AvailabilityIndex struct {
	available map[string]map[string]bool

	// Warnings records dropped preference entries (slot numbers with no
	// daypart mapping). Dropping is not fatal; the caller logs these.
	Warnings []string
}

// BuildAvailabilityIndex derives the index from the preference matrix and
// the slot-to-daypart mapping produced by the layout import. A volunteer
// with zero declared availability gets an empty set and is simply never
// matched.
func BuildAvailabilityIndex(
	snapshot *ConventionSnapshot,
	preferences []SlotPreference,
	slotDayParts map[int][]string,
) *AvailabilityIndex {
	index := &AvailabilityIndex{
		available: make(map[string]map[string]bool, len(preferences)),
	}

	committed := make(map[string]map[string]bool, len(snapshot.Volunteers))
	for _, v := range snapshot.Volunteers {
		occupied := make(map[string]bool)
		for _, c := range v.Commitments {
			for _, dp := range c.DayPartIDs {
				occupied[dp] = true
			}
		}
		committed[v.ID] = occupied
	}

	for _, pref := range preferences {
		open := make(map[string]bool)
		for _, slotNumber := range pref.SlotNumbers {
			dayPartIDs, ok := slotDayParts[slotNumber]
			if !ok {
				index.Warnings = append(index.Warnings, fmt.Sprintf(
					"volunteer %s: slot %d has no daypart mapping, dropped",
					pref.VolunteerID, slotNumber))
				continue
			}
			for _, dp := range dayPartIDs {
				if !committed[pref.VolunteerID][dp] {
					open[dp] = true
				}
			}
		}
		index.available[pref.VolunteerID] = open
	}

	return index
}

// Covers reports whether the volunteer declared availability for every
// daypart in the sequence.
func (ai *AvailabilityIndex) Covers(volunteerID string, dayPartIDs []string) bool {
	open := ai.available[volunteerID]
	if open == nil {
		return false
	}
	for _, dp := range dayPartIDs {
		if !open[dp] {
			return false
		}
	}
	return true
}

// AvailableCount returns the number of open dayparts for a volunteer.
func (ai *AvailabilityIndex) AvailableCount(volunteerID string) int {
	return len(ai.available[volunteerID])
}
