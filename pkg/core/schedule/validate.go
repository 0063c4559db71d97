package schedule

import "fmt"

// ConflictError is one violated scheduling invariant found in a finished
// assignment set.
type ConflictError struct {
	Kind        string
	Description string
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Description)
}

// ValidateAssignments checks the invariants that must hold after a run:
// no table double-booked, no volunteer double-booked, no volunteer over
// the workload ceiling. An empty slice means the set is consistent.
func ValidateAssignments(assignments []Assignment) []ConflictError {
	var conflicts []ConflictError

	tableCells := make(map[string]string)
	volunteerCells := make(map[string]string)
	volunteerMinutes := make(map[string]int)

	for _, a := range assignments {
		for _, dp := range a.DayPartIDs {
			tableCell := a.TableID + "/" + dp
			if other, clash := tableCells[tableCell]; clash && other != a.EventID {
				conflicts = append(conflicts, ConflictError{
					Kind: "table-overlap",
					Description: fmt.Sprintf("table %s daypart %s reserved by events %s and %s",
						a.TableID, dp, other, a.EventID),
				})
			}
			tableCells[tableCell] = a.EventID

			if a.VolunteerID == "" {
				continue
			}
			volunteerCell := a.VolunteerID + "/" + dp
			if other, clash := volunteerCells[volunteerCell]; clash && other != a.EventID {
				conflicts = append(conflicts, ConflictError{
					Kind: "host-overlap",
					Description: fmt.Sprintf("volunteer %s daypart %s hosting events %s and %s",
						a.VolunteerID, dp, other, a.EventID),
				})
			}
			volunteerCells[volunteerCell] = a.EventID
		}
		if a.VolunteerID != "" {
			volunteerMinutes[a.VolunteerID] += a.Minutes()
		}
	}

	for volunteerID, minutes := range volunteerMinutes {
		if minutes > MaxCommittedMinutes {
			conflicts = append(conflicts, ConflictError{
				Kind: "workload-ceiling",
				Description: fmt.Sprintf("volunteer %s committed %d minutes (ceiling %d)",
					volunteerID, minutes, MaxCommittedMinutes),
			})
		}
	}

	return conflicts
}
