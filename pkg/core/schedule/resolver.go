package schedule

import (
	"fmt"
	"time"
)

// Requirement is an event's resolved scheduling footprint: the gap-free
// daypart sequence it spans plus the room it draws tables from.
type Requirement struct {
	StartDayPartID string
	DayID          string
	RoomID         string
	DayPartIDs     []string
}

// ResolutionError reports an event start or increment that did not align
// to any known daypart. The event is skipped and surfaced in the run
// report; it never aborts the batch.
type ResolutionError struct {
	EventName string
	Missing   time.Time
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("event %q: %s does not align to a convention daypart",
		e.EventName, e.Missing.UTC().Format("2006-01-02 15:04"))
}

// ResolveRequirement walks forward from the event's start in 30-minute
// increments for the full duration and collects the matching dayparts.
// Either every increment matches and the sequence is complete, or the
// event fails resolution. The room is resolved by table-type name; the
// services layer guarantees the room exists before a run (creating it in
// the external catalog when missing), so an unknown name here is also a
// resolution failure.
func ResolveRequirement(snapshot *ConventionSnapshot, event EventRequest) (*Requirement, error) {
	if event.Duration < DayPartMinutes {
		return nil, fmt.Errorf("event %q: duration %d is less than one daypart", event.Name, event.Duration)
	}
	if event.TableCount < 1 {
		return nil, fmt.Errorf("event %q: table count must be at least 1", event.Name)
	}

	room, ok := snapshot.RoomByName(event.TableType)
	if !ok {
		return nil, fmt.Errorf("event %q: no room matches table type %q", event.Name, event.TableType)
	}

	req := &Requirement{RoomID: room.ID}
	for offset := 0; offset < event.Duration; offset += DayPartMinutes {
		at := event.Start.Add(time.Duration(offset) * time.Minute)
		dayPart, ok := snapshot.DayPartAt(at)
		if !ok {
			return nil, &ResolutionError{EventName: event.Name, Missing: at}
		}
		if offset == 0 {
			req.StartDayPartID = dayPart.ID
			req.DayID = dayPart.DayID
		}
		req.DayPartIDs = append(req.DayPartIDs, dayPart.ID)
	}

	return req, nil
}

// SpanMinutes re-sums a resolved sequence back into a duration.
func (r *Requirement) SpanMinutes() int {
	return len(r.DayPartIDs) * DayPartMinutes
}
