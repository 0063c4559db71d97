package schedule

import (
	"context"
	"fmt"
)

// SlotReserver externalizes a table/daypart reservation. Implementations
// wrap the platform's slot-update call; transient failures are retried
// once inside the client, so an error here is final for that cell.
type SlotReserver interface {
	ReserveSlot(ctx context.Context, slotID, eventID string) error
}

// TableReservation is one table reserved for an event's full span.
type TableReservation struct {
	TableID    string
	TableName  string
	SlotIDs    []string
	DayPartIDs []string
}

// SlotFailure is a single reservation call that failed after retry. It
// does not abort sibling reservations.
type SlotFailure struct {
	SlotID  string
	TableID string
	Err     string
}

// TableAllocation is the allocator's outcome for one event: whatever it
// could reserve plus the shortfall. Partial results are kept, not rolled
// back; the organizer corrects manually or re-runs.
type TableAllocation struct {
	EventID      string
	Reservations []TableReservation
	Shortfall    int
	SlotFailures []SlotFailure
}

// AllocateTables selects tableCount distinct tables of the required room
// type, each free for the event's whole daypart sequence, and reserves
// their cells through the reserver. Tables are scanned in ascending
// table-number order; the first free table is taken and scanning resumes
// from the next table for the next instance, so no two instances compete
// for the same table.
func AllocateTables(
	ctx context.Context,
	snapshot *ConventionSnapshot,
	eventID string,
	req *Requirement,
	tableCount int,
	reserver SlotReserver,
) TableAllocation {
	alloc := TableAllocation{EventID: eventID}
	tables := snapshot.TablesInRoom(req.RoomID)

	next := 0
	for instance := 0; instance < tableCount; instance++ {
		reserved := false
		for ; next < len(tables); next++ {
			table := tables[next]
			slotIDs, free := freeRun(snapshot, table.ID, req.DayPartIDs)
			if !free {
				continue
			}

			reservation := TableReservation{
				TableID:    table.ID,
				TableName:  table.Name,
				DayPartIDs: req.DayPartIDs,
			}
			for i, slotID := range slotIDs {
				if err := reserver.ReserveSlot(ctx, slotID, eventID); err != nil {
					alloc.SlotFailures = append(alloc.SlotFailures, SlotFailure{
						SlotID:  slotID,
						TableID: table.ID,
						Err:     err.Error(),
					})
					continue
				}
				reservation.SlotIDs = append(reservation.SlotIDs, slotID)
				snapshot.markAssigned(table.ID, req.DayPartIDs[i])
			}
			alloc.Reservations = append(alloc.Reservations, reservation)
			next++
			reserved = true
			break
		}
		if !reserved {
			alloc.Shortfall = tableCount - instance
			break
		}
	}

	return alloc
}

// freeRun returns the slot ids for a table across the whole daypart
// sequence, or false if any cell is missing or already assigned.
func freeRun(snapshot *ConventionSnapshot, tableID string, dayPartIDs []string) ([]string, bool) {
	slotIDs := make([]string, 0, len(dayPartIDs))
	for _, dp := range dayPartIDs {
		slot, ok := snapshot.SlotFor(tableID, dp)
		if !ok || slot.Assigned {
			return nil, false
		}
		slotIDs = append(slotIDs, slot.ID)
	}
	return slotIDs, true
}

// String summarizes the allocation for logs and the run report.
func (a TableAllocation) String() string {
	return fmt.Sprintf("%d reserved, %d short, %d slot failures",
		len(a.Reservations), a.Shortfall, len(a.SlotFailures))
}
