package schedule

import (
	"context"
)

// HostBinder externalizes an event-host binding. The platform call is
// idempotent: binding the same (event, volunteer) pair twice is a no-op.
type HostBinder interface {
	BindHost(ctx context.Context, eventID, userID string) error
}

// HostMatch is one volunteer bound to host one reserved table instance.
type HostMatch struct {
	TableID     string
	VolunteerID string
	UserID      string
	Preassigned bool
}

// BindFailure is a host-registration call that failed after retry,
// independently of its siblings.
type BindFailure struct {
	VolunteerID string
	Err         string
}

// HostMatching is the matcher's outcome for one event.
type HostMatching struct {
	EventID       string
	Matches       []HostMatch
	Unfilled      int
	UnknownEmails []string
	BindFailures  []BindFailure
}

// MatchHosts selects one qualified volunteer per reserved table instance
// and binds each through the binder. A volunteer qualifies when their
// tier meets the event's (ordinal, higher tier can run lower events),
// their declared availability covers every daypart the event spans, no
// existing commitment overlaps the span, and the added minutes keep them
// under the workload ceiling. Ties go to the fewest committed minutes,
// then to the earliest-registered volunteer.
//
// Pre-assigned host emails are bound first without the qualification
// scan; an email with no roster match falls through to open matching and
// is reported. A table with no qualifying volunteer is left host-less and
// reported; neither case is fatal.
func MatchHosts(
	ctx context.Context,
	snapshot *ConventionSnapshot,
	event EventRequest,
	eventID string,
	req *Requirement,
	reservations []TableReservation,
	index *AvailabilityIndex,
	binder HostBinder,
) HostMatching {
	matching := HostMatching{EventID: eventID}
	taken := make(map[string]bool)

	preassigned := make([]*Volunteer, 0, len(event.HostEmails))
	for _, email := range event.HostEmails {
		volunteer, ok := snapshot.VolunteerByEmail(email)
		if !ok {
			matching.UnknownEmails = append(matching.UnknownEmails, email)
			continue
		}
		preassigned = append(preassigned, volunteer)
	}

	for _, reservation := range reservations {
		var chosen *Volunteer
		wasPreassigned := false

		if len(preassigned) > 0 {
			chosen = preassigned[0]
			preassigned = preassigned[1:]
			wasPreassigned = true
		} else {
			chosen = pickVolunteer(snapshot, event, req, index, taken)
		}

		if chosen == nil {
			matching.Unfilled++
			continue
		}

		if err := binder.BindHost(ctx, eventID, chosen.UserID); err != nil {
			matching.BindFailures = append(matching.BindFailures, BindFailure{
				VolunteerID: chosen.ID,
				Err:         err.Error(),
			})
			matching.Unfilled++
			continue
		}

		taken[chosen.ID] = true
		chosen.CommittedMinutes += req.SpanMinutes()
		chosen.Commitments = append(chosen.Commitments, Commitment{
			EventID:    eventID,
			DayPartIDs: req.DayPartIDs,
		})
		matching.Matches = append(matching.Matches, HostMatch{
			TableID:     reservation.TableID,
			VolunteerID: chosen.ID,
			UserID:      chosen.UserID,
			Preassigned: wasPreassigned,
		})
	}

	return matching
}

// pickVolunteer runs the qualification scan over the roster in
// registration order, keeping the best candidate under the tie-break
// rules. Scanning in registration order makes "fewest minutes, then
// earliest registered" fall out of a single strict comparison.
func pickVolunteer(
	snapshot *ConventionSnapshot,
	event EventRequest,
	req *Requirement,
	index *AvailabilityIndex,
	taken map[string]bool,
) *Volunteer {
	var best *Volunteer
	for i := range snapshot.Volunteers {
		candidate := &snapshot.Volunteers[i]
		if taken[candidate.ID] {
			continue
		}
		if !Qualifies(candidate, event, req, index) {
			continue
		}
		if best == nil || candidate.CommittedMinutes < best.CommittedMinutes {
			best = candidate
		}
	}
	return best
}

// Qualifies applies the four matching constraints for one candidate.
func Qualifies(v *Volunteer, event EventRequest, req *Requirement, index *AvailabilityIndex) bool {
	if event.Tier > 0 && v.Tier < event.Tier {
		return false
	}
	if !index.Covers(v.ID, req.DayPartIDs) {
		return false
	}
	if overlapsCommitments(v, req.DayPartIDs) {
		return false
	}
	if v.CommittedMinutes+req.SpanMinutes() > MaxCommittedMinutes {
		return false
	}
	return true
}

func overlapsCommitments(v *Volunteer, dayPartIDs []string) bool {
	span := make(map[string]bool, len(dayPartIDs))
	for _, dp := range dayPartIDs {
		span[dp] = true
	}
	for _, c := range v.Commitments {
		for _, dp := range c.DayPartIDs {
			if span[dp] {
				return true
			}
		}
	}
	return false
}
