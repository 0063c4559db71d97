package schedule

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"
)

// RunState tracks the orchestrator's progress through a scheduling run.
// The terminal state is always StateReporting; per-event failures never
// abort the run.
type RunState string

const (
	StateFetching   RunState = "FETCHING_STATE"
	StateResolving  RunState = "RESOLVING_EVENTS"
	StateAllocating RunState = "ALLOCATING_TABLES"
	StateMatching   RunState = "MATCHING_HOSTS"
	StateReporting  RunState = "REPORTING"
)

// EventCreator externalizes event creation once a requirement resolves.
type EventCreator interface {
	CreateEvent(ctx context.Context, event EventRequest, req *Requirement) (eventID string, err error)
}

// EventOutcome is one event's line in the run report.
type EventOutcome struct {
	EventName      string
	EventID        string
	Err            string
	TablesReserved int
	TablesShort    int
	HostsMatched   int
	HostsMissing   int
	SlotFailures   int
	BindFailures   int
	UnknownEmails  []string
}

// Scheduled reports whether the event got its full table count and a host
// for every table.
func (o EventOutcome) Scheduled() bool {
	return o.Err == "" && o.TablesShort == 0 && o.HostsMissing == 0
}

// RunReport aggregates every event's outcome plus the assignments that
// were externalized. The orchestrator always completes and returns it.
type RunReport struct {
	State       RunState
	Outcomes    []EventOutcome
	Assignments []Assignment
	Warnings    []string
}

// Orchestrator sequences resolution, table allocation, and host matching
// per event. Events are processed chronologically; no event advances
// until the previous event's attempts are recorded.
type Orchestrator struct {
	creator  EventCreator
	reserver SlotReserver
	binder   HostBinder
	logger   *zap.Logger
}

func NewOrchestrator(creator EventCreator, reserver SlotReserver, binder HostBinder, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		creator:  creator,
		reserver: reserver,
		binder:   binder,
		logger:   logger,
	}
}

// ErrEmptySnapshot is the fatal precondition: the baseline convention
// state was not fetched.
var ErrEmptySnapshot = errors.New("schedule: snapshot has no dayparts")

// Run executes one scheduling pass. Only a missing baseline aborts;
// everything else lands in the report.
func (o *Orchestrator) Run(
	ctx context.Context,
	snapshot *ConventionSnapshot,
	events []EventRequest,
	preferences []SlotPreference,
	slotDayParts map[int][]string,
) (*RunReport, error) {
	report := &RunReport{State: StateFetching}

	if snapshot == nil || len(snapshot.DayParts) == 0 {
		return nil, ErrEmptySnapshot
	}

	index := BuildAvailabilityIndex(snapshot, preferences, slotDayParts)
	report.Warnings = append(report.Warnings, index.Warnings...)
	for _, w := range index.Warnings {
		o.logger.Warn("availability preference dropped", zap.String("detail", w))
	}

	ordered := make([]EventRequest, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Start.Before(ordered[j].Start)
	})

	for _, event := range ordered {
		report.State = StateResolving
		outcome := EventOutcome{EventName: event.Name}

		req, err := ResolveRequirement(snapshot, event)
		if err != nil {
			outcome.Err = err.Error()
			o.logger.Warn("event skipped",
				zap.String("event", event.Name),
				zap.Error(err))
			report.Outcomes = append(report.Outcomes, outcome)
			continue
		}

		eventID, err := o.creator.CreateEvent(ctx, event, req)
		if err != nil {
			outcome.Err = err.Error()
			o.logger.Warn("event creation failed",
				zap.String("event", event.Name),
				zap.Error(err))
			report.Outcomes = append(report.Outcomes, outcome)
			continue
		}
		outcome.EventID = eventID

		report.State = StateAllocating
		alloc := AllocateTables(ctx, snapshot, eventID, req, event.TableCount, o.reserver)
		outcome.TablesReserved = len(alloc.Reservations)
		outcome.TablesShort = alloc.Shortfall
		outcome.SlotFailures = len(alloc.SlotFailures)
		if alloc.Shortfall > 0 {
			o.logger.Warn("table shortfall",
				zap.String("event", event.Name),
				zap.Int("reserved", len(alloc.Reservations)),
				zap.Int("short", alloc.Shortfall))
		}

		report.State = StateMatching
		matching := MatchHosts(ctx, snapshot, event, eventID, req, alloc.Reservations, index, o.binder)
		outcome.HostsMatched = len(matching.Matches)
		outcome.HostsMissing = matching.Unfilled
		outcome.BindFailures = len(matching.BindFailures)
		outcome.UnknownEmails = matching.UnknownEmails
		for _, email := range matching.UnknownEmails {
			o.logger.Warn("pre-assigned host not in roster",
				zap.String("event", event.Name),
				zap.String("email", email))
		}

		hostByTable := make(map[string]string, len(matching.Matches))
		for _, m := range matching.Matches {
			hostByTable[m.TableID] = m.VolunteerID
		}
		for _, reservation := range alloc.Reservations {
			report.Assignments = append(report.Assignments, Assignment{
				EventID:     eventID,
				TableID:     reservation.TableID,
				DayPartIDs:  reservation.DayPartIDs,
				VolunteerID: hostByTable[reservation.TableID],
			})
		}

		o.logger.Info("event processed",
			zap.String("event", event.Name),
			zap.String("event_id", eventID),
			zap.Int("tables_reserved", outcome.TablesReserved),
			zap.Int("tables_short", outcome.TablesShort),
			zap.Int("hosts_matched", outcome.HostsMatched),
			zap.Int("hosts_missing", outcome.HostsMissing))

		report.Outcomes = append(report.Outcomes, outcome)
	}

	report.State = StateReporting
	return report, nil
}
