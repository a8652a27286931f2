package scheduler

import (
	"fmt"
	"time"

	"github.com/alexanderramin/prodsched/internal/calendar"
	"github.com/alexanderramin/prodsched/internal/domain"
	"go.uber.org/zap"
)

// Result is the outcome of one planning pass. Entries are not yet
// persisted and carry no IDs.
type Result struct {
	Entries            []domain.ScheduleEntry
	Demands            []*Demand
	ConstrainedCount   int
	UnconstrainedCount int
	Makespan           *time.Time
	Warnings           []string
	Iterations         int
	BackfilledSteps    int
}

// Planner runs the full pipeline: demand aggregation, machine-constrained
// scheduling, idle backfill and the unconstrained sequencer.
type Planner struct {
	cal       *calendar.Calendar
	durations *DurationCalculator
	opts      Options
	logger    *zap.Logger
}

func NewPlanner(cal *calendar.Calendar, opts Options, logger *zap.Logger) *Planner {
	opts = opts.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{
		cal:       cal,
		durations: NewDurationCalculator(cal, opts.SafetyFactor),
		opts:      opts,
		logger:    logger,
	}
}

// Durations exposes the calculator the planner uses.
func (p *Planner) Durations() *DurationCalculator { return p.durations }

// Plan computes a complete schedule from snap as of now. It either returns
// every entry of the run or an error; there is no partial result.
func (p *Planner) Plan(snap *Snapshot, now time.Time) (*Result, error) {
	demand := AggregateDemand(snap, p.cal, p.durations, p.opts.DemandWindowDays)
	for _, w := range demand.Warnings {
		p.logger.Warn("incomplete process data", zap.String("detail", w))
	}

	state := newSchedulerState(p.cal, p.durations, p.opts, now, snap.Machines, demand.Demands)
	for _, w := range demand.Warnings {
		state.warn(w)
	}

	if err := state.checkCapacity(); err != nil {
		return nil, err
	}

	iterations, err := state.RunConstrained()
	if err != nil {
		return nil, err
	}
	if state.hasPending() {
		p.logger.Warn("iteration ceiling reached",
			zap.Int("iterations", iterations),
			zap.Int("pending_steps", state.pendingSteps()),
		)
	}

	backfilled, err := state.Backfill()
	if err != nil {
		return nil, err
	}
	if state.hasPending() {
		return nil, fmt.Errorf("%w: %d machine-bound steps unplaced after %d iterations",
			ErrSchedulingIncomplete, state.pendingSteps(), iterations)
	}

	constrained := len(state.entries)
	state.SequenceUnconstrained()

	res := &Result{
		Entries:            state.entries,
		Demands:            demand.Demands,
		ConstrainedCount:   constrained,
		UnconstrainedCount: len(state.entries) - constrained,
		Warnings:           state.warnings,
		Iterations:         iterations,
		BackfilledSteps:    backfilled,
	}
	res.Makespan = Makespan(res.Entries)

	p.logger.Info("schedule planned",
		zap.Int("products", len(demand.Demands)),
		zap.Int("constrained_entries", res.ConstrainedCount),
		zap.Int("unconstrained_entries", res.UnconstrainedCount),
		zap.Int("iterations", iterations),
		zap.Int("backfilled_steps", backfilled),
	)
	return res, nil
}

// Makespan returns the latest planned end, or nil for no entries.
func Makespan(entries []domain.ScheduleEntry) *time.Time {
	var latest *time.Time
	for i := range entries {
		end := entries[i].PlannedEnd
		if latest == nil || end.After(*latest) {
			latest = &end
		}
	}
	return latest
}
