package scheduler

import (
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/prodsched/internal/calendar"
	"github.com/alexanderramin/prodsched/internal/domain"
)

// machineState is one machine's timeline as the run builds it.
type machineState struct {
	machine     domain.Machine
	available   time.Time
	lastProcess int64
	// used is false until the machine runs its first step; a fresh machine
	// needs no changeover.
	used bool
}

// productPlan tracks one product's progress through the run. Steps are
// referenced by index into demand.Product.Processes.
type productPlan struct {
	demand *Demand
	// constrained holds indexes of machine-bound steps in step order; next
	// is the position of the first one not yet placed.
	constrained []int
	next        int

	readyAt          time.Time
	lastEnd          *time.Time
	scheduledMinutes float64
	deadline         time.Time
}

func (p *productPlan) pending() bool {
	return p.next < len(p.constrained)
}

func (p *productPlan) inProgress() bool {
	return p.next > 0 && p.pending()
}

func (p *productPlan) nextStep() domain.Process {
	return p.demand.Product.Processes[p.constrained[p.next]]
}

// SchedulerState owns every mutable structure of a run. Nothing is shared
// between runs.
type SchedulerState struct {
	cal       *calendar.Calendar
	durations *DurationCalculator
	opts      Options
	now       time.Time

	machines []machineState
	// byType maps a machine type to indexes into machines, ordered by
	// machine ID and truncated to the type's capacity.
	byType map[string][]int
	plans  []*productPlan

	entries  []domain.ScheduleEntry
	warnings []string
	warned   map[string]bool
}

func newSchedulerState(cal *calendar.Calendar, durations *DurationCalculator, opts Options, now time.Time, machines []domain.Machine, demands []*Demand) *SchedulerState {
	start := cal.Normalize(now)
	s := &SchedulerState{
		cal:       cal,
		durations: durations,
		opts:      opts,
		now:       start,
		byType:    make(map[string][]int),
		warned:    make(map[string]bool),
	}

	sorted := make([]domain.Machine, len(machines))
	copy(sorted, machines)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	for _, m := range sorted {
		mt := strings.ToUpper(m.MachineType)
		if limit := opts.Constraints.Capacity(mt); limit > 0 && len(s.byType[mt]) >= limit {
			continue
		}
		s.machines = append(s.machines, machineState{machine: m, available: start})
		s.byType[mt] = append(s.byType[mt], len(s.machines)-1)
	}

	for _, d := range demands {
		plan := &productPlan{demand: d, readyAt: start, deadline: d.Deadline}
		for i, p := range d.Product.Processes {
			if opts.Constraints.IsConstrained(p.RequiredMachineType()) {
				plan.constrained = append(plan.constrained, i)
			}
		}
		s.plans = append(s.plans, plan)
	}
	return s
}

func (s *SchedulerState) hasPending() bool {
	for _, p := range s.plans {
		if p.pending() {
			return true
		}
	}
	return false
}

func (s *SchedulerState) pendingSteps() int {
	n := 0
	for _, p := range s.plans {
		n += len(p.constrained) - p.next
	}
	return n
}

// earliestAvailable returns the earliest availability among usable
// machines of machineType.
func (s *SchedulerState) earliestAvailable(machineType string) (time.Time, bool) {
	var best time.Time
	found := false
	for _, idx := range s.byType[machineType] {
		a := s.machines[idx].available
		if !found || a.Before(best) {
			best, found = a, true
		}
	}
	return best, found
}

func (s *SchedulerState) warn(msg string) {
	if s.warned[msg] {
		return
	}
	s.warned[msg] = true
	s.warnings = append(s.warnings, msg)
}
