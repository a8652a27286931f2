package scheduler

import (
	"sort"
)

// SequenceUnconstrained chains every product's steps that need no
// contended machine, in step order, after its last machine-bound entry (or
// from now). Entries carry no machine and are never split.
func (s *SchedulerState) SequenceUnconstrained() {
	plans := make([]*productPlan, len(s.plans))
	copy(plans, s.plans)
	sort.SliceStable(plans, func(i, j int) bool {
		return plans[i].demand.Product.ID < plans[j].demand.Product.ID
	})

	for _, plan := range plans {
		cursor := s.now
		if plan.lastEnd != nil {
			cursor = *plan.lastEnd
		}

		for _, proc := range plan.demand.Product.Processes {
			if s.opts.Constraints.IsConstrained(proc.RequiredMachineType()) {
				continue
			}
			setup, processing, err := s.durations.StepMinutes(proc, plan.demand.Quantity)
			if err != nil {
				s.warn(plan.demand.Product.Code + ": " + err.Error())
				continue
			}
			if processing <= 0 {
				continue
			}
			start := s.cal.Normalize(cursor)
			end := s.cal.Advance(start, setup+processing)
			s.emit(plan, proc, nil, start, end, plan.demand.Quantity, setup, processing)
			cursor = end
		}
	}
}
