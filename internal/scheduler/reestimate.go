package scheduler

import "time"

// RecomputeDeadlines refreshes every unfinished plan's deadline from its
// remaining routing time plus the wait implied by current machine
// congestion.
func (s *SchedulerState) RecomputeDeadlines() {
	for _, p := range s.plans {
		if !p.pending() {
			continue
		}
		remaining := p.demand.TotalMinutes - p.scheduledMinutes
		if remaining < 0 {
			remaining = 0
		}
		wait := s.congestionWait(p)
		p.deadline = DeadlineFor(s.cal, p.demand.Anchor.DeliveryDate, remaining+wait)
	}
}

// congestionWait is the working time from now until the earliest machine
// able to take one of the plan's remaining steps frees up.
func (s *SchedulerState) congestionWait(p *productPlan) float64 {
	var earliest time.Time
	found := false
	for i := p.next; i < len(p.constrained); i++ {
		mt := p.demand.Product.Processes[p.constrained[i]].RequiredMachineType()
		a, ok := s.earliestAvailable(mt)
		if !ok {
			continue
		}
		if !found || a.Before(earliest) {
			earliest, found = a, true
		}
	}
	if !found {
		return 0
	}
	return s.cal.WorkingMinutesBetween(s.now, earliest)
}
