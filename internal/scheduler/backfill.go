package scheduler

// hasIdleMachine reports whether any usable machine of machineType still
// has working time left on the day it becomes free.
func (s *SchedulerState) hasIdleMachine(machineType string) bool {
	for _, idx := range s.byType[machineType] {
		if s.cal.RemainingToday(s.machines[idx].available) > minuteEpsilon {
			return true
		}
	}
	return false
}

func (s *SchedulerState) anyIdleMachine() bool {
	for mt := range s.byType {
		if s.hasIdleMachine(mt) {
			return true
		}
	}
	return false
}

// Backfill fills idle machine time with steps the main loop left unplaced,
// one step per round, scanning plans in deadline order. Returns the number
// of steps placed.
func (s *SchedulerState) Backfill() (int, error) {
	placed := 0
	for round := 0; round < s.opts.MaxBackfillRounds; round++ {
		if !s.hasPending() || !s.anyIdleMachine() {
			break
		}
		s.RecomputeDeadlines()
		SortByDeadline(s.plans)

		var candidate *productPlan
		for _, p := range s.plans {
			if p.pending() && s.hasIdleMachine(p.nextStep().RequiredMachineType()) {
				candidate = p
				break
			}
		}
		if candidate == nil {
			break
		}
		if err := s.scheduleNext(candidate); err != nil {
			return placed, err
		}
		placed++
	}
	return placed, nil
}
