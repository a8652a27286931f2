package scheduler

// checkCapacity fails fast when a plan needs a machine type that has no
// usable machine. Steps with incomplete figures are skipped later anyway,
// so they never need a machine.
func (s *SchedulerState) checkCapacity() error {
	for _, p := range s.plans {
		for _, i := range p.constrained {
			proc := p.demand.Product.Processes[i]
			if s.durations.Validate(proc) != nil {
				continue
			}
			mt := proc.RequiredMachineType()
			if len(s.byType[mt]) == 0 {
				return &MissingCapacityError{
					ProductCode: p.demand.Product.Code,
					StepNo:      proc.StepNo,
					ProcessName: proc.Name,
					MachineType: mt,
				}
			}
		}
	}
	return nil
}

// firstPending returns the first plan in current order with a machine-bound
// step left.
func (s *SchedulerState) firstPending() *productPlan {
	for _, p := range s.plans {
		if p.pending() {
			return p
		}
	}
	return nil
}

// RunConstrained places exactly one machine-bound step per iteration until
// nothing is left or the iteration ceiling is reached. Deadlines are
// recomputed and plans re-sorted on the first iteration and every
// RecomputeEvery iterations after that.
func (s *SchedulerState) RunConstrained() (iterations int, err error) {
	for iterations < s.opts.MaxIterations {
		iterations++
		if iterations == 1 || iterations%s.opts.RecomputeEvery == 0 {
			s.RecomputeDeadlines()
			SortByDeadline(s.plans)
		}

		plan := s.firstPending()
		if plan == nil {
			return iterations, nil
		}
		if err := s.scheduleNext(plan); err != nil {
			return iterations, err
		}
	}
	return iterations, nil
}
