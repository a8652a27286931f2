package scheduler

import (
	"math"
	"time"

	"github.com/alexanderramin/prodsched/internal/domain"
)

// minuteEpsilon absorbs float noise when comparing minute budgets.
const minuteEpsilon = 1e-9

// pickMachine returns the machine of machineType that can start soonest
// given the step is ready at ready. Ties go to the lower machine ID.
func (s *SchedulerState) pickMachine(machineType string, ready time.Time) (int, time.Time, bool) {
	best := -1
	var bestStart time.Time
	for _, idx := range s.byType[machineType] {
		start := s.machines[idx].available
		if ready.After(start) {
			start = ready
		}
		if best < 0 || start.Before(bestStart) {
			best, bestStart = idx, start
		}
	}
	return best, bestStart, best >= 0
}

// scheduleNext places the plan's next machine-bound step. Steps whose
// duration cannot be computed are skipped with a warning.
func (s *SchedulerState) scheduleNext(plan *productPlan) error {
	proc := plan.nextStep()
	product := plan.demand.Product
	qty := plan.demand.Quantity

	setup, processing, err := s.durations.StepMinutes(proc, qty)
	if err != nil || processing <= 0 {
		if err != nil {
			s.warn(product.Code + ": " + err.Error())
		}
		plan.next++
		return nil
	}

	mt := proc.RequiredMachineType()
	idx, start, ok := s.pickMachine(mt, plan.readyAt)
	if !ok {
		return &MissingCapacityError{ProductCode: product.Code, StepNo: proc.StepNo, ProcessName: proc.Name, MachineType: mt}
	}
	m := &s.machines[idx]
	machineID := m.machine.ID

	if !m.used || m.lastProcess == proc.ID {
		setup = 0
	}

	cursor := s.cal.Normalize(start)
	perDay := s.durations.QuantityFor(proc, float64(s.cal.DailyMinutes()))
	if setup > 0 && s.shouldDeferSetup(proc, cursor, setup, perDay) {
		cursor = s.cal.NextWorkingStart(cursor)
		setup = math.Max(setup, s.opts.MinDeferredSetup)
	}

	var end time.Time
	if perDay < 1 {
		// Not even one unit fits in a working day: run it as one long entry.
		end = s.cal.Advance(cursor, setup+processing)
		s.emit(plan, proc, &machineID, cursor, end, qty, setup, processing)
	} else {
		end = s.emitBatched(plan, proc, machineID, cursor, setup, qty)
	}

	m.available = end
	m.lastProcess = proc.ID
	m.used = true
	plan.readyAt = end
	plan.lastEnd = &end
	plan.scheduledMinutes += proc.SetupMinutes + processing
	plan.next++
	return nil
}

// shouldDeferSetup reports whether a changeover starting at cursor would
// leave no room for production before the shift ends.
func (s *SchedulerState) shouldDeferSetup(proc domain.Process, cursor time.Time, setup float64, perDay int64) bool {
	left := s.cal.RemainingToday(cursor)
	if setup >= left-minuteEpsilon {
		return true
	}
	if perDay < 1 {
		return false
	}
	return s.durations.QuantityFor(proc, left-setup) < 1
}

// emitBatched lays the step out day by day on one machine. Every entry but
// the last ends at the shift end; the last carries the remainder so the
// quantities add up to qty exactly. Returns the end of the last entry.
func (s *SchedulerState) emitBatched(plan *productPlan, proc domain.Process, machineID int64, start time.Time, setup float64, qty int64) time.Time {
	entryStart := start
	chunkSetup := setup
	cursor := s.cal.Normalize(s.cal.Advance(start, setup))
	remaining := qty

	for remaining > 0 {
		need, _ := s.durations.Processing(proc, remaining)
		left := s.cal.RemainingToday(cursor)

		if need <= left+minuteEpsilon {
			end := s.cal.Advance(cursor, need)
			s.emit(plan, proc, &machineID, entryStart, end, remaining, chunkSetup, need)
			return end
		}

		dayEnd := s.cal.ShiftEnd(cursor)
		fit := s.durations.QuantityFor(proc, left)
		if fit >= remaining {
			// Whole-cycle rounding on DAY steps: the rest fits today.
			s.emit(plan, proc, &machineID, entryStart, dayEnd, remaining, chunkSetup, left)
			return dayEnd
		}
		if fit >= 1 {
			s.emit(plan, proc, &machineID, entryStart, dayEnd, fit, chunkSetup, left)
			remaining -= fit
			chunkSetup = 0
			cursor = s.cal.NextWorkingStart(cursor)
			entryStart = cursor
			continue
		}

		// Nothing fits in what is left of today.
		cursor = s.cal.NextWorkingStart(cursor)
		if chunkSetup == 0 {
			entryStart = cursor
		}
	}
	return cursor
}

func (s *SchedulerState) emit(plan *productPlan, proc domain.Process, machineID *int64, start, end time.Time, qty int64, setup, processing float64) {
	s.entries = append(s.entries, domain.ScheduleEntry{
		PurchaseOrderID:   plan.demand.Anchor.ID,
		ProductID:         plan.demand.Product.ID,
		ProcessID:         proc.ID,
		MachineID:         machineID,
		PlannedStart:      start,
		PlannedEnd:        end,
		Quantity:          qty,
		SetupMinutes:      setup,
		ProcessingMinutes: processing,
	})
}
