package scheduler

import (
	"errors"
	"fmt"
)

// ErrSchedulingIncomplete is returned when constrained steps are still
// unplaced after the iteration ceiling and the idle-time backfill.
var ErrSchedulingIncomplete = errors.New("scheduling incomplete")

// MissingCapacityError reports a machine-bound step whose machine type has
// no usable machine.
type MissingCapacityError struct {
	ProductCode string
	StepNo      int
	ProcessName string
	MachineType string
}

func (e *MissingCapacityError) Error() string {
	return fmt.Sprintf("no %s machine available for product %s step %d (%s)",
		e.MachineType, e.ProductCode, e.StepNo, e.ProcessName)
}

// IncompleteProcessDataError marks a step whose kind lacks the figures
// needed to compute its duration. It is reported as a warning and the step
// is skipped.
type IncompleteProcessDataError struct {
	ProcessID int64
	StepNo    int
	Name      string
	Reason    string
}

func (e *IncompleteProcessDataError) Error() string {
	return fmt.Sprintf("process %d (step %d %q): %s", e.ProcessID, e.StepNo, e.Name, e.Reason)
}
