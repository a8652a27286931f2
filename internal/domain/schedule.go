package domain

import "time"

// ScheduleEntry is one planned execution interval of a process step.
// MachineID is nil for steps that do not compete for a machine.
type ScheduleEntry struct {
	ID                string
	RunID             string
	PurchaseOrderID   int64
	ProductID         int64
	ProcessID         int64
	MachineID         *int64
	PlannedStart      time.Time
	PlannedEnd        time.Time
	Quantity          int64
	SetupMinutes      float64
	ProcessingMinutes float64
}

// Constrained reports whether the entry occupies a machine.
func (e ScheduleEntry) Constrained() bool {
	return e.MachineID != nil
}

// ScheduleRun records the outcome of one committed generation.
type ScheduleRun struct {
	ID                 string
	WorkingHours       int
	ConstrainedCount   int
	UnconstrainedCount int
	TotalCount         int
	Makespan           *time.Time
	Warnings           []string
	// ConstrainedTypes are the machine types the run treated as contended.
	ConstrainedTypes   []string
	Iterations         int
	BackfilledSteps    int
	CreatedAt          time.Time
}
