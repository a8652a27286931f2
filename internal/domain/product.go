package domain

import (
	"sort"
	"strings"
)

type Product struct {
	ID           int64
	Code         string
	Name         string
	CustomerName string
	Active       bool

	// Processes is the routing, ordered by StepNo.
	Processes []Process
}

type Process struct {
	ID        int64
	ProductID int64
	StepNo    int
	Name      string
	Kind      ProcessKind

	// SPM: items per minute at nominal speed.
	Rate float64
	// DAY: items produced per cycle and working days per cycle (0 means 1).
	BatchSize int64
	CycleDays float64

	SetupMinutes float64

	// MachineType overrides the type derived from Name when set.
	MachineType string
}

// machineTypeKeywords maps name fragments to machine types. Checked in order.
var machineTypeKeywords = []struct {
	keyword     string
	machineType string
}{
	{"PRESS", MachinePress},
	{"プレス", MachinePress},
	{"TAP", MachineTap},
	{"タップ", MachineTap},
	{"BARREL", MachineBarrel},
	{"バレル", MachineBarrel},
}

// RequiredMachineType returns the machine type this step runs on, or "" if
// it needs no machine.
func (p Process) RequiredMachineType() string {
	if p.MachineType != "" {
		return strings.ToUpper(p.MachineType)
	}
	return MachineTypeFromName(p.Name)
}

// MachineTypeFromName derives a machine type from a process name.
func MachineTypeFromName(name string) string {
	upper := strings.ToUpper(name)
	for _, kw := range machineTypeKeywords {
		if strings.Contains(upper, kw.keyword) {
			return kw.machineType
		}
	}
	return ""
}

// SortProcesses orders the routing by step number, then ID.
func (p *Product) SortProcesses() {
	sort.SliceStable(p.Processes, func(i, j int) bool {
		a, b := p.Processes[i], p.Processes[j]
		if a.StepNo != b.StepNo {
			return a.StepNo < b.StepNo
		}
		return a.ID < b.ID
	})
}
