package scheduler

import (
	"sort"
	"strings"

	"github.com/alexanderramin/prodsched/internal/domain"
	"github.com/shopspring/decimal"
)

// Constraint controls whether a machine type is a contended resource and,
// optionally, how many of its machines may be used.
type Constraint struct {
	Enabled bool
	// Capacity limits the run to the first N machines of the type (by ID).
	// Zero means all machines.
	Capacity int
}

// ResourceConstraints maps machine type to its constraint.
type ResourceConstraints map[string]Constraint

// DefaultConstraints treats PRESS as the only contended machine type.
func DefaultConstraints() ResourceConstraints {
	return ResourceConstraints{domain.MachinePress: {Enabled: true}}
}

// IsConstrained reports whether steps needing machineType compete for
// machines. Steps without a machine type never do.
func (rc ResourceConstraints) IsConstrained(machineType string) bool {
	if machineType == "" {
		return false
	}
	c, ok := rc[strings.ToUpper(machineType)]
	return ok && c.Enabled
}

// EnabledTypes lists the contended machine types in sorted order.
func (rc ResourceConstraints) EnabledTypes() []string {
	var out []string
	for mt, c := range rc {
		if c.Enabled {
			out = append(out, strings.ToUpper(mt))
		}
	}
	sort.Strings(out)
	return out
}

// Capacity returns the machine limit for machineType, 0 when unlimited.
func (rc ResourceConstraints) Capacity(machineType string) int {
	return rc[strings.ToUpper(machineType)].Capacity
}

type Options struct {
	// SafetyFactor scales declared SPM rates down to a planning rate.
	SafetyFactor decimal.Decimal
	// DemandWindowDays is how far past the anchor order other orders are
	// pulled into the same production run.
	DemandWindowDays int
	// RecomputeEvery sets how often deadlines are recomputed and products
	// re-sorted, in iterations. The first iteration always recomputes.
	RecomputeEvery int
	// MaxIterations bounds the constrained loop.
	MaxIterations int
	// MaxBackfillRounds bounds the idle-time backfill.
	MaxBackfillRounds int
	// MinDeferredSetup is the setup floor, in minutes, for a step pushed to
	// the next day because its changeover would not finish today.
	MinDeferredSetup float64
	Constraints      ResourceConstraints
}

func DefaultOptions() Options {
	return Options{
		SafetyFactor:      decimal.RequireFromString("0.7"),
		DemandWindowDays:  28,
		RecomputeEvery:    10,
		MaxIterations:     10000,
		MaxBackfillRounds: 50,
		MinDeferredSetup:  60,
		Constraints:       DefaultConstraints(),
	}
}

// withDefaults fills zero fields from DefaultOptions.
func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.SafetyFactor.Sign() <= 0 {
		o.SafetyFactor = def.SafetyFactor
	}
	if o.DemandWindowDays <= 0 {
		o.DemandWindowDays = def.DemandWindowDays
	}
	if o.RecomputeEvery <= 0 {
		o.RecomputeEvery = def.RecomputeEvery
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = def.MaxIterations
	}
	if o.MaxBackfillRounds <= 0 {
		o.MaxBackfillRounds = def.MaxBackfillRounds
	}
	if o.MinDeferredSetup <= 0 {
		o.MinDeferredSetup = def.MinDeferredSetup
	}
	if o.Constraints == nil {
		o.Constraints = def.Constraints
	}
	return o
}
