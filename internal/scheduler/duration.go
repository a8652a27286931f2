package scheduler

import (
	"github.com/alexanderramin/prodsched/internal/calendar"
	"github.com/alexanderramin/prodsched/internal/domain"
	"github.com/shopspring/decimal"
)

// DurationCalculator converts quantities into working minutes and back.
type DurationCalculator struct {
	daily  decimal.Decimal
	safety decimal.Decimal
}

func NewDurationCalculator(cal *calendar.Calendar, safety decimal.Decimal) *DurationCalculator {
	return &DurationCalculator{
		daily:  decimal.NewFromInt(int64(cal.DailyMinutes())),
		safety: safety,
	}
}

// EffectiveRate returns the planning rate of an SPM step in items per minute.
func (d *DurationCalculator) EffectiveRate(p domain.Process) decimal.Decimal {
	return decimal.NewFromFloat(p.Rate).Mul(d.safety)
}

func cycleDays(p domain.Process) decimal.Decimal {
	if p.CycleDays <= 0 {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromFloat(p.CycleDays)
}

// Validate reports whether p carries the figures its kind needs.
func (d *DurationCalculator) Validate(p domain.Process) error {
	switch p.Kind {
	case domain.KindSPM:
		if p.Rate <= 0 {
			return &IncompleteProcessDataError{ProcessID: p.ID, StepNo: p.StepNo, Name: p.Name, Reason: "SPM step has no rate"}
		}
	case domain.KindDay:
		if p.BatchSize <= 0 {
			return &IncompleteProcessDataError{ProcessID: p.ID, StepNo: p.StepNo, Name: p.Name, Reason: "DAY step has no batch size"}
		}
	default:
		return &IncompleteProcessDataError{ProcessID: p.ID, StepNo: p.StepNo, Name: p.Name, Reason: "unknown process kind " + string(p.Kind)}
	}
	return nil
}

// Processing returns the processing minutes for qty. Steps with incomplete
// data take zero minutes and return the reason.
func (d *DurationCalculator) Processing(p domain.Process, qty int64) (float64, error) {
	if err := d.Validate(p); err != nil {
		return 0, err
	}
	if qty <= 0 {
		return 0, nil
	}
	switch p.Kind {
	case domain.KindSPM:
		return decimal.NewFromInt(qty).Div(d.EffectiveRate(p)).InexactFloat64(), nil
	default:
		cycles := (qty + p.BatchSize - 1) / p.BatchSize
		return decimal.NewFromInt(cycles).Mul(cycleDays(p)).Mul(d.daily).InexactFloat64(), nil
	}
}

// QuantityFor returns how many items fit into the given processing minutes.
func (d *DurationCalculator) QuantityFor(p domain.Process, minutes float64) int64 {
	if minutes <= 0 || d.Validate(p) != nil {
		return 0
	}
	m := decimal.NewFromFloat(minutes)
	switch p.Kind {
	case domain.KindSPM:
		return d.EffectiveRate(p).Mul(m).Floor().IntPart()
	default:
		return m.Div(d.daily).Div(cycleDays(p)).Mul(decimal.NewFromInt(p.BatchSize)).Floor().IntPart()
	}
}

// StepMinutes returns declared setup and processing minutes for qty.
func (d *DurationCalculator) StepMinutes(p domain.Process, qty int64) (setup, processing float64, err error) {
	processing, err = d.Processing(p, qty)
	if err != nil {
		return 0, 0, err
	}
	return p.SetupMinutes, processing, nil
}
