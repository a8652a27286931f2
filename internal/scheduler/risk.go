package scheduler

import (
	"time"

	"github.com/alexanderramin/prodsched/internal/calendar"
	"github.com/alexanderramin/prodsched/internal/domain"
)

type RiskInput struct {
	PlannedEnd   *time.Time
	DeliveryDate time.Time
	// BufferDays is the working-day margin a product should finish ahead of
	// delivery to count as on track.
	BufferDays int
}

type RiskResult struct {
	Level domain.DeliveryRisk
	// SlackMin is working minutes between planned end and the delivery
	// date's shift end; negative when late.
	SlackMin float64
}

// ComputeRisk grades a product's planned completion against delivery.
func ComputeRisk(cal *calendar.Calendar, input RiskInput) RiskResult {
	// No planned work means nothing can be late.
	if input.PlannedEnd == nil {
		return RiskResult{Level: domain.RiskOnTrack}
	}
	end := *input.PlannedEnd
	due := cal.ShiftEnd(input.DeliveryDate)

	if end.After(due) {
		return RiskResult{
			Level:    domain.RiskLate,
			SlackMin: -cal.WorkingMinutesBetween(due, end),
		}
	}

	result := RiskResult{SlackMin: cal.WorkingMinutesBetween(end, due)}
	buffered := cal.ShiftEnd(cal.SubtractWorkingDays(input.DeliveryDate, input.BufferDays))
	if end.After(buffered) {
		result.Level = domain.RiskAtRisk
	} else {
		result.Level = domain.RiskOnTrack
	}
	return result
}
