package scheduler

import (
	"testing"
	"time"

	"github.com/alexanderramin/prodsched/internal/calendar"
	"github.com/alexanderramin/prodsched/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func riskCalendar(t *testing.T) *calendar.Calendar {
	t.Helper()
	cal, err := calendar.New(8, nil)
	require.NoError(t, err)
	return cal
}

func TestComputeRisk_NoPlannedEnd(t *testing.T) {
	result := ComputeRisk(riskCalendar(t), RiskInput{DeliveryDate: date(2025, 3, 10), BufferDays: 2})
	assert.Equal(t, domain.RiskOnTrack, result.Level)
}

func TestComputeRisk_Late(t *testing.T) {
	end := time.Date(2025, 3, 11, 7, 0, 0, 0, time.UTC)
	result := ComputeRisk(riskCalendar(t), RiskInput{PlannedEnd: &end, DeliveryDate: date(2025, 3, 10), BufferDays: 2})
	assert.Equal(t, domain.RiskLate, result.Level)
	assert.InDelta(t, -60, result.SlackMin, 1e-9)
}

func TestComputeRisk_AtRiskInsideBuffer(t *testing.T) {
	end := time.Date(2025, 3, 9, 8, 0, 0, 0, time.UTC)
	result := ComputeRisk(riskCalendar(t), RiskInput{PlannedEnd: &end, DeliveryDate: date(2025, 3, 10), BufferDays: 2})
	assert.Equal(t, domain.RiskAtRisk, result.Level)
	assert.Greater(t, result.SlackMin, 0.0)
}

func TestComputeRisk_OnTrack(t *testing.T) {
	end := time.Date(2025, 3, 8, 14, 0, 0, 0, time.UTC)
	result := ComputeRisk(riskCalendar(t), RiskInput{PlannedEnd: &end, DeliveryDate: date(2025, 3, 10), BufferDays: 2})
	assert.Equal(t, domain.RiskOnTrack, result.Level)
	assert.InDelta(t, 2*440, result.SlackMin, 1e-9)
}
