package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRun(t *testing.T) {
	r := NewRecorder()
	end := time.Date(2025, 3, 7, 14, 0, 0, 0, time.UTC)

	r.RecordRun(2*time.Second, RunResult{Constrained: 12, Unconstrained: 5, Warnings: 2, Makespan: &end})
	r.RecordRun(time.Second, RunResult{Constrained: 3, Unconstrained: 1, Warnings: 1})

	assert.Equal(t, 2.0, promtest.ToFloat64(r.runsTotal.WithLabelValues(StatusSuccess)))
	assert.Equal(t, 3.0, promtest.ToFloat64(r.entries.WithLabelValues("constrained")))
	assert.Equal(t, 1.0, promtest.ToFloat64(r.entries.WithLabelValues("unconstrained")))
	assert.Equal(t, 3.0, promtest.ToFloat64(r.warnings))
	assert.Zero(t, promtest.ToFloat64(r.makespan))
}

func TestRecordFailureAndClear(t *testing.T) {
	r := NewRecorder()
	end := time.Date(2025, 3, 7, 14, 0, 0, 0, time.UTC)
	r.RecordRun(time.Second, RunResult{Constrained: 4, Makespan: &end})
	assert.Equal(t, float64(end.Unix()), promtest.ToFloat64(r.makespan))

	r.RecordFailure(StatusBusy, time.Millisecond)
	r.RecordFailure(StatusFailure, time.Millisecond)
	r.RecordFailure(StatusFailure, time.Millisecond)
	assert.Equal(t, 1.0, promtest.ToFloat64(r.runsTotal.WithLabelValues(StatusBusy)))
	assert.Equal(t, 2.0, promtest.ToFloat64(r.runsTotal.WithLabelValues(StatusFailure)))

	r.RecordCleared()
	assert.Zero(t, promtest.ToFloat64(r.entries.WithLabelValues("constrained")))
	assert.Zero(t, promtest.ToFloat64(r.makespan))
}

func TestRecordersAreIndependent(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	a.RecordFailure(StatusFailure, time.Millisecond)
	assert.Equal(t, 0.0, promtest.ToFloat64(b.runsTotal.WithLabelValues(StatusFailure)))
}

func TestHandler_ServesTextFormat(t *testing.T) {
	r := NewRecorder()
	r.RecordRun(time.Second, RunResult{Constrained: 1})

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `prodsched_schedule_runs_total{status="success"} 1`)
	assert.Contains(t, string(body), `prodsched_schedule_entries{kind="constrained"} 1`)
}

func TestSetCurrent_DoesNotCountRun(t *testing.T) {
	r := NewRecorder()
	end := time.Date(2025, 3, 7, 14, 0, 0, 0, time.UTC)
	r.SetCurrent(RunResult{Constrained: 7, Unconstrained: 2, Warnings: 4, Makespan: &end})

	assert.Equal(t, 7.0, promtest.ToFloat64(r.entries.WithLabelValues("constrained")))
	assert.Equal(t, float64(end.Unix()), promtest.ToFloat64(r.makespan))
	assert.Zero(t, promtest.ToFloat64(r.runsTotal.WithLabelValues(StatusSuccess)))
	assert.Zero(t, promtest.ToFloat64(r.warnings))
}
