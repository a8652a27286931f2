package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogUseCaseObserver_WritesStructuredEvent(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	obs := NewLogUseCaseObserver(zap.New(core))

	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name:     "generate-schedule",
		Duration: 1500 * time.Millisecond,
		Success:  true,
		Fields:   map[string]any{"entries": 12},
	})
	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name: "clear-schedule",
		Err:  errors.New("boom"),
	})

	entries := logs.All()
	require.Len(t, entries, 2)

	ok := entries[0].ContextMap()
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "generate-schedule", ok["use_case"])
	assert.Equal(t, int64(1500), ok["duration_ms"])
	assert.Equal(t, int64(12), ok["entries"])

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
}

func TestUseCaseObserverOrNoop(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, useCaseObserverOrNoop(nil))
	assert.IsType(t, NoopUseCaseObserver{}, useCaseObserverOrNoop([]UseCaseObserver{nil}))
	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))

	capture := &captureObserver{}
	assert.Same(t, capture, useCaseObserverOrNoop([]UseCaseObserver{nil, capture}))
}
