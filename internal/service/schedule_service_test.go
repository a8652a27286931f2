package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/alexanderramin/prodsched/internal/contract"
	"github.com/alexanderramin/prodsched/internal/domain"
	"github.com/alexanderramin/prodsched/internal/metrics"
	"github.com/alexanderramin/prodsched/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateRequest(hours int) contract.GenerateRequest {
	req := contract.NewGenerateRequest(hours)
	now := monday
	req.Now = &now
	return req
}

func requireGenerateCode(t *testing.T, err error, code contract.GenerateErrorCode) {
	t.Helper()
	require.Error(t, err)
	var genErr *contract.GenerateError
	require.True(t, errors.As(err, &genErr), "expected GenerateError, got %T: %v", err, err)
	assert.Equal(t, code, genErr.Code)
}

func TestGenerate_PersistsRunAndEntries(t *testing.T) {
	database, repos := setupRepos(t)
	ctx := context.Background()
	plant := seedPressPlant(t, repos, 18480)

	recorder := &fakeRecorder{}
	observer := &captureObserver{}
	svc := NewScheduleService(repos, testutil.NewTestUoW(database), DefaultSettings(), nil, recorder, observer)

	resp, err := svc.Generate(ctx, generateRequest(8))
	require.NoError(t, err)

	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, 8, resp.WorkingHours)
	assert.Equal(t, 1, resp.ConstrainedCount)
	assert.Equal(t, 0, resp.UnconstrainedCount)
	assert.Equal(t, 1, resp.TotalCount)
	require.NotNil(t, resp.Makespan)
	assert.Equal(t, at(3, 14, 0), resp.Makespan.UTC())

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list.Entries, 1)
	e := list.Entries[0]
	assert.Equal(t, "PO-1001", e.PONumber)
	assert.Equal(t, plant.product.Code, e.ProductCode)
	assert.Equal(t, plant.machine.MachineNo, e.MachineNo)
	assert.True(t, e.Constrained)
	assert.Equal(t, monday, e.PlannedStart.UTC())
	assert.Equal(t, int64(18480), e.Quantity)
	require.NotNil(t, list.Run)
	assert.Equal(t, resp.RunID, list.Run.ID)

	require.Len(t, recorder.runs, 1)
	assert.Equal(t, 1, recorder.runs[0].result.Constrained)
	assert.Empty(t, recorder.failures)

	ev := observer.last()
	assert.Equal(t, "generate-schedule", ev.Name)
	assert.True(t, ev.Success)
	assert.Equal(t, resp.RunID, ev.Fields["run_id"])
}

func TestGenerate_ReplacesPreviousSchedule(t *testing.T) {
	database, repos := setupRepos(t)
	ctx := context.Background()
	seedPressPlant(t, repos, 30800)
	svc := NewScheduleService(repos, testutil.NewTestUoW(database), DefaultSettings(), nil, nil)

	first, err := svc.Generate(ctx, generateRequest(8))
	require.NoError(t, err)
	second, err := svc.Generate(ctx, generateRequest(8))
	require.NoError(t, err)
	assert.NotEqual(t, first.RunID, second.RunID)

	entries, err := repos.Entries.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, second.TotalCount)
	for _, e := range entries {
		assert.Equal(t, second.RunID, e.RunID)
	}
}

func TestGenerate_RejectsUnsupportedHours(t *testing.T) {
	database, repos := setupRepos(t)
	recorder := &fakeRecorder{}
	svc := NewScheduleService(repos, testutil.NewTestUoW(database), DefaultSettings(), nil, recorder)

	_, err := svc.Generate(context.Background(), generateRequest(7))
	requireGenerateCode(t, err, contract.GenerateErrInvalidWorkingHours)
	assert.Empty(t, recorder.runs)
}

func TestGenerate_RunInProgress(t *testing.T) {
	database, repos := setupRepos(t)
	seedPressPlant(t, repos, 100)
	recorder := &fakeRecorder{}
	svc := NewScheduleService(repos, testutil.NewTestUoW(database), DefaultSettings(), nil, recorder).(*scheduleService)

	svc.mu.Lock()
	_, err := svc.Generate(context.Background(), generateRequest(8))
	requireGenerateCode(t, err, contract.GenerateErrRunInProgress)

	_, err = svc.Clear(context.Background())
	requireGenerateCode(t, err, contract.GenerateErrRunInProgress)
	svc.mu.Unlock()

	assert.Equal(t, []string{metrics.StatusBusy}, recorder.failures)

	_, err = svc.Generate(context.Background(), generateRequest(8))
	require.NoError(t, err, "lock must be released after the rejected call")
}

func TestGenerate_MissingCapacity(t *testing.T) {
	database, repos := setupRepos(t)
	ctx := context.Background()

	product := testutil.NewTestProduct("NO-MC", testutil.WithProcesses(
		testutil.NewTestProcess(1, "Press"),
	))
	require.NoError(t, repos.Products.Upsert(ctx, product))
	require.NoError(t, repos.Orders.Upsert(ctx, testutil.NewTestOrder(product.ID, 10, at(20, 0, 0))))

	recorder := &fakeRecorder{}
	svc := NewScheduleService(repos, testutil.NewTestUoW(database), DefaultSettings(), nil, recorder)

	_, err := svc.Generate(ctx, generateRequest(8))
	requireGenerateCode(t, err, contract.GenerateErrMissingCapacity)
	assert.Contains(t, err.Error(), "NO-MC")
	assert.Equal(t, []string{metrics.StatusFailure}, recorder.failures)
}

func TestGenerate_DisabledConstraintRunsUnconstrained(t *testing.T) {
	database, repos := setupRepos(t)
	ctx := context.Background()

	// No press machine exists, but with PRESS disabled the step is sequenced
	// without one.
	product := testutil.NewTestProduct("FREE", testutil.WithProcesses(
		testutil.NewTestProcess(1, "Press"),
	))
	require.NoError(t, repos.Products.Upsert(ctx, product))
	require.NoError(t, repos.Orders.Upsert(ctx, testutil.NewTestOrder(product.ID, 10, at(20, 0, 0))))

	svc := NewScheduleService(repos, testutil.NewTestUoW(database), DefaultSettings(), nil, nil)
	req := generateRequest(8)
	req.ResourceConstraints = map[string]contract.ResourceConstraint{"press": {Enabled: false}}

	resp, err := svc.Generate(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.ConstrainedCount)
	assert.Equal(t, 1, resp.UnconstrainedCount)

	entries, err := repos.Entries.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].MachineID)
}

func TestGenerate_RollbackKeepsPreviousSchedule(t *testing.T) {
	database, repos := setupRepos(t)
	ctx := context.Background()
	seedPressPlant(t, repos, 18480)

	good := NewScheduleService(repos, testutil.NewTestUoW(database), DefaultSettings(), nil, nil)
	first, err := good.Generate(ctx, generateRequest(8))
	require.NoError(t, err)

	// ExecContext calls: #1 delete entries, #2 delete runs, #3 insert run,
	// #4 first entry. Fail on the entry insert after everything else ran.
	failUoW := &testutil.FailOnNthExecUoW{
		DB:     database,
		FailOn: 4,
		Err:    fmt.Errorf("injected entry insert failure"),
	}
	recorder := &fakeRecorder{}
	bad := NewScheduleService(repos, failUoW, DefaultSettings(), nil, recorder)

	_, err = bad.Generate(ctx, generateRequest(8))
	requireGenerateCode(t, err, contract.GenerateErrPersistence)
	assert.Contains(t, err.Error(), "injected entry insert failure")
	assert.Equal(t, []string{metrics.StatusFailure}, recorder.failures)

	run, err := repos.Runs.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.RunID, run.ID)

	entries, err := repos.Entries.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, first.RunID, entries[0].RunID)
}

func TestGenerate_DeliveredOrdersAreIgnored(t *testing.T) {
	database, repos := setupRepos(t)
	ctx := context.Background()

	product := testutil.NewTestProduct("DONE", testutil.WithProcesses(
		testutil.NewTestProcess(1, "Press", testutil.WithRate(60)),
	))
	require.NoError(t, repos.Products.Upsert(ctx, product))
	require.NoError(t, repos.Machines.Upsert(ctx, testutil.NewTestMachine("P-01", domain.MachinePress)))
	require.NoError(t, repos.Orders.Upsert(ctx,
		testutil.NewTestOrder(product.ID, 500, at(20, 0, 0), testutil.WithDelivered())))

	svc := NewScheduleService(repos, testutil.NewTestUoW(database), DefaultSettings(), nil, nil)
	resp, err := svc.Generate(ctx, generateRequest(8))
	require.NoError(t, err)
	assert.Zero(t, resp.TotalCount)
	assert.Nil(t, resp.Makespan)
}

func TestClear_RemovesScheduleAndRun(t *testing.T) {
	database, repos := setupRepos(t)
	ctx := context.Background()
	seedPressPlant(t, repos, 30800)

	recorder := &fakeRecorder{}
	svc := NewScheduleService(repos, testutil.NewTestUoW(database), DefaultSettings(), nil, recorder)
	gen, err := svc.Generate(ctx, generateRequest(8))
	require.NoError(t, err)

	resp, err := svc.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(gen.TotalCount), resp.Deleted)
	assert.Equal(t, 1, recorder.cleared)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list.Entries)
	assert.Nil(t, list.Run)
	assert.Nil(t, list.Makespan)
}

func TestList_ConvertsToPlantLocation(t *testing.T) {
	database, repos := setupRepos(t)
	ctx := context.Background()
	seedPressPlant(t, repos, 18480)

	settings := DefaultSettings()
	svc := NewScheduleService(repos, testutil.NewTestUoW(database), settings, nil, nil)
	_, err := svc.Generate(ctx, generateRequest(8))
	require.NoError(t, err)

	settings.Location = testLocation(t)
	reader := NewScheduleService(repos, testutil.NewTestUoW(database), settings, nil, nil)
	list, err := reader.List(ctx)
	require.NoError(t, err)
	require.Len(t, list.Entries, 1)
	assert.Equal(t, settings.Location, list.Entries[0].PlannedStart.Location())
	assert.True(t, monday.Equal(list.Entries[0].PlannedStart))
}
