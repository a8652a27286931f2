package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/prodsched/internal/contract"
	"github.com/alexanderramin/prodsched/internal/domain"
	"github.com/alexanderramin/prodsched/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLocation(t *testing.T) *time.Location {
	t.Helper()
	return time.FixedZone("ICT", 7*60*60)
}

func TestWeeklyGrid_StartsAtFirstPlannedDay(t *testing.T) {
	database, repos := setupRepos(t)
	ctx := context.Background()
	seedPressPlant(t, repos, 30800)
	// Unconstrained machine types without entries stay off the grid.
	require.NoError(t, repos.Machines.Upsert(ctx, testutil.NewTestMachine("T-01", domain.MachineTap)))

	settings := DefaultSettings()
	sched := NewScheduleService(repos, testutil.NewTestUoW(database), settings, nil, nil)
	_, err := sched.Generate(ctx, generateRequest(8))
	require.NoError(t, err)

	grid, err := NewReportService(repos, settings).WeeklyGrid(ctx, nil)
	require.NoError(t, err)

	assert.Equal(t, at(3, 0, 0), grid.From)
	require.Len(t, grid.Days, 7)
	assert.Equal(t, at(9, 0, 0), grid.Days[6])
	assert.Equal(t, 440, grid.Daily)

	require.Len(t, grid.Rows, 1)
	row := grid.Rows[0]
	assert.Equal(t, "P-01", row.MachineNo)
	require.Len(t, row.Cells, 7)
	assert.InDelta(t, 440, row.Cells[0].BusyMinutes, 1e-6)
	assert.InDelta(t, 293.33, row.Cells[1].BusyMinutes, 0.01)
	assert.Zero(t, row.Cells[2].BusyMinutes)
	assert.Len(t, row.Cells[0].Entries, 1)
	assert.Len(t, row.Cells[1].Entries, 1)
}

func TestWeeklyGrid_ExplicitStartPastSchedule(t *testing.T) {
	database, repos := setupRepos(t)
	ctx := context.Background()
	seedPressPlant(t, repos, 18480)

	settings := DefaultSettings()
	_, err := NewScheduleService(repos, testutil.NewTestUoW(database), settings, nil, nil).
		Generate(ctx, generateRequest(8))
	require.NoError(t, err)

	from := at(17, 9, 30)
	grid, err := NewReportService(repos, settings).WeeklyGrid(ctx, &from)
	require.NoError(t, err)

	assert.Equal(t, at(17, 0, 0), grid.From)
	// Constrained machines are listed even when idle.
	require.Len(t, grid.Rows, 1)
	for _, cell := range grid.Rows[0].Cells {
		assert.Zero(t, cell.BusyMinutes)
		assert.Empty(t, cell.Entries)
	}
}

func TestWeeklyGrid_ListsTypesEnabledForTheRun(t *testing.T) {
	database, repos := setupRepos(t)
	ctx := context.Background()
	seedPressPlant(t, repos, 420)
	require.NoError(t, repos.Machines.Upsert(ctx, testutil.NewTestMachine("T-01", domain.MachineTap)))

	settings := DefaultSettings()
	req := generateRequest(8)
	req.ResourceConstraints = map[string]contract.ResourceConstraint{domain.MachineTap: {Enabled: true}}
	_, err := NewScheduleService(repos, testutil.NewTestUoW(database), settings, nil, nil).Generate(ctx, req)
	require.NoError(t, err)

	grid, err := NewReportService(repos, settings).WeeklyGrid(ctx, nil)
	require.NoError(t, err)

	var machineNos []string
	for _, row := range grid.Rows {
		machineNos = append(machineNos, row.MachineNo)
	}
	// TAP is not contended in settings, but this run enabled it.
	assert.ElementsMatch(t, []string{"P-01", "T-01"}, machineNos)
}

func TestWeeklyGrid_UsesRunWorkingHours(t *testing.T) {
	database, repos := setupRepos(t)
	ctx := context.Background()
	seedPressPlant(t, repos, 100)

	settings := DefaultSettings()
	_, err := NewScheduleService(repos, testutil.NewTestUoW(database), settings, nil, nil).
		Generate(ctx, generateRequest(11))
	require.NoError(t, err)

	grid, err := NewReportService(repos, settings).WeeklyGrid(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 590, grid.Daily)
}

func TestProgress_GradesDeliveryRisk(t *testing.T) {
	database, repos := setupRepos(t)
	ctx := context.Background()

	onTime := testutil.NewTestProduct("EARLY", testutil.WithProcesses(
		testutil.NewTestProcess(1, "Trim"),
	))
	late := testutil.NewTestProduct("LATE", testutil.WithProcesses(
		testutil.NewTestProcess(1, "Press", testutil.WithRate(60)),
	))
	require.NoError(t, repos.Products.Upsert(ctx, onTime))
	require.NoError(t, repos.Products.Upsert(ctx, late))
	require.NoError(t, repos.Machines.Upsert(ctx, testutil.NewTestMachine("P-01", domain.MachinePress)))
	require.NoError(t, repos.Orders.Upsert(ctx, testutil.NewTestOrder(onTime.ID, 10, at(28, 0, 0))))
	// Two working days of pressing against a same-day delivery.
	require.NoError(t, repos.Orders.Upsert(ctx, testutil.NewTestOrder(late.ID, 30800, at(3, 0, 0))))

	settings := DefaultSettings()
	_, err := NewScheduleService(repos, testutil.NewTestUoW(database), settings, nil, nil).
		Generate(ctx, generateRequest(8))
	require.NoError(t, err)

	progress, err := NewReportService(repos, settings).Progress(ctx)
	require.NoError(t, err)
	require.Len(t, progress.Products, 2)

	first, second := progress.Products[0], progress.Products[1]
	assert.Equal(t, "LATE", first.ProductCode, "sorted by delivery date")
	assert.Equal(t, domain.RiskLate, first.Risk)
	assert.Less(t, first.SlackMin, 0.0)
	assert.Equal(t, int64(30800), first.Quantity)
	require.NotNil(t, first.FirstStart)
	require.NotNil(t, first.LastEnd)
	assert.True(t, first.LastEnd.After(*first.FirstStart))

	assert.Equal(t, "EARLY", second.ProductCode)
	assert.Equal(t, domain.RiskOnTrack, second.Risk)
	assert.Greater(t, second.SlackMin, 0.0)

	assert.Equal(t, 1, progress.Late)
	assert.Equal(t, 1, progress.OnTrack)
	assert.Zero(t, progress.AtRisk)
}

func TestProgress_EmptySchedule(t *testing.T) {
	_, repos := setupRepos(t)
	progress, err := NewReportService(repos, DefaultSettings()).Progress(context.Background())
	require.NoError(t, err)
	assert.Empty(t, progress.Products)
}

func TestMakespan(t *testing.T) {
	database, repos := setupRepos(t)
	ctx := context.Background()
	reports := NewReportService(repos, DefaultSettings())

	m, err := reports.Makespan(ctx)
	require.NoError(t, err)
	assert.Nil(t, m)

	seedPressPlant(t, repos, 30800)
	_, err = NewScheduleService(repos, testutil.NewTestUoW(database), DefaultSettings(), nil, nil).
		Generate(ctx, generateRequest(8))
	require.NoError(t, err)

	m, err = reports.Makespan(ctx)
	require.NoError(t, err)
	require.NotNil(t, m)
	// 12,320 remaining units at 42/min on day two, around the 10:00 break.
	assert.WithinDuration(t, at(4, 11, 33), *m, time.Minute)
}
