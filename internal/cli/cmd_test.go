package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/alexanderramin/prodsched/internal/config"
	"github.com/alexanderramin/prodsched/internal/metrics"
	"github.com/alexanderramin/prodsched/internal/service"
	"github.com/alexanderramin/prodsched/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

const plantYAML = `
products:
  - id: 1
    code: BRK-100
    name: Bracket
    processes:
      - {id: 11, step_no: 1, name: Press blanking, kind: SPM, rate: 60}
      - {id: 12, step_no: 2, name: Deburr, kind: SPM, rate: 100}
machines:
  - {id: 1, machine_no: P-01, machine_type: PRESS}
purchase_orders:
  - {id: 100, po_number: PO-100, product_id: 1, quantity: 30800, delivery_date: "2025-03-20"}
`

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *App {
	t.Helper()
	database := testutil.NewTestDB(t)
	repos := service.NewRepos(database)
	uow := testutil.NewTestUoW(database)
	settings := service.DefaultSettings()
	recorder := metrics.NewRecorder()

	return &App{
		Schedule: service.NewScheduleService(repos, uow, settings, nil, recorder),
		Reports:  service.NewReportService(repos, settings),
		Import:   service.NewImportService(uow),
		Holidays: service.NewHolidayService(repos.Holidays),
		Metrics:  recorder,
		Config:   config.Default(),
		Now: func() time.Time {
			return time.Date(2025, 3, 3, 6, 0, 0, 0, time.UTC)
		},
	}
}

func writePlant(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plant.yaml")
	require.NoError(t, os.WriteFile(path, []byte(plantYAML), 0o644))
	return path
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return ansiPattern.ReplaceAllString(buf.String(), ""), err
}

func TestImportThenGenerateAndReport(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "import", writePlant(t))
	require.NoError(t, err)
	assert.Contains(t, out, "1 products (2 processes)")

	out, err = executeCmd(t, app, "schedule", "generate", "--hours", "8", "--start", "2025-03-03T06:00")
	require.NoError(t, err)
	assert.Contains(t, out, "SCHEDULE GENERATED")
	assert.Contains(t, out, "on machines")

	out, err = executeCmd(t, app, "schedule", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "PO-100")
	assert.Contains(t, out, "P-01")
	assert.Contains(t, out, "03-03 06:00")
	assert.Contains(t, out, "Deburr")

	out, err = executeCmd(t, app, "schedule", "grid", "--from", "2025-03-03")
	require.NoError(t, err)
	assert.Contains(t, out, "MACHINE LOAD 2025-03-03 TO 2025-03-09")
	assert.Contains(t, out, "P-01")

	out, err = executeCmd(t, app, "schedule", "progress")
	require.NoError(t, err)
	assert.Contains(t, out, "BRK-100")
	assert.Contains(t, out, "ON TRACK")

	out, err = executeCmd(t, app, "schedule", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared")

	out, err = executeCmd(t, app, "schedule", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No schedule stored")
}

func TestScheduleGenerate_InvalidHours(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "schedule", "generate", "--hours", "7")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID_WORKING_HOURS")
}

func TestScheduleGenerate_UsesConfiguredHours(t *testing.T) {
	app := testApp(t)
	app.Config.Schedule.WorkingHours = 11
	_, err := executeCmd(t, app, "import", writePlant(t))
	require.NoError(t, err)

	out, err := executeCmd(t, app, "schedule", "generate", "--start", "2025-03-03")
	require.NoError(t, err)
	assert.Contains(t, out, "Shift       11h")
}

func TestScheduleGenerate_ConflictingConstraintFlags(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "schedule", "generate", "--enable", "press", "--disable", "PRESS")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both enabled and disabled")
}

func TestScheduleGenerate_BadCapacityFlag(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "schedule", "generate", "--capacity", "PRESS")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected TYPE=N")
}

func TestHolidayCommands(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "holiday", "add", "2025-05-01", "--kind", "public")
	require.NoError(t, err)
	assert.Contains(t, out, "Added holiday 2025-05-01")

	out, err = executeCmd(t, app, "holiday", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "2025-05-01")
	assert.Contains(t, out, "public")

	_, err = executeCmd(t, app, "holiday", "rm", "2025-05-01")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "holiday", "rm", "2025-05-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	_, err = executeCmd(t, app, "holiday", "add", "May 1")
	require.Error(t, err)
}

func TestConfigShowAndInit(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "working_hours: 8")

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	out, err = executeCmd(t, app, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)
	assert.FileExists(t, path)

	out, err = executeCmd(t, app, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")
}
