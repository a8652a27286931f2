package cli

import (
	"time"

	"github.com/alexanderramin/prodsched/internal/config"
	"github.com/alexanderramin/prodsched/internal/metrics"
	"github.com/alexanderramin/prodsched/internal/service"
	"github.com/spf13/cobra"
)

// App holds the services and settings CLI commands run against.
type App struct {
	Schedule service.ScheduleService
	Reports  service.ReportService
	Import   service.ImportService
	Holidays service.HolidayService

	// Metrics is the recorder the schedule service reports to. Nil
	// disables `metrics serve`.
	Metrics *metrics.Recorder
	Config  *config.Config

	// Location is the plant time zone used to read dates given on the
	// command line. Defaults to UTC.
	Location *time.Location
	// Now is overridable for tests.
	Now func() time.Time

	// Interactive enables confirmation prompts before destructive
	// commands. Set when stdin and stdout are terminals.
	Interactive bool
	// Confirm asks the question; nil uses a huh prompt.
	Confirm Confirmer
}

func (a *App) location() *time.Location {
	if a.Location == nil {
		return time.UTC
	}
	return a.Location
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) defaultHours() int {
	if a.Config != nil && a.Config.Schedule.WorkingHours > 0 {
		return a.Config.Schedule.WorkingHours
	}
	return 8
}

// NewRootCmd creates the top-level "prodsched" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "prodsched",
		Short:         "Production scheduler for press-line plants",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newScheduleCmd(app),
		newImportCmd(app),
		newHolidayCmd(app),
		newMetricsCmd(app),
		newConfigCmd(app),
	)

	return root
}
