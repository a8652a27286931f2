package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/prodsched/internal/calendar"
	"github.com/alexanderramin/prodsched/internal/db"
	"github.com/alexanderramin/prodsched/internal/repository"
	"github.com/alexanderramin/prodsched/internal/scheduler"
)

// Repos bundles the repositories the services read through.
type Repos struct {
	Products  repository.ProductRepo
	Orders    repository.PurchaseOrderRepo
	Machines  repository.MachineRepo
	Inventory repository.InventoryRepo
	Holidays  repository.HolidayRepo
	Entries   repository.ScheduleEntryRepo
	Runs      repository.ScheduleRunRepo
}

// NewRepos builds SQL repositories over conn.
func NewRepos(conn db.DBTX) Repos {
	return Repos{
		Products:  repository.NewSQLProductRepo(conn),
		Orders:    repository.NewSQLPurchaseOrderRepo(conn),
		Machines:  repository.NewSQLMachineRepo(conn),
		Inventory: repository.NewSQLInventoryRepo(conn),
		Holidays:  repository.NewSQLHolidayRepo(conn),
		Entries:   repository.NewSQLScheduleEntryRepo(conn),
		Runs:      repository.NewSQLScheduleRunRepo(conn),
	}
}

// Settings are the plant-wide planning parameters from configuration.
type Settings struct {
	Options             scheduler.Options
	Location            *time.Location
	ExcludeWeekends     bool
	RiskBufferDays      int
	DefaultWorkingHours int
}

func DefaultSettings() Settings {
	return Settings{
		Options:             scheduler.DefaultOptions(),
		Location:            time.UTC,
		RiskBufferDays:      2,
		DefaultWorkingHours: 8,
	}
}

func (s Settings) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

// buildCalendar loads holidays and builds the plant calendar for hours.
func buildCalendar(ctx context.Context, holidays repository.HolidayRepo, settings Settings, hours int) (*calendar.Calendar, error) {
	list, err := holidays.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading holidays: %w", err)
	}
	dates := make([]time.Time, 0, len(list))
	for _, h := range list {
		dates = append(dates, h.Date)
	}
	return calendar.New(hours, dates,
		calendar.WithLocation(settings.location()),
		calendar.WithWeekendsOff(settings.ExcludeWeekends),
	)
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
