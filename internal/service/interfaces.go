package service

import (
	"context"
	"time"

	"github.com/alexanderramin/prodsched/internal/contract"
	"github.com/alexanderramin/prodsched/internal/domain"
	"github.com/alexanderramin/prodsched/internal/importer"
)

type ScheduleService interface {
	// Generate replaces the stored schedule with a fresh run. Only one run
	// may be in flight; a concurrent call fails with RUN_IN_PROGRESS.
	Generate(ctx context.Context, req contract.GenerateRequest) (*contract.GenerateResponse, error)
	List(ctx context.Context) (*contract.ListEntriesResponse, error)
	Clear(ctx context.Context) (*contract.ClearResponse, error)
}

type ReportService interface {
	// WeeklyGrid shows machine load for 7 days from `from`, or from the
	// first planned day when from is nil.
	WeeklyGrid(ctx context.Context, from *time.Time) (*contract.WeeklyGridResponse, error)
	Progress(ctx context.Context) (*contract.ProgressResponse, error)
	// Makespan is the latest planned end, nil when nothing is scheduled.
	Makespan(ctx context.Context) (*time.Time, error)
}

type ImportService interface {
	ImportPlant(ctx context.Context, filePath string) (*contract.ImportResponse, error)
	ImportPlantFromSchema(ctx context.Context, schema *importer.PlantSchema) (*contract.ImportResponse, error)
}

type HolidayService interface {
	List(ctx context.Context) ([]domain.Holiday, error)
	Add(ctx context.Context, date time.Time, kind string) error
	Delete(ctx context.Context, date time.Time) error
}
