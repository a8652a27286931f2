package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/prodsched/internal/domain"
)

// ScheduleEntryView is a schedule entry joined with the master data needed
// to display it.
type ScheduleEntryView struct {
	Entry        domain.ScheduleEntry
	PONumber     string
	DeliveryDate time.Time
	ProductCode  string
	ProductName  string
	StepNo       int
	ProcessName  string
	// MachineNo is empty for entries that do not occupy a machine.
	MachineNo string
}

type ProductRepo interface {
	// Upsert writes the product and its processes, keyed by ID.
	Upsert(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	// ListActive returns active products with processes in step order.
	ListActive(ctx context.Context) ([]domain.Product, error)
}

type MachineRepo interface {
	Upsert(ctx context.Context, m *domain.Machine) error
	List(ctx context.Context) ([]domain.Machine, error)
}

type PurchaseOrderRepo interface {
	Upsert(ctx context.Context, o *domain.PurchaseOrder) error
	GetByID(ctx context.Context, id int64) (*domain.PurchaseOrder, error)
	// ListOpen returns undelivered orders by delivery date, then ID.
	ListOpen(ctx context.Context) ([]domain.PurchaseOrder, error)
}

type InventoryRepo interface {
	Upsert(ctx context.Context, f *domain.FinishedProduct) error
	// UnshippedByProduct sums finished, unshipped quantities per product.
	UnshippedByProduct(ctx context.Context) (map[int64]int64, error)
}

type HolidayRepo interface {
	Upsert(ctx context.Context, h *domain.Holiday) error
	Delete(ctx context.Context, date time.Time) error
	List(ctx context.Context) ([]domain.Holiday, error)
}

type ScheduleEntryRepo interface {
	InsertAll(ctx context.Context, entries []domain.ScheduleEntry) error
	DeleteAll(ctx context.Context) (int64, error)
	List(ctx context.Context) ([]domain.ScheduleEntry, error)
	ListDetailed(ctx context.Context) ([]ScheduleEntryView, error)
	// ListMachineBetween returns machine-bound entries overlapping [from, to).
	ListMachineBetween(ctx context.Context, from, to time.Time) ([]ScheduleEntryView, error)
	Makespan(ctx context.Context) (*time.Time, error)
	EarliestStart(ctx context.Context) (*time.Time, error)
}

type ScheduleRunRepo interface {
	Insert(ctx context.Context, run *domain.ScheduleRun) error
	DeleteAll(ctx context.Context) error
	Latest(ctx context.Context) (*domain.ScheduleRun, error)
}
