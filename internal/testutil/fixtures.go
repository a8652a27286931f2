package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/prodsched/internal/domain"
)

var testIDCounter atomic.Int64

// NextID returns a process-wide unique ID for fixtures.
func NextID() int64 {
	return testIDCounter.Add(1)
}

// Product options
type ProductOption func(*domain.Product)

func WithCustomer(name string) ProductOption {
	return func(p *domain.Product) {
		p.CustomerName = name
	}
}

func WithInactive() ProductOption {
	return func(p *domain.Product) {
		p.Active = false
	}
}

// WithProcesses attaches processes and points them at the product.
func WithProcesses(procs ...domain.Process) ProductOption {
	return func(p *domain.Product) {
		for _, proc := range procs {
			proc.ProductID = p.ID
			p.Processes = append(p.Processes, proc)
		}
		p.SortProcesses()
	}
}

func NewTestProduct(code string, opts ...ProductOption) *domain.Product {
	p := &domain.Product{
		ID:     NextID(),
		Code:   code,
		Name:   code + " part",
		Active: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process options
type ProcessOption func(*domain.Process)

func WithRate(rate float64) ProcessOption {
	return func(p *domain.Process) {
		p.Kind = domain.KindSPM
		p.Rate = rate
	}
}

// WithDayKind makes the step a DAY process running batch items per cycle.
func WithDayKind(batch int64, cycleDays float64) ProcessOption {
	return func(p *domain.Process) {
		p.Kind = domain.KindDay
		p.Rate = 0
		p.BatchSize = batch
		p.CycleDays = cycleDays
	}
}

func WithSetup(minutes float64) ProcessOption {
	return func(p *domain.Process) {
		p.SetupMinutes = minutes
	}
}

func WithMachineType(mt string) ProcessOption {
	return func(p *domain.Process) {
		p.MachineType = mt
	}
}

// NewTestProcess returns an SPM step at 1 item/minute. The machine type
// is derived from name unless set explicitly.
func NewTestProcess(stepNo int, name string, opts ...ProcessOption) domain.Process {
	p := domain.Process{
		ID:     NextID(),
		StepNo: stepNo,
		Name:   name,
		Kind:   domain.KindSPM,
		Rate:   1,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

func NewTestMachine(machineNo, machineType string) *domain.Machine {
	return &domain.Machine{
		ID:          NextID(),
		MachineNo:   machineNo,
		MachineType: machineType,
		Factory:     "main",
	}
}

// Order options
type OrderOption func(*domain.PurchaseOrder)

func WithDelivered() OrderOption {
	return func(o *domain.PurchaseOrder) {
		o.Delivered = true
	}
}

func WithPONumber(n string) OrderOption {
	return func(o *domain.PurchaseOrder) {
		o.PONumber = n
	}
}

func NewTestOrder(productID, quantity int64, delivery time.Time, opts ...OrderOption) *domain.PurchaseOrder {
	id := NextID()
	o := &domain.PurchaseOrder{
		ID:           id,
		PONumber:     fmt.Sprintf("PO-%04d", id),
		ProductID:    productID,
		Quantity:     quantity,
		DeliveryDate: delivery,
		ReceivedDate: delivery.AddDate(0, -1, 0),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func NewTestFinished(productID, quantity int64, shipped bool) *domain.FinishedProduct {
	return &domain.FinishedProduct{
		ID:           NextID(),
		ProductID:    productID,
		Quantity:     quantity,
		FinishedDate: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		Shipped:      shipped,
	}
}

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
