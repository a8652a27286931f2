package contract

import (
	"time"

	"github.com/alexanderramin/prodsched/internal/domain"
)

// EntryView is one schedule entry as shown to planners.
type EntryView struct {
	ID                string
	PONumber          string
	ProductCode       string
	ProductName       string
	StepNo            int
	ProcessName       string
	MachineNo         string
	Constrained       bool
	PlannedStart      time.Time
	PlannedEnd        time.Time
	Quantity          int64
	SetupMinutes      float64
	ProcessingMinutes float64
}

type ListEntriesResponse struct {
	Entries  []EntryView
	Makespan *time.Time
	// Run is the latest committed run, nil when none exists.
	Run *domain.ScheduleRun
}

// GridCell is one machine's load on one day.
type GridCell struct {
	BusyMinutes float64
	Entries     []EntryView
}

type GridRow struct {
	MachineNo   string
	MachineType string
	// Cells has one element per day in WeeklyGridResponse.Days.
	Cells []GridCell
}

type WeeklyGridResponse struct {
	From  time.Time
	Days  []time.Time
	Rows  []GridRow
	Daily int
}

type ProductProgress struct {
	ProductCode  string
	ProductName  string
	Quantity     int64
	DeliveryDate time.Time
	FirstStart   *time.Time
	LastEnd      *time.Time
	Risk         domain.DeliveryRisk
	SlackMin     float64
}

type ProgressResponse struct {
	Products []ProductProgress
	OnTrack  int
	AtRisk   int
	Late     int
}

type ClearResponse struct {
	Deleted int64
}

type ImportResponse struct {
	Products       int
	Processes      int
	Machines       int
	PurchaseOrders int
	Finished       int
	Holidays       int
}
