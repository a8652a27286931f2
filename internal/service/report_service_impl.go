package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/prodsched/internal/calendar"
	"github.com/alexanderramin/prodsched/internal/contract"
	"github.com/alexanderramin/prodsched/internal/domain"
	"github.com/alexanderramin/prodsched/internal/repository"
	"github.com/alexanderramin/prodsched/internal/scheduler"
)

const gridDays = 7

type reportService struct {
	repos    Repos
	settings Settings
}

func NewReportService(repos Repos, settings Settings) ReportService {
	return &reportService{repos: repos, settings: settings}
}

// latestRun returns the stored run, or nil before the first generation.
func (s *reportService) latestRun(ctx context.Context) (*domain.ScheduleRun, error) {
	run, err := s.repos.Runs.Latest(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading latest run: %w", err)
	}
	return run, nil
}

// runCalendar builds the calendar the stored schedule was planned with.
func (s *reportService) runCalendar(ctx context.Context, run *domain.ScheduleRun) (*calendar.Calendar, error) {
	hours := s.settings.DefaultWorkingHours
	if run != nil {
		hours = run.WorkingHours
	}
	return buildCalendar(ctx, s.repos.Holidays, s.settings, hours)
}

// contendedTypes are the machine types shown on the grid even when idle:
// those the stored run planned as contended, else the configured ones.
func (s *reportService) contendedTypes(run *domain.ScheduleRun) map[string]bool {
	types := s.settings.Options.Constraints.EnabledTypes()
	if run != nil {
		types = run.ConstrainedTypes
	}
	out := make(map[string]bool, len(types))
	for _, mt := range types {
		out[strings.ToUpper(mt)] = true
	}
	return out
}

func (s *reportService) Makespan(ctx context.Context) (*time.Time, error) {
	m, err := s.repos.Entries.Makespan(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading makespan: %w", err)
	}
	if m == nil {
		return nil, nil
	}
	local := m.In(s.settings.location())
	return &local, nil
}

func (s *reportService) WeeklyGrid(ctx context.Context, from *time.Time) (*contract.WeeklyGridResponse, error) {
	loc := s.settings.location()
	run, err := s.latestRun(ctx)
	if err != nil {
		return nil, err
	}
	cal, err := s.runCalendar(ctx, run)
	if err != nil {
		return nil, err
	}
	contended := s.contendedTypes(run)

	var start time.Time
	if from != nil {
		start = *from
	} else {
		first, err := s.repos.Entries.EarliestStart(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading first planned start: %w", err)
		}
		if first == nil {
			start = time.Now()
		} else {
			start = *first
		}
	}
	start = start.In(loc)
	y, m, d := start.Date()
	start = time.Date(y, m, d, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, gridDays)

	days := make([]time.Time, gridDays)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}

	machines, err := s.repos.Machines.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading machines: %w", err)
	}
	views, err := s.repos.Entries.ListMachineBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("loading machine entries: %w", err)
	}

	byMachine := make(map[int64][]repository.ScheduleEntryView)
	for _, v := range views {
		byMachine[*v.Entry.MachineID] = append(byMachine[*v.Entry.MachineID], v)
	}

	resp := &contract.WeeklyGridResponse{From: start, Days: days, Daily: cal.DailyMinutes()}
	for _, mc := range machines {
		if !contended[strings.ToUpper(mc.MachineType)] && len(byMachine[mc.ID]) == 0 {
			continue
		}
		row := contract.GridRow{
			MachineNo:   mc.MachineNo,
			MachineType: mc.MachineType,
			Cells:       make([]contract.GridCell, gridDays),
		}
		for _, v := range byMachine[mc.ID] {
			for i, day := range days {
				dayEnd := day.AddDate(0, 0, 1)
				s0, e0 := v.Entry.PlannedStart, v.Entry.PlannedEnd
				if !s0.Before(dayEnd) || !e0.After(day) {
					continue
				}
				if s0.Before(day) {
					s0 = day
				}
				if e0.After(dayEnd) {
					e0 = dayEnd
				}
				row.Cells[i].BusyMinutes += cal.WorkingMinutesBetween(s0, e0)
				row.Cells[i].Entries = append(row.Cells[i].Entries, toEntryView(v, loc))
			}
		}
		resp.Rows = append(resp.Rows, row)
	}
	return resp, nil
}

func (s *reportService) Progress(ctx context.Context) (*contract.ProgressResponse, error) {
	loc := s.settings.location()
	run, err := s.latestRun(ctx)
	if err != nil {
		return nil, err
	}
	cal, err := s.runCalendar(ctx, run)
	if err != nil {
		return nil, err
	}
	views, err := s.repos.Entries.ListDetailed(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing schedule: %w", err)
	}

	// Every entry of a product references its anchor order, so the first
	// entry seen carries the delivery date.
	byProduct := make(map[int64]*contract.ProductProgress)
	// A step split across days has one entry per day; its quantities add
	// up to the run quantity of that step.
	stepQty := make(map[int64]int64)
	var order []int64
	for _, v := range views {
		e := v.Entry
		p, ok := byProduct[e.ProductID]
		if !ok {
			p = &contract.ProductProgress{
				ProductCode:  v.ProductCode,
				ProductName:  v.ProductName,
				DeliveryDate: v.DeliveryDate,
			}
			byProduct[e.ProductID] = p
			order = append(order, e.ProductID)
		}
		stepQty[e.ProcessID] += e.Quantity
		if stepQty[e.ProcessID] > p.Quantity {
			p.Quantity = stepQty[e.ProcessID]
		}
		start, end := e.PlannedStart.In(loc), e.PlannedEnd.In(loc)
		if p.FirstStart == nil || start.Before(*p.FirstStart) {
			p.FirstStart = &start
		}
		if p.LastEnd == nil || end.After(*p.LastEnd) {
			p.LastEnd = &end
		}
	}

	resp := &contract.ProgressResponse{}
	for _, id := range order {
		p := *byProduct[id]
		due := p.DeliveryDate
		risk := scheduler.ComputeRisk(cal, scheduler.RiskInput{
			PlannedEnd:   p.LastEnd,
			DeliveryDate: time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, loc),
			BufferDays:   s.settings.RiskBufferDays,
		})
		p.Risk = risk.Level
		p.SlackMin = risk.SlackMin
		switch p.Risk {
		case domain.RiskLate:
			resp.Late++
		case domain.RiskAtRisk:
			resp.AtRisk++
		default:
			resp.OnTrack++
		}
		resp.Products = append(resp.Products, p)
	}

	sort.SliceStable(resp.Products, func(i, j int) bool {
		a, b := resp.Products[i], resp.Products[j]
		if !a.DeliveryDate.Equal(b.DeliveryDate) {
			return a.DeliveryDate.Before(b.DeliveryDate)
		}
		return a.ProductCode < b.ProductCode
	})
	return resp, nil
}
