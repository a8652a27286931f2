package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alexanderramin/prodsched/internal/contract"
	"github.com/alexanderramin/prodsched/internal/db"
	"github.com/alexanderramin/prodsched/internal/domain"
	"github.com/alexanderramin/prodsched/internal/metrics"
	"github.com/alexanderramin/prodsched/internal/repository"
	"github.com/alexanderramin/prodsched/internal/scheduler"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type scheduleService struct {
	repos    Repos
	uow      db.UnitOfWork
	settings Settings
	logger   *zap.Logger
	recorder RunRecorder
	observer UseCaseObserver

	// mu admits one run (or clear) at a time; callers that find it held
	// are rejected rather than queued.
	mu sync.Mutex
}

func NewScheduleService(
	repos Repos,
	uow db.UnitOfWork,
	settings Settings,
	logger *zap.Logger,
	recorder RunRecorder,
	observers ...UseCaseObserver,
) ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if recorder == nil {
		recorder = noopRunRecorder{}
	}
	return &scheduleService{
		repos:    repos,
		uow:      uow,
		settings: settings,
		logger:   logger,
		recorder: recorder,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *scheduleService) Generate(ctx context.Context, req contract.GenerateRequest) (resp *contract.GenerateResponse, err error) {
	startedAt := time.Now()
	fields := map[string]any{"working_hours": req.WorkingHours}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "generate-schedule",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if err = req.Validate(); err != nil {
		return nil, err
	}

	if !s.mu.TryLock() {
		s.recorder.RecordFailure(metrics.StatusBusy, time.Since(startedAt))
		return nil, &contract.GenerateError{
			Code:    contract.GenerateErrRunInProgress,
			Message: "another schedule generation is running",
		}
	}
	defer s.mu.Unlock()

	defer func() {
		if err != nil {
			s.recorder.RecordFailure(metrics.StatusFailure, time.Since(startedAt))
		}
	}()

	now := time.Now()
	if req.Now != nil {
		now = *req.Now
	}

	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, &contract.GenerateError{Code: contract.GenerateErrInternal, Message: "loading master data", Err: err}
	}
	fields["products"] = len(snap.Products)
	fields["open_orders"] = len(snap.Orders)

	cal, err := buildCalendar(ctx, s.repos.Holidays, s.settings, req.WorkingHours)
	if err != nil {
		return nil, &contract.GenerateError{Code: contract.GenerateErrInternal, Message: "building calendar", Err: err}
	}

	opts := s.settings.Options
	opts.Constraints = mergeConstraints(opts.Constraints, req.ResourceConstraints)

	planner := scheduler.NewPlanner(cal, opts, s.logger)
	res, err := planner.Plan(snap, now)
	if err != nil {
		return nil, planError(err)
	}

	runID := uuid.New().String()
	for i := range res.Entries {
		res.Entries[i].ID = uuid.New().String()
		res.Entries[i].RunID = runID
	}
	run := &domain.ScheduleRun{
		ID:                 runID,
		WorkingHours:       req.WorkingHours,
		ConstrainedCount:   res.ConstrainedCount,
		UnconstrainedCount: res.UnconstrainedCount,
		TotalCount:         len(res.Entries),
		Makespan:           res.Makespan,
		Warnings:           res.Warnings,
		ConstrainedTypes:   opts.Constraints.EnabledTypes(),
		Iterations:         res.Iterations,
		BackfilledSteps:    res.BackfilledSteps,
		CreatedAt:          time.Now().UTC(),
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txEntries := repository.NewSQLScheduleEntryRepo(tx)
		txRuns := repository.NewSQLScheduleRunRepo(tx)

		if _, err := txEntries.DeleteAll(ctx); err != nil {
			return err
		}
		if err := txRuns.DeleteAll(ctx); err != nil {
			return err
		}
		if err := txRuns.Insert(ctx, run); err != nil {
			return err
		}
		return txEntries.InsertAll(ctx, res.Entries)
	})
	if err != nil {
		return nil, &contract.GenerateError{
			Code:    contract.GenerateErrPersistence,
			Message: "saving schedule: " + err.Error(),
			Err:     err,
		}
	}

	fields["run_id"] = runID
	fields["entries"] = run.TotalCount
	fields["warnings"] = len(run.Warnings)
	s.recorder.RecordRun(time.Since(startedAt), metrics.RunResult{
		Constrained:   run.ConstrainedCount,
		Unconstrained: run.UnconstrainedCount,
		Warnings:      len(run.Warnings),
		Makespan:      run.Makespan,
	})

	return &contract.GenerateResponse{
		RunID:              runID,
		WorkingHours:       req.WorkingHours,
		ConstrainedCount:   run.ConstrainedCount,
		UnconstrainedCount: run.UnconstrainedCount,
		TotalCount:         run.TotalCount,
		Makespan:           run.Makespan,
		Warnings:           run.Warnings,
		Iterations:         run.Iterations,
		BackfilledSteps:    run.BackfilledSteps,
	}, nil
}

// loadSnapshot reads all master data a run needs, once.
func (s *scheduleService) loadSnapshot(ctx context.Context) (*scheduler.Snapshot, error) {
	products, err := s.repos.Products.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading products: %w", err)
	}
	orders, err := s.repos.Orders.ListOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading purchase orders: %w", err)
	}
	machines, err := s.repos.Machines.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading machines: %w", err)
	}
	unshipped, err := s.repos.Inventory.UnshippedByProduct(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading finished stock: %w", err)
	}
	return &scheduler.Snapshot{
		Products:  products,
		Orders:    orders,
		Machines:  machines,
		Unshipped: unshipped,
	}, nil
}

// mergeConstraints overlays per-run overrides on the configured
// constraints without mutating either.
func mergeConstraints(base scheduler.ResourceConstraints, overrides map[string]contract.ResourceConstraint) scheduler.ResourceConstraints {
	if base == nil {
		base = scheduler.DefaultConstraints()
	}
	out := make(scheduler.ResourceConstraints, len(base)+len(overrides))
	for mt, c := range base {
		out[strings.ToUpper(mt)] = c
	}
	for mt, c := range overrides {
		out[strings.ToUpper(mt)] = scheduler.Constraint{Enabled: c.Enabled, Capacity: c.Capacity}
	}
	return out
}

func planError(err error) error {
	var missing *scheduler.MissingCapacityError
	switch {
	case errors.As(err, &missing):
		return &contract.GenerateError{Code: contract.GenerateErrMissingCapacity, Message: missing.Error(), Err: err}
	case errors.Is(err, scheduler.ErrSchedulingIncomplete):
		return &contract.GenerateError{Code: contract.GenerateErrIncomplete, Message: err.Error(), Err: err}
	default:
		return &contract.GenerateError{Code: contract.GenerateErrInternal, Message: err.Error(), Err: err}
	}
}

func (s *scheduleService) List(ctx context.Context) (*contract.ListEntriesResponse, error) {
	views, err := s.repos.Entries.ListDetailed(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing schedule: %w", err)
	}
	makespan, err := s.repos.Entries.Makespan(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading makespan: %w", err)
	}
	run, err := s.repos.Runs.Latest(ctx)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("loading latest run: %w", err)
	}

	loc := s.settings.location()
	resp := &contract.ListEntriesResponse{
		Entries: make([]contract.EntryView, 0, len(views)),
		Run:     run,
	}
	for _, v := range views {
		resp.Entries = append(resp.Entries, toEntryView(v, loc))
	}
	if makespan != nil {
		m := makespan.In(loc)
		resp.Makespan = &m
	}
	return resp, nil
}

func (s *scheduleService) Clear(ctx context.Context) (resp *contract.ClearResponse, err error) {
	startedAt := time.Now()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "clear-schedule",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
		})
	}()

	if !s.mu.TryLock() {
		return nil, &contract.GenerateError{
			Code:    contract.GenerateErrRunInProgress,
			Message: "a schedule generation is running",
		}
	}
	defer s.mu.Unlock()

	var deleted int64
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		n, err := repository.NewSQLScheduleEntryRepo(tx).DeleteAll(ctx)
		if err != nil {
			return err
		}
		deleted = n
		return repository.NewSQLScheduleRunRepo(tx).DeleteAll(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("clearing schedule: %w", err)
	}
	s.recorder.RecordCleared()
	return &contract.ClearResponse{Deleted: deleted}, nil
}

func toEntryView(v repository.ScheduleEntryView, loc *time.Location) contract.EntryView {
	e := v.Entry
	return contract.EntryView{
		ID:                e.ID,
		PONumber:          v.PONumber,
		ProductCode:       v.ProductCode,
		ProductName:       v.ProductName,
		StepNo:            v.StepNo,
		ProcessName:       v.ProcessName,
		MachineNo:         v.MachineNo,
		Constrained:       e.Constrained(),
		PlannedStart:      e.PlannedStart.In(loc),
		PlannedEnd:        e.PlannedEnd.In(loc),
		Quantity:          e.Quantity,
		SetupMinutes:      e.SetupMinutes,
		ProcessingMinutes: e.ProcessingMinutes,
	}
}
