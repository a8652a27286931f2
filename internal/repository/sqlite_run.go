package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/prodsched/internal/db"
	"github.com/alexanderramin/prodsched/internal/domain"
)

type SQLScheduleRunRepo struct {
	db db.DBTX
}

func NewSQLScheduleRunRepo(conn db.DBTX) *SQLScheduleRunRepo {
	return &SQLScheduleRunRepo{db: conn}
}

func (r *SQLScheduleRunRepo) Insert(ctx context.Context, run *domain.ScheduleRun) error {
	query := `INSERT INTO schedule_runs (id, working_hours, constrained_count, unconstrained_count,
			total_count, makespan, warnings, constrained_types, iterations, backfilled_steps, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.WorkingHours,
		run.ConstrainedCount,
		run.UnconstrainedCount,
		run.TotalCount,
		nullableTimeToString(run.Makespan, timestampLayout),
		strings.Join(run.Warnings, "\n"),
		strings.Join(run.ConstrainedTypes, ","),
		run.Iterations,
		run.BackfilledSteps,
		formatTimestamp(run.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting schedule run: %w", err)
	}
	return nil
}

func (r *SQLScheduleRunRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM schedule_runs`); err != nil {
		return fmt.Errorf("deleting schedule runs: %w", err)
	}
	return nil
}

func (r *SQLScheduleRunRepo) Latest(ctx context.Context) (*domain.ScheduleRun, error) {
	query := `SELECT id, working_hours, constrained_count, unconstrained_count, total_count,
			makespan, warnings, constrained_types, iterations, backfilled_steps, created_at
		FROM schedule_runs ORDER BY created_at DESC LIMIT 1`

	var run domain.ScheduleRun
	var makespan sql.NullString
	var warnings, constrainedTypes, createdAt string
	err := r.db.QueryRowContext(ctx, query).Scan(
		&run.ID, &run.WorkingHours, &run.ConstrainedCount, &run.UnconstrainedCount, &run.TotalCount,
		&makespan, &warnings, &constrainedTypes, &run.Iterations, &run.BackfilledSteps, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("schedule run: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning schedule run: %w", err)
	}

	run.Makespan = parseNullableTime(makespan, timestampLayout)
	if warnings != "" {
		run.Warnings = strings.Split(warnings, "\n")
	}
	if constrainedTypes != "" {
		run.ConstrainedTypes = strings.Split(constrainedTypes, ",")
	}
	if run.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parsing run created_at %q: %w", createdAt, err)
	}
	return &run, nil
}
