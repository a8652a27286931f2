package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/prodsched/internal/db"
	"github.com/alexanderramin/prodsched/internal/domain"
)

// SQLScheduleEntryRepo implements ScheduleEntryRepo. Timestamps are stored
// in UTC; callers convert to plant time for display.
type SQLScheduleEntryRepo struct {
	db db.DBTX
}

func NewSQLScheduleEntryRepo(conn db.DBTX) *SQLScheduleEntryRepo {
	return &SQLScheduleEntryRepo{db: conn}
}

const entryColumns = `e.id, e.run_id, e.po_id, e.product_id, e.process_id, e.machine_id,
	e.planned_start, e.planned_end, e.quantity, e.setup_minutes, e.processing_minutes`

const entryViewQuery = `SELECT ` + entryColumns + `,
		po.po_number, po.delivery_date, p.code, p.name, pr.step_no, pr.name, COALESCE(m.machine_no, '')
	FROM schedule_entries e
	JOIN purchase_orders po ON po.id = e.po_id
	JOIN products p ON p.id = e.product_id
	JOIN processes pr ON pr.id = e.process_id
	LEFT JOIN machines m ON m.id = e.machine_id`

func (r *SQLScheduleEntryRepo) InsertAll(ctx context.Context, entries []domain.ScheduleEntry) error {
	query := `INSERT INTO schedule_entries (id, run_id, po_id, product_id, process_id, machine_id,
			planned_start, planned_end, quantity, setup_minutes, processing_minutes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for i := range entries {
		e := &entries[i]
		_, err := r.db.ExecContext(ctx, query,
			e.ID,
			e.RunID,
			e.PurchaseOrderID,
			e.ProductID,
			e.ProcessID,
			nullableInt64(e.MachineID),
			formatTimestamp(e.PlannedStart),
			formatTimestamp(e.PlannedEnd),
			e.Quantity,
			e.SetupMinutes,
			e.ProcessingMinutes,
		)
		if err != nil {
			return fmt.Errorf("inserting schedule entry %d of %d: %w", i+1, len(entries), err)
		}
	}
	return nil
}

// DeleteAll removes every entry and reports how many were removed.
func (r *SQLScheduleEntryRepo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM schedule_entries`)
	if err != nil {
		return 0, fmt.Errorf("deleting schedule entries: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted schedule entries: %w", err)
	}
	return n, nil
}

func (r *SQLScheduleEntryRepo) List(ctx context.Context) ([]domain.ScheduleEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM schedule_entries e ORDER BY e.planned_start, e.id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing schedule entries: %w", err)
	}
	defer rows.Close()

	var out []domain.ScheduleEntry
	for rows.Next() {
		var e domain.ScheduleEntry
		if err := scanEntry(rows, &e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating schedule entries: %w", err)
	}
	return out, nil
}

func (r *SQLScheduleEntryRepo) ListDetailed(ctx context.Context) ([]ScheduleEntryView, error) {
	return r.listViews(ctx, entryViewQuery+` ORDER BY e.planned_start, p.id, pr.step_no, e.id`)
}

func (r *SQLScheduleEntryRepo) ListMachineBetween(ctx context.Context, from, to time.Time) ([]ScheduleEntryView, error) {
	query := entryViewQuery + `
	WHERE e.machine_id IS NOT NULL AND e.planned_start < ? AND e.planned_end > ?
	ORDER BY m.id, e.planned_start, e.id`
	return r.listViews(ctx, query, formatTimestamp(to), formatTimestamp(from))
}

func (r *SQLScheduleEntryRepo) listViews(ctx context.Context, query string, args ...any) ([]ScheduleEntryView, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing schedule entry views: %w", err)
	}
	defer rows.Close()

	var out []ScheduleEntryView
	for rows.Next() {
		var v ScheduleEntryView
		var delivery string
		if err := scanEntry(rows, &v.Entry,
			&v.PONumber, &delivery, &v.ProductCode, &v.ProductName, &v.StepNo, &v.ProcessName, &v.MachineNo,
		); err != nil {
			return nil, err
		}
		d, err := time.Parse(dateLayout, delivery)
		if err != nil {
			return nil, fmt.Errorf("parsing delivery date %q: %w", delivery, err)
		}
		v.DeliveryDate = d
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating schedule entry views: %w", err)
	}
	return out, nil
}

// scanEntry scans the entry columns followed by any extra destinations.
func scanEntry(s rowScanner, e *domain.ScheduleEntry, extra ...any) error {
	var machineID sql.NullInt64
	var start, end string
	dest := []any{
		&e.ID, &e.RunID, &e.PurchaseOrderID, &e.ProductID, &e.ProcessID, &machineID,
		&start, &end, &e.Quantity, &e.SetupMinutes, &e.ProcessingMinutes,
	}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		return fmt.Errorf("scanning schedule entry row: %w", err)
	}
	if machineID.Valid {
		id := machineID.Int64
		e.MachineID = &id
	}
	var err error
	if e.PlannedStart, err = parseTimestamp(start); err != nil {
		return fmt.Errorf("parsing planned start %q: %w", start, err)
	}
	if e.PlannedEnd, err = parseTimestamp(end); err != nil {
		return fmt.Errorf("parsing planned end %q: %w", end, err)
	}
	return nil
}

// Makespan returns the latest planned end, nil when no entries exist.
func (r *SQLScheduleEntryRepo) Makespan(ctx context.Context) (*time.Time, error) {
	return r.aggregateTime(ctx, `SELECT MAX(planned_end) FROM schedule_entries`)
}

// EarliestStart returns the first planned start, nil when no entries exist.
func (r *SQLScheduleEntryRepo) EarliestStart(ctx context.Context) (*time.Time, error) {
	return r.aggregateTime(ctx, `SELECT MIN(planned_start) FROM schedule_entries`)
}

func (r *SQLScheduleEntryRepo) aggregateTime(ctx context.Context, query string) (*time.Time, error) {
	var v sql.NullString
	if err := r.db.QueryRowContext(ctx, query).Scan(&v); err != nil {
		return nil, fmt.Errorf("querying schedule bounds: %w", err)
	}
	return parseNullableTime(v, timestampLayout), nil
}
