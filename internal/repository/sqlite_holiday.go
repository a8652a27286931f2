package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/prodsched/internal/db"
	"github.com/alexanderramin/prodsched/internal/domain"
)

type SQLHolidayRepo struct {
	db db.DBTX
}

func NewSQLHolidayRepo(conn db.DBTX) *SQLHolidayRepo {
	return &SQLHolidayRepo{db: conn}
}

func (r *SQLHolidayRepo) Upsert(ctx context.Context, h *domain.Holiday) error {
	query := `INSERT INTO holidays (holiday_date, kind) VALUES (?, ?)
		ON CONFLICT(holiday_date) DO UPDATE SET kind = excluded.kind`
	if _, err := r.db.ExecContext(ctx, query, h.Date.Format(dateLayout), h.Kind); err != nil {
		return fmt.Errorf("upserting holiday: %w", err)
	}
	return nil
}

func (r *SQLHolidayRepo) Delete(ctx context.Context, date time.Time) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM holidays WHERE holiday_date = ?`, date.Format(dateLayout))
	if err != nil {
		return fmt.Errorf("deleting holiday: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted holiday: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("holiday %s: %w", date.Format(dateLayout), ErrNotFound)
	}
	return nil
}

// List returns holidays in date order.
func (r *SQLHolidayRepo) List(ctx context.Context) ([]domain.Holiday, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT holiday_date, kind FROM holidays ORDER BY holiday_date`)
	if err != nil {
		return nil, fmt.Errorf("listing holidays: %w", err)
	}
	defer rows.Close()

	var out []domain.Holiday
	for rows.Next() {
		var date string
		var h domain.Holiday
		if err := rows.Scan(&date, &h.Kind); err != nil {
			return nil, fmt.Errorf("scanning holiday row: %w", err)
		}
		d, err := time.Parse(dateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("parsing holiday date %q: %w", date, err)
		}
		h.Date = d
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating holidays: %w", err)
	}
	return out, nil
}
