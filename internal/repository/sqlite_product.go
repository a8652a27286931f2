package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/prodsched/internal/db"
	"github.com/alexanderramin/prodsched/internal/domain"
)

// SQLProductRepo implements ProductRepo over any DBTX.
type SQLProductRepo struct {
	db db.DBTX
}

func NewSQLProductRepo(conn db.DBTX) *SQLProductRepo {
	return &SQLProductRepo{db: conn}
}

func (r *SQLProductRepo) Upsert(ctx context.Context, p *domain.Product) error {
	query := `INSERT INTO products (id, code, name, customer_name, active)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			code = excluded.code,
			name = excluded.name,
			customer_name = excluded.customer_name,
			active = excluded.active`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.Code, p.Name, p.CustomerName, boolToInt(p.Active))
	if err != nil {
		return fmt.Errorf("upserting product %s: %w", p.Code, err)
	}

	for i := range p.Processes {
		proc := p.Processes[i]
		proc.ProductID = p.ID
		if err := r.upsertProcess(ctx, &proc); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLProductRepo) upsertProcess(ctx context.Context, proc *domain.Process) error {
	query := `INSERT INTO processes (id, product_id, step_no, name, kind, rate, batch_size, cycle_days, setup_minutes, machine_type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			product_id = excluded.product_id,
			step_no = excluded.step_no,
			name = excluded.name,
			kind = excluded.kind,
			rate = excluded.rate,
			batch_size = excluded.batch_size,
			cycle_days = excluded.cycle_days,
			setup_minutes = excluded.setup_minutes,
			machine_type = excluded.machine_type`
	_, err := r.db.ExecContext(ctx, query,
		proc.ID,
		proc.ProductID,
		proc.StepNo,
		proc.Name,
		string(proc.Kind),
		proc.Rate,
		proc.BatchSize,
		proc.CycleDays,
		proc.SetupMinutes,
		proc.MachineType,
	)
	if err != nil {
		return fmt.Errorf("upserting process %d: %w", proc.ID, err)
	}
	return nil
}

func (r *SQLProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT id, code, name, customer_name, active FROM products WHERE id = ?`
	var p domain.Product
	var active int
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Code, &p.Name, &p.CustomerName, &active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning product: %w", err)
	}
	p.Active = intToBool(active)

	procs, err := r.listProcesses(ctx, `WHERE product_id = ?`, id)
	if err != nil {
		return nil, err
	}
	p.Processes = procs[id]
	return &p, nil
}

func (r *SQLProductRepo) ListActive(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT id, code, name, customer_name, active FROM products WHERE active = 1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing active products: %w", err)
	}
	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		var active int
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.CustomerName, &active); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		p.Active = intToBool(active)
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating products: %w", err)
	}
	rows.Close()

	procs, err := r.listProcesses(ctx, `WHERE product_id IN (SELECT id FROM products WHERE active = 1)`)
	if err != nil {
		return nil, err
	}
	for i := range products {
		products[i].Processes = procs[products[i].ID]
	}
	return products, nil
}

// listProcesses returns processes grouped by product, each group in step
// order.
func (r *SQLProductRepo) listProcesses(ctx context.Context, where string, args ...any) (map[int64][]domain.Process, error) {
	query := `SELECT id, product_id, step_no, name, kind, rate, batch_size, cycle_days, setup_minutes, machine_type
		FROM processes ` + where + ` ORDER BY product_id, step_no`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing processes: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]domain.Process)
	for rows.Next() {
		var p domain.Process
		var kind string
		err := rows.Scan(&p.ID, &p.ProductID, &p.StepNo, &p.Name, &kind,
			&p.Rate, &p.BatchSize, &p.CycleDays, &p.SetupMinutes, &p.MachineType)
		if err != nil {
			return nil, fmt.Errorf("scanning process row: %w", err)
		}
		p.Kind = domain.ProcessKind(kind)
		out[p.ProductID] = append(out[p.ProductID], p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating processes: %w", err)
	}
	return out, nil
}
