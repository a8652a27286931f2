package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/prodsched/internal/db"
	"github.com/alexanderramin/prodsched/internal/domain"
)

type SQLMachineRepo struct {
	db db.DBTX
}

func NewSQLMachineRepo(conn db.DBTX) *SQLMachineRepo {
	return &SQLMachineRepo{db: conn}
}

func (r *SQLMachineRepo) Upsert(ctx context.Context, m *domain.Machine) error {
	query := `INSERT INTO machines (id, machine_no, machine_type, factory)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			machine_no = excluded.machine_no,
			machine_type = excluded.machine_type,
			factory = excluded.factory`
	if _, err := r.db.ExecContext(ctx, query, m.ID, m.MachineNo, m.MachineType, m.Factory); err != nil {
		return fmt.Errorf("upserting machine %s: %w", m.MachineNo, err)
	}
	return nil
}

// List returns all machines in ID order.
func (r *SQLMachineRepo) List(ctx context.Context) ([]domain.Machine, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, machine_no, machine_type, factory FROM machines ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing machines: %w", err)
	}
	defer rows.Close()

	var machines []domain.Machine
	for rows.Next() {
		var m domain.Machine
		if err := rows.Scan(&m.ID, &m.MachineNo, &m.MachineType, &m.Factory); err != nil {
			return nil, fmt.Errorf("scanning machine row: %w", err)
		}
		machines = append(machines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating machines: %w", err)
	}
	return machines, nil
}
