package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/prodsched/internal/db"
	"github.com/alexanderramin/prodsched/internal/domain"
)

type SQLInventoryRepo struct {
	db db.DBTX
}

func NewSQLInventoryRepo(conn db.DBTX) *SQLInventoryRepo {
	return &SQLInventoryRepo{db: conn}
}

func (r *SQLInventoryRepo) Upsert(ctx context.Context, f *domain.FinishedProduct) error {
	query := `INSERT INTO finished_products (id, product_id, quantity, finished_date, shipped)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			product_id = excluded.product_id,
			quantity = excluded.quantity,
			finished_date = excluded.finished_date,
			shipped = excluded.shipped`
	_, err := r.db.ExecContext(ctx, query, f.ID, f.ProductID, f.Quantity, dateOrNull(f.FinishedDate), boolToInt(f.Shipped))
	if err != nil {
		return fmt.Errorf("upserting finished product %d: %w", f.ID, err)
	}
	return nil
}

func (r *SQLInventoryRepo) UnshippedByProduct(ctx context.Context) (map[int64]int64, error) {
	query := `SELECT product_id, CAST(SUM(quantity) AS BIGINT) FROM finished_products
		WHERE shipped = 0
		GROUP BY product_id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("summing unshipped stock: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]int64)
	for rows.Next() {
		var productID, qty int64
		if err := rows.Scan(&productID, &qty); err != nil {
			return nil, fmt.Errorf("scanning unshipped row: %w", err)
		}
		out[productID] = qty
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating unshipped stock: %w", err)
	}
	return out, nil
}
