package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/prodsched/internal/db"
	"github.com/alexanderramin/prodsched/internal/domain"
)

type SQLPurchaseOrderRepo struct {
	db db.DBTX
}

func NewSQLPurchaseOrderRepo(conn db.DBTX) *SQLPurchaseOrderRepo {
	return &SQLPurchaseOrderRepo{db: conn}
}

const orderColumns = `id, po_number, product_id, quantity, delivery_date, received_date, delivered`

func (r *SQLPurchaseOrderRepo) Upsert(ctx context.Context, o *domain.PurchaseOrder) error {
	query := `INSERT INTO purchase_orders (` + orderColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			po_number = excluded.po_number,
			product_id = excluded.product_id,
			quantity = excluded.quantity,
			delivery_date = excluded.delivery_date,
			received_date = excluded.received_date,
			delivered = excluded.delivered`
	_, err := r.db.ExecContext(ctx, query,
		o.ID,
		o.PONumber,
		o.ProductID,
		o.Quantity,
		o.DeliveryDate.Format(dateLayout),
		dateOrNull(o.ReceivedDate),
		boolToInt(o.Delivered),
	)
	if err != nil {
		return fmt.Errorf("upserting purchase order %s: %w", o.PONumber, err)
	}
	return nil
}

func (r *SQLPurchaseOrderRepo) GetByID(ctx context.Context, id int64) (*domain.PurchaseOrder, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM purchase_orders WHERE id = ?`, id)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("purchase order %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning purchase order: %w", err)
	}
	return o, nil
}

func (r *SQLPurchaseOrderRepo) ListOpen(ctx context.Context) ([]domain.PurchaseOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM purchase_orders
		WHERE delivered = 0
		ORDER BY delivery_date, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing open purchase orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.PurchaseOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning purchase order row: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating purchase orders: %w", err)
	}
	return orders, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(s rowScanner) (*domain.PurchaseOrder, error) {
	var o domain.PurchaseOrder
	var delivery string
	var received sql.NullString
	var delivered int
	if err := s.Scan(&o.ID, &o.PONumber, &o.ProductID, &o.Quantity, &delivery, &received, &delivered); err != nil {
		return nil, err
	}
	d, err := time.Parse(dateLayout, delivery)
	if err != nil {
		return nil, fmt.Errorf("parsing delivery date %q: %w", delivery, err)
	}
	o.DeliveryDate = d
	if r := parseNullableTime(received, dateLayout); r != nil {
		o.ReceivedDate = *r
	}
	o.Delivered = intToBool(delivered)
	return &o, nil
}
