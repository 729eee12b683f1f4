package order

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const orderColumns = `order_id, user_id, items, items_price, discount, shipping_price, total_price,
	delivery_id, payment_id, full_name, address, phone, status, is_paid, paid_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (Order, error) {
	var (
		ord      Order
		itemsRaw []byte
		paidAt   sql.NullTime
	)
	err := row.Scan(&ord.OrderID, &ord.UserID, &itemsRaw, &ord.ItemsPrice, &ord.Discount, &ord.ShippingPrice, &ord.TotalPrice,
		&ord.DeliveryID, &ord.PaymentID, &ord.FullName, &ord.Address, &ord.Phone, &ord.Status, &ord.IsPaid, &paidAt,
		&ord.CreatedAt, &ord.UpdatedAt)
	if err != nil {
		return Order{}, err
	}
	if len(itemsRaw) > 0 {
		if err := json.Unmarshal(itemsRaw, &ord.Items); err != nil {
			return Order{}, fmt.Errorf("decode order items: %w", err)
		}
	}
	if paidAt.Valid {
		t := paidAt.Time
		ord.PaidAt = &t
	}
	return ord, nil
}

func (r *PostgresRepository) Create(ord Order) (Order, error) {
	itemsJSON, err := json.Marshal(ord.Items)
	if err != nil {
		return Order{}, err
	}
	if ord.Status == "" {
		ord.Status = StatusPending
	}

	row := r.db.QueryRow(`INSERT INTO orders (user_id, items, items_price, discount, shipping_price, total_price,
		delivery_id, payment_id, full_name, address, phone, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING `+orderColumns,
		ord.UserID, string(itemsJSON), ord.ItemsPrice, ord.Discount, ord.ShippingPrice, ord.TotalPrice,
		ord.DeliveryID, ord.PaymentID, ord.FullName, ord.Address, ord.Phone, ord.Status)
	created, err := scanOrder(row)
	if err != nil {
		return Order{}, fmt.Errorf("insert order: %w", err)
	}
	return created, nil
}

func (r *PostgresRepository) GetByID(id int) (Order, error) {
	ord, err := scanOrder(r.db.QueryRow(`SELECT `+orderColumns+` FROM orders WHERE order_id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}
	return ord, nil
}

func (r *PostgresRepository) ListByUser(userID int) ([]Order, error) {
	rows, err := r.db.Query(`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC, order_id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, ord)
	}
	return orders, rows.Err()
}

// MarkPaid is idempotent: an already paid order keeps its first paid_at.
func (r *PostgresRepository) MarkPaid(id int, paidAt time.Time) (Order, error) {
	ord, err := scanOrder(r.db.QueryRow(`UPDATE orders
		SET is_paid = TRUE, status = $2, paid_at = COALESCE(paid_at, $3), updated_at = now()
		WHERE order_id = $1
		RETURNING `+orderColumns, id, StatusPaid, paidAt))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}
	return ord, nil
}
