// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"rigworks/internal/models"
	"rigworks/internal/tree"
)

// OrderStore handles all order-related database operations.
type OrderStore struct {
	db *sql.DB
}

// NewOrderStore creates a new OrderStore with the given database connection.
func NewOrderStore(db *sql.DB) *OrderStore {
	return &OrderStore{db: db}
}

const orderColumns = `id, number, user_id, status, total_cents, created_at, updated_at`

func scanOrder(scanner interface{ Scan(...any) error }) (*models.Order, error) {
	var o models.Order
	err := scanner.Scan(
		&o.ID, &o.Number, &o.UserID, &o.Status, &o.TotalCents,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// List returns orders newest first, optionally filtered by status.
func (s *OrderStore) List(status models.OrderStatus) ([]models.Order, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if status == "" {
		rows, err = s.db.Query(`SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`)
	} else {
		rows, err = s.db.Query(`SELECT `+orderColumns+` FROM orders WHERE status = $1 ORDER BY created_at DESC`, status)
	}
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var items []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		items = append(items, *o)
	}
	return items, rows.Err()
}

// ListByUser returns a customer's own orders, newest first.
func (s *OrderStore) ListByUser(userID uuid.UUID) ([]models.Order, error) {
	rows, err := s.db.Query(`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user orders: %w", err)
	}
	defer rows.Close()

	var items []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		items = append(items, *o)
	}
	return items, rows.Err()
}

// FindByID retrieves an order with its line items. Returns nil if not found.
func (s *OrderStore) FindByID(id uuid.UUID) (*models.Order, error) {
	row := s.db.QueryRow(`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find order by id: %w", err)
	}

	o.Items, err = s.listItems(id)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (s *OrderStore) listItems(orderID uuid.UUID) ([]models.OrderItem, error) {
	rows, err := s.db.Query(`
		SELECT id, order_id, product_id, product_name, quantity, unit_price_cents
		FROM order_items WHERE order_id = $1 ORDER BY product_name
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity, &it.UnitPriceCents); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Create inserts an order and its line items in one transaction,
// decrementing product stock as it goes. The decrement is guarded so
// two concurrent checkouts can never oversell: whichever transaction
// finds the shelf short rolls back with ErrConflict. The order number
// is drawn from a database sequence so concurrent checkouts never
// collide.
func (s *OrderStore) Create(userID uuid.UUID, items []models.OrderItem) (*models.Order, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, it := range items {
		res, err := tx.Exec(`
			UPDATE products SET stock = stock - $1, updated_at = NOW()
			WHERE id = $2 AND stock >= $1`,
			it.Quantity, it.ProductID,
		)
		if err != nil {
			return nil, fmt.Errorf("reserve stock: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return nil, fmt.Errorf("reserve stock: %w", err)
		} else if n == 0 {
			return nil, fmt.Errorf("product %q has insufficient stock: %w", it.ProductName, tree.ErrConflict)
		}
	}

	var seq int64
	if err := tx.QueryRow(`SELECT nextval('order_number_seq')`).Scan(&seq); err != nil {
		return nil, fmt.Errorf("order number: %w", err)
	}
	number := fmt.Sprintf("RW-%d-%06d", time.Now().Year(), seq)

	var total int64
	for _, it := range items {
		total += it.UnitPriceCents * int64(it.Quantity)
	}

	row := tx.QueryRow(`
		INSERT INTO orders (number, user_id, status, total_cents)
		VALUES ($1, $2, $3, $4)
		RETURNING `+orderColumns,
		number, userID, models.OrderStatusPending, total,
	)
	o, err := scanOrder(row)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price_cents)
		VALUES ($1, $2, $3, $4, $5)`)
	if err != nil {
		return nil, fmt.Errorf("prepare order items: %w", err)
	}
	defer stmt.Close()

	for _, it := range items {
		if _, err := stmt.Exec(o.ID, it.ProductID, it.ProductName, it.Quantity, it.UnitPriceCents); err != nil {
			return nil, fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit order: %w", err)
	}

	o.Items, err = s.listItems(o.ID)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// UpdateStatus transitions an order to a new status.
func (s *OrderStore) UpdateStatus(id uuid.UUID, status models.OrderStatus) error {
	_, err := s.db.Exec(`UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

// Delete removes an order and its items (items cascade in the schema).
func (s *OrderStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}
