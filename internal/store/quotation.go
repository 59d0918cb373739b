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
)

// QuotationStore handles all quotation-related database operations.
type QuotationStore struct {
	db *sql.DB
}

// NewQuotationStore creates a new QuotationStore with the given database connection.
func NewQuotationStore(db *sql.DB) *QuotationStore {
	return &QuotationStore{db: db}
}

const quotationColumns = `id, number, customer_name, customer_email, customer_phone, status, total_cents, expires_at, created_at, updated_at`

func scanQuotation(scanner interface{ Scan(...any) error }) (*models.Quotation, error) {
	var q models.Quotation
	err := scanner.Scan(
		&q.ID, &q.Number, &q.CustomerName, &q.CustomerEmail, &q.CustomerPhone,
		&q.Status, &q.TotalCents, &q.ExpiresAt, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// List returns quotations newest first, optionally filtered by status.
func (s *QuotationStore) List(status models.QuotationStatus) ([]models.Quotation, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if status == "" {
		rows, err = s.db.Query(`SELECT ` + quotationColumns + ` FROM quotations ORDER BY created_at DESC`)
	} else {
		rows, err = s.db.Query(`SELECT `+quotationColumns+` FROM quotations WHERE status = $1 ORDER BY created_at DESC`, status)
	}
	if err != nil {
		return nil, fmt.Errorf("list quotations: %w", err)
	}
	defer rows.Close()

	var items []models.Quotation
	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quotation: %w", err)
		}
		items = append(items, *q)
	}
	return items, rows.Err()
}

// FindByID retrieves a quotation with its line items. Returns nil if not found.
func (s *QuotationStore) FindByID(id uuid.UUID) (*models.Quotation, error) {
	row := s.db.QueryRow(`SELECT `+quotationColumns+` FROM quotations WHERE id = $1`, id)
	q, err := scanQuotation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find quotation by id: %w", err)
	}

	q.Items, err = s.listItems(id)
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuotationStore) listItems(quotationID uuid.UUID) ([]models.QuotationItem, error) {
	rows, err := s.db.Query(`
		SELECT id, quotation_id, product_id, product_name, quantity, unit_price_cents
		FROM quotation_items WHERE quotation_id = $1 ORDER BY product_name
	`, quotationID)
	if err != nil {
		return nil, fmt.Errorf("list quotation items: %w", err)
	}
	defer rows.Close()

	var items []models.QuotationItem
	for rows.Next() {
		var it models.QuotationItem
		if err := rows.Scan(&it.ID, &it.QuotationID, &it.ProductID, &it.ProductName, &it.Quantity, &it.UnitPriceCents); err != nil {
			return nil, fmt.Errorf("scan quotation item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Create inserts a quotation and its line items in one transaction.
func (s *QuotationStore) Create(q *models.Quotation) (*models.Quotation, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.QueryRow(`SELECT nextval('quotation_number_seq')`).Scan(&seq); err != nil {
		return nil, fmt.Errorf("quotation number: %w", err)
	}
	number := fmt.Sprintf("QT-%d-%06d", time.Now().Year(), seq)

	var total int64
	for _, it := range q.Items {
		total += it.UnitPriceCents * int64(it.Quantity)
	}

	row := tx.QueryRow(`
		INSERT INTO quotations (number, customer_name, customer_email, customer_phone, status, total_cents, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+quotationColumns,
		number, q.CustomerName, q.CustomerEmail, q.CustomerPhone,
		models.QuotationStatusDraft, total, q.ExpiresAt,
	)
	created, err := scanQuotation(row)
	if err != nil {
		return nil, fmt.Errorf("create quotation: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO quotation_items (quotation_id, product_id, product_name, quantity, unit_price_cents)
		VALUES ($1, $2, $3, $4, $5)`)
	if err != nil {
		return nil, fmt.Errorf("prepare quotation items: %w", err)
	}
	defer stmt.Close()

	for _, it := range q.Items {
		if _, err := stmt.Exec(created.ID, it.ProductID, it.ProductName, it.Quantity, it.UnitPriceCents); err != nil {
			return nil, fmt.Errorf("insert quotation item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit quotation: %w", err)
	}

	created.Items, err = s.listItems(created.ID)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateStatus transitions a quotation to a new status.
func (s *QuotationStore) UpdateStatus(id uuid.UUID, status models.QuotationStatus) error {
	_, err := s.db.Exec(`UPDATE quotations SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update quotation status: %w", err)
	}
	return nil
}

// Delete removes a quotation and its items (items cascade in the schema).
func (s *QuotationStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM quotations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete quotation: %w", err)
	}
	return nil
}
