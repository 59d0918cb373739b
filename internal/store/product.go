// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"rigworks/internal/models"
)

// ProductStore handles all product-related database operations.
type ProductStore struct {
	db *sql.DB
}

// NewProductStore creates a new ProductStore with the given database connection.
func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

const productColumns = `id, sku, name, slug, description, brand_id, category_id, price_cents, stock, image_key, is_active, created_at, updated_at`

func scanProduct(scanner interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	err := scanner.Scan(
		&p.ID, &p.SKU, &p.Name, &p.Slug, &p.Description,
		&p.BrandID, &p.CategoryID, &p.PriceCents, &p.Stock,
		&p.ImageKey, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ProductFilter narrows a product listing. Zero values mean "no filter";
// Page is 1-based.
type ProductFilter struct {
	CategoryID *uuid.UUID
	BrandID    *uuid.UUID
	Search     string
	ActiveOnly bool
	Page       int
	Limit      int
}

// List returns a page of products matching the filter plus the total
// match count for pagination metadata.
func (s *ProductStore) List(f ProductFilter) ([]models.Product, int, error) {
	var conds []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.CategoryID != nil {
		conds = append(conds, "category_id = "+arg(*f.CategoryID))
	}
	if f.BrandID != nil {
		conds = append(conds, "brand_id = "+arg(*f.BrandID))
	}
	if f.Search != "" {
		p := arg(f.Search)
		conds = append(conds, "(name ILIKE '%' || "+p+" || '%' OR sku ILIKE '%' || "+p+" || '%')")
	}
	if f.ActiveOnly {
		conds = append(conds, "is_active")
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = 20
	}
	query := `SELECT ` + productColumns + ` FROM products` + where +
		` ORDER BY name` +
		` LIMIT ` + arg(limit) + ` OFFSET ` + arg((page-1)*limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var items []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		items = append(items, *p)
	}
	return items, total, rows.Err()
}

// FindByID retrieves a product by ID. Returns nil if not found.
func (s *ProductStore) FindByID(id uuid.UUID) (*models.Product, error) {
	row := s.db.QueryRow(`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product by id: %w", err)
	}
	return p, nil
}

// FindBySlug retrieves an active product by slug for the public catalog.
// Returns nil if not found.
func (s *ProductStore) FindBySlug(slug string) (*models.Product, error) {
	row := s.db.QueryRow(`SELECT `+productColumns+` FROM products WHERE slug = $1 AND is_active`, slug)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product by slug: %w", err)
	}
	return p, nil
}

// SlugTaken reports whether another product already uses the slug.
func (s *ProductStore) SlugTaken(slug string, excludeID *uuid.UUID) (bool, error) {
	var exists bool
	var err error
	if excludeID == nil {
		err = s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM products WHERE slug = $1)`, slug).Scan(&exists)
	} else {
		err = s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM products WHERE slug = $1 AND id <> $2)`, slug, *excludeID).Scan(&exists)
	}
	if err != nil {
		return false, fmt.Errorf("check product slug: %w", err)
	}
	return exists, nil
}

// Create inserts a new product and returns it.
func (s *ProductStore) Create(p *models.Product) (*models.Product, error) {
	row := s.db.QueryRow(`
		INSERT INTO products (sku, name, slug, description, brand_id, category_id, price_cents, stock, image_key, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+productColumns,
		p.SKU, p.Name, p.Slug, p.Description, p.BrandID, p.CategoryID,
		p.PriceCents, p.Stock, p.ImageKey, p.IsActive,
	)
	result, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return result, nil
}

// Update modifies an existing product.
func (s *ProductStore) Update(p *models.Product) error {
	_, err := s.db.Exec(`
		UPDATE products SET
			sku = $1, name = $2, slug = $3, description = $4, brand_id = $5,
			category_id = $6, price_cents = $7, stock = $8, image_key = $9,
			is_active = $10, updated_at = NOW()
		WHERE id = $11
	`, p.SKU, p.Name, p.Slug, p.Description, p.BrandID, p.CategoryID,
		p.PriceCents, p.Stock, p.ImageKey, p.IsActive, p.ID)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// SetImageKey records the S3 object key of the product's image.
func (s *ProductStore) SetImageKey(id uuid.UUID, key string) error {
	_, err := s.db.Exec(`UPDATE products SET image_key = $1, updated_at = NOW() WHERE id = $2`, key, id)
	if err != nil {
		return fmt.Errorf("set product image: %w", err)
	}
	return nil
}

// Delete removes a product by ID.
func (s *ProductStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
