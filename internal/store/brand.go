// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"rigworks/internal/models"
)

// BrandStore manages brands in the database.
type BrandStore struct {
	db *sql.DB
}

// NewBrandStore returns a new BrandStore.
func NewBrandStore(db *sql.DB) *BrandStore {
	return &BrandStore{db: db}
}

const brandColumns = `id, name, slug, description, logo_key, is_active, created_at, updated_at`

func scanBrand(scanner interface{ Scan(...any) error }) (*models.Brand, error) {
	var b models.Brand
	err := scanner.Scan(
		&b.ID, &b.Name, &b.Slug, &b.Description,
		&b.LogoKey, &b.IsActive, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// List returns all brands ordered by name.
func (s *BrandStore) List() ([]models.Brand, error) {
	rows, err := s.db.Query(`SELECT ` + brandColumns + ` FROM brands ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	defer rows.Close()

	var items []models.Brand
	for rows.Next() {
		b, err := scanBrand(rows)
		if err != nil {
			return nil, fmt.Errorf("scan brand: %w", err)
		}
		items = append(items, *b)
	}
	return items, rows.Err()
}

// FindByID retrieves a brand by ID. Returns nil if not found.
func (s *BrandStore) FindByID(id uuid.UUID) (*models.Brand, error) {
	row := s.db.QueryRow(`SELECT `+brandColumns+` FROM brands WHERE id = $1`, id)
	b, err := scanBrand(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find brand by id: %w", err)
	}
	return b, nil
}

// FindBySlug retrieves a brand by slug. Returns nil if not found.
func (s *BrandStore) FindBySlug(slug string) (*models.Brand, error) {
	row := s.db.QueryRow(`SELECT `+brandColumns+` FROM brands WHERE slug = $1`, slug)
	b, err := scanBrand(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find brand by slug: %w", err)
	}
	return b, nil
}

// SlugTaken reports whether another brand already uses the slug.
func (s *BrandStore) SlugTaken(slug string, excludeID *uuid.UUID) (bool, error) {
	var exists bool
	var err error
	if excludeID == nil {
		err = s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM brands WHERE slug = $1)`, slug).Scan(&exists)
	} else {
		err = s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM brands WHERE slug = $1 AND id <> $2)`, slug, *excludeID).Scan(&exists)
	}
	if err != nil {
		return false, fmt.Errorf("check brand slug: %w", err)
	}
	return exists, nil
}

// Create inserts a new brand and returns it.
func (s *BrandStore) Create(b *models.Brand) (*models.Brand, error) {
	row := s.db.QueryRow(`
		INSERT INTO brands (name, slug, description, logo_key, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+brandColumns,
		b.Name, b.Slug, b.Description, b.LogoKey, b.IsActive,
	)
	result, err := scanBrand(row)
	if err != nil {
		return nil, fmt.Errorf("create brand: %w", err)
	}
	return result, nil
}

// Update modifies an existing brand.
func (s *BrandStore) Update(b *models.Brand) error {
	_, err := s.db.Exec(`
		UPDATE brands SET
			name = $1, slug = $2, description = $3, logo_key = $4, is_active = $5, updated_at = NOW()
		WHERE id = $6
	`, b.Name, b.Slug, b.Description, b.LogoKey, b.IsActive, b.ID)
	if err != nil {
		return fmt.Errorf("update brand: %w", err)
	}
	return nil
}

// HasProducts reports whether any product still references the brand.
func (s *BrandStore) HasProducts(brandID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM products WHERE brand_id = $1)`, brandID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check brand products: %w", err)
	}
	return exists, nil
}

// Delete removes a brand by ID.
func (s *BrandStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM brands WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete brand: %w", err)
	}
	return nil
}
