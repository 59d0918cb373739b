// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"rigworks/internal/models"
	"rigworks/internal/tree"
)

// querier is the subset of database/sql operations the stores use.
// Both *sql.DB and *sql.Tx satisfy it, so the same query methods serve
// plain calls and transaction-scoped calls.
type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
	Exec(query string, args ...any) (sql.Result, error)
}

// CategoryStore manages category records in the database. It implements
// tree.Store: the tree engine decides what to write, this store decides
// how. Transact hands the engine a transaction-scoped copy so a whole
// move commits or rolls back as one unit.
type CategoryStore struct {
	db *sql.DB
	q  querier
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db, q: db}
}

const categoryColumns = `id, name, slug, description, parent_id, path, level, sort_order, is_active, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description,
		&c.ParentID, &c.Path, &c.Level, &c.SortOrder,
		&c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func collectCategories(rows *sql.Rows) ([]models.Category, error) {
	defer rows.Close()
	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	row := s.q.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindBySlug retrieves a category by slug. Returns nil if not found.
func (s *CategoryStore) FindBySlug(slug string) (*models.Category, error) {
	row := s.q.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slug)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// ListAll returns all categories, optionally filtered by a
// case-insensitive name substring. Ordered by level then sort_order so
// parents precede their children.
func (s *CategoryStore) ListAll(search string) ([]models.Category, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if search == "" {
		rows, err = s.q.Query(`SELECT ` + categoryColumns + ` FROM categories ORDER BY level, sort_order, name`)
	} else {
		rows, err = s.q.Query(`SELECT `+categoryColumns+` FROM categories WHERE name ILIKE '%' || $1 || '%' ORDER BY level, sort_order, name`, search)
	}
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return collectCategories(rows)
}

// ListActive returns all active categories for the public storefront.
func (s *CategoryStore) ListActive() ([]models.Category, error) {
	rows, err := s.q.Query(`SELECT ` + categoryColumns + ` FROM categories WHERE is_active ORDER BY level, sort_order, name`)
	if err != nil {
		return nil, fmt.Errorf("list active categories: %w", err)
	}
	return collectCategories(rows)
}

// ListChildren returns the sibling group under parentID (nil for roots),
// ordered by sort_order with id as tiebreak.
func (s *CategoryStore) ListChildren(parentID *uuid.UUID) ([]models.Category, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if parentID == nil {
		rows, err = s.q.Query(`SELECT ` + categoryColumns + ` FROM categories WHERE parent_id IS NULL ORDER BY sort_order, id`)
	} else {
		rows, err = s.q.Query(`SELECT `+categoryColumns+` FROM categories WHERE parent_id = $1 ORDER BY sort_order, id`, *parentID)
	}
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	return collectCategories(rows)
}

// ListDescendants returns every category whose path starts with the given
// subtree prefix. Paths are uuid segments, so no LIKE metacharacters can
// appear in the prefix.
func (s *CategoryStore) ListDescendants(pathPrefix string) ([]models.Category, error) {
	rows, err := s.q.Query(`SELECT `+categoryColumns+` FROM categories WHERE path LIKE $1 || '%' ORDER BY path, sort_order`, pathPrefix)
	if err != nil {
		return nil, fmt.Errorf("list descendants: %w", err)
	}
	return collectCategories(rows)
}

// NextSortOrder returns the next sort_order value for a given parent.
func (s *CategoryStore) NextSortOrder(parentID *uuid.UUID) (int, error) {
	var maxOrder sql.NullInt64
	var err error
	if parentID == nil {
		err = s.q.QueryRow(`SELECT MAX(sort_order) FROM categories WHERE parent_id IS NULL`).Scan(&maxOrder)
	} else {
		err = s.q.QueryRow(`SELECT MAX(sort_order) FROM categories WHERE parent_id = $1`, *parentID).Scan(&maxOrder)
	}
	if err != nil {
		return 0, fmt.Errorf("next sort order: %w", err)
	}
	if maxOrder.Valid {
		return int(maxOrder.Int64) + 1, nil
	}
	return 0, nil
}

// SlugTaken reports whether another category already uses the slug.
func (s *CategoryStore) SlugTaken(slug string, excludeID *uuid.UUID) (bool, error) {
	var exists bool
	var err error
	if excludeID == nil {
		err = s.q.QueryRow(`SELECT EXISTS (SELECT 1 FROM categories WHERE slug = $1)`, slug).Scan(&exists)
	} else {
		err = s.q.QueryRow(`SELECT EXISTS (SELECT 1 FROM categories WHERE slug = $1 AND id <> $2)`, slug, *excludeID).Scan(&exists)
	}
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return exists, nil
}

// HasProducts reports whether any product is still assigned to the category.
func (s *CategoryStore) HasProducts(categoryID uuid.UUID) (bool, error) {
	var exists bool
	err := s.q.QueryRow(`SELECT EXISTS (SELECT 1 FROM products WHERE category_id = $1)`, categoryID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check category products: %w", err)
	}
	return exists, nil
}

// Insert stores a new category and returns it with generated fields.
func (s *CategoryStore) Insert(c *models.Category) (*models.Category, error) {
	row := s.q.QueryRow(`
		INSERT INTO categories (name, slug, description, parent_id, path, level, sort_order, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Description, c.ParentID, c.Path, c.Level, c.SortOrder, c.IsActive,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return result, nil
}

// UpdateFields modifies the plain-edit columns of a category. Structural
// columns are only written through UpdateStructure and UpdateSortOrder.
func (s *CategoryStore) UpdateFields(c *models.Category) error {
	_, err := s.q.Exec(`
		UPDATE categories SET
			name = $1, slug = $2, description = $3, is_active = $4, updated_at = NOW()
		WHERE id = $5
	`, c.Name, c.Slug, c.Description, c.IsActive, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// UpdateStructure rewrites the structural columns of one category.
func (s *CategoryStore) UpdateStructure(id uuid.UUID, parentID *uuid.UUID, path string, level, sortOrder int) error {
	_, err := s.q.Exec(`
		UPDATE categories SET
			parent_id = $1, path = $2, level = $3, sort_order = $4, updated_at = NOW()
		WHERE id = $5
	`, parentID, path, level, sortOrder, id)
	if err != nil {
		return fmt.Errorf("update category structure: %w", err)
	}
	return nil
}

// UpdateSortOrder rewrites a single category's position among its siblings.
func (s *CategoryStore) UpdateSortOrder(id uuid.UUID, sortOrder int) error {
	_, err := s.q.Exec(`UPDATE categories SET sort_order = $1, updated_at = NOW() WHERE id = $2`, sortOrder, id)
	if err != nil {
		return fmt.Errorf("update category sort order: %w", err)
	}
	return nil
}

// Delete removes a category by ID.
func (s *CategoryStore) Delete(id uuid.UUID) error {
	_, err := s.q.Exec(`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// Transact runs fn against a transaction-scoped view of the store and
// commits only if fn returns nil. The deferred rollback is a no-op after
// a successful commit, so every exit path either commits or rolls back.
func (s *CategoryStore) Transact(fn func(tx tree.Store) error) error {
	sqlTx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&CategoryStore{db: s.db, q: sqlTx}); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
