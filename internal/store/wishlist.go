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

// WishlistStore manages per-user saved products.
type WishlistStore struct {
	db *sql.DB
}

// NewWishlistStore returns a new WishlistStore.
func NewWishlistStore(db *sql.DB) *WishlistStore {
	return &WishlistStore{db: db}
}

// ListByUser returns a user's wishlist entries with the product joined
// in, newest saves first.
func (s *WishlistStore) ListByUser(userID uuid.UUID) ([]models.WishlistItem, error) {
	rows, err := s.db.Query(`
		SELECT w.id, w.user_id, w.product_id, w.created_at,
		       p.id, p.sku, p.name, p.slug, p.description, p.brand_id, p.category_id,
		       p.price_cents, p.stock, p.image_key, p.is_active, p.created_at, p.updated_at
		FROM wishlist_items w
		JOIN products p ON p.id = w.product_id
		WHERE w.user_id = $1
		ORDER BY w.created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	defer rows.Close()

	var items []models.WishlistItem
	for rows.Next() {
		var w models.WishlistItem
		var p models.Product
		err := rows.Scan(
			&w.ID, &w.UserID, &w.ProductID, &w.CreatedAt,
			&p.ID, &p.SKU, &p.Name, &p.Slug, &p.Description, &p.BrandID, &p.CategoryID,
			&p.PriceCents, &p.Stock, &p.ImageKey, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan wishlist item: %w", err)
		}
		w.Product = &p
		items = append(items, w)
	}
	return items, rows.Err()
}

// Add saves a product to a user's wishlist. Saving the same product
// twice is a no-op thanks to the uniqueness constraint.
func (s *WishlistStore) Add(userID, productID uuid.UUID) error {
	_, err := s.db.Exec(`
		INSERT INTO wishlist_items (user_id, product_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, product_id) DO NOTHING
	`, userID, productID)
	if err != nil {
		return fmt.Errorf("add wishlist item: %w", err)
	}
	return nil
}

// Remove deletes a product from a user's wishlist. Reports whether an
// entry was actually removed.
func (s *WishlistStore) Remove(userID, productID uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM wishlist_items WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		return false, fmt.Errorf("remove wishlist item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("remove wishlist item: %w", err)
	}
	return n > 0, nil
}
