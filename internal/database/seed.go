// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: a default
// admin user and a small starter catalog. The admin will be prompted to
// set up 2FA on first login (totp_enabled = false).
func Seed(db *sql.DB) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	// Hash the default admin password.
	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	// Insert default admin user. 2FA is not enabled — they must set it up
	// on first login.
	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name, role, totp_enabled)
		VALUES ($1, $2, $3, $4, $5)
	`, "admin@rigworks.local", string(hash), "Admin", "admin", false)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	if err := seedCatalog(db); err != nil {
		return err
	}

	slog.Info("database seeded with default admin user",
		"email", "admin@rigworks.local",
		"password", "admin",
	)

	return nil
}

// seedCatalog inserts a starter category tree, a couple of brands, and a
// handful of products so a fresh install has something to browse.
func seedCatalog(db *sql.DB) error {
	insertCategory := func(name, slug string, parentID sql.NullString, path string, level, sortOrder int) (string, error) {
		var id string
		err := db.QueryRow(`
			INSERT INTO categories (name, slug, parent_id, path, level, sort_order)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`, name, slug, parentID, path, level, sortOrder).Scan(&id)
		if err != nil {
			return "", fmt.Errorf("seed category %s: %w", slug, err)
		}
		return id, nil
	}

	componentsID, err := insertCategory("Components", "components", sql.NullString{}, "", 0, 0)
	if err != nil {
		return err
	}
	parent := sql.NullString{String: componentsID, Valid: true}
	cpusID, err := insertCategory("CPUs", "cpus", parent, componentsID+"/", 1, 0)
	if err != nil {
		return err
	}
	gpusID, err := insertCategory("GPUs", "gpus", parent, componentsID+"/", 1, 1)
	if err != nil {
		return err
	}
	peripheralsID, err := insertCategory("Peripherals", "peripherals", sql.NullString{}, "", 0, 1)
	if err != nil {
		return err
	}

	insertBrand := func(name, slug string) (string, error) {
		var id string
		err := db.QueryRow(`
			INSERT INTO brands (name, slug) VALUES ($1, $2) RETURNING id
		`, name, slug).Scan(&id)
		if err != nil {
			return "", fmt.Errorf("seed brand %s: %w", slug, err)
		}
		return id, nil
	}

	amdID, err := insertBrand("AMD", "amd")
	if err != nil {
		return err
	}
	nvidiaID, err := insertBrand("NVIDIA", "nvidia")
	if err != nil {
		return err
	}
	logitechID, err := insertBrand("Logitech", "logitech")
	if err != nil {
		return err
	}

	products := []struct {
		sku, name, slug string
		brandID         string
		categoryID      string
		priceCents      int64
		stock           int
	}{
		{"CPU-R7-9800X", "Ryzen 7 9800X", "ryzen-7-9800x", amdID, cpusID, 44900, 12},
		{"GPU-RTX-5070", "GeForce RTX 5070", "geforce-rtx-5070", nvidiaID, gpusID, 69900, 5},
		{"KB-G915-TKL", "G915 TKL Keyboard", "g915-tkl-keyboard", logitechID, peripheralsID, 19900, 30},
	}
	for _, p := range products {
		_, err := db.Exec(`
			INSERT INTO products (sku, name, slug, brand_id, category_id, price_cents, stock)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, p.sku, p.name, p.slug, p.brandID, p.categoryID, p.priceCents, p.stock)
		if err != nil {
			return fmt.Errorf("seed product %s: %w", p.sku, err)
		}
	}

	return nil
}
