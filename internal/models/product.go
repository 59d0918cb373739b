// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a single sellable catalog item. Description is
// Markdown source; the public catalog renders it to HTML on the way out.
// Prices are integer cents to avoid float rounding.
type Product struct {
	ID          uuid.UUID  `json:"id"`
	SKU         string     `json:"sku"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	BrandID     *uuid.UUID `json:"brand_id"`
	CategoryID  *uuid.UUID `json:"category_id"`
	PriceCents  int64      `json:"price_cents"`
	Stock       int        `json:"stock"`
	ImageKey    string     `json:"image_key"` // S3 object key, empty if no image
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// DescriptionHTML is rendered from Description for public responses.
	// Never persisted.
	DescriptionHTML string `json:"description_html,omitempty"`
}

// InStock returns true if the product has units available.
func (p *Product) InStock() bool {
	return p.Stock > 0
}
