// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// QuotationStatus is the lifecycle state of a quotation.
type QuotationStatus string

const (
	QuotationStatusDraft    QuotationStatus = "draft"
	QuotationStatusSent     QuotationStatus = "sent"
	QuotationStatusAccepted QuotationStatus = "accepted"
	QuotationStatusRejected QuotationStatus = "rejected"
)

// Valid reports whether s is a known quotation status.
func (s QuotationStatus) Valid() bool {
	switch s {
	case QuotationStatusDraft, QuotationStatusSent, QuotationStatusAccepted, QuotationStatusRejected:
		return true
	}
	return false
}

// Quotation is a priced offer prepared for a prospective customer,
// typically for bulk or custom-build requests that don't go through the
// regular cart flow.
type Quotation struct {
	ID            uuid.UUID       `json:"id"`
	Number        string          `json:"number"` // e.g. "QT-2026-000042"
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	CustomerPhone string          `json:"customer_phone"`
	Status        QuotationStatus `json:"status"`
	TotalCents    int64           `json:"total_cents"`
	ExpiresAt     *time.Time      `json:"expires_at"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	Items []QuotationItem `json:"items,omitempty"`
}

// QuotationItem is a single product line on a quotation.
type QuotationItem struct {
	ID             uuid.UUID `json:"id"`
	QuotationID    uuid.UUID `json:"quotation_id"`
	ProductID      uuid.UUID `json:"product_id"`
	ProductName    string    `json:"product_name"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int64     `json:"unit_price_cents"`
}

// Expired returns true if the quotation has an expiry in the past.
func (q *Quotation) Expired() bool {
	return q.ExpiresAt != nil && q.ExpiresAt.Before(time.Now())
}
