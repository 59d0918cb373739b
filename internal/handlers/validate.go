// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"rigworks/internal/tree"
)

// Validation limits for catalog fields.
const (
	maxNameLen        = 200
	maxDescriptionLen = 50_000
	maxSKULen         = 64
	maxEmailLen       = 254
	maxPhoneLen       = 40
	maxQuantity       = 10_000
	maxLineItems      = 200
)

// validateName checks a required display name. All validators return
// errors wrapping tree.ErrValidation so writeError maps them to 422.
func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name is required: %w", tree.ErrValidation)
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return fmt.Errorf("name is too long (max %d characters): %w", maxNameLen, tree.ErrValidation)
	}
	return nil
}

// validateDescription checks an optional Markdown description.
func validateDescription(description string) error {
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return fmt.Errorf("description is too long (max %d characters): %w", maxDescriptionLen, tree.ErrValidation)
	}
	return nil
}

// validateProduct checks product form inputs beyond the shared name rule.
func validateProduct(sku string, priceCents int64, stock int) error {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return fmt.Errorf("sku is required: %w", tree.ErrValidation)
	}
	if utf8.RuneCountInString(sku) > maxSKULen {
		return fmt.Errorf("sku is too long (max %d characters): %w", maxSKULen, tree.ErrValidation)
	}
	if priceCents < 0 {
		return fmt.Errorf("price must not be negative: %w", tree.ErrValidation)
	}
	if stock < 0 {
		return fmt.Errorf("stock must not be negative: %w", tree.ErrValidation)
	}
	return nil
}

// validateEmail performs a light syntactic check. Deliverability is the
// mail server's problem, not ours.
func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is required: %w", tree.ErrValidation)
	}
	if utf8.RuneCountInString(email) > maxEmailLen {
		return fmt.Errorf("email is too long: %w", tree.ErrValidation)
	}
	at := strings.IndexByte(email, '@')
	if at < 1 || at == len(email)-1 {
		return fmt.Errorf("email is not valid: %w", tree.ErrValidation)
	}
	return nil
}

// validateLineItems checks order/quotation line item shape.
func validateLineItems(count int, quantities []int) error {
	if count == 0 {
		return fmt.Errorf("at least one line item is required: %w", tree.ErrValidation)
	}
	if count > maxLineItems {
		return fmt.Errorf("too many line items (max %d): %w", maxLineItems, tree.ErrValidation)
	}
	for _, q := range quantities {
		if q < 1 {
			return fmt.Errorf("quantity must be at least 1: %w", tree.ErrValidation)
		}
		if q > maxQuantity {
			return fmt.Errorf("quantity is too large (max %d): %w", maxQuantity, tree.ErrValidation)
		}
	}
	return nil
}
