// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"rigworks/internal/models"
	"rigworks/internal/store"
	"rigworks/internal/tree"
)

// Quotations groups the back-office quotation endpoints. Quotations are
// staff-prepared offers for bulk or custom-build requests; they never
// go through the customer cart flow.
type Quotations struct {
	quotationStore *store.QuotationStore
	productStore   *store.ProductStore
}

func NewQuotations(quotationStore *store.QuotationStore, productStore *store.ProductStore) *Quotations {
	return &Quotations{quotationStore: quotationStore, productStore: productStore}
}

// List serves the quotation table, optionally filtered by status.
func (h *Quotations) List(w http.ResponseWriter, r *http.Request) {
	status := models.QuotationStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		writeErrorMsg(w, http.StatusUnprocessableEntity, "invalid status")
		return
	}

	quotations, err := h.quotationStore.List(status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, quotations, nil)
}

// Get serves a single quotation with its line items.
func (h *Quotations) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	quotation, err := h.quotationStore.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if quotation == nil {
		writeErrorMsg(w, http.StatusNotFound, "quotation not found")
		return
	}
	writeJSON(w, http.StatusOK, quotation)
}

type quotationItemRequest struct {
	ProductID      uuid.UUID `json:"productId"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents *int64    `json:"unitPriceCents"` // nil means take the current catalog price
}

type createQuotationRequest struct {
	CustomerName  string                 `json:"customerName"`
	CustomerEmail string                 `json:"customerEmail"`
	CustomerPhone string                 `json:"customerPhone"`
	ExpiresAt     *time.Time             `json:"expiresAt"`
	Items         []quotationItemRequest `json:"items"`
}

// Create adds a new draft quotation. Line prices default to the current
// catalog price but staff may override them, since negotiated bulk
// pricing is the whole point of a quotation.
func (h *Quotations) Create(w http.ResponseWriter, r *http.Request) {
	var req createQuotationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validateName(req.CustomerName); err != nil {
		writeError(w, err)
		return
	}
	if err := validateEmail(req.CustomerEmail); err != nil {
		writeError(w, err)
		return
	}
	if len(req.CustomerPhone) > maxPhoneLen {
		writeError(w, fmt.Errorf("phone is too long: %w", tree.ErrValidation))
		return
	}

	quantities := make([]int, 0, len(req.Items))
	for _, it := range req.Items {
		quantities = append(quantities, it.Quantity)
	}
	if err := validateLineItems(len(req.Items), quantities); err != nil {
		writeError(w, err)
		return
	}

	items := make([]models.QuotationItem, 0, len(req.Items))
	for _, it := range req.Items {
		product, err := h.productStore.FindByID(it.ProductID)
		if err != nil {
			writeError(w, err)
			return
		}
		if product == nil {
			writeError(w, fmt.Errorf("product %s: %w", it.ProductID, tree.ErrValidation))
			return
		}

		price := product.PriceCents
		if it.UnitPriceCents != nil {
			if *it.UnitPriceCents < 0 {
				writeError(w, fmt.Errorf("unit price must not be negative: %w", tree.ErrValidation))
				return
			}
			price = *it.UnitPriceCents
		}
		items = append(items, models.QuotationItem{
			ProductID:      product.ID,
			ProductName:    product.Name,
			Quantity:       it.Quantity,
			UnitPriceCents: price,
		})
	}

	created, err := h.quotationStore.Create(&models.Quotation{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		ExpiresAt:     req.ExpiresAt,
		Items:         items,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

type quotationStatusRequest struct {
	Status models.QuotationStatus `json:"status"`
}

// UpdateStatus transitions a quotation. Accepting an expired quotation
// is refused; the customer needs a fresh offer at current prices.
func (h *Quotations) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req quotationStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !req.Status.Valid() {
		writeErrorMsg(w, http.StatusUnprocessableEntity, "invalid status")
		return
	}

	quotation, err := h.quotationStore.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if quotation == nil {
		writeErrorMsg(w, http.StatusNotFound, "quotation not found")
		return
	}
	if req.Status == models.QuotationStatusAccepted && quotation.Expired() {
		writeError(w, fmt.Errorf("quotation has expired: %w", tree.ErrConflict))
		return
	}

	if err := h.quotationStore.UpdateStatus(id, req.Status); err != nil {
		writeError(w, err)
		return
	}
	quotation.Status = req.Status
	writeJSON(w, http.StatusOK, quotation)
}

// Delete removes a quotation and its line items.
func (h *Quotations) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	quotation, err := h.quotationStore.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if quotation == nil {
		writeErrorMsg(w, http.StatusNotFound, "quotation not found")
		return
	}

	if err := h.quotationStore.Delete(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
