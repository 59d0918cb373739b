// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"rigworks/internal/middleware"
	"rigworks/internal/models"
	"rigworks/internal/store"
	"rigworks/internal/tree"
)

// Orders groups the order endpoints: customer checkout and order
// history, plus the back-office order table.
type Orders struct {
	orderStore   *store.OrderStore
	productStore *store.ProductStore
}

func NewOrders(orderStore *store.OrderStore, productStore *store.ProductStore) *Orders {
	return &Orders{orderStore: orderStore, productStore: productStore}
}

type lineItemRequest struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

type createOrderRequest struct {
	Items []lineItemRequest `json:"items"`
}

// Create places an order for the logged-in customer. Unit prices are
// read from the catalog at this moment and frozen on the line items, so
// later price edits never rewrite order history.
func (h *Orders) Create(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req createOrderRequest
	if !decodeJSON(w, r, &req) {
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

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		product, err := h.productStore.FindByID(it.ProductID)
		if err != nil {
			writeError(w, err)
			return
		}
		if product == nil || !product.IsActive {
			writeError(w, fmt.Errorf("product %s is not available: %w", it.ProductID, tree.ErrValidation))
			return
		}
		// Early shortfall check for a friendly error; the authoritative
		// guard is the stock decrement inside the order transaction.
		if product.Stock < it.Quantity {
			writeError(w, fmt.Errorf("product %s has insufficient stock: %w", product.SKU, tree.ErrConflict))
			return
		}
		items = append(items, models.OrderItem{
			ProductID:      product.ID,
			ProductName:    product.Name,
			Quantity:       it.Quantity,
			UnitPriceCents: product.PriceCents,
		})
	}

	order, err := h.orderStore.Create(sess.UserID, items)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

// My serves the logged-in customer's own order history.
func (h *Orders) My(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	orders, err := h.orderStore.ListByUser(sess.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, orders, nil)
}

// List serves the back-office order table, optionally filtered by status.
func (h *Orders) List(w http.ResponseWriter, r *http.Request) {
	status := models.OrderStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		writeErrorMsg(w, http.StatusUnprocessableEntity, "invalid status")
		return
	}

	orders, err := h.orderStore.List(status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, orders, nil)
}

// Get serves a single order with its line items.
func (h *Orders) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	order, err := h.orderStore.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if order == nil {
		writeErrorMsg(w, http.StatusNotFound, "order not found")
		return
	}
	writeJSON(w, http.StatusOK, order)
}

type orderStatusRequest struct {
	Status models.OrderStatus `json:"status"`
}

// UpdateStatus transitions an order to a new lifecycle state.
func (h *Orders) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req orderStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !req.Status.Valid() {
		writeErrorMsg(w, http.StatusUnprocessableEntity, "invalid status")
		return
	}

	order, err := h.orderStore.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if order == nil {
		writeErrorMsg(w, http.StatusNotFound, "order not found")
		return
	}

	if err := h.orderStore.UpdateStatus(id, req.Status); err != nil {
		writeError(w, err)
		return
	}
	order.Status = req.Status
	writeJSON(w, http.StatusOK, order)
}

// Delete removes an order and its line items.
func (h *Orders) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	order, err := h.orderStore.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if order == nil {
		writeErrorMsg(w, http.StatusNotFound, "order not found")
		return
	}

	if err := h.orderStore.Delete(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
