// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"rigworks/internal/middleware"
	"rigworks/internal/store"
	"rigworks/internal/tree"
)

// Wishlist groups the customer wishlist endpoints. Items are keyed by
// (user, product), so adding the same product twice is a no-op.
type Wishlist struct {
	wishlistStore *store.WishlistStore
	productStore  *store.ProductStore
}

func NewWishlist(wishlistStore *store.WishlistStore, productStore *store.ProductStore) *Wishlist {
	return &Wishlist{wishlistStore: wishlistStore, productStore: productStore}
}

// List serves the logged-in customer's wishlist, newest first.
func (h *Wishlist) List(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	items, err := h.wishlistStore.ListByUser(sess.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, items, nil)
}

type wishlistRequest struct {
	ProductID uuid.UUID `json:"productId"`
}

// Add puts a product on the logged-in customer's wishlist.
func (h *Wishlist) Add(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req wishlistRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	product, err := h.productStore.FindByID(req.ProductID)
	if err != nil {
		writeError(w, err)
		return
	}
	if product == nil || !product.IsActive {
		writeError(w, fmt.Errorf("product %s: %w", req.ProductID, tree.ErrNotFound))
		return
	}

	if err := h.wishlistStore.Add(sess.UserID, req.ProductID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]bool{"added": true})
}

// Remove takes a product off the logged-in customer's wishlist.
func (h *Wishlist) Remove(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	productID, err := uuid.Parse(chi.URLParam(r, "productId"))
	if err != nil {
		writeErrorMsg(w, http.StatusNotFound, "not found")
		return
	}

	removed, err := h.wishlistStore.Remove(sess.UserID, productID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !removed {
		writeErrorMsg(w, http.StatusNotFound, "wishlist item not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"removed": true})
}
