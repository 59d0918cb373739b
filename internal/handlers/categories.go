// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"rigworks/internal/cache"
	"rigworks/internal/models"
	"rigworks/internal/tree"
)

// Categories groups the back-office category endpoints. All structural
// work (paths, levels, sort orders, cycle checks) happens in the tree
// service; the handlers only translate HTTP to service calls and drop
// the storefront cache after every mutation.
type Categories struct {
	service      *tree.Service
	catalogCache *cache.CatalogCache
}

func NewCategories(service *tree.Service, catalogCache *cache.CatalogCache) *Categories {
	return &Categories{service: service, catalogCache: catalogCache}
}

// List serves the assembled category forest for the admin tree view,
// paginated over root nodes. Orphaned nodes are appended after the
// roots so broken records stay visible and fixable from the UI.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r)
	search := r.URL.Query().Get("search")

	roots, orphans, err := h.service.Tree(search)
	if err != nil {
		writeError(w, err)
		return
	}
	roots = append(roots, orphans...)

	total := len(roots)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	writeList(w, roots[start:end], &Meta{
		CurrentPage: page,
		Limit:       limit,
		TotalCount:  total,
		TotalPages:  totalPages(total, limit),
	})
}

// Get serves a single category by id.
func (h *Categories) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	category, err := h.service.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

type categoryRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parentId"`
	IsActive    bool       `json:"isActive"`
}

// Create adds a new category under the given parent (null for root).
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validateName(req.Name); err != nil {
		writeError(w, err)
		return
	}
	if err := validateDescription(req.Description); err != nil {
		writeError(w, err)
		return
	}

	created, err := h.service.Create(tree.CreateInput{
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
		IsActive:    req.IsActive,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.catalogCache.InvalidateTree(r.Context())
	writeJSON(w, http.StatusCreated, created)
}

// Update applies a plain field edit. Parent, path, level, and sort
// order never change here; that is what Move is for.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req categoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validateName(req.Name); err != nil {
		writeError(w, err)
		return
	}
	if err := validateDescription(req.Description); err != nil {
		writeError(w, err)
		return
	}

	updated, err := h.service.Update(id, tree.UpdateInput{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.catalogCache.InvalidateTree(r.Context())
	writeJSON(w, http.StatusOK, updated)
}

type moveRequest struct {
	NewParentID  *uuid.UUID `json:"newParentId"`
	NewSortOrder int        `json:"newSortOrder"`
}

// Move reparents and/or reorders a category. Responds with every record
// that changed so the admin tree view can patch itself without a full
// reload.
func (h *Categories) Move(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req moveRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	changed, err := h.service.Move(id, req.NewParentID, req.NewSortOrder)
	if err != nil {
		writeError(w, err)
		return
	}
	if changed == nil {
		changed = []models.Category{}
	}

	h.catalogCache.InvalidateTree(r.Context())
	writeList(w, changed, nil)
}

// Delete removes a category. Without ?detach=true it refuses while the
// node still has subcategories or assigned products.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}
	detach := r.URL.Query().Get("detach") == "true"

	if err := h.service.Delete(id, detach); err != nil {
		writeError(w, err)
		return
	}

	h.catalogCache.InvalidateTree(r.Context())
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// parseIDParam reads the {id} chi route parameter as a UUID, writing a
// 404 if it does not parse. Shared by every admin handler group.
func parseIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorMsg(w, http.StatusNotFound, "not found")
		return uuid.Nil, false
	}
	return id, true
}
