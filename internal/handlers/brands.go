// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"rigworks/internal/models"
	"rigworks/internal/slug"
	"rigworks/internal/store"
	"rigworks/internal/tree"
)

// Brands groups the back-office brand endpoints. Brands are flat, so
// unlike categories there is no structural machinery here.
type Brands struct {
	brandStore *store.BrandStore
}

func NewBrands(brandStore *store.BrandStore) *Brands {
	return &Brands{brandStore: brandStore}
}

// List serves all brands, active and inactive, for the admin table.
func (h *Brands) List(w http.ResponseWriter, r *http.Request) {
	brands, err := h.brandStore.List()
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, brands, nil)
}

// Get serves a single brand by id.
func (h *Brands) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	brand, err := h.brandStore.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if brand == nil {
		writeErrorMsg(w, http.StatusNotFound, "brand not found")
		return
	}
	writeJSON(w, http.StatusOK, brand)
}

type brandRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"isActive"`
}

// Create adds a new brand, deriving a globally unique slug from the name.
func (h *Brands) Create(w http.ResponseWriter, r *http.Request) {
	var req brandRequest
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

	uniqueSlug, err := h.uniqueSlug(req.Name, nil)
	if err != nil {
		writeError(w, err)
		return
	}

	created, err := h.brandStore.Create(&models.Brand{
		Name:        req.Name,
		Slug:        uniqueSlug,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update edits a brand, recomputing the slug when the name changed.
func (h *Brands) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req brandRequest
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

	brand, err := h.brandStore.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if brand == nil {
		writeErrorMsg(w, http.StatusNotFound, "brand not found")
		return
	}

	if req.Name != brand.Name {
		brand.Slug, err = h.uniqueSlug(req.Name, &id)
		if err != nil {
			writeError(w, err)
			return
		}
	}
	brand.Name = req.Name
	brand.Description = req.Description
	brand.IsActive = req.IsActive

	if err := h.brandStore.Update(brand); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, brand)
}

// Delete removes a brand, refusing while products still reference it.
func (h *Brands) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	brand, err := h.brandStore.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if brand == nil {
		writeErrorMsg(w, http.StatusNotFound, "brand not found")
		return
	}

	hasProducts, err := h.brandStore.HasProducts(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if hasProducts {
		writeError(w, fmt.Errorf("brand has assigned products: %w", tree.ErrConflict))
		return
	}

	if err := h.brandStore.Delete(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *Brands) uniqueSlug(name string, excludeID *uuid.UUID) (string, error) {
	var lookupErr error
	unique := slug.Unique(slug.Generate(name), func(candidate string) bool {
		if lookupErr != nil {
			return false
		}
		taken, err := h.brandStore.SlugTaken(candidate, excludeID)
		if err != nil {
			lookupErr = err
			return false
		}
		return taken
	})
	if lookupErr != nil {
		return "", fmt.Errorf("check slug: %w", lookupErr)
	}
	return unique, nil
}
