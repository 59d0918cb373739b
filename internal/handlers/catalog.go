// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rigworks/internal/cache"
	"rigworks/internal/markdown"
	"rigworks/internal/models"
	"rigworks/internal/storage"
	"rigworks/internal/store"
	"rigworks/internal/tree"
)

// Catalog groups the public storefront read endpoints. Everything here
// serves anonymous traffic, so responses only ever contain active records.
type Catalog struct {
	categoryStore *store.CategoryStore
	productStore  *store.ProductStore
	brandStore    *store.BrandStore
	catalogCache  *cache.CatalogCache
	storageClient *storage.Client
}

// NewCatalog creates a new Catalog handler group. storageClient may be
// nil if S3 is not configured; image URLs are omitted in that case.
func NewCatalog(categoryStore *store.CategoryStore, productStore *store.ProductStore, brandStore *store.BrandStore, catalogCache *cache.CatalogCache, storageClient *storage.Client) *Catalog {
	return &Catalog{
		categoryStore: categoryStore,
		productStore:  productStore,
		brandStore:    brandStore,
		catalogCache:  catalogCache,
		storageClient: storageClient,
	}
}

// Health reports liveness for load balancer probes.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Tree serves the assembled active-category tree. The serialized
// response is cached in Valkey; category mutations invalidate it.
func (c *Catalog) Tree(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if body, ok := c.catalogCache.Get(ctx, cache.TreeKey()); ok {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write(body)
		return
	}

	nodes, err := c.categoryStore.ListActive()
	if err != nil {
		writeError(w, err)
		return
	}

	roots, orphans := tree.Assemble(nodes)
	if len(orphans) > 0 {
		// Orphans point at missing or inactive parents and keep their
		// descendants nested under them. Not fatal for the listing, but
		// worth surfacing as an integrity signal.
		slog.Warn("category tree has orphans",
			"fragments", len(orphans),
			"nodes", len(tree.Flatten(orphans)))
	}
	if roots == nil {
		roots = []models.Category{}
	}

	body, err := json.Marshal(envelope{Data: roots})
	if err != nil {
		writeError(w, err)
		return
	}
	c.catalogCache.Set(ctx, cache.TreeKey(), body)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Write(body)
}

// categoryDetail is the public category page payload.
type categoryDetail struct {
	models.Category
	DescriptionHTML string            `json:"description_html,omitempty"`
	ChildNodes      []models.Category `json:"child_nodes"`
}

// CategoryBySlug serves one active category with its direct children and
// the Markdown description rendered to HTML.
func (c *Catalog) CategoryBySlug(w http.ResponseWriter, r *http.Request) {
	slugParam := chi.URLParam(r, "slug")

	category, err := c.categoryStore.FindBySlug(slugParam)
	if err != nil {
		writeError(w, err)
		return
	}
	if category == nil || !category.IsActive {
		writeErrorMsg(w, http.StatusNotFound, "category not found")
		return
	}

	children, err := c.categoryStore.ListChildren(&category.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	active := make([]models.Category, 0, len(children))
	for _, child := range children {
		if child.IsActive {
			active = append(active, child)
		}
	}

	html, err := markdown.ToHTML(category.Description)
	if err != nil {
		slog.Warn("category description render failed", "slug", slugParam, "error", err)
	}

	writeJSON(w, http.StatusOK, categoryDetail{
		Category:        *category,
		DescriptionHTML: html,
		ChildNodes:      active,
	})
}

// publicProduct decorates a product with its public image URL.
type publicProduct struct {
	models.Product
	ImageURL string `json:"image_url,omitempty"`
}

func (c *Catalog) toPublicProduct(p models.Product) publicProduct {
	out := publicProduct{Product: p}
	if p.ImageKey != "" && c.storageClient != nil {
		out.ImageURL = c.storageClient.FileURL(p.ImageKey)
	}
	return out
}

// Products serves the paginated public product listing, filterable by
// category slug, brand slug, and name search.
func (c *Catalog) Products(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r)
	filter := store.ProductFilter{
		Search:     r.URL.Query().Get("search"),
		ActiveOnly: true,
		Page:       page,
		Limit:      limit,
	}

	if catSlug := r.URL.Query().Get("category"); catSlug != "" {
		category, err := c.categoryStore.FindBySlug(catSlug)
		if err != nil {
			writeError(w, err)
			return
		}
		if category == nil || !category.IsActive {
			writeErrorMsg(w, http.StatusNotFound, "category not found")
			return
		}
		filter.CategoryID = &category.ID
	}

	if brandSlug := r.URL.Query().Get("brand"); brandSlug != "" {
		brand, err := c.brandStore.FindBySlug(brandSlug)
		if err != nil {
			writeError(w, err)
			return
		}
		if brand == nil || !brand.IsActive {
			writeErrorMsg(w, http.StatusNotFound, "brand not found")
			return
		}
		filter.BrandID = &brand.ID
	}

	products, total, err := c.productStore.List(filter)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]publicProduct, 0, len(products))
	for _, p := range products {
		out = append(out, c.toPublicProduct(p))
	}

	writeList(w, out, &Meta{
		CurrentPage: page,
		Limit:       limit,
		TotalCount:  total,
		TotalPages:  totalPages(total, limit),
	})
}

// ProductBySlug serves one active product with its description rendered
// to HTML.
func (c *Catalog) ProductBySlug(w http.ResponseWriter, r *http.Request) {
	slugParam := chi.URLParam(r, "slug")

	product, err := c.productStore.FindBySlug(slugParam)
	if err != nil {
		writeError(w, err)
		return
	}
	if product == nil || !product.IsActive {
		writeErrorMsg(w, http.StatusNotFound, "product not found")
		return
	}

	html, err := markdown.ToHTML(product.Description)
	if err != nil {
		slog.Warn("product description render failed", "slug", slugParam, "error", err)
	}
	product.DescriptionHTML = html

	writeJSON(w, http.StatusOK, c.toPublicProduct(*product))
}

// Brands serves the active brand list for storefront filters.
func (c *Catalog) Brands(w http.ResponseWriter, r *http.Request) {
	brands, err := c.brandStore.List()
	if err != nil {
		writeError(w, err)
		return
	}

	active := make([]models.Brand, 0, len(brands))
	for _, b := range brands {
		if b.IsActive {
			active = append(active, b)
		}
	}
	writeList(w, active, nil)
}

