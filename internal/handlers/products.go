// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"rigworks/internal/imaging"
	"rigworks/internal/models"
	"rigworks/internal/slug"
	"rigworks/internal/storage"
	"rigworks/internal/store"
	"rigworks/internal/tree"
)

// maxImageSize caps product image uploads at 10 MB.
const maxImageSize = 10 << 20

// allowedImageTypes lists the sniffed content types accepted for
// product images.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Products groups the back-office product endpoints, including image
// upload to object storage.
type Products struct {
	productStore  *store.ProductStore
	categoryStore *store.CategoryStore
	brandStore    *store.BrandStore
	storageClient *storage.Client
}

func NewProducts(productStore *store.ProductStore, categoryStore *store.CategoryStore, brandStore *store.BrandStore, storageClient *storage.Client) *Products {
	return &Products{
		productStore:  productStore,
		categoryStore: categoryStore,
		brandStore:    brandStore,
		storageClient: storageClient,
	}
}

// List serves the paginated admin product table with the same filters
// the storefront exposes, plus inactive records.
func (h *Products) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r)
	filter := store.ProductFilter{
		Search: r.URL.Query().Get("search"),
		Page:   page,
		Limit:  limit,
	}

	if raw := r.URL.Query().Get("categoryId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeErrorMsg(w, http.StatusUnprocessableEntity, "invalid categoryId")
			return
		}
		filter.CategoryID = &id
	}
	if raw := r.URL.Query().Get("brandId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeErrorMsg(w, http.StatusUnprocessableEntity, "invalid brandId")
			return
		}
		filter.BrandID = &id
	}

	products, total, err := h.productStore.List(filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeList(w, products, &Meta{
		CurrentPage: page,
		Limit:       limit,
		TotalCount:  total,
		TotalPages:  totalPages(total, limit),
	})
}

// Get serves a single product by id.
func (h *Products) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	product, err := h.productStore.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if product == nil {
		writeErrorMsg(w, http.StatusNotFound, "product not found")
		return
	}
	writeJSON(w, http.StatusOK, product)
}

type productRequest struct {
	SKU         string     `json:"sku"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	BrandID     *uuid.UUID `json:"brandId"`
	CategoryID  *uuid.UUID `json:"categoryId"`
	PriceCents  int64      `json:"priceCents"`
	Stock       int        `json:"stock"`
	IsActive    bool       `json:"isActive"`
}

func (h *Products) validateRefs(req productRequest) error {
	if req.CategoryID != nil {
		category, err := h.categoryStore.FindByID(*req.CategoryID)
		if err != nil {
			return err
		}
		if category == nil {
			return fmt.Errorf("category %s: %w", *req.CategoryID, tree.ErrValidation)
		}
	}
	if req.BrandID != nil {
		brand, err := h.brandStore.FindByID(*req.BrandID)
		if err != nil {
			return err
		}
		if brand == nil {
			return fmt.Errorf("brand %s: %w", *req.BrandID, tree.ErrValidation)
		}
	}
	return nil
}

// Create adds a new product.
func (h *Products) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
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
	if err := validateProduct(req.SKU, req.PriceCents, req.Stock); err != nil {
		writeError(w, err)
		return
	}
	if err := h.validateRefs(req); err != nil {
		writeError(w, err)
		return
	}

	uniqueSlug, err := h.uniqueSlug(req.Name, nil)
	if err != nil {
		writeError(w, err)
		return
	}

	created, err := h.productStore.Create(&models.Product{
		SKU:         req.SKU,
		Name:        req.Name,
		Slug:        uniqueSlug,
		Description: req.Description,
		BrandID:     req.BrandID,
		CategoryID:  req.CategoryID,
		PriceCents:  req.PriceCents,
		Stock:       req.Stock,
		IsActive:    req.IsActive,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update edits a product, recomputing the slug when the name changed.
func (h *Products) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req productRequest
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
	if err := validateProduct(req.SKU, req.PriceCents, req.Stock); err != nil {
		writeError(w, err)
		return
	}
	if err := h.validateRefs(req); err != nil {
		writeError(w, err)
		return
	}

	product, err := h.productStore.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if product == nil {
		writeErrorMsg(w, http.StatusNotFound, "product not found")
		return
	}

	if req.Name != product.Name {
		product.Slug, err = h.uniqueSlug(req.Name, &id)
		if err != nil {
			writeError(w, err)
			return
		}
	}
	product.SKU = req.SKU
	product.Name = req.Name
	product.Description = req.Description
	product.BrandID = req.BrandID
	product.CategoryID = req.CategoryID
	product.PriceCents = req.PriceCents
	product.Stock = req.Stock
	product.IsActive = req.IsActive

	if err := h.productStore.Update(product); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// UploadImage accepts a multipart image upload for a product and stores
// it in the product-images bucket. A previous image is deleted after
// the replacement is in place.
func (h *Products) UploadImage(w http.ResponseWriter, r *http.Request) {
	if h.storageClient == nil {
		writeErrorMsg(w, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}

	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	product, err := h.productStore.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if product == nil {
		writeErrorMsg(w, http.StatusNotFound, "product not found")
		return
	}

	// Limit request body to maxImageSize + some overhead for form fields.
	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize+1024)
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		writeErrorMsg(w, http.StatusRequestEntityTooLarge, "file too large, maximum size is 10 MB")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	if header.Size > maxImageSize {
		writeErrorMsg(w, http.StatusRequestEntityTooLarge, "file too large, maximum size is 10 MB")
		return
	}

	// Detect content type by sniffing the first 512 bytes.
	sniffBuf := make([]byte, 512)
	n, err := file.Read(sniffBuf)
	if err != nil && err != io.EOF {
		writeErrorMsg(w, http.StatusInternalServerError, "failed to read file")
		return
	}
	contentType := http.DetectContentType(sniffBuf[:n])
	if !allowedImageTypes[contentType] {
		writeErrorMsg(w, http.StatusBadRequest, fmt.Sprintf("file type %q is not allowed", contentType))
		return
	}

	// Seek back to start after sniffing.
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		writeErrorMsg(w, http.StatusInternalServerError, "failed to process file")
		return
	}

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		writeErrorMsg(w, http.StatusInternalServerError, "failed to read file")
		return
	}

	ctx := r.Context()
	key := storage.ProductImageKey(id, header.Filename)
	if err := h.storageClient.Upload(ctx, key, contentType, bytes.NewReader(fileBytes), int64(len(fileBytes))); err != nil {
		slog.Error("s3 upload failed", "error", err, "key", key)
		writeErrorMsg(w, http.StatusInternalServerError, "failed to upload file")
		return
	}

	// Generate the listing thumbnail. A failure here is logged but never
	// blocks the upload; the storefront falls back to the full image.
	thumbData, err := imaging.Thumbnail(fileBytes, imaging.ThumbWidth)
	if err != nil {
		slog.Warn("thumbnail generation failed", "error", err, "key", key)
	} else if thumbData != nil {
		thumbKey := storage.ProductThumbKey(id)
		if err := h.storageClient.Upload(ctx, thumbKey, "image/jpeg", bytes.NewReader(thumbData), int64(len(thumbData))); err != nil {
			slog.Warn("thumbnail upload failed", "error", err, "key", thumbKey)
		}
	}

	oldKey := product.ImageKey
	if err := h.productStore.SetImageKey(id, key); err != nil {
		writeError(w, err)
		return
	}
	if oldKey != "" && oldKey != key {
		if err := h.storageClient.Delete(ctx, oldKey); err != nil {
			slog.Warn("failed to delete previous product image", "error", err, "key", oldKey)
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"image_key": key,
		"image_url": h.storageClient.FileURL(key),
	})
}

// Delete removes a product and its stored image.
func (h *Products) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	product, err := h.productStore.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if product == nil {
		writeErrorMsg(w, http.StatusNotFound, "product not found")
		return
	}

	if err := h.productStore.Delete(id); err != nil {
		writeError(w, err)
		return
	}
	if product.ImageKey != "" && h.storageClient != nil {
		if err := h.storageClient.Delete(r.Context(), product.ImageKey); err != nil {
			slog.Warn("failed to delete product image", "error", err, "key", product.ImageKey)
		}
		thumbKey := storage.ProductThumbKey(id)
		if err := h.storageClient.Delete(r.Context(), thumbKey); err != nil {
			slog.Warn("failed to delete product thumbnail", "error", err, "key", thumbKey)
		}
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *Products) uniqueSlug(name string, excludeID *uuid.UUID) (string, error) {
	var lookupErr error
	unique := slug.Unique(slug.Generate(name), func(candidate string) bool {
		if lookupErr != nil {
			return false
		}
		taken, err := h.productStore.SlugTaken(candidate, excludeID)
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
