// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// RigWorks API. It organizes routes into public catalog, customer, and
// back-office groups with appropriate middleware stacks.
package router

import (
	"github.com/go-chi/chi/v5"

	"rigworks/internal/handlers"
	"rigworks/internal/middleware"
	"rigworks/internal/session"
)

// Deps bundles everything the router wires together. The login limiter
// is owned by the caller so it can be stopped on shutdown.
type Deps struct {
	Sessions     *session.Store
	Secure       bool // set Secure on auth cookies (production)
	LoginLimiter *middleware.RateLimiter

	Auth       *handlers.Auth
	Catalog    *handlers.Catalog
	Categories *handlers.Categories
	Brands     *handlers.Brands
	Products   *handlers.Products
	Orders     *handlers.Orders
	Quotations *handlers.Quotations
	Wishlist   *handlers.Wishlist
	Users      *handlers.Users
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(d.Sessions))

	// Health check — no auth, no CSRF.
	r.Get("/health", handlers.Health)

	csrf := middleware.NewCSRF(d.Secure)

	// Public storefront catalog — read only, anonymous.
	r.Route("/api/catalog", func(r chi.Router) {
		r.Get("/categories", d.Catalog.Tree)
		r.Get("/categories/{slug}", d.Catalog.CategoryBySlug)
		r.Get("/products", d.Catalog.Products)
		r.Get("/products/{slug}", d.Catalog.ProductBySlug)
		r.Get("/brands", d.Catalog.Brands)
	})

	// Authentication. Login and code verification are rate limited per
	// client IP to slow down credential stuffing.
	r.Route("/api/auth", func(r chi.Router) {
		r.Use(csrf)

		r.With(d.LoginLimiter.Middleware).Post("/login", d.Auth.Login)
		r.Post("/logout", d.Auth.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/2fa/setup", d.Auth.TwoFASetup)
			r.With(d.LoginLimiter.Middleware).Post("/2fa/verify", d.Auth.TwoFAVerify)
			r.Get("/me", d.Auth.Me)
		})
	})

	// Customer area — any authenticated user.
	r.Group(func(r chi.Router) {
		r.Use(csrf)
		r.Use(middleware.RequireAuth)

		r.Route("/api/wishlist", func(r chi.Router) {
			r.Get("/", d.Wishlist.List)
			r.Post("/", d.Wishlist.Add)
			r.Delete("/{productId}", d.Wishlist.Remove)
		})

		r.Route("/api/orders", func(r chi.Router) {
			r.Get("/", d.Orders.My)
			r.Post("/", d.Orders.Create)
		})
	})

	// Back office — authenticated staff or admin with completed 2FA.
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(csrf)
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequireBackOffice)

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", d.Categories.List)
			r.Post("/", d.Categories.Create)
			r.Get("/{id}", d.Categories.Get)
			r.Put("/{id}", d.Categories.Update)
			r.Post("/{id}/move", d.Categories.Move)
			r.Delete("/{id}", d.Categories.Delete)
		})

		r.Route("/brands", func(r chi.Router) {
			r.Get("/", d.Brands.List)
			r.Post("/", d.Brands.Create)
			r.Get("/{id}", d.Brands.Get)
			r.Put("/{id}", d.Brands.Update)
			r.Delete("/{id}", d.Brands.Delete)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", d.Products.List)
			r.Post("/", d.Products.Create)
			r.Get("/{id}", d.Products.Get)
			r.Put("/{id}", d.Products.Update)
			r.Post("/{id}/image", d.Products.UploadImage)
			r.Delete("/{id}", d.Products.Delete)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", d.Orders.List)
			r.Get("/{id}", d.Orders.Get)
			r.Put("/{id}/status", d.Orders.UpdateStatus)
			r.Delete("/{id}", d.Orders.Delete)
		})

		r.Route("/quotations", func(r chi.Router) {
			r.Get("/", d.Quotations.List)
			r.Post("/", d.Quotations.Create)
			r.Get("/{id}", d.Quotations.Get)
			r.Put("/{id}/status", d.Quotations.UpdateStatus)
			r.Delete("/{id}", d.Quotations.Delete)
		})

		// User management — admin only.
		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/", d.Users.List)
			r.Post("/", d.Users.Create)
			r.Post("/{id}/reset-2fa", d.Users.ResetTOTP)
			r.Delete("/{id}", d.Users.Delete)
		})
	})

	return r
}
