// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler integration
// tests. Tests are skipped when PostgreSQL or Valkey are unavailable.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"rigworks/internal/cache"
	"rigworks/internal/database"
	"rigworks/internal/middleware"
	"rigworks/internal/models"
	"rigworks/internal/session"
	"rigworks/internal/store"
	"rigworks/internal/tree"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "rigworks")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "rigworks")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		// Clean up test session and cache keys.
		for _, pattern := range []string{"session:*", "catalog:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB             *sql.DB
	Valkey         *redis.Client
	Sessions       *session.Store
	UserStore      *store.UserStore
	CategoryStore  *store.CategoryStore
	BrandStore     *store.BrandStore
	ProductStore   *store.ProductStore
	OrderStore     *store.OrderStore
	QuotationStore *store.QuotationStore
	WishlistStore  *store.WishlistStore
	TreeService    *tree.Service
	CatalogCache   *cache.CatalogCache

	Auth       *Auth
	Catalog    *Catalog
	Categories *Categories
	Brands     *Brands
	Products   *Products
	Orders     *Orders
	Quotations *Quotations
	Wishlist   *Wishlist
	Users      *Users
}

// newTestEnv creates a complete test environment with all handler dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	sessions := session.NewStore(vk, false)
	userStore := store.NewUserStore(db)
	categoryStore := store.NewCategoryStore(db)
	brandStore := store.NewBrandStore(db)
	productStore := store.NewProductStore(db)
	orderStore := store.NewOrderStore(db)
	quotationStore := store.NewQuotationStore(db)
	wishlistStore := store.NewWishlistStore(db)
	treeService := tree.NewService(categoryStore)
	catalogCache := cache.NewCatalogCache(vk, 1*time.Minute)

	return &testEnv{
		DB:             db,
		Valkey:         vk,
		Sessions:       sessions,
		UserStore:      userStore,
		CategoryStore:  categoryStore,
		BrandStore:     brandStore,
		ProductStore:   productStore,
		OrderStore:     orderStore,
		QuotationStore: quotationStore,
		WishlistStore:  wishlistStore,
		TreeService:    treeService,
		CatalogCache:   catalogCache,

		Auth:       NewAuth(sessions, userStore),
		Catalog:    NewCatalog(categoryStore, productStore, brandStore, catalogCache, nil),
		Categories: NewCategories(treeService, catalogCache),
		Brands:     NewBrands(brandStore),
		Products:   NewProducts(productStore, categoryStore, brandStore, nil),
		Orders:     NewOrders(orderStore, productStore),
		Quotations: NewQuotations(quotationStore, productStore),
		Wishlist:   NewWishlist(wishlistStore, productStore),
		Users:      NewUsers(userStore),
	}
}

// ctxWithSession adds session data to a context using the middleware key.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, data)
}

// testSession creates a session.Data for testing.
func testSession(userID uuid.UUID, email string, role models.Role, twoFADone bool) *session.Data {
	return &session.Data{
		UserID:      userID,
		Email:       email,
		DisplayName: "Test User",
		Role:        role,
		TwoFADone:   twoFADone,
	}
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// withChiURLParamAndSession adds both chi URL param and session to a request.
func withChiURLParamAndSession(r *http.Request, key, value string, sess *session.Data) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middleware.SessionKey, sess)
	return r.WithContext(ctx)
}

// cleanCategories removes test categories by slug, leaves first so the
// parent FK never blocks a delete.
func cleanCategories(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for i := len(slugs) - 1; i >= 0; i-- {
		db.Exec("DELETE FROM categories WHERE slug = $1", slugs[i])
	}
}

// cleanBrands removes test brands by slug.
func cleanBrands(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, s := range slugs {
		db.Exec("DELETE FROM brands WHERE slug = $1", s)
	}
}

// cleanProducts removes test products by slug.
func cleanProducts(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, s := range slugs {
		db.Exec("DELETE FROM products WHERE slug = $1", s)
	}
}

// cleanUsers removes test users by email.
func cleanUsers(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, e := range emails {
		db.Exec("DELETE FROM users WHERE email = $1", e)
	}
}
