// Package routes wires every HTTP endpoint onto the named router.
package routes

import (
	"net/http"
	"time"

	"github.com/sujinlee/moamall/app/controllers"
	"github.com/sujinlee/moamall/pkg/metrics"
	"github.com/sujinlee/moamall/pkg/middleware"
	"github.com/sujinlee/moamall/pkg/rbac"
	"github.com/sujinlee/moamall/pkg/router"
)

// Controllers carries every constructed controller plus the standalone
// handlers the route table mounts.
type Controllers struct {
	Auth          *controllers.AuthController
	Catalog       *controllers.CatalogController
	Cart          *controllers.CartController
	Checkout      *controllers.CheckoutController
	GuestOrder    *controllers.GuestOrderController
	Orders        *controllers.OrderController
	AdminProducts *controllers.AdminProductController
	AdminOrders   *controllers.AdminOrderController
	Chat          *controllers.ChatController

	// GraphQL serves the public read-only catalogue schema.
	GraphQL http.HandlerFunc
}

// RegisterAPI mounts the full route table.
func RegisterAPI(r *router.Router, c Controllers) {
	api := r.Group("/api")

	// ─── Auth ────────────────────────────────────────────────────────────
	api.Post("/register", "auth.register", c.Auth.Register)
	api.Post("/login", "auth.login", c.Auth.Login)
	api.Get("/profile", "auth.profile", c.Auth.Profile, middleware.Auth)

	// ─── Public catalogue ────────────────────────────────────────────────
	api.Get("/products", "catalog.index", c.Catalog.List)
	api.Get("/products/{id}", "catalog.show", c.Catalog.Show)
	api.Get("/categories", "catalog.categories", c.Catalog.Categories)

	// ─── Cart (session-backed, works for guests and members) ────────────
	api.Get("/cart", "cart.show", c.Cart.Show)
	api.Post("/cart/items", "cart.add", c.Cart.Add)
	api.Patch("/cart/items", "cart.update", c.Cart.Update)
	api.Delete("/cart/items/{product_id}", "cart.remove", c.Cart.Remove)

	// ─── Checkout: member when a JWT is presented, guest otherwise ──────
	api.Post("/checkout", "checkout.place", c.Checkout.Place, middleware.OptionalAuth)

	// ─── Guest order lookup ──────────────────────────────────────────────
	// Rate-limited harder than the rest of the API: each attempt costs a
	// scrypt verification and failed guesses must stay expensive.
	lookupLimit := middleware.RateLimit(10, time.Minute)
	api.Post("/orders/guest/lookup", "orders.guest.lookup", c.GuestOrder.Lookup, lookupLimit)
	api.Get("/orders/guest/{token}", "orders.guest.show", c.GuestOrder.Show)

	// ─── Member orders ───────────────────────────────────────────────────
	api.Get("/orders", "orders.index", c.Orders.Index, middleware.Auth)

	// ─── Admin console ───────────────────────────────────────────────────
	admin := api.Group("/admin", middleware.Auth, rbac.HasRole("admin"))
	admin.Get("/products", "admin.products.index", c.AdminProducts.Index)
	admin.Post("/products", "admin.products.create", c.AdminProducts.Create)
	admin.Get("/products/{id}", "admin.products.show", c.AdminProducts.Show)
	admin.Put("/products/{id}", "admin.products.update", c.AdminProducts.Update)
	admin.Delete("/products/{id}", "admin.products.delete", c.AdminProducts.Delete)
	admin.Post("/products/{id}/image", "admin.products.image", c.AdminProducts.UploadImage)
	admin.Get("/orders", "admin.orders.index", c.AdminOrders.Index)
	admin.Patch("/orders/{id}/shipping", "admin.orders.shipping", c.AdminOrders.UpdateShipping)
	admin.Get("/orders/feed", "admin.orders.feed", c.AdminOrders.Feed)
	admin.Get("/chat/stats", "admin.chat.stats", c.Chat.Stats)

	// ─── GraphQL (public, read-only) ─────────────────────────────────────
	if c.GraphQL != nil {
		r.Get("/graphql", "graphql", c.GraphQL)
		r.Post("/graphql", "graphql.post", c.GraphQL)
	}

	// ─── Realtime chat ───────────────────────────────────────────────────
	r.Get("/ws/chat", "chat.connect", c.Chat.Connect)

	// ─── Ops ─────────────────────────────────────────────────────────────
	r.Get("/metrics", "metrics", metrics.Handler())
	r.Get("/healthz", "health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok")) //nolint:errcheck
	})
}
