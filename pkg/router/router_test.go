package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sujinlee/moamall/pkg/router"
)

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func TestNamedRoutesAndURL(t *testing.T) {
	r := router.New()
	r.Get("/products/{id}", "catalog.show", ok)

	path, found := r.Path("catalog.show")
	if !found || path != "/products/{id}" {
		t.Fatalf("Path = %q, %v", path, found)
	}

	url, err := r.URL("catalog.show", map[string]string{"id": "42"})
	if err != nil {
		t.Fatalf("URL: %v", err)
	}
	if url != "/products/42" {
		t.Errorf("URL = %q, want /products/42", url)
	}
}

func TestGroupPrefixAndMiddleware(t *testing.T) {
	var order []string
	mw := func(tag string) router.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, tag)
				next.ServeHTTP(w, r)
			})
		}
	}

	r := router.New()
	api := r.Group("/api", mw("group"))
	api.Get("/orders", "orders.index", ok, mw("route"))

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(order) != 2 || order[0] != "group" || order[1] != "route" {
		t.Errorf("middleware order = %v, want [group route]", order)
	}
}

func TestNestedGroups(t *testing.T) {
	r := router.New()
	api := r.Group("/api")
	admin := api.Group("/admin")
	admin.Patch("/orders/{id}/shipping", "admin.orders.shipping", ok)

	req := httptest.NewRequest(http.MethodPatch, "/api/admin/orders/7/shipping", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRoutesListing(t *testing.T) {
	r := router.New()
	r.Get("/healthz", "health", ok)
	r.Post("/api/checkout", "checkout.place", ok)

	routes := r.Routes()
	if len(routes) != 2 {
		t.Fatalf("routes = %d, want 2", len(routes))
	}

	names := map[string]bool{}
	for _, rt := range routes {
		names[rt.Name] = true
	}
	if !names["health"] || !names["checkout.place"] {
		t.Errorf("route names missing: %v", names)
	}
}
