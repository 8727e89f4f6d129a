package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sujinlee/moamall/app/services"
	"github.com/sujinlee/moamall/pkg/response"
)

type CatalogController struct {
	catalog *services.CatalogService
}

func NewCatalogController(catalog *services.CatalogService) *CatalogController {
	return &CatalogController{catalog: catalog}
}

// List serves the paginated public catalogue. Pages are cached in Redis;
// see CatalogService.
func (c *CatalogController) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)

	products, pagination, err := c.catalog.List(page, limit)
	if err != nil {
		response.ServerError(w)
		return
	}
	response.Paginated(w, products, pagination)
}

func (c *CatalogController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	product, err := c.catalog.Show(id)
	if err != nil {
		response.NotFound(w)
		return
	}
	response.Success(w, product)
}

func (c *CatalogController) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.catalog.Categories()
	if err != nil {
		response.ServerError(w)
		return
	}
	response.Success(w, categories)
}

// ─── Shared param helpers ────────────────────────────────────────────────────

func pageParams(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

func uintParam(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, strconv.ErrSyntax
	}
	return uint(id), nil
}
