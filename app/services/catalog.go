package services

import (
	"fmt"
	"time"

	"github.com/sujinlee/moamall/app/models"
	"github.com/sujinlee/moamall/app/repositories"
	"github.com/sujinlee/moamall/pkg/cache"
	"github.com/sujinlee/moamall/pkg/orm"
)

// catalogCacheTTL bounds staleness of the public product listing.
const catalogCacheTTL = 5 * time.Minute

// CatalogService serves the public product catalogue with Redis-backed
// read caching. Admin mutations call Invalidate to drop stale pages.
type CatalogService struct {
	products *repositories.ProductRepository
}

func NewCatalogService(products *repositories.ProductRepository) *CatalogService {
	return &CatalogService{products: products}
}

type cachedPage struct {
	Products   []models.Product `json:"products"`
	Pagination orm.Pagination   `json:"pagination"`
}

// List returns one page of published products, served from cache when warm.
func (s *CatalogService) List(page, limit int) ([]models.Product, orm.Pagination, error) {
	key := fmt.Sprintf("moamall:catalog:page:%d:%d", page, limit)

	var cached cachedPage
	if cache.Get(key, &cached) {
		return cached.Products, cached.Pagination, nil
	}

	products, pagination, err := s.products.Published(page, limit)
	if err != nil {
		return nil, orm.Pagination{}, err
	}

	_ = cache.Set(key, cachedPage{Products: products, Pagination: pagination}, catalogCacheTTL)
	return products, pagination, nil
}

// Show returns one product by ID (no caching; detail pages are cheap).
func (s *CatalogService) Show(id uint) (models.Product, error) {
	return s.products.FindByID(id)
}

// Categories returns all categories.
func (s *CatalogService) Categories() ([]models.Category, error) {
	return s.products.Categories()
}

// Invalidate drops all cached catalogue pages after an admin mutation.
func (s *CatalogService) Invalidate() {
	keys, err := cache.Keys("moamall:catalog:page:*")
	if err != nil || len(keys) == 0 {
		return
	}
	_ = cache.Del(keys...)
}
