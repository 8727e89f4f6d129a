package services

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sujinlee/moamall/app/models"
	"github.com/sujinlee/moamall/app/repositories"
	"github.com/sujinlee/moamall/pkg/orm"
	"github.com/sujinlee/moamall/pkg/storage"
)

// ErrProductNotFound is returned for admin operations on a missing product.
var ErrProductNotFound = errors.New("product not found")

// ErrBadImage is returned for uploads with an unsupported extension.
var ErrBadImage = errors.New("unsupported image type")

var allowedImageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true,
}

// ProductAdminService backs the admin catalogue console. Every mutation
// invalidates the cached public catalogue pages.
type ProductAdminService struct {
	products *repositories.ProductRepository
	catalog  *CatalogService
}

func NewProductAdminService(products *repositories.ProductRepository, catalog *CatalogService) *ProductAdminService {
	return &ProductAdminService{products: products, catalog: catalog}
}

func (s *ProductAdminService) List(page, limit int) ([]models.Product, orm.Pagination, error) {
	return s.products.All(page, limit)
}

func (s *ProductAdminService) Find(id uint) (models.Product, error) {
	p, err := s.products.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

func (s *ProductAdminService) Create(p *models.Product) error {
	if err := s.products.Create(p); err != nil {
		return err
	}
	s.catalog.Invalidate()
	return nil
}

func (s *ProductAdminService) Update(p *models.Product) error {
	if err := s.products.Update(p); err != nil {
		return err
	}
	s.catalog.Invalidate()
	return nil
}

func (s *ProductAdminService) Delete(id uint) error {
	if err := s.products.Delete(id); err != nil {
		return err
	}
	s.catalog.Invalidate()
	return nil
}

// AttachImage stores an uploaded image on the default disk under
// products/{id}/ and records its path on the product. Returns the public URL.
func (s *ProductAdminService) AttachImage(id uint, filename string, file io.Reader) (string, error) {
	product, err := s.Find(id)
	if err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExts[ext] {
		return "", ErrBadImage
	}

	path := fmt.Sprintf("products/%d/%s%s", id, uuid.NewString(), ext)
	if err := storage.PutStream(path, file); err != nil {
		return "", fmt.Errorf("store product image: %w", err)
	}

	product.ImagePath = path
	if err := s.products.Update(&product); err != nil {
		return "", err
	}
	s.catalog.Invalidate()

	return storage.URL(path), nil
}
