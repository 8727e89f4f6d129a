package repositories

import (
	"gorm.io/gorm"

	"github.com/sujinlee/moamall/app/models"
	"github.com/sujinlee/moamall/pkg/orm"
)

// ProductRepository handles database operations for Product and Category.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Published returns published products, newest first, with pagination.
func (r *ProductRepository) Published(page, limit int) ([]models.Product, orm.Pagination, error) {
	var products []models.Product
	pagination, err := orm.From(r.db).
		Model(&models.Product{}).
		Where("published = ?", true).
		Order("created_at desc").
		Preload("Category").
		GetWithPagination(&products, page, limit)
	return products, pagination, err
}

// FindByID looks up a product by primary key.
func (r *ProductRepository) FindByID(id uint) (models.Product, error) {
	var product models.Product
	err := orm.From(r.db).
		Model(&models.Product{}).
		Where("id = ?", id).
		Preload("Category").
		First(&product)
	return product, err
}

// FindByIDs loads several products at once (cart pricing).
func (r *ProductRepository) FindByIDs(ids []uint) ([]models.Product, error) {
	var products []models.Product
	err := orm.From(r.db).Model(&models.Product{}).Where("id IN ?", ids).Get(&products)
	return products, err
}

// Categories returns all categories ordered by name.
func (r *ProductRepository) Categories() ([]models.Category, error) {
	var categories []models.Category
	err := orm.From(r.db).Model(&models.Category{}).Order("name asc").Get(&categories)
	return categories, err
}

// Create persists a new product.
func (r *ProductRepository) Create(p *models.Product) error {
	return r.db.Create(p).Error
}

// Update persists changes to an existing product.
func (r *ProductRepository) Update(p *models.Product) error {
	return r.db.Save(p).Error
}

// Delete soft-deletes a product.
func (r *ProductRepository) Delete(id uint) error {
	return r.db.Delete(&models.Product{}, id).Error
}

// All returns every product including unpublished ones, for the admin
// console.
func (r *ProductRepository) All(page, limit int) ([]models.Product, orm.Pagination, error) {
	var products []models.Product
	pagination, err := orm.From(r.db).
		Model(&models.Product{}).
		Preload("Category").
		Order("id DESC").
		GetWithPagination(&products, page, limit)
	return products, pagination, err
}
