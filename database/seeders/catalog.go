package seeders

import (
	"gorm.io/gorm"

	"github.com/sujinlee/moamall/app/models"
	"github.com/sujinlee/moamall/pkg/auth"
)

func init() {
	Register("admin", SeedAdmin)
	Register("catalog", SeedCatalog)
}

// SeedAdmin creates the initial admin account when none exists.
// Override the password immediately in any real deployment.
func SeedAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", "admin").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword("admin1234")
	if err != nil {
		return err
	}

	return db.Create(&models.User{
		Name:     "Admin",
		Email:    "admin@moamall.com",
		Password: hash,
		Role:     "admin",
	}).Error
}

// SeedCatalog inserts a small sample catalogue for local development.
func SeedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	categories := []models.Category{
		{Name: "Stationery", Slug: "stationery"},
		{Name: "Living", Slug: "living"},
		{Name: "Accessories", Slug: "accessories"},
	}
	if err := db.Create(&categories).Error; err != nil {
		return err
	}

	products := []models.Product{
		{CategoryID: categories[0].ID, Name: "A5 Grid Notebook", Description: "96 pages, lay-flat binding.", Price: 6.50, Stock: 120, SKU: "ST-NB-A5G"},
		{CategoryID: categories[0].ID, Name: "Brass Pen", Description: "Machined brass, 0.5mm gel refill.", Price: 24.00, Stock: 40, SKU: "ST-PEN-BR"},
		{CategoryID: categories[1].ID, Name: "Ceramic Mug 350ml", Description: "Matte glaze, dishwasher safe.", Price: 14.00, Stock: 80, SKU: "LV-MUG-350"},
		{CategoryID: categories[1].ID, Name: "Linen Coaster Set", Description: "Set of four, stone washed.", Price: 9.00, Stock: 60, SKU: "LV-CST-LN4"},
		{CategoryID: categories[2].ID, Name: "Canvas Tote", Description: "12oz canvas, interior pocket.", Price: 18.00, Stock: 55, SKU: "AC-TOTE-CV"},
	}
	return db.Create(&products).Error
}
