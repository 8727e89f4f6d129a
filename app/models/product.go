package models

import "gorm.io/gorm"

// Category groups products for browsing.
type Category struct {
	gorm.Model
	Name string `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Slug string `gorm:"size:255;not null;uniqueIndex" json:"slug"`
}

// Product represents a product in the catalogue.
type Product struct {
	gorm.Model
	CategoryID  uint     `gorm:"index"                  json:"category_id"`
	Category    Category `gorm:"foreignKey:CategoryID"  json:"category,omitempty"`
	Name        string   `gorm:"size:255;not null;index" json:"name"`
	Description string   `gorm:"type:text"              json:"description"`
	Price       float64  `gorm:"not null;default:0"     json:"price"`
	Stock       int      `gorm:"not null;default:0"     json:"stock"`
	SKU         string   `gorm:"size:100;uniqueIndex"   json:"sku"`
	ImagePath   string   `gorm:"size:512"               json:"image_path"`
	Published   bool     `gorm:"default:true;index"     json:"published"`
}
