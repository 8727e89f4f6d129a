package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sujinlee/moamall/app/models"
	"github.com/sujinlee/moamall/pkg/guestpass"
)

// testDB opens an isolated in-memory database with the full schema.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) models.Product {
	t.Helper()

	cat := models.Category{Name: "Test", Slug: "test-" + name}
	if err := db.FirstOrCreate(&cat, models.Category{Slug: cat.Slug}).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}

	p := models.Product{
		CategoryID: cat.ID,
		Name:       name,
		Price:      price,
		Stock:      stock,
		SKU:        "SKU-" + name,
		Published:  true,
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed product %s: %v", name, err)
	}
	return p
}

// seedGuestOrder inserts a guest order with a hashed lookup password.
// createdAt controls recency for phone-scan ordering tests.
func seedGuestOrder(t *testing.T, db *gorm.DB, number, phone, password string, createdAt time.Time) models.Order {
	t.Helper()

	var hash *string
	if password != "" {
		h, err := guestpass.Hash(password)
		if err != nil {
			t.Fatalf("hash password: %v", err)
		}
		hash = &h
	}

	order := models.Order{
		Code:              uuid.NewString(),
		Channel:           models.ChannelGuest,
		CustomerName:      "Guest",
		CustomerPhone:     phone,
		GuestOrderNumber:  &number,
		GuestPasswordHash: hash,
		PaymentStatus:     models.PaymentPending,
		ShippingStatus:    models.ShippingPreparing,
		AmountTotal:       10,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("seed order %s: %v", number, err)
	}
	// CreatedAt is set by gorm; override for deterministic ordering.
	if err := db.Model(&models.Order{}).Where("id = ?", order.ID).Update("created_at", createdAt).Error; err != nil {
		t.Fatalf("set created_at: %v", err)
	}
	order.CreatedAt = createdAt
	return order
}
