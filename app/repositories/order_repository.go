package repositories

import (
	"gorm.io/gorm"

	"github.com/sujinlee/moamall/app/models"
	"github.com/sujinlee/moamall/pkg/orm"
)

// guestPhonePageSize caps how many guest orders a phone lookup scans.
const guestPhonePageSize = 20

// OrderRepository handles database operations for Order.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// DB exposes the underlying handle for transactional services.
func (r *OrderRepository) DB() *gorm.DB { return r.db }

// Create persists a new order with its items.
func (r *OrderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

// FindByID loads an order with items by primary key.
func (r *OrderRepository) FindByID(id uint) (models.Order, error) {
	var order models.Order
	err := orm.From(r.db).
		Model(&models.Order{}).
		Where("id = ?", id).
		Preload("Items").
		First(&order)
	return order, err
}

// FindByCode loads an order by its public uuid code.
func (r *OrderRepository) FindByCode(code string) (models.Order, error) {
	var order models.Order
	err := orm.From(r.db).
		Model(&models.Order{}).
		Where("code = ?", code).
		Preload("Items").
		First(&order)
	return order, err
}

// FindGuestByNumber returns the guest-channel order carrying the given
// guest order number, if any.
func (r *OrderRepository) FindGuestByNumber(number string) (models.Order, error) {
	var order models.Order
	err := orm.From(r.db).
		Model(&models.Order{}).
		Where("channel = ? AND guest_order_number = ?", models.ChannelGuest, number).
		Preload("Items").
		First(&order)
	return order, err
}

// FindGuestByPhone returns guest-channel orders for the normalized phone,
// most recent first, capped at one page. Lookup scans this page only.
func (r *OrderRepository) FindGuestByPhone(phone string) ([]models.Order, error) {
	var orders []models.Order
	err := orm.From(r.db).
		Model(&models.Order{}).
		Where("channel = ? AND customer_phone = ?", models.ChannelGuest, phone).
		Order("created_at desc").
		Limit(guestPhonePageSize).
		Preload("Items").
		Get(&orders)
	return orders, err
}

// ForUser returns a member's own orders with pagination, newest first.
func (r *OrderRepository) ForUser(userID uint, page, limit int) ([]models.Order, orm.Pagination, error) {
	var orders []models.Order
	pagination, err := orm.From(r.db).
		Model(&models.Order{}).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Preload("Items").
		GetWithPagination(&orders, page, limit)
	return orders, pagination, err
}

// All returns all orders with pagination, newest first (admin listing).
func (r *OrderRepository) All(page, limit int) ([]models.Order, orm.Pagination, error) {
	var orders []models.Order
	pagination, err := orm.From(r.db).
		Model(&models.Order{}).
		Order("created_at desc").
		Preload("Items").
		GetWithPagination(&orders, page, limit)
	return orders, pagination, err
}

// Update persists changes to an existing order.
func (r *OrderRepository) Update(order *models.Order) error {
	return r.db.Save(order).Error
}
