package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/sujinlee/moamall/app/models"
	"github.com/sujinlee/moamall/app/repositories"
	"github.com/sujinlee/moamall/pkg/orm"
)

// ErrOrderNotFound hides whether an order is missing or belongs to a
// different channel.
var ErrOrderNotFound = errors.New("order not found")

// OrderQueryService answers read-side order questions for members, guests
// holding an access token, and the admin console.
type OrderQueryService struct {
	orders *repositories.OrderRepository
}

func NewOrderQueryService(orders *repositories.OrderRepository) *OrderQueryService {
	return &OrderQueryService{orders: orders}
}

// ForUser lists a member's own orders, newest first.
func (s *OrderQueryService) ForUser(userID uint, page, limit int) ([]models.Order, orm.Pagination, error) {
	return s.orders.ForUser(userID, page, limit)
}

// GuestByID loads a guest-channel order by primary key. Member orders read
// as not found so a leaked token cannot cross channels.
func (s *OrderQueryService) GuestByID(id uint) (models.Order, error) {
	order, err := s.orders.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, ErrOrderNotFound
		}
		return models.Order{}, fmt.Errorf("load order %d: %w", id, err)
	}
	if !order.IsGuest() {
		return models.Order{}, ErrOrderNotFound
	}
	return order, nil
}

// All lists every order for the admin console.
func (s *OrderQueryService) All(page, limit int) ([]models.Order, orm.Pagination, error) {
	return s.orders.All(page, limit)
}
