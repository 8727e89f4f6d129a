package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/sujinlee/moamall/app/models"
	"github.com/sujinlee/moamall/app/repositories"
)

// ErrBadShippingStatus rejects statuses outside the known lifecycle.
var ErrBadShippingStatus = errors.New("unknown shipping status")

// ShippingUpdate carries an admin shipping change. Empty string fields
// leave the stored value untouched.
type ShippingUpdate struct {
	Status         string
	Company        string
	TrackingNumber string
	Note           string
}

// ShippingService applies shipping updates to orders and stamps the
// shipped / delivered transition times.
type ShippingService struct {
	orders *repositories.OrderRepository
}

func NewShippingService(orders *repositories.OrderRepository) *ShippingService {
	return &ShippingService{orders: orders}
}

func validShippingStatus(s string) bool {
	switch s {
	case models.ShippingPreparing, models.ShippingShipped, models.ShippingDelivered:
		return true
	}
	return false
}

func (s *ShippingService) Update(orderID uint, in ShippingUpdate) (models.Order, error) {
	order, err := s.orders.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, ErrOrderNotFound
		}
		return models.Order{}, fmt.Errorf("load order %d: %w", orderID, err)
	}

	if in.Status != "" {
		if !validShippingStatus(in.Status) {
			return models.Order{}, ErrBadShippingStatus
		}
		now := time.Now()
		if in.Status == models.ShippingShipped && order.ShippedAt == nil {
			order.ShippedAt = &now
		}
		if in.Status == models.ShippingDelivered && order.DeliveredAt == nil {
			order.DeliveredAt = &now
		}
		order.ShippingStatus = in.Status
	}
	if in.Company != "" {
		order.ShippingCompany = in.Company
	}
	if in.TrackingNumber != "" {
		order.TrackingNumber = in.TrackingNumber
	}
	if in.Note != "" {
		order.ShippingNote = in.Note
	}

	if err := s.orders.Update(&order); err != nil {
		return models.Order{}, fmt.Errorf("update order %d: %w", orderID, err)
	}
	return order, nil
}
