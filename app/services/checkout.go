package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sujinlee/moamall/app/models"
	"github.com/sujinlee/moamall/app/repositories"
	"github.com/sujinlee/moamall/pkg/event"
	"github.com/sujinlee/moamall/pkg/guestpass"
	"github.com/sujinlee/moamall/pkg/logger"
	"github.com/sujinlee/moamall/pkg/metrics"
)

// EventOrderPlaced is fired after a checkout commits.
const EventOrderPlaced = "order.placed"

// orderNumberRetries bounds the retry loop when a freshly generated guest
// order number collides with the unique index.
const orderNumberRetries = 3

// ErrEmptyCart rejects a checkout with no purchasable lines.
var ErrEmptyCart = errors.New("checkout: cart is empty")

// ErrInsufficientStock rejects a checkout when a line exceeds stock.
var ErrInsufficientStock = errors.New("checkout: insufficient stock")

// CheckoutInput carries everything needed to place an order.
// UserID is set for member checkouts; guest checkouts must instead carry a
// lookup password so the order can be retrieved later.
type CheckoutInput struct {
	Cart    Cart
	UserID  *uint
	Name    string
	Phone   string
	Email   string
	Address string
	// GuestPassword is the plaintext lookup password for guest checkouts.
	GuestPassword string
}

// CheckoutService turns carts into orders.
type CheckoutService struct {
	db       *gorm.DB
	products *repositories.ProductRepository
	orders   *repositories.OrderRepository
}

func NewCheckoutService(db *gorm.DB, products *repositories.ProductRepository, orders *repositories.OrderRepository) *CheckoutService {
	return &CheckoutService{db: db, products: products, orders: orders}
}

// Place creates an order from the cart inside one transaction: stock is
// decremented with guarded updates, line prices are copied from the current
// catalogue, and guest orders get a hashed credential plus a unique guest
// order number (retried on collision). Fires EventOrderPlaced on success.
func (s *CheckoutService) Place(in CheckoutInput) (models.Order, error) {
	if in.Cart.IsEmpty() {
		return models.Order{}, ErrEmptyCart
	}

	order := models.Order{
		Code:          uuid.NewString(),
		Channel:       models.ChannelMember,
		UserID:        in.UserID,
		CustomerName:  strings.TrimSpace(in.Name),
		CustomerPhone: NormalizePhone(in.Phone),
		CustomerEmail: strings.TrimSpace(in.Email),
		Address:       strings.TrimSpace(in.Address),
		PaymentStatus: models.PaymentPending,
	}

	if in.UserID == nil {
		order.Channel = models.ChannelGuest
		hash, err := guestpass.Hash(in.GuestPassword)
		if err != nil {
			return models.Order{}, fmt.Errorf("checkout: hash guest password: %w", err)
		}
		order.GuestPasswordHash = &hash
	}

	err := s.placeWithRetry(&order, in.Cart)
	if err != nil {
		return models.Order{}, err
	}

	metrics.OrdersPlaced.WithLabelValues(order.Channel).Inc()
	logger.Info("checkout: order placed",
		"code", order.Code, "channel", order.Channel, "total", order.AmountTotal)

	event.FireAsync(EventOrderPlaced, order)
	return order, nil
}

// placeWithRetry runs the checkout transaction, regenerating the guest
// order number when the unique index rejects it.
func (s *CheckoutService) placeWithRetry(order *models.Order, cart Cart) error {
	attempts := 1
	if order.Channel == models.ChannelGuest {
		attempts = orderNumberRetries
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if order.Channel == models.ChannelGuest {
			number, err := GenerateGuestOrderNumber(time.Now())
			if err != nil {
				return err
			}
			order.GuestOrderNumber = &number
		}

		lastErr = s.transact(order, cart)
		if lastErr == nil {
			return nil
		}
		if !errors.Is(lastErr, gorm.ErrDuplicatedKey) {
			return lastErr
		}
		logger.Warn("checkout: guest order number collision, retrying",
			"attempt", i+1)
	}
	return fmt.Errorf("checkout: exhausted order number retries: %w", lastErr)
}

func (s *CheckoutService) transact(order *models.Order, cart Cart) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		order.Items = order.Items[:0]
		order.AmountTotal = 0

		for _, item := range cart.Items {
			var product models.Product
			if err := tx.First(&product, item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue // product withdrawn since it was carted
				}
				return fmt.Errorf("checkout: load product %d: %w", item.ProductID, err)
			}

			// Guarded decrement: only succeeds if enough stock remains.
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", product.ID, item.Quantity).
				Update("stock", gorm.Expr("stock - ?", item.Quantity))
			if res.Error != nil {
				return fmt.Errorf("checkout: decrement stock: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: %s", ErrInsufficientStock, product.Name)
			}

			order.Items = append(order.Items, models.OrderItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				UnitPrice:   product.Price,
				Quantity:    item.Quantity,
			})
			order.AmountTotal += product.Price * float64(item.Quantity)
		}

		if len(order.Items) == 0 {
			return ErrEmptyCart
		}

		return tx.Create(order).Error
	})
}
