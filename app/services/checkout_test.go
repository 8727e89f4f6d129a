package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/sujinlee/moamall/app/models"
	"github.com/sujinlee/moamall/app/repositories"
	"github.com/sujinlee/moamall/pkg/guestpass"
)

func newCheckoutService(t *testing.T) (*CheckoutService, *repositories.OrderRepository, *repositories.ProductRepository) {
	t.Helper()

	db := testDB(t)
	products := repositories.NewProductRepository(db)
	orders := repositories.NewOrderRepository(db)
	return NewCheckoutService(db, products, orders), orders, products
}

func TestGuestCheckoutPlacesOrder(t *testing.T) {
	svc, orders, _ := newCheckoutService(t)
	p := seedProduct(t, orders.DB(), "notebook", 6.50, 10)

	order, err := svc.Place(CheckoutInput{
		Cart:          Cart{Items: []CartItem{{ProductID: p.ID, Quantity: 2}}},
		Name:          "Kim Guest",
		Phone:         "010-1234-5678",
		Email:         "guest@example.com",
		Address:       "Seoul",
		GuestPassword: "lookup-pw",
	})
	if err != nil {
		t.Fatalf("Place: %v", err)
	}

	if order.Channel != models.ChannelGuest {
		t.Errorf("channel = %q, want guest", order.Channel)
	}
	if order.CustomerPhone != "01012345678" {
		t.Errorf("phone = %q, want digits only", order.CustomerPhone)
	}
	if order.GuestOrderNumber == nil || !strings.HasPrefix(*order.GuestOrderNumber, "GUEST-") {
		t.Fatalf("guest order number missing or malformed: %v", order.GuestOrderNumber)
	}
	if order.GuestPasswordHash == nil || !guestpass.Verify("lookup-pw", *order.GuestPasswordHash) {
		t.Error("stored credential does not verify against the checkout password")
	}
	if order.AmountTotal != 13.0 {
		t.Errorf("amount = %v, want 13.0", order.AmountTotal)
	}

	// Stock decremented transactionally.
	var after models.Product
	if err := orders.DB().First(&after, p.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if after.Stock != 8 {
		t.Errorf("stock = %d, want 8", after.Stock)
	}
}

func TestMemberCheckoutHasNoGuestCredential(t *testing.T) {
	svc, orders, _ := newCheckoutService(t)
	p := seedProduct(t, orders.DB(), "mug", 14.0, 5)

	userID := uint(42)
	order, err := svc.Place(CheckoutInput{
		Cart:    Cart{Items: []CartItem{{ProductID: p.ID, Quantity: 1}}},
		UserID:  &userID,
		Name:    "Member Kim",
		Phone:   "01099998888",
		Address: "Busan",
	})
	if err != nil {
		t.Fatalf("Place: %v", err)
	}

	if order.Channel != models.ChannelMember {
		t.Errorf("channel = %q, want member", order.Channel)
	}
	if order.GuestOrderNumber != nil || order.GuestPasswordHash != nil {
		t.Error("member order must not carry guest lookup fields")
	}
	if order.UserID == nil || *order.UserID != userID {
		t.Errorf("user id = %v, want %d", order.UserID, userID)
	}
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	svc, _, _ := newCheckoutService(t)

	_, err := svc.Place(CheckoutInput{
		Name: "Kim", Phone: "01012345678", Address: "Seoul", GuestPassword: "pw-1234",
	})
	if !errors.Is(err, ErrEmptyCart) {
		t.Errorf("err = %v, want ErrEmptyCart", err)
	}
}

func TestCheckoutInsufficientStockRollsBack(t *testing.T) {
	svc, orders, _ := newCheckoutService(t)
	a := seedProduct(t, orders.DB(), "pen", 24.0, 10)
	b := seedProduct(t, orders.DB(), "tote", 18.0, 1)

	_, err := svc.Place(CheckoutInput{
		Cart: Cart{Items: []CartItem{
			{ProductID: a.ID, Quantity: 2},
			{ProductID: b.ID, Quantity: 3}, // exceeds stock
		}},
		Name: "Kim", Phone: "01012345678", Address: "Seoul", GuestPassword: "pw-1234",
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}

	// The whole transaction rolled back, including product A's decrement.
	var after models.Product
	if err := orders.DB().First(&after, a.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if after.Stock != 10 {
		t.Errorf("stock = %d after rollback, want 10", after.Stock)
	}

	var count int64
	orders.DB().Model(&models.Order{}).Count(&count)
	if count != 0 {
		t.Errorf("order count = %d after failed checkout, want 0", count)
	}
}

func TestCheckoutSkipsWithdrawnProducts(t *testing.T) {
	svc, orders, products := newCheckoutService(t)
	p := seedProduct(t, orders.DB(), "coaster", 9.0, 20)
	if err := products.Delete(p.ID); err != nil {
		t.Fatalf("delete product: %v", err)
	}

	_, err := svc.Place(CheckoutInput{
		Cart: Cart{Items: []CartItem{{ProductID: p.ID, Quantity: 1}}},
		Name: "Kim", Phone: "01012345678", Address: "Seoul", GuestPassword: "pw-1234",
	})
	if !errors.Is(err, ErrEmptyCart) {
		t.Errorf("err = %v, want ErrEmptyCart when every line is withdrawn", err)
	}
}
