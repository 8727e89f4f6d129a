package services

import (
	"errors"
	"testing"
	"time"

	"github.com/sujinlee/moamall/app/models"
	"github.com/sujinlee/moamall/app/repositories"
)

func TestShippingUpdateStampsTransitions(t *testing.T) {
	db := testDB(t)
	orders := repositories.NewOrderRepository(db)
	svc := NewShippingService(orders)

	seeded := seedGuestOrder(t, db, "GUEST-20260410-SHIP0001", "01012340000", "pw-ship", time.Now())

	order, err := svc.Update(seeded.ID, ShippingUpdate{
		Status:         models.ShippingShipped,
		Company:        "CJ Logistics",
		TrackingNumber: "1234-5678-9012",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if order.ShippingStatus != models.ShippingShipped {
		t.Errorf("status = %q, want shipped", order.ShippingStatus)
	}
	if order.ShippedAt == nil {
		t.Error("ShippedAt not stamped on first transition to shipped")
	}
	firstShipped := *order.ShippedAt

	// A later update must not move the original shipped timestamp.
	order, err = svc.Update(seeded.ID, ShippingUpdate{Status: models.ShippingDelivered, Note: "left at door"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if order.DeliveredAt == nil {
		t.Error("DeliveredAt not stamped")
	}
	if order.ShippedAt == nil || !order.ShippedAt.Equal(firstShipped) {
		t.Error("ShippedAt changed on a later update")
	}
	if order.ShippingCompany != "CJ Logistics" {
		t.Errorf("company = %q, want untouched value", order.ShippingCompany)
	}
}

func TestShippingUpdateRejectsUnknownStatus(t *testing.T) {
	db := testDB(t)
	svc := NewShippingService(repositories.NewOrderRepository(db))
	seeded := seedGuestOrder(t, db, "GUEST-20260410-SHIP0002", "01012340001", "pw-ship", time.Now())

	if _, err := svc.Update(seeded.ID, ShippingUpdate{Status: "teleported"}); !errors.Is(err, ErrBadShippingStatus) {
		t.Errorf("err = %v, want ErrBadShippingStatus", err)
	}
}

func TestShippingUpdateMissingOrder(t *testing.T) {
	db := testDB(t)
	svc := NewShippingService(repositories.NewOrderRepository(db))

	if _, err := svc.Update(9999, ShippingUpdate{Status: models.ShippingShipped}); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("err = %v, want ErrOrderNotFound", err)
	}
}
