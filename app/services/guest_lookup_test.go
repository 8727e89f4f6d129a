package services

import (
	"errors"
	"testing"
	"time"

	"github.com/sujinlee/moamall/app/repositories"
	"github.com/sujinlee/moamall/pkg/workerpool"
)

func newLookupService(t *testing.T) (*GuestLookupService, *repositories.OrderRepository) {
	t.Helper()

	db := testDB(t)
	orders := repositories.NewOrderRepository(db)
	pool := workerpool.New(2)
	t.Cleanup(pool.Shutdown)
	return NewGuestLookupService(orders, pool), orders
}

func TestLookupByNumberSucceeds(t *testing.T) {
	svc, orders := newLookupService(t)
	seeded := seedGuestOrder(t, orders.DB(), "GUEST-20260410-AAAA1111", "01011112222", "pw-1234", time.Now())

	order, err := svc.Lookup(LookupInput{
		GuestOrderNumber: " guest-20260410-aaaa1111 ", // unnormalized input
		Password:         "pw-1234",
	})
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if order.ID != seeded.ID {
		t.Errorf("got order %d, want %d", order.ID, seeded.ID)
	}
}

func TestLookupUniformDenial(t *testing.T) {
	svc, orders := newLookupService(t)
	seedGuestOrder(t, orders.DB(), "GUEST-20260410-BBBB2222", "01033334444", "right-pw", time.Now())
	// An order that never had a credential stored.
	seedGuestOrder(t, orders.DB(), "GUEST-20260410-CCCC3333", "01055556666", "", time.Now())

	cases := map[string]LookupInput{
		"unknown number":    {GuestOrderNumber: "GUEST-20260410-DEAD0000", Password: "right-pw"},
		"wrong password":    {GuestOrderNumber: "GUEST-20260410-BBBB2222", Password: "wrong-pw"},
		"no credential":     {GuestOrderNumber: "GUEST-20260410-CCCC3333", Password: "anything"},
		"unknown phone":     {Phone: "010-9999-0000", Password: "right-pw"},
		"phone wrong pw":    {Phone: "010-3333-4444", Password: "wrong-pw"},
	}
	for name, in := range cases {
		if _, err := svc.Lookup(in); !errors.Is(err, ErrLookupDenied) {
			t.Errorf("%s: err = %v, want ErrLookupDenied", name, err)
		}
	}
}

func TestLookupByPhonePrefersMostRecentMatch(t *testing.T) {
	svc, orders := newLookupService(t)

	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	// Same phone, same password, three orders; the newest must win.
	seedGuestOrder(t, orders.DB(), "GUEST-20260401-00000001", "01012345678", "shared-pw", base)
	seedGuestOrder(t, orders.DB(), "GUEST-20260402-00000002", "01012345678", "shared-pw", base.AddDate(0, 0, 1))
	newest := seedGuestOrder(t, orders.DB(), "GUEST-20260403-00000003", "01012345678", "shared-pw", base.AddDate(0, 0, 2))

	order, err := svc.Lookup(LookupInput{Phone: "010-1234-5678", Password: "shared-pw"})
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if order.ID != newest.ID {
		t.Errorf("got order %d, want newest %d", order.ID, newest.ID)
	}
}

func TestLookupByPhoneSkipsNonVerifyingOrders(t *testing.T) {
	svc, orders := newLookupService(t)

	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	// Newest order has a different password; the scan must move past it.
	match := seedGuestOrder(t, orders.DB(), "GUEST-20260401-11110000", "01077778888", "my-pw", base)
	seedGuestOrder(t, orders.DB(), "GUEST-20260402-22220000", "01077778888", "other-pw", base.AddDate(0, 0, 1))

	order, err := svc.Lookup(LookupInput{Phone: "01077778888", Password: "my-pw"})
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if order.ID != match.ID {
		t.Errorf("got order %d, want %d", order.ID, match.ID)
	}
}

func TestLookupNumberTakesPriorityOverPhone(t *testing.T) {
	svc, orders := newLookupService(t)

	byNumber := seedGuestOrder(t, orders.DB(), "GUEST-20260405-AAAA0000", "01000001111", "pw-a", time.Now())
	seedGuestOrder(t, orders.DB(), "GUEST-20260405-BBBB0000", "01000002222", "pw-a", time.Now())

	// Both identifiers supplied and both would verify: the number match
	// is tried first and wins without a phone scan.
	order, err := svc.Lookup(LookupInput{
		GuestOrderNumber: "GUEST-20260405-AAAA0000",
		Phone:            "01000002222",
		Password:         "pw-a",
	})
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if order.ID != byNumber.ID {
		t.Errorf("got order %d, want number match %d", order.ID, byNumber.ID)
	}
}

func TestLookupFallsBackToPhoneOnUnknownNumber(t *testing.T) {
	svc, orders := newLookupService(t)
	seeded := seedGuestOrder(t, orders.DB(), "GUEST-20260410-AAAA1111", "01012345678", "pw-1234", time.Now())

	// The number resolves nothing, but the phone + password do; the scan
	// must still run instead of denying outright.
	order, err := svc.Lookup(LookupInput{
		GuestOrderNumber: "GUEST-20260410-DEAD0000",
		Phone:            "010-1234-5678",
		Password:         "pw-1234",
	})
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if order.ID != seeded.ID {
		t.Errorf("got order %d, want phone match %d", order.ID, seeded.ID)
	}
}

func TestLookupFallsBackToPhoneWhenNumberDoesNotVerify(t *testing.T) {
	svc, orders := newLookupService(t)

	mismatch := seedGuestOrder(t, orders.DB(), "GUEST-20260410-EEEE5555", "01011110000", "other-pw", time.Now())
	byPhone := seedGuestOrder(t, orders.DB(), "GUEST-20260410-FFFF6666", "01022220000", "my-pw", time.Now())

	// The supplied number exists but its credential does not verify; the
	// phone order does. The phone match must be returned.
	order, err := svc.Lookup(LookupInput{
		GuestOrderNumber: *mismatch.GuestOrderNumber,
		Phone:            byPhone.CustomerPhone,
		Password:         "my-pw",
	})
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if order.ID != byPhone.ID {
		t.Errorf("got order %d, want phone match %d", order.ID, byPhone.ID)
	}
}

func TestLookupDeniesWhenNumberFailsAndNoPhone(t *testing.T) {
	svc, orders := newLookupService(t)
	seedGuestOrder(t, orders.DB(), "GUEST-20260410-ABAB7777", "01033330000", "pw-7777", time.Now())

	_, err := svc.Lookup(LookupInput{
		GuestOrderNumber: "GUEST-20260410-ABAB7777",
		Password:         "wrong-pw",
	})
	if !errors.Is(err, ErrLookupDenied) {
		t.Errorf("err = %v, want ErrLookupDenied", err)
	}
}

func TestLookupBusyWhenPoolSaturated(t *testing.T) {
	db := testDB(t)
	orders := repositories.NewOrderRepository(db)
	seedGuestOrder(t, db, "GUEST-20260406-FFFF0000", "01088889999", "pw-busy", time.Now())

	pool := workerpool.New(1)
	t.Cleanup(pool.Shutdown)

	// Saturate the pool: occupy the single worker and fill its buffer.
	block := make(chan struct{})
	done := make(chan struct{})
	for i := 0; i < 3; i++ {
		go func() {
			pool.Run(func() { <-block }) //nolint:errcheck
			done <- struct{}{}
		}()
	}
	// Give the blockers a moment to occupy the queue.
	time.Sleep(50 * time.Millisecond)

	svc := NewGuestLookupService(orders, pool)
	_, err := svc.Lookup(LookupInput{GuestOrderNumber: "GUEST-20260406-FFFF0000", Password: "pw-busy"})
	if !errors.Is(err, ErrLookupBusy) {
		t.Errorf("err = %v, want ErrLookupBusy", err)
	}

	close(block)
	for i := 0; i < 3; i++ {
		<-done
	}
}
