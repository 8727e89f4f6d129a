package controllers

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sujinlee/moamall/app/models"
	"github.com/sujinlee/moamall/app/repositories"
	"github.com/sujinlee/moamall/app/services"
	"github.com/sujinlee/moamall/pkg/crypt"
	"github.com/sujinlee/moamall/pkg/guestpass"
	"github.com/sujinlee/moamall/pkg/testkit"
	"github.com/sujinlee/moamall/pkg/workerpool"
)

func newGuestOrderController(t *testing.T) (*GuestOrderController, *gorm.DB) {
	t.Helper()

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	orders := repositories.NewOrderRepository(db)
	pool := workerpool.New(2)
	t.Cleanup(pool.Shutdown)

	return NewGuestOrderController(
		services.NewGuestLookupService(orders, pool),
		services.NewOrderQueryService(orders),
	), db
}

func seedOrder(t *testing.T, db *gorm.DB, number, phone, password string) models.Order {
	t.Helper()

	hash, err := guestpass.Hash(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	order := models.Order{
		Code:              uuid.NewString(),
		Channel:           models.ChannelGuest,
		CustomerName:      "Guest",
		CustomerPhone:     phone,
		GuestOrderNumber:  &number,
		GuestPasswordHash: &hash,
		PaymentStatus:     models.PaymentPending,
		ShippingStatus:    models.ShippingPreparing,
		AmountTotal:       13,
		Items: []models.OrderItem{
			{ProductName: "notebook", UnitPrice: 6.5, Quantity: 2},
		},
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return order
}

func TestLookupEndpointMissingInput(t *testing.T) {
	c, _ := newGuestOrderController(t)

	cases := map[string]map[string]string{
		"no password":    {"guestOrderNumber": "GUEST-20260410-AAAA1111"},
		"blank password": {"guestOrderNumber": "GUEST-20260410-AAAA1111", "password": "   "},
		"no identifier":  {"password": "pw-1234"},
		"empty body":     {},
	}
	for name, body := range cases {
		rec := testkit.DoJSON(t, http.HandlerFunc(c.Lookup), http.MethodPost, "/api/orders/guest/lookup", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", name, rec.Code)
		}
	}
}

func TestLookupEndpointUniformDenial(t *testing.T) {
	c, db := newGuestOrderController(t)
	seedOrder(t, db, "GUEST-20260410-AAAA1111", "01012345678", "right-pw")

	cases := map[string]map[string]string{
		"unknown number": {"guestOrderNumber": "GUEST-20260410-DEAD0000", "password": "right-pw"},
		"wrong password": {"guestOrderNumber": "GUEST-20260410-AAAA1111", "password": "wrong-pw"},
		"unknown phone":  {"phone": "01000000000", "password": "right-pw"},
	}

	var bodies []string
	for name, body := range cases {
		rec := testkit.DoJSON(t, http.HandlerFunc(c.Lookup), http.MethodPost, "/api/orders/guest/lookup", body)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", name, rec.Code)
		}
		bodies = append(bodies, rec.Body.String())
	}

	// The response body must not differ between denial reasons.
	for i := 1; i < len(bodies); i++ {
		if bodies[i] != bodies[0] {
			t.Errorf("denial bodies differ: %q vs %q", bodies[0], bodies[i])
		}
	}
}

func TestLookupEndpointSuccess(t *testing.T) {
	c, db := newGuestOrderController(t)
	seedOrder(t, db, "GUEST-20260410-BBBB2222", "01012345678", "pw-1234")

	rec := testkit.DoJSON(t, http.HandlerFunc(c.Lookup), http.MethodPost, "/api/orders/guest/lookup",
		map[string]string{"guestOrderNumber": "guest-20260410-bbbb2222", "password": "pw-1234"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	body := rec.Body.String()
	if !strings.Contains(body, "GUEST-20260410-BBBB2222") {
		t.Error("response missing the guest order number")
	}
	if !strings.Contains(body, "order_token") {
		t.Error("response missing the order access token")
	}
	if strings.Contains(body, ":") && strings.Contains(body, "GuestPasswordHash") {
		t.Error("response leaked credential field")
	}
	if strings.Contains(body, "password_hash") {
		t.Error("response leaked the stored credential")
	}
}

func TestLookupEndpointPhoneFallback(t *testing.T) {
	c, db := newGuestOrderController(t)
	seedOrder(t, db, "GUEST-20260410-CCCC3333", "01055556666", "phone-pw")

	rec := testkit.DoJSON(t, http.HandlerFunc(c.Lookup), http.MethodPost, "/api/orders/guest/lookup",
		map[string]string{"phone": "010-5555-6666", "password": "phone-pw"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "GUEST-20260410-CCCC3333") {
		t.Error("response missing the matched order")
	}
}

func TestLookupEndpointFallsBackToPhone(t *testing.T) {
	c, db := newGuestOrderController(t)
	seedOrder(t, db, "GUEST-20260410-EEEE5555", "01012345678", "pw-1234")

	// Wrong order number plus a verifying phone+password still matches.
	rec := testkit.DoJSON(t, http.HandlerFunc(c.Lookup), http.MethodPost, "/api/orders/guest/lookup",
		map[string]string{
			"guestOrderNumber": "GUEST-20260410-DEAD0000",
			"phone":            "010-1234-5678",
			"password":         "pw-1234",
		})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "GUEST-20260410-EEEE5555") {
		t.Error("response missing the phone-matched order")
	}
}

func TestOrderTokenRoundTrip(t *testing.T) {
	c, db := newGuestOrderController(t)
	order := seedOrder(t, db, "GUEST-20260410-DDDD4444", "01077778888", "pw-4444")

	token, err := crypt.SealOrderToken(order.ID, time.Minute)
	if err != nil {
		t.Fatalf("SealOrderToken: %v", err)
	}

	req := testkit.JSONRequest(t, http.MethodGet, "/api/orders/guest/"+token, nil)
	req = withChiParam(req, "token", token)
	rec := testkit.Do(http.HandlerFunc(c.Show), req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "GUEST-20260410-DDDD4444") {
		t.Error("token fetch did not return the order")
	}
}

func TestOrderTokenRejectsBadToken(t *testing.T) {
	c, _ := newGuestOrderController(t)

	for _, token := range []string{"garbage", ""} {
		req := testkit.JSONRequest(t, http.MethodGet, "/api/orders/guest/"+token, nil)
		req = withChiParam(req, "token", token)
		rec := testkit.Do(http.HandlerFunc(c.Show), req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("token %q: status = %d, want 401", token, rec.Code)
		}
	}
}
