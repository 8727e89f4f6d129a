package bind_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sujinlee/moamall/pkg/bind"
)

type lookupBody struct {
	Number   string `json:"guestOrderNumber" validate:"omitempty,min=5"`
	Password string `json:"password" validate:"required,min=4"`
}

func TestJSONBindsAndValidates(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"guestOrderNumber":"GUEST-1","password":"pw-1234"}`))

	var body lookupBody
	errs, err := bind.JSON(req, &body)
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if bind.HasErrors(errs) {
		t.Fatalf("unexpected validation errors: %v", errs)
	}
	if body.Password != "pw-1234" {
		t.Errorf("password = %q", body.Password)
	}
}

func TestJSONReportsFieldErrorsByJSONTag(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"password":"abc"}`))

	var body lookupBody
	errs, err := bind.JSON(req, &body)
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if !bind.HasErrors(errs) {
		t.Fatal("expected a validation error for the short password")
	}
	if _, ok := errs["password"]; !ok {
		t.Errorf("error keyed by %v, want json tag \"password\"", errs)
	}
}

func TestJSONRejectsMalformedBody(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"password":`))

	var body lookupBody
	if _, err := bind.JSON(req, &body); err == nil {
		t.Error("malformed JSON should return an error")
	}
}
