package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sujinlee/moamall/app/resources"
	"github.com/sujinlee/moamall/app/services"
	"github.com/sujinlee/moamall/pkg/bind"
	"github.com/sujinlee/moamall/pkg/crypt"
	"github.com/sujinlee/moamall/pkg/logger"
	"github.com/sujinlee/moamall/pkg/resource"
	"github.com/sujinlee/moamall/pkg/response"
)

// orderTokenTTL bounds how long a guest can re-fetch an order without
// re-entering the lookup password.
const orderTokenTTL = 15 * time.Minute

// GuestOrderController serves the guest order lookup endpoint. Denial is
// always the same generic 401 regardless of which check failed, so callers
// cannot probe which order numbers or phone numbers exist.
type GuestOrderController struct {
	lookup *services.GuestLookupService
	orders *services.OrderQueryService
}

func NewGuestOrderController(lookup *services.GuestLookupService, orders *services.OrderQueryService) *GuestOrderController {
	return &GuestOrderController{lookup: lookup, orders: orders}
}

type guestLookupRequest struct {
	GuestOrderNumber string `json:"guestOrderNumber"`
	Phone            string `json:"phone"`
	Password         string `json:"password"`
}

func (c *GuestOrderController) Lookup(w http.ResponseWriter, r *http.Request) {
	var body guestLookupRequest
	if _, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Cheap input checks come before any credential work.
	if strings.TrimSpace(body.Password) == "" {
		response.Error(w, http.StatusBadRequest, "Password is required")
		return
	}
	if strings.TrimSpace(body.GuestOrderNumber) == "" && strings.TrimSpace(body.Phone) == "" {
		response.Error(w, http.StatusBadRequest, "Provide a guest order number or a phone number")
		return
	}

	order, err := c.lookup.Lookup(services.LookupInput{
		GuestOrderNumber: body.GuestOrderNumber,
		Phone:            body.Phone,
		Password:         body.Password,
	})
	switch {
	case errors.Is(err, services.ErrLookupDenied):
		response.Unauthorized(w, "invalid order credentials")
		return
	case errors.Is(err, services.ErrLookupBusy):
		response.ServiceUnavailable(w)
		return
	case err != nil:
		logger.WithCtx(r.Context()).Error("guest lookup failed", "error", err)
		response.ServerError(w)
		return
	}

	res := resource.New(&resources.GuestOrderResource{}, order)
	if token, err := crypt.SealOrderToken(order.ID, orderTokenTTL); err == nil {
		res.WithMeta(resource.Map{"order_token": token})
	}
	res.Respond(w)
}

// Show re-fetches a guest order with the opaque token minted at lookup.
// Bad, tampered, or expired tokens all read as unauthorized.
func (c *GuestOrderController) Show(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	orderID, err := crypt.OpenOrderToken(token)
	if err != nil {
		response.Unauthorized(w, "invalid or expired order token")
		return
	}

	order, err := c.orders.GuestByID(orderID)
	if err != nil {
		response.Unauthorized(w, "invalid or expired order token")
		return
	}

	resource.New(&resources.GuestOrderResource{}, order).Respond(w)
}
