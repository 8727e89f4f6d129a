package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/sujinlee/moamall/app/services"
	"github.com/sujinlee/moamall/pkg/bind"
	"github.com/sujinlee/moamall/pkg/crypt"
	"github.com/sujinlee/moamall/pkg/logger"
	"github.com/sujinlee/moamall/pkg/middleware"
	"github.com/sujinlee/moamall/pkg/response"
	"github.com/sujinlee/moamall/pkg/session"
)

type CheckoutController struct {
	checkout *services.CheckoutService
}

func NewCheckoutController(checkout *services.CheckoutService) *CheckoutController {
	return &CheckoutController{checkout: checkout}
}

type checkoutRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Phone   string `json:"phone" validate:"required,min=9,max=20"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address" validate:"required,max=500"`
	// Password is required for guest checkouts only; it becomes the
	// guest order lookup credential.
	Password string `json:"password" validate:"omitempty,min=4,max=128"`
}

// Place turns the session cart into an order. A valid JWT makes it a
// member order; otherwise it is a guest order and needs a lookup password.
func (c *CheckoutController) Place(w http.ResponseWriter, r *http.Request) {
	var body checkoutRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	} else if bind.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	in := services.CheckoutInput{
		Cart:    loadCart(r),
		Name:    body.Name,
		Phone:   body.Phone,
		Email:   body.Email,
		Address: body.Address,
	}

	if userID, ok := middleware.UserIDFromCtx(r); ok {
		in.UserID = &userID
	} else {
		if body.Password == "" {
			response.ValidationError(w, map[string]string{
				"password": "password is required for guest checkout",
			})
			return
		}
		in.GuestPassword = body.Password
	}

	order, err := c.checkout.Place(in)
	switch {
	case errors.Is(err, services.ErrEmptyCart):
		response.Error(w, http.StatusBadRequest, "Cart is empty")
		return
	case errors.Is(err, services.ErrInsufficientStock):
		response.Error(w, http.StatusUnprocessableEntity, "Insufficient stock")
		return
	case err != nil:
		logger.WithCtx(r.Context()).Error("checkout failed", "error", err)
		response.ServerError(w)
		return
	}

	if sess := session.FromCtx(r); sess != nil {
		sess.Delete(services.CartKey())
		sess.Save(w) //nolint:errcheck
	}

	data := map[string]interface{}{
		"code":           order.Code,
		"channel":        order.Channel,
		"amount_total":   order.AmountTotal,
		"payment_status": order.PaymentStatus,
	}
	if order.GuestOrderNumber != nil {
		data["guest_order_number"] = *order.GuestOrderNumber
	}
	if token, err := crypt.SealOrderToken(order.ID, 15*time.Minute); err == nil {
		data["order_token"] = token
	}

	response.Created(w, data)
}
