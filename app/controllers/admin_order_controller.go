package controllers

import (
	"errors"
	"net/http"

	"github.com/sujinlee/moamall/app/listeners"
	"github.com/sujinlee/moamall/app/services"
	"github.com/sujinlee/moamall/pkg/bind"
	"github.com/sujinlee/moamall/pkg/logger"
	"github.com/sujinlee/moamall/pkg/response"
)

type AdminOrderController struct {
	orders   *services.OrderQueryService
	shipping *services.ShippingService
}

func NewAdminOrderController(orders *services.OrderQueryService, shipping *services.ShippingService) *AdminOrderController {
	return &AdminOrderController{orders: orders, shipping: shipping}
}

func (c *AdminOrderController) Index(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	orders, pagination, err := c.orders.All(page, limit)
	if err != nil {
		response.ServerError(w)
		return
	}
	response.Paginated(w, orders, pagination)
}

type shippingRequest struct {
	Status         string `json:"status" validate:"omitempty,oneof=preparing shipped delivered"`
	Company        string `json:"company" validate:"max=128"`
	TrackingNumber string `json:"tracking_number" validate:"max=128"`
	Note           string `json:"note" validate:"max=512"`
}

// UpdateShipping applies a shipping change and stamps shipped/delivered
// transition times on first entry into those statuses.
func (c *AdminOrderController) UpdateShipping(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid order id")
		return
	}

	var body shippingRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	} else if bind.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.shipping.Update(id, services.ShippingUpdate{
		Status:         body.Status,
		Company:        body.Company,
		TrackingNumber: body.TrackingNumber,
		Note:           body.Note,
	})
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		response.NotFound(w)
		return
	case errors.Is(err, services.ErrBadShippingStatus):
		response.Error(w, http.StatusUnprocessableEntity, "Unknown shipping status")
		return
	case err != nil:
		logger.WithCtx(r.Context()).Error("shipping update failed", "order_id", id, "error", err)
		response.ServerError(w)
		return
	}

	auditLog(r, "shipping updated", "order_id", order.ID, "status", order.ShippingStatus)
	response.Success(w, order)
}

// Feed streams new orders to the admin console over SSE.
func (c *AdminOrderController) Feed(w http.ResponseWriter, r *http.Request) {
	listeners.OrderFeed.Serve(w, r)
}
