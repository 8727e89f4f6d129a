package controllers

import (
	"net/http"

	"github.com/sujinlee/moamall/app/services"
	"github.com/sujinlee/moamall/pkg/middleware"
	"github.com/sujinlee/moamall/pkg/response"
)

type OrderController struct {
	orders *services.OrderQueryService
}

func NewOrderController(orders *services.OrderQueryService) *OrderController {
	return &OrderController{orders: orders}
}

// Index lists the authenticated member's own orders.
func (c *OrderController) Index(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	page, limit := pageParams(r)
	orders, pagination, err := c.orders.ForUser(userID, page, limit)
	if err != nil {
		response.ServerError(w)
		return
	}
	response.Paginated(w, orders, pagination)
}
