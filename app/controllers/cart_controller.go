package controllers

import (
	"net/http"

	"github.com/sujinlee/moamall/app/services"
	"github.com/sujinlee/moamall/pkg/bind"
	"github.com/sujinlee/moamall/pkg/response"
	"github.com/sujinlee/moamall/pkg/session"
)

// CartController manages the session cart. The cart itself lives in the
// Redis-backed session; pricing is always recomputed from current products.
type CartController struct {
	carts *services.CartService
}

func NewCartController(carts *services.CartService) *CartController {
	return &CartController{carts: carts}
}

func loadCart(r *http.Request) services.Cart {
	var cart services.Cart
	if sess := session.FromCtx(r); sess != nil {
		sess.GetJSON(services.CartKey(), &cart)
	}
	return cart
}

func (c *CartController) saveAndRender(w http.ResponseWriter, r *http.Request, cart services.Cart) {
	sess := session.FromCtx(r)
	if sess == nil {
		response.ServerError(w)
		return
	}
	sess.Set(services.CartKey(), cart)
	if err := sess.Save(w); err != nil {
		response.ServerError(w)
		return
	}

	view, err := c.carts.Price(cart)
	if err != nil {
		response.ServerError(w)
		return
	}
	response.Success(w, view)
}

func (c *CartController) Show(w http.ResponseWriter, r *http.Request) {
	view, err := c.carts.Price(loadCart(r))
	if err != nil {
		response.ServerError(w)
		return
	}
	response.Success(w, view)
}

type cartItemRequest struct {
	ProductID uint `json:"product_id" validate:"required,min=1"`
	Quantity  int  `json:"quantity" validate:"required,min=1,max=999"`
}

func (c *CartController) Add(w http.ResponseWriter, r *http.Request) {
	var body cartItemRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	} else if bind.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	ok, err := c.carts.ProductAvailable(body.ProductID)
	if err != nil {
		response.ServerError(w)
		return
	}
	if !ok {
		response.NotFound(w)
		return
	}

	cart := loadCart(r)
	cart.Add(body.ProductID, body.Quantity)
	c.saveAndRender(w, r, cart)
}

type cartUpdateRequest struct {
	ProductID uint `json:"product_id" validate:"required,min=1"`
	Quantity  int  `json:"quantity" validate:"min=0,max=999"`
}

// Update sets an absolute quantity; zero removes the line.
func (c *CartController) Update(w http.ResponseWriter, r *http.Request) {
	var body cartUpdateRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	} else if bind.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	cart := loadCart(r)
	cart.SetQuantity(body.ProductID, body.Quantity)
	c.saveAndRender(w, r, cart)
}

func (c *CartController) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "product_id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	cart := loadCart(r)
	cart.Remove(id)
	c.saveAndRender(w, r, cart)
}
