package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/sujinlee/moamall/app/models"
	"github.com/sujinlee/moamall/app/repositories"
	"github.com/sujinlee/moamall/pkg/collection"
)

// sessionCartKey is where the cart lives inside the Redis session.
const sessionCartKey = "cart"

// Cart is the session-stored shopping cart. Only product IDs and
// quantities are persisted; prices are always re-read from the catalogue.
type Cart struct {
	Items []CartItem `json:"items"`
}

// CartItem is one cart line.
type CartItem struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// CartLine is a priced cart line, computed server-side at view time.
type CartLine struct {
	Product   models.Product `json:"product"`
	Quantity  int            `json:"quantity"`
	LineTotal float64        `json:"line_total"`
}

// CartView is the priced cart returned to the client.
type CartView struct {
	Lines []CartLine `json:"lines"`
	Total float64    `json:"total"`
}

// CartKey returns the session key the cart is stored under.
func CartKey() string { return sessionCartKey }

// Add merges quantity into the cart, dropping the line when the new
// quantity is zero or negative.
func (c *Cart) Add(productID uint, quantity int) {
	for i, item := range c.Items {
		if item.ProductID == productID {
			c.Items[i].Quantity += quantity
			if c.Items[i].Quantity <= 0 {
				c.Items = append(c.Items[:i], c.Items[i+1:]...)
			}
			return
		}
	}
	if quantity > 0 {
		c.Items = append(c.Items, CartItem{ProductID: productID, Quantity: quantity})
	}
}

// SetQuantity replaces a line's quantity; zero removes the line.
func (c *Cart) SetQuantity(productID uint, quantity int) {
	for i, item := range c.Items {
		if item.ProductID == productID {
			if quantity <= 0 {
				c.Items = append(c.Items[:i], c.Items[i+1:]...)
			} else {
				c.Items[i].Quantity = quantity
			}
			return
		}
	}
	if quantity > 0 {
		c.Items = append(c.Items, CartItem{ProductID: productID, Quantity: quantity})
	}
}

// Remove deletes a line from the cart.
func (c *Cart) Remove(productID uint) { c.SetQuantity(productID, 0) }

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool { return len(c.Items) == 0 }

// CartService prices carts against the current catalogue.
type CartService struct {
	products *repositories.ProductRepository
}

func NewCartService(products *repositories.ProductRepository) *CartService {
	return &CartService{products: products}
}

// Price computes the priced view of a cart from current product data.
// Lines referencing unpublished or deleted products are skipped.
func (s *CartService) Price(cart Cart) (CartView, error) {
	if cart.IsEmpty() {
		return CartView{Lines: []CartLine{}}, nil
	}

	ids := collection.Map(cart.Items, func(i CartItem) uint { return i.ProductID })
	products, err := s.products.FindByIDs(ids)
	if err != nil {
		return CartView{}, fmt.Errorf("cart: load products: %w", err)
	}
	byID := collection.KeyBy(products, func(p models.Product) uint { return p.ID })

	view := CartView{Lines: []CartLine{}}
	for _, item := range cart.Items {
		p, ok := byID[item.ProductID]
		if !ok || !p.Published {
			continue
		}
		line := CartLine{
			Product:   p,
			Quantity:  item.Quantity,
			LineTotal: p.Price * float64(item.Quantity),
		}
		view.Lines = append(view.Lines, line)
		view.Total += line.LineTotal
	}
	return view, nil
}

// ProductAvailable reports whether a product can currently be added to a
// cart (exists and is published).
func (s *CartService) ProductAvailable(productID uint) (bool, error) {
	p, err := s.products.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return p.Published, nil
}
