package models

import (
	"time"

	"gorm.io/gorm"
)

// Order channels.
const (
	ChannelMember = "member"
	ChannelGuest  = "guest"
)

// Payment statuses.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

// Shipping statuses.
const (
	ShippingPreparing = "preparing"
	ShippingShipped   = "shipped"
	ShippingDelivered = "delivered"
)

// Order is a placed order. Member orders carry a UserID; guest orders carry
// a guest order number plus a scrypt credential hash used by the guest
// lookup endpoint. The hash never appears in JSON.
type Order struct {
	gorm.Model
	Code    string `gorm:"size:64;uniqueIndex;not null" json:"code"` // public uuid
	Channel string `gorm:"size:16;not null;index"       json:"channel"`

	UserID *uint `gorm:"index" json:"user_id,omitempty"`

	CustomerName  string `gorm:"size:255;not null" json:"customer_name"`
	CustomerPhone string `gorm:"size:32;index"     json:"customer_phone"` // digits only
	CustomerEmail string `gorm:"size:255"          json:"customer_email"`

	// Guest lookup credentials. Nil for member orders.
	GuestOrderNumber  *string `gorm:"size:32;uniqueIndex" json:"guest_order_number,omitempty"`
	GuestPasswordHash *string `gorm:"size:512"            json:"-"`

	PaymentStatus string  `gorm:"size:32;default:pending" json:"payment_status"`
	AmountTotal   float64 `gorm:"not null;default:0"      json:"amount_total"`

	ShippingStatus  string     `gorm:"size:32;default:preparing" json:"shipping_status"`
	ShippingCompany string     `gorm:"size:128" json:"shipping_company"`
	TrackingNumber  string     `gorm:"size:128" json:"tracking_number"`
	ShippingNote    string     `gorm:"size:512" json:"shipping_note"`
	ShippedAt       *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time `json:"delivered_at,omitempty"`

	Address string `gorm:"size:512" json:"address"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

// IsGuest reports whether the order was placed through the guest channel.
func (o *Order) IsGuest() bool { return o.Channel == ChannelGuest }

// OrderItem is one line of an order. Name and price are copied from the
// product at checkout time so later catalogue edits don't rewrite history.
type OrderItem struct {
	gorm.Model
	OrderID     uint    `gorm:"not null;index" json:"order_id"`
	ProductID   uint    `gorm:"not null;index" json:"product_id"`
	ProductName string  `gorm:"size:255;not null" json:"product_name"`
	UnitPrice   float64 `gorm:"not null" json:"unit_price"`
	Quantity    int     `gorm:"not null" json:"quantity"`
}

// LineTotal returns price × quantity for this line.
func (i OrderItem) LineTotal() float64 { return i.UnitPrice * float64(i.Quantity) }
