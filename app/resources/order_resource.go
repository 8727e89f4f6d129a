// Package resources holds the API resource transformers that shape
// customer-facing JSON.
package resources

import (
	"github.com/sujinlee/moamall/app/models"
	"github.com/sujinlee/moamall/pkg/collection"
	"github.com/sujinlee/moamall/pkg/resource"
)

// GuestOrderResource is the customer projection of a guest order returned
// after a successful lookup. It deliberately omits the stored credential
// and any internal IDs beyond the public code.
type GuestOrderResource struct{ resource.Base }

func (gr *GuestOrderResource) ToArray(v interface{}) resource.Map {
	o := v.(models.Order)

	out := resource.Map{
		"code":             o.Code,
		"payment_status":   o.PaymentStatus,
		"amount_total":     o.AmountTotal,
		"shipping_status":  o.ShippingStatus,
		"shipping_company": o.ShippingCompany,
		"tracking_number":  o.TrackingNumber,
		"shipping_note":    o.ShippingNote,
		"ordered_at":       o.CreatedAt,
		"items": collection.Map(o.Items, func(i models.OrderItem) resource.Map {
			return resource.Map{
				"product_name": i.ProductName,
				"unit_price":   i.UnitPrice,
				"quantity":     i.Quantity,
				"line_total":   i.LineTotal(),
			}
		}),
	}
	if o.GuestOrderNumber != nil {
		out["guest_order_number"] = *o.GuestOrderNumber
	}
	if o.ShippedAt != nil {
		out["shipped_at"] = o.ShippedAt
	}
	if o.DeliveredAt != nil {
		out["delivered_at"] = o.DeliveredAt
	}
	return out
}
