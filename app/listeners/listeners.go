// Package listeners wires event handlers for domain events.
package listeners

import (
	"github.com/sujinlee/moamall/app/jobs"
	"github.com/sujinlee/moamall/app/models"
	"github.com/sujinlee/moamall/app/services"
	"github.com/sujinlee/moamall/config"
	"github.com/sujinlee/moamall/pkg/event"
	"github.com/sujinlee/moamall/pkg/logger"
	"github.com/sujinlee/moamall/pkg/notification"
	"github.com/sujinlee/moamall/pkg/queue"
	"github.com/sujinlee/moamall/pkg/sse"
)

// OrderFeed streams newly placed orders to connected admin dashboards.
var OrderFeed = sse.NewBroker()

// Boot registers all event listeners. Call once from internal/server.
func Boot() {
	notification.SetSlackWebhook(config.SlackWebhookURL())

	event.Listen(services.EventOrderPlaced, func(payload interface{}) {
		order, ok := payload.(models.Order)
		if !ok {
			logger.Warn("listeners: unexpected order.placed payload")
			return
		}

		// Confirmation email goes through the queue; SMTP latency must
		// never reach the checkout request.
		if order.CustomerEmail != "" {
			if err := queue.Dispatch(&jobs.OrderConfirmationJob{OrderID: order.ID}); err != nil {
				logger.Error("listeners: enqueue confirmation", "error", err)
			}
		}

		OrderFeed.Publish("order.placed", order)

		if config.SlackWebhookURL() != "" {
			notification.SendAsync("", &orderPlacedAlert{order: order})
		}
	})
}

// orderPlacedAlert is the Slack notification for a new order.
type orderPlacedAlert struct {
	order models.Order
}

func (n *orderPlacedAlert) Via() []string { return []string{"slack"} }

func (n *orderPlacedAlert) ToSlack() notification.SlackData {
	return notification.SlackData{
		Text: "New order placed",
		Attachments: []notification.SlackAttachment{{
			Color: "good",
			Title: n.order.Code,
			Text:  n.order.CustomerName,
		}},
	}
}
