// Package jobs holds the queued background jobs of the storefront.
package jobs

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/sujinlee/moamall/app/repositories"
	"github.com/sujinlee/moamall/pkg/mail"
	"github.com/sujinlee/moamall/pkg/queue"
)

// orderRepo is injected at boot so job instances deserialized from the
// queue can reach the database.
var orderRepo *repositories.OrderRepository

// Boot wires the jobs package to its dependencies and registers every job
// type with the queue. Call once from internal/server.
func Boot(db *gorm.DB) {
	orderRepo = repositories.NewOrderRepository(db)

	queue.Register("*jobs.OrderConfirmationJob", func() queue.Job {
		return &OrderConfirmationJob{}
	})
}

// OrderConfirmationJob emails the buyer after checkout. Only the order ID
// crosses the queue; the job re-reads the order so it always mails current
// data.
type OrderConfirmationJob struct {
	OrderID uint `json:"order_id"`
}

func (j *OrderConfirmationJob) Handle() error {
	if orderRepo == nil {
		return fmt.Errorf("jobs: not booted")
	}

	order, err := orderRepo.FindByID(j.OrderID)
	if err != nil {
		return fmt.Errorf("jobs: load order %d: %w", j.OrderID, err)
	}
	if order.CustomerEmail == "" {
		return nil // nothing to send
	}

	number := order.Code
	if order.GuestOrderNumber != nil {
		number = *order.GuestOrderNumber
	}

	body := fmt.Sprintf(
		"<h1>Thanks for your order, %s!</h1>"+
			"<p>Order number: <b>%s</b></p>"+
			"<p>Total: %.2f</p>",
		order.CustomerName, number, order.AmountTotal,
	)
	if order.IsGuest() {
		body += "<p>Keep your order number and lookup password to track this order.</p>"
	}

	return mail.To(order.CustomerEmail).
		Subject(fmt.Sprintf("Your moamall order %s", number)).
		Body(body).
		Send()
}
