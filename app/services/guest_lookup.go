package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/sujinlee/moamall/app/models"
	"github.com/sujinlee/moamall/app/repositories"
	"github.com/sujinlee/moamall/pkg/guestpass"
	"github.com/sujinlee/moamall/pkg/metrics"
	"github.com/sujinlee/moamall/pkg/workerpool"
)

// ErrLookupDenied is the single denial error for every non-verifying path:
// unknown order number, unknown phone, missing credential, or a wrong
// password. Callers must not distinguish these cases.
var ErrLookupDenied = errors.New("invalid order credentials")

// ErrLookupBusy signals that the verification pool is saturated and the
// client should retry shortly.
var ErrLookupBusy = errors.New("lookup capacity exhausted")

// LookupInput is the (already bound) guest lookup request.
type LookupInput struct {
	GuestOrderNumber string
	Phone            string
	Password         string
}

// GuestLookupService authenticates guests against their order credentials.
// Scrypt verification runs through a bounded worker pool so a burst of
// lookups cannot monopolize CPU.
type GuestLookupService struct {
	orders *repositories.OrderRepository
	pool   *workerpool.Pool
}

func NewGuestLookupService(orders *repositories.OrderRepository, pool *workerpool.Pool) *GuestLookupService {
	return &GuestLookupService{orders: orders, pool: pool}
}

// Lookup finds a guest order by number or phone and verifies the supplied
// password against its stored credential.
//
// Resolution order: an exact guest-order-number match is tried first; when
// that yields no verified order and a phone was supplied, guest orders for
// the normalized phone are scanned most-recent-first (one page) and the
// first verifying order is returned. A number that does not resolve or does
// not verify therefore falls through to the phone scan rather than denying
// outright.
//
// Every authentication failure returns ErrLookupDenied; storage faults
// return a distinct wrapped error.
func (s *GuestLookupService) Lookup(in LookupInput) (models.Order, error) {
	password := strings.TrimSpace(in.Password)

	if number := NormalizeGuestOrderNumber(in.GuestOrderNumber); number != "" {
		order, err := s.orders.FindGuestByNumber(number)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			// No such number; the phone scan below may still match.
		case err != nil:
			metrics.GuestLookups.WithLabelValues("error").Inc()
			return models.Order{}, fmt.Errorf("guest lookup: by number: %w", err)
		default:
			matched, verr := s.verifyPooled(order, password)
			if verr != nil {
				return models.Order{}, verr
			}
			if matched {
				metrics.GuestLookups.WithLabelValues("ok").Inc()
				return order, nil
			}
			// Number resolved but did not verify; fall through to phone.
		}
	}

	if phone := NormalizePhone(in.Phone); phone != "" {
		orders, err := s.orders.FindGuestByPhone(phone)
		if err != nil {
			metrics.GuestLookups.WithLabelValues("error").Inc()
			return models.Order{}, fmt.Errorf("guest lookup: by phone: %w", err)
		}

		for _, order := range orders {
			matched, err := s.verifyPooled(order, password)
			if err != nil {
				return models.Order{}, err
			}
			if matched {
				metrics.GuestLookups.WithLabelValues("ok").Inc()
				return order, nil
			}
		}
	}

	metrics.GuestLookups.WithLabelValues("denied").Inc()
	return models.Order{}, ErrLookupDenied
}

// verifyPooled runs the scrypt comparison on the worker pool. A missing or
// malformed stored credential verifies false, indistinguishable from a
// wrong password.
func (s *GuestLookupService) verifyPooled(order models.Order, password string) (bool, error) {
	stored := ""
	if order.GuestPasswordHash != nil {
		stored = *order.GuestPasswordHash
	}

	var matched bool
	err := s.pool.Run(func() {
		matched = guestpass.Verify(password, stored)
	})
	if err != nil {
		metrics.GuestLookups.WithLabelValues("busy").Inc()
		return false, ErrLookupBusy
	}
	return matched, nil
}
