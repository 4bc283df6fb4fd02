package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"arenax-client/internal/checkout"
	"arenax-client/internal/gateway"
	"arenax-client/internal/logger"
	"arenax-client/internal/notify"

	"go.uber.org/zap"
)

// Alternate routes for the same logical resource, tried in order. Older
// backend releases served the list under /payments/me.
var paymentListPaths = []string{"/payments/my-payments", "/payments/me"}

// Service sequences a payment attempt: order creation, external checkout
// handoff, server-side verification. One attempt per payment id may be in
// flight at a time; different ids run independently.
type Service struct {
	api      *gateway.Client
	checkout checkout.Collaborator
	notify   notify.Notifier

	// OnTransition, when set, observes per-attempt state changes (UI
	// progress, tests).
	OnTransition func(paymentID string, state State)

	// OnConfirmed, when set, runs after successful verification. The CLI
	// uses it to reload the payment list.
	OnConfirmed func(ctx context.Context)

	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewService(api *gateway.Client, co checkout.Collaborator, n notify.Notifier) *Service {
	return &Service{
		api:      api,
		checkout: co,
		notify:   n,
		inflight: make(map[string]struct{}),
	}
}

// InFlight reports whether an attempt for the given payment id is running.
// The UI disables the pay trigger for that id while true.
func (s *Service) InFlight(paymentID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.inflight[paymentID]
	return ok
}

// Pay runs one attempt for p and returns the final state. Dismissing the
// checkout is not an error: the attempt lands back on StateIdle.
func (s *Service) Pay(ctx context.Context, p Payment) (State, error) {
	if !s.acquire(p.ID) {
		return StateIdle, ErrAttemptInFlight
	}
	defer s.release(p.ID)

	log := logger.L().With(
		zap.String("payment_id", p.ID),
		zap.Float64("amount", p.Amount),
	)

	// fully covered by a coupon, nothing to charge
	if p.Amount <= 0 {
		s.transition(p.ID, StateConfirmed)
		s.notify.Info("Payment not required")
		log.Info("zero amount payment confirmed without checkout")
		return StateConfirmed, nil
	}

	s.transition(p.ID, StateOpening)
	if err := s.checkout.Load(ctx); err != nil {
		s.transition(p.ID, StateFailed)
		s.notify.Error("Payment system failed to load")
		log.Error("checkout load failed", zap.Error(err))
		return StateFailed, err
	}

	var order Order
	err := s.api.DoJSON(ctx, "/payments/create-order", &gateway.Options{
		Method: http.MethodPost,
		Body:   map[string]string{"paymentId": p.ID},
	}, &order)
	if err != nil {
		s.transition(p.ID, StateFailed)
		s.notify.Error(err.Error())
		log.Error("order creation failed", zap.Error(err))
		return StateFailed, err
	}

	description := p.Purpose
	if description == "" {
		description = "Tournament payment"
	}

	s.transition(p.ID, StateAwaiting)
	res, err := s.checkout.Open(ctx, checkout.Options{
		Key:         order.Key,
		Amount:      checkout.MinorUnits(order.Amount),
		Currency:    order.Currency,
		Name:        "ArenaX",
		Description: description,
		OrderID:     order.OrderID,
		Theme:       checkout.Theme{Color: "#6d28d9"},
	})
	if err != nil {
		if errors.Is(err, checkout.ErrDismissed) {
			s.transition(p.ID, StateIdle)
			s.notify.Info("Payment cancelled")
			log.Info("checkout dismissed by user")
			return StateIdle, nil
		}
		s.transition(p.ID, StateFailed)
		s.notify.Error("Checkout failed")
		log.Error("checkout failed", zap.Error(err))
		return StateFailed, err
	}

	s.transition(p.ID, StateVerifying)
	_, err = s.api.Request(ctx, "/payments/verify", &gateway.Options{
		Method: http.MethodPost,
		Body: map[string]string{
			"razorpay_order_id":   res.OrderID,
			"razorpay_payment_id": res.PaymentID,
			"razorpay_signature":  res.Signature,
			"paymentId":           order.PaymentID,
		},
	})
	if err != nil {
		// the external charge may already be captured here; reconciling
		// that belongs to the backend
		s.transition(p.ID, StateFailed)
		s.notify.Error(err.Error())
		log.Error("verification failed", zap.Error(err))
		return StateFailed, err
	}

	s.transition(p.ID, StateConfirmed)
	s.notify.Success("Payment confirmed")
	log.Info("payment confirmed", zap.String("order_id", res.OrderID))

	if s.OnConfirmed != nil {
		s.OnConfirmed(ctx)
	}
	return StateConfirmed, nil
}

// MyPayments fetches the caller's payment records, tolerating route drift
// across backend versions.
func (s *Service) MyPayments(ctx context.Context) ([]Payment, error) {
	raw, err := s.api.RequestFirstSuccessful(ctx, paymentListPaths, nil)
	if err != nil {
		return nil, err
	}

	var payments []Payment
	if raw != nil {
		if err := json.Unmarshal(raw, &payments); err != nil {
			return nil, err
		}
	}
	return payments, nil
}

func (s *Service) acquire(paymentID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.inflight[paymentID]; ok {
		return false
	}
	s.inflight[paymentID] = struct{}{}
	return true
}

func (s *Service) release(paymentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, paymentID)
}

func (s *Service) transition(paymentID string, st State) {
	if s.OnTransition != nil {
		s.OnTransition(paymentID, st)
	}
}
