package checkout

import (
	"context"
	"errors"
	"math"
	"strconv"
)

// DefaultScriptURL is where the hosted checkout script lives. The web client
// injects it as a script tag; this client probes it on Load so a dead
// integration fails before any order is created.
const DefaultScriptURL = "https://checkout.razorpay.com/v1/checkout.js"

var (
	// ErrUnavailable marks external-integration failures (script load,
	// missing widget) so callers never mistake them for backend failures.
	ErrUnavailable = errors.New("checkout is unavailable")

	// ErrDismissed is returned when the user closes the checkout without
	// completing it.
	ErrDismissed = errors.New("checkout dismissed")
)

type Theme struct {
	Color string `json:"color"`
}

// Options is the widget contract: one fully-formed object per attempt.
// Amount is in the gateway's minor units, see MinorUnits.
type Options struct {
	Key         string `json:"key"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Name        string `json:"name"`
	Description string `json:"description"`
	OrderID     string `json:"order_id"`
	Theme       Theme  `json:"theme"`
}

// Result carries the three values the gateway hands back on success. They are
// forwarded verbatim to the backend for signature verification.
type Result struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

// Collaborator is the external checkout widget, reduced to a single-shot
// completion: Open blocks until exactly one of success (Result) or dismissal
// (ErrDismissed) happens. Context cancellation counts as dismissal.
type Collaborator interface {
	Load(ctx context.Context) error
	Open(ctx context.Context, opts Options) (*Result, error)
}

// MinorUnits converts a whole-currency amount into the gateway's minor-unit
// convention (paise per rupee). This is the only place the x100 lives; the
// backend must keep returning amounts in whole currency units for it to hold.
func MinorUnits(amount float64) string {
	return strconv.FormatInt(int64(math.Round(amount*100)), 10)
}
