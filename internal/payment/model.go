package payment

// Payment is a backend-owned record: this layer only observes it via reload
// and never mutates it directly.
type Payment struct {
	ID      string  `json:"_id"`
	Amount  float64 `json:"amount"`
	Gateway string  `json:"gateway"`
	Status  string  `json:"status"`
	Purpose string  `json:"purpose,omitempty"`
}

const (
	StatusPending = "pending"
	StatusSuccess = "success"
)

// Order is the descriptor the backend issues to authorize an external
// checkout. Amount is in whole currency units.
type Order struct {
	OrderID   string  `json:"orderId"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Key       string  `json:"key"`
	PaymentID string  `json:"paymentId"`
}

// State of a single payment attempt.
type State string

const (
	StateIdle      State = "idle"
	StateOpening   State = "opening"
	StateAwaiting  State = "awaiting_confirmation"
	StateVerifying State = "verifying"
	StateConfirmed State = "confirmed"
	StateFailed    State = "failed"
)
