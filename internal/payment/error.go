package payment

import "errors"

var ErrAttemptInFlight = errors.New("payment attempt already in flight")
