package gateway

import (
	"encoding/json"
	"errors"
)

var (
	ErrNoBaseURL = errors.New("api base url is not configured")
	ErrNoPaths   = errors.New("no request paths given")
)

// APIError is the normalized failure shape for every request. Transport
// failures carry Status 0; protocol failures carry the HTTP status and, when
// the body parsed, the raw error payload. Callers distinguish authorization
// failures from the rest via Status.
type APIError struct {
	Status  int
	Message string
	Data    json.RawMessage
}

func (e *APIError) Error() string {
	return e.Message
}
