package client

import "errors"

var (
	// ErrBadRequest is returned when the request is malformed (HTTP 400)
	ErrBadRequest = errors.New("bad request")

	// ErrNotFound is returned when the transaction is not found (HTTP 404)
	ErrNotFound = errors.New("transaction not found")

	// ErrServiceUnavailable is returned when the backend is unavailable (HTTP 5xx, timeout)
	ErrServiceUnavailable = errors.New("backend unavailable")
)

// ChargeError is a charge refusal carrying the server-provided message, e.g.
// a card decline reason. Message may be empty when the backend gave none.
type ChargeError struct {
	Message string
}

func (e *ChargeError) Error() string {
	if e.Message == "" {
		return "charge failed"
	}
	return "charge failed: " + e.Message
}
