package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// OrderFailedMessage is surfaced for every order submission failure,
// whatever the cause.
const OrderFailedMessage = "Order failed! See network/server error."

var ErrMissingToken = errors.New("login response carried no token")

// ValidationError is a client-side, field-scoped failure. It never reaches
// the network.
type ValidationError struct {
	// Message is the form-level message, if any.
	Message string
	// Fields maps a form key to its message.
	Fields map[string]string
}

// NewFieldError builds a ValidationError for a single field.
func NewFieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, k+": "+e.Fields[k])
	}
	return strings.Join(msgs, "; ")
}

// NetworkError means no response was received.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError is a non-2xx response. Message carries the server's
// {"error": "..."} value when it sent one.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.Message)
}

// OrderError is an order submission failure. Its message is the same for
// every cause; the cause stays reachable through errors.As for logging.
type OrderError struct {
	Err error
}

func (e *OrderError) Error() string { return OrderFailedMessage }

func (e *OrderError) Unwrap() error { return e.Err }
