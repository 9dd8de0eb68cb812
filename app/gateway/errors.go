package gateway

import (
	"errors"
	"fmt"
)

// ErrNotFound signals a gateway 404. It is not a failure: the resolver uses
// it to drive its ordered fallback, and every other error kind aborts.
var ErrNotFound = errors.New("gateway resource not found")

// GatewayError is a non-2xx, non-404 HTTP response from the gateway.
type GatewayError struct {
	Status int
	Body   string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway request failed: status=%d body=%s", e.Status, e.Body)
}

// NetworkError wraps a transport-level failure (connect, timeout, aborted
// request).
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("gateway network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
