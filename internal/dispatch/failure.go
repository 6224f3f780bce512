package dispatch

import (
	"errors"
	"fmt"

	"github.com/joao-fontenele/coffeeshop/internal/domain"
)

var ErrDispatchFailed = errors.New("dispatch failed")

// Reason classifies why an order never reached the barista.
type Reason string

const (
	ReasonStatus    Reason = "status"
	ReasonTransport Reason = "transport"
	ReasonTimeout   Reason = "timeout"
	ReasonQueueFull Reason = "queue_full"
	ReasonClosed    Reason = "closed"
)

type Failure struct {
	OrderID    string
	Type       domain.CoffeeType
	Reason     Reason
	StatusCode int
	Err        error
}

func (f *Failure) Error() string {
	switch {
	case f.StatusCode != 0:
		return fmt.Sprintf("dispatch failed: barista returned status %d", f.StatusCode)
	case f.Err != nil:
		return fmt.Sprintf("dispatch failed (%s): %v", f.Reason, f.Err)
	default:
		return fmt.Sprintf("dispatch failed (%s)", f.Reason)
	}
}

func (f *Failure) Unwrap() []error {
	if f.Err == nil {
		return []error{ErrDispatchFailed}
	}
	return []error{ErrDispatchFailed, f.Err}
}
