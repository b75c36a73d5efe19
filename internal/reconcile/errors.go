package reconcile

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState is returned when the desired state is neither present nor absent
	ErrInvalidState = errors.New("desired state must be one of present, absent")

	// ErrNilHandler is returned when Reconcile is called without a handler
	ErrNilHandler = errors.New("reconcile handler is nil")
)

// Fault is implemented by errors returned from the remote API that carry a code and a message.
type Fault interface {
	error
	Code() int
	Message() string
}

// FatalError is the single failure outcome produced for any remote API fault.
type FatalError struct {
	Code    int
	Message string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("FATAL: Code [%d] - %s", e.Code, e.Message)
}

// Translate turns any remote API fault found in err's chain into a *FatalError.
// Errors that carry no fault, such as configuration errors, are returned unchanged.
func Translate(err error) error {
	if err == nil {
		return nil
	}

	var fatal *FatalError
	if errors.As(err, &fatal) {
		return fatal
	}

	var fault Fault
	if errors.As(err, &fault) {
		return &FatalError{Code: fault.Code(), Message: fault.Message()}
	}

	return err
}
