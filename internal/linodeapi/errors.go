package linodeapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/linode/linodego"
)

var (
	// ErrTokenRequired is returned when a client is built without an access token
	ErrTokenRequired = errors.New("linode api token is required and cannot be empty")

	// ErrProbeFailed is returned when the authentication probe does not succeed
	ErrProbeFailed = errors.New("linode api probe failed")
)

// Fault is a Linode API error reduced to its code and message.
type Fault struct {
	code    int
	message string
	err     error
}

// Error implements error
func (f *Fault) Error() string {
	return fmt.Sprintf("[%03d] %s", f.code, f.message)
}

// Code returns the HTTP status code reported by the API
func (f *Fault) Code() int { return f.code }

// Message returns the API supplied error message
func (f *Fault) Message() string { return f.message }

func (f *Fault) Unwrap() error { return f.err }

// AsFault returns the Linode API error in err's chain as a *Fault.
func AsFault(err error) (*Fault, bool) {
	if err == nil {
		return nil, false
	}

	var fault *Fault
	if errors.As(err, &fault) {
		return fault, true
	}

	var lerr *linodego.Error
	if errors.As(err, &lerr) && lerr != nil {
		return &Fault{code: lerr.Code, message: lerr.Message, err: err}, true
	}

	return nil, false
}

// WrapFault converts a linodego error into a *Fault, wrapping it with msg for context.
// Errors without an API code are wrapped unchanged.
func WrapFault(err error, msg string) error {
	if err == nil {
		return nil
	}

	if f, ok := AsFault(err); ok {
		return fmt.Errorf("%s: %w", msg, f)
	}

	return fmt.Errorf("%s: %w", msg, err)
}

// IsNotFound reports whether err is an API 404
func IsNotFound(err error) bool {
	f, ok := AsFault(err)

	return ok && f.Code() == http.StatusNotFound
}
