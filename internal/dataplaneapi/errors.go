package dataplaneapi

import (
	"errors"
	"fmt"
)

var (
	// ErrDataPlaneNotReady is returned when the Data Plane API does not answer 200 within the allowed attempts
	ErrDataPlaneNotReady = errors.New("dataplaneapi failed to become ready")

	// ErrDataPlaneHTTPUnauthorized is returned when the basic auth credentials are rejected
	ErrDataPlaneHTTPUnauthorized = errors.New("dataplaneapi received unauthorized request")

	// ErrDataPlaneHTTPError is returned for any other unexpected status
	ErrDataPlaneHTTPError = errors.New("dataplaneapi http error")

	// ErrDataPlaneConfigInvalid is returned when haproxy rejects the rendered config
	ErrDataPlaneConfigInvalid = errors.New("dataplaneapi config is invalid")
)

func newStatusError(status int) error {
	return fmt.Errorf("%w: status %d", ErrDataPlaneHTTPError, status)
}
