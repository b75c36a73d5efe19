package manager

import (
	"errors"
	"fmt"
)

var (
	// ErrIdentifierRequired is returned when a scope level has neither an id nor a natural key
	ErrIdentifierRequired = errors.New("an identifier is required")

	// ErrInvalidSpec is returned when the desired state fails validation
	ErrInvalidSpec = errors.New("invalid desired state")

	// ErrParentNotFound is returned when the nodebalancer or config owning a resource cannot be located
	ErrParentNotFound = errors.New("parent not found")

	// ErrVanished is returned when a resource cannot be re-read right after it was created or updated
	ErrVanished = errors.New("resource not found after mutation")

	// ErrNodeNameRequired is returned when a node has to be created without a name
	ErrNodeNameRequired = errors.New("node name is required to create a node")

	// ErrUnknownDatacenter is returned for a legacy numeric datacenter id with no region mapping
	ErrUnknownDatacenter = errors.New("unknown datacenter id")
)

// ParentNotFoundError names the identifying fields of a parent that could not be located.
type ParentNotFoundError struct {
	Kind       string
	Identifier string
}

func (e *ParentNotFoundError) Error() string {
	return fmt.Sprintf("FATAL: %s %s not found", e.Identifier, e.Kind)
}

func (e *ParentNotFoundError) Unwrap() error {
	return ErrParentNotFound
}

func newBalancerNotFoundError(spec BalancerRef) error {
	return &ParentNotFoundError{
		Kind:       "Nodebalancer",
		Identifier: fmt.Sprintf("%s/%d", spec.Name, spec.ID),
	}
}

func newConfigNotFoundError(spec ConfigRef) error {
	return &ParentNotFoundError{
		Kind:       "Config",
		Identifier: fmt.Sprintf("%s:%d/%d", spec.Protocol, spec.Port, spec.ID),
	}
}

func newSpecError(msgs []string) error {
	errs := make([]error, 0, len(msgs))
	for _, m := range msgs {
		errs = append(errs, errors.New(m)) //nolint:goerr113
	}

	return fmt.Errorf("%w: %w", ErrInvalidSpec, errors.Join(errs...))
}

var (
	// errFrontendSectionLabelFailure is returned when a frontend section cannot be created
	errFrontendSectionLabelFailure = errors.New("failed to create frontend section with label")

	// errFrontendModeFailure is returned when the mode attr cannot be applied to a frontend
	errFrontendModeFailure = errors.New("failed to create frontend attr mode")

	// errUseBackendFailure is returned when the use_backend attr cannot be applied to a frontend
	errUseBackendFailure = errors.New("failed to create frontend attr use_backend")

	// errFrontendBindFailure is returned when the bind attribute cannot be applied to a frontend
	errFrontendBindFailure = errors.New("failed to create frontend attr bind")

	// errBackendSectionLabelFailure is returned when a backend section cannot be created
	errBackendSectionLabelFailure = errors.New("failed to create section backend with label")

	// errBackendModeFailure is returned when the mode attr cannot be applied to a backend
	errBackendModeFailure = errors.New("failed to create backend attr mode")

	// errBackendBalanceFailure is returned when the balance attr cannot be applied to a backend
	errBackendBalanceFailure = errors.New("failed to create backend attr balance")

	// errBackendServerFailure is returned when a server cannot be applied to a backend
	errBackendServerFailure = errors.New("failed to add backend attr server")
)

func newLabelError(label string, err error, labelErr error) error {
	return fmt.Errorf("%w %q: %v", err, label, labelErr)
}

func newAttrError(err error, attrErr error) error {
	return fmt.Errorf("%w: %v", err, attrErr)
}
