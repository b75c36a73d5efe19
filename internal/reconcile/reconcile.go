// Package reconcile provides the locate, diff and apply primitive shared by every managed resource kind.
package reconcile

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// State is the desired state of a resource
type State string

const (
	// StatePresent means the resource must exist and match the desired fields
	StatePresent State = "present"
	// StateAbsent means the resource must not exist
	StateAbsent State = "absent"
)

// ParseState validates s and returns it as a State
func ParseState(s string) (State, error) {
	switch State(s) {
	case StatePresent, StateAbsent:
		return State(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidState, s)
	}
}

// Action records the mutating call issued during a reconciliation
type Action string

const (
	ActionNone   Action = "none"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Handler binds a desired resource to the remote API.
type Handler[T any] interface {
	// Locate returns the current remote resource, or nil when it does not exist.
	Locate(ctx context.Context) (*T, error)

	// Diff returns the names of the tracked fields of current that differ from the desired values.
	// An empty result means the resource is up to date.
	Diff(current *T) []string

	// Create creates the resource and returns its canonical state as re-read from the API.
	Create(ctx context.Context) (*T, error)

	// Update sends every desired field and returns the canonical state as re-read from the API.
	Update(ctx context.Context, current *T) (*T, error)

	// Delete removes current.
	Delete(ctx context.Context, current *T) error
}

// Result is the outcome of a single reconciliation.
type Result[T any] struct {
	Changed  bool     `json:"changed" yaml:"changed"`
	Action   Action   `json:"action" yaml:"action"`
	Diff     []string `json:"diff,omitempty" yaml:"diff,omitempty"`
	Resource *T       `json:"instance" yaml:"instance"`
}

// Option configures a reconciliation
type Option func(o *options)

type options struct {
	logger *zap.SugaredLogger
}

// WithLogger sets the logger used while reconciling
func WithLogger(l *zap.SugaredLogger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// Reconcile drives h towards the desired state.
//
// A found resource is updated only when Diff reports a difference and is deleted when the desired
// state is absent. A missing resource is created when the desired state is present. Repeating a call
// with the same input once the remote state matches yields Changed == false and no mutating call.
func Reconcile[T any](ctx context.Context, h Handler[T], state State, opts ...Option) (Result[T], error) {
	o := options{logger: zap.NewNop().Sugar()}

	for _, opt := range opts {
		opt(&o)
	}

	res := Result[T]{Action: ActionNone}

	if h == nil {
		return res, ErrNilHandler
	}

	if _, err := ParseState(string(state)); err != nil {
		return res, err
	}

	current, err := h.Locate(ctx)
	if err != nil {
		return res, err
	}

	switch {
	case current != nil && state == StatePresent:
		diff := h.Diff(current)
		if len(diff) == 0 {
			o.logger.Debugw("resource is up to date")

			res.Resource = current

			return res, nil
		}

		o.logger.Infow("updating resource", "fields", diff)

		updated, err := h.Update(ctx, current)
		if err != nil {
			return res, err
		}

		res.Changed, res.Action, res.Diff, res.Resource = true, ActionUpdate, diff, updated
	case current != nil && state == StateAbsent:
		o.logger.Infow("deleting resource")

		if err := h.Delete(ctx, current); err != nil {
			return res, err
		}

		res.Changed, res.Action = true, ActionDelete
	case current == nil && state == StatePresent:
		o.logger.Infow("creating resource")

		created, err := h.Create(ctx)
		if err != nil {
			return res, err
		}

		res.Changed, res.Action, res.Resource = true, ActionCreate, created
	default:
		o.logger.Debugw("resource is already absent")
	}

	return res, nil
}

// Guard runs fn and translates any remote API fault it returns into a *FatalError.
func Guard[T any](fn func() (Result[T], error)) (Result[T], error) {
	res, err := fn()

	return res, Translate(err)
}
