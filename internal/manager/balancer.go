package manager

import (
	"context"
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/linode/linodego"
	"go.uber.org/zap"

	"go.infratographer.com/nodebalancer-manager/internal/linodeapi"
)

// balancerFields are the tracked fields of a nodebalancer
type balancerFields struct {
	Label              string
	ClientConnThrottle int
}

// BalancerHandler reconciles a single nodebalancer
type BalancerHandler struct {
	API    API
	Spec   BalancerSpec
	Logger *zap.SugaredLogger
}

func (h *BalancerHandler) logger() *zap.SugaredLogger {
	if h.Logger == nil {
		return zap.NewNop().Sugar()
	}

	return h.Logger
}

// Locate implements reconcile.Handler
func (h *BalancerHandler) Locate(ctx context.Context) (*linodego.NodeBalancer, error) {
	return LocateBalancer(ctx, h.API, h.Spec.BalancerRef)
}

func observedBalancer(nb *linodego.NodeBalancer) balancerFields {
	f := balancerFields{ClientConnThrottle: nb.ClientConnThrottle}
	if nb.Label != nil {
		f.Label = *nb.Label
	}

	return f
}

// desired returns the fields an update has to send. The label is only managed when a name is given.
func (h *BalancerHandler) desired(current balancerFields) balancerFields {
	want := balancerFields{
		Label:              current.Label,
		ClientConnThrottle: h.Spec.ClientConnThrottle,
	}

	if h.Spec.Name != "" {
		want.Label = h.Spec.Name
	}

	return want
}

// Diff implements reconcile.Handler
func (h *BalancerHandler) Diff(current *linodego.NodeBalancer) []string {
	have := observedBalancer(current)
	want := h.desired(have)

	if region, err := ResolveRegion(h.Spec.Datacenter); err == nil && h.Spec.Datacenter != "" && region != current.Region {
		h.logger().Warnw("nodebalancer region cannot be changed in place, ignoring",
			"nodebalancerID", current.ID, "current", current.Region, "desired", region)
	}

	var diff []string

	if have.Label != want.Label {
		diff = append(diff, "label")
	}

	if have.ClientConnThrottle != want.ClientConnThrottle {
		diff = append(diff, "client_conn_throttle")
	}

	if len(diff) > 0 {
		h.logger().Debugw("nodebalancer differs", "nodebalancerID", current.ID, "diff", cmp.Diff(have, want))
	}

	return diff
}

// Create implements reconcile.Handler
func (h *BalancerHandler) Create(ctx context.Context) (*linodego.NodeBalancer, error) {
	region, err := ResolveRegion(h.Spec.Datacenter)
	if err != nil {
		return nil, err
	}

	throttle := h.Spec.ClientConnThrottle

	opts := linodego.NodeBalancerCreateOptions{
		Region:             region,
		ClientConnThrottle: &throttle,
	}

	if h.Spec.Name != "" {
		label := h.Spec.Name
		opts.Label = &label
	}

	if h.Spec.PaymentTerm != DefaultPaymentTerm {
		h.logger().Infow("payment term is not supported by the api, nodebalancer will be billed hourly",
			"paymentTerm", h.Spec.PaymentTerm)
	}

	nb, err := h.API.CreateNodeBalancer(ctx, opts)
	if err != nil {
		return nil, linodeapi.WrapFault(err, "creating nodebalancer")
	}

	h.logger().Infow("created nodebalancer", "nodebalancerID", nb.ID, "region", region)

	return h.relocate(ctx, nb.ID)
}

// Update implements reconcile.Handler
func (h *BalancerHandler) Update(ctx context.Context, current *linodego.NodeBalancer) (*linodego.NodeBalancer, error) {
	want := h.desired(observedBalancer(current))

	opts := linodego.NodeBalancerUpdateOptions{
		Label:              &want.Label,
		ClientConnThrottle: &want.ClientConnThrottle,
	}

	nb, err := h.API.UpdateNodeBalancer(ctx, current.ID, opts)
	if err != nil {
		return nil, linodeapi.WrapFault(err, fmt.Sprintf("updating nodebalancer %d", current.ID))
	}

	return h.relocate(ctx, nb.ID)
}

// Delete implements reconcile.Handler
func (h *BalancerHandler) Delete(ctx context.Context, current *linodego.NodeBalancer) error {
	if err := h.API.DeleteNodeBalancer(ctx, current.ID); err != nil {
		return linodeapi.WrapFault(err, fmt.Sprintf("deleting nodebalancer %d", current.ID))
	}

	return nil
}

func (h *BalancerHandler) relocate(ctx context.Context, id int) (*linodego.NodeBalancer, error) {
	nb, err := LocateBalancer(ctx, h.API, BalancerRef{ID: id})
	if err != nil {
		return nil, err
	}

	if nb == nil {
		return nil, fmt.Errorf("%w: nodebalancer %d", ErrVanished, id)
	}

	return nb, nil
}
