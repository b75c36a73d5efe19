package manager

import (
	"context"
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/linode/linodego"
	"go.uber.org/zap"

	"go.infratographer.com/nodebalancer-manager/internal/linodeapi"
)

// nodeFields are the tracked fields of a nodebalancer node
type nodeFields struct {
	Label   string
	Address string
	Weight  int
	Mode    string
}

// NodeHandler reconciles a single node of an already located config
type NodeHandler struct {
	API            API
	NodeBalancerID int
	ConfigID       int
	Spec           NodeSpec
	Logger         *zap.SugaredLogger
}

func (h *NodeHandler) logger() *zap.SugaredLogger {
	if h.Logger == nil {
		return zap.NewNop().Sugar()
	}

	return h.Logger
}

// Locate implements reconcile.Handler
func (h *NodeHandler) Locate(ctx context.Context) (*linodego.NodeBalancerNode, error) {
	return LocateNode(ctx, h.API, h.NodeBalancerID, h.ConfigID, h.Spec)
}

func observedNode(n *linodego.NodeBalancerNode) nodeFields {
	return nodeFields{
		Label:   n.Label,
		Address: n.Address,
		Weight:  n.Weight,
		Mode:    string(n.Mode),
	}
}

func (h *NodeHandler) desired(current nodeFields) nodeFields {
	want := nodeFields{
		Label:   current.Label,
		Address: h.Spec.Address,
		Weight:  h.Spec.Weight,
		Mode:    h.Spec.Mode,
	}

	if h.Spec.Name != "" {
		want.Label = h.Spec.Name
	}

	return want
}

// Diff implements reconcile.Handler
func (h *NodeHandler) Diff(current *linodego.NodeBalancerNode) []string {
	have := observedNode(current)
	want := h.desired(have)

	var diff []string

	if have.Label != want.Label {
		diff = append(diff, "label")
	}

	if have.Address != want.Address {
		diff = append(diff, "address")
	}

	if have.Weight != want.Weight {
		diff = append(diff, "weight")
	}

	if have.Mode != want.Mode {
		diff = append(diff, "mode")
	}

	if len(diff) > 0 {
		h.logger().Debugw("node differs", "nodeID", current.ID, "diff", cmp.Diff(have, want))
	}

	return diff
}

// Create implements reconcile.Handler
func (h *NodeHandler) Create(ctx context.Context) (*linodego.NodeBalancerNode, error) {
	if h.Spec.Name == "" {
		return nil, ErrNodeNameRequired
	}

	want := h.desired(nodeFields{})

	opts := linodego.NodeBalancerNodeCreateOptions{
		Label:   want.Label,
		Address: want.Address,
		Weight:  want.Weight,
		Mode:    linodego.NodeMode(want.Mode),
	}

	node, err := h.API.CreateNodeBalancerNode(ctx, h.NodeBalancerID, h.ConfigID, opts)
	if err != nil {
		return nil, linodeapi.WrapFault(err, "creating nodebalancer node")
	}

	h.logger().Infow("created nodebalancer node", "configID", h.ConfigID, "nodeID", node.ID)

	return h.relocate(ctx, node.ID)
}

// Update implements reconcile.Handler
func (h *NodeHandler) Update(ctx context.Context, current *linodego.NodeBalancerNode) (*linodego.NodeBalancerNode, error) {
	want := h.desired(observedNode(current))

	opts := linodego.NodeBalancerNodeUpdateOptions{
		Label:   want.Label,
		Address: want.Address,
		Weight:  want.Weight,
		Mode:    linodego.NodeMode(want.Mode),
	}

	node, err := h.API.UpdateNodeBalancerNode(ctx, h.NodeBalancerID, h.ConfigID, current.ID, opts)
	if err != nil {
		return nil, linodeapi.WrapFault(err, fmt.Sprintf("updating nodebalancer node %d", current.ID))
	}

	return h.relocate(ctx, node.ID)
}

// Delete implements reconcile.Handler
func (h *NodeHandler) Delete(ctx context.Context, current *linodego.NodeBalancerNode) error {
	if err := h.API.DeleteNodeBalancerNode(ctx, h.NodeBalancerID, h.ConfigID, current.ID); err != nil {
		return linodeapi.WrapFault(err, fmt.Sprintf("deleting nodebalancer node %d", current.ID))
	}

	return nil
}

func (h *NodeHandler) relocate(ctx context.Context, id int) (*linodego.NodeBalancerNode, error) {
	node, err := LocateNode(ctx, h.API, h.NodeBalancerID, h.ConfigID, NodeSpec{ID: id})
	if err != nil {
		return nil, err
	}

	if node == nil {
		return nil, fmt.Errorf("%w: node %d", ErrVanished, id)
	}

	return node, nil
}
