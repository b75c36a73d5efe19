package mock

import (
	"context"

	"github.com/linode/linodego"
)

// LinodeAPI mock client
type LinodeAPI struct {
	DoListNodeBalancers  func(ctx context.Context, opts *linodego.ListOptions) ([]linodego.NodeBalancer, error)
	DoGetNodeBalancer    func(ctx context.Context, nodebalancerID int) (*linodego.NodeBalancer, error)
	DoCreateNodeBalancer func(ctx context.Context, opts linodego.NodeBalancerCreateOptions) (*linodego.NodeBalancer, error)
	DoUpdateNodeBalancer func(ctx context.Context, nodebalancerID int, opts linodego.NodeBalancerUpdateOptions) (*linodego.NodeBalancer, error)
	DoDeleteNodeBalancer func(ctx context.Context, nodebalancerID int) error

	DoListNodeBalancerConfigs  func(ctx context.Context, nodebalancerID int, opts *linodego.ListOptions) ([]linodego.NodeBalancerConfig, error)
	DoGetNodeBalancerConfig    func(ctx context.Context, nodebalancerID int, configID int) (*linodego.NodeBalancerConfig, error)
	DoCreateNodeBalancerConfig func(ctx context.Context, nodebalancerID int, opts linodego.NodeBalancerConfigCreateOptions) (*linodego.NodeBalancerConfig, error)
	DoUpdateNodeBalancerConfig func(ctx context.Context, nodebalancerID int, configID int, opts linodego.NodeBalancerConfigUpdateOptions) (*linodego.NodeBalancerConfig, error)
	DoDeleteNodeBalancerConfig func(ctx context.Context, nodebalancerID int, configID int) error

	DoListNodeBalancerNodes  func(ctx context.Context, nodebalancerID int, configID int, opts *linodego.ListOptions) ([]linodego.NodeBalancerNode, error)
	DoGetNodeBalancerNode    func(ctx context.Context, nodebalancerID int, configID int, nodeID int) (*linodego.NodeBalancerNode, error)
	DoCreateNodeBalancerNode func(ctx context.Context, nodebalancerID int, configID int, opts linodego.NodeBalancerNodeCreateOptions) (*linodego.NodeBalancerNode, error)
	DoUpdateNodeBalancerNode func(ctx context.Context, nodebalancerID int, configID int, nodeID int, opts linodego.NodeBalancerNodeUpdateOptions) (*linodego.NodeBalancerNode, error)
	DoDeleteNodeBalancerNode func(ctx context.Context, nodebalancerID int, configID int, nodeID int) error
}

func (c *LinodeAPI) ListNodeBalancers(ctx context.Context, opts *linodego.ListOptions) ([]linodego.NodeBalancer, error) {
	return c.DoListNodeBalancers(ctx, opts)
}

func (c *LinodeAPI) GetNodeBalancer(ctx context.Context, nodebalancerID int) (*linodego.NodeBalancer, error) {
	return c.DoGetNodeBalancer(ctx, nodebalancerID)
}

func (c *LinodeAPI) CreateNodeBalancer(ctx context.Context, opts linodego.NodeBalancerCreateOptions) (*linodego.NodeBalancer, error) {
	return c.DoCreateNodeBalancer(ctx, opts)
}

func (c *LinodeAPI) UpdateNodeBalancer(ctx context.Context, nodebalancerID int, opts linodego.NodeBalancerUpdateOptions) (*linodego.NodeBalancer, error) {
	return c.DoUpdateNodeBalancer(ctx, nodebalancerID, opts)
}

func (c *LinodeAPI) DeleteNodeBalancer(ctx context.Context, nodebalancerID int) error {
	return c.DoDeleteNodeBalancer(ctx, nodebalancerID)
}

func (c *LinodeAPI) ListNodeBalancerConfigs(ctx context.Context, nodebalancerID int, opts *linodego.ListOptions) ([]linodego.NodeBalancerConfig, error) {
	return c.DoListNodeBalancerConfigs(ctx, nodebalancerID, opts)
}

func (c *LinodeAPI) GetNodeBalancerConfig(ctx context.Context, nodebalancerID int, configID int) (*linodego.NodeBalancerConfig, error) {
	return c.DoGetNodeBalancerConfig(ctx, nodebalancerID, configID)
}

func (c *LinodeAPI) CreateNodeBalancerConfig(ctx context.Context, nodebalancerID int, opts linodego.NodeBalancerConfigCreateOptions) (*linodego.NodeBalancerConfig, error) {
	return c.DoCreateNodeBalancerConfig(ctx, nodebalancerID, opts)
}

func (c *LinodeAPI) UpdateNodeBalancerConfig(ctx context.Context, nodebalancerID int, configID int, opts linodego.NodeBalancerConfigUpdateOptions) (*linodego.NodeBalancerConfig, error) {
	return c.DoUpdateNodeBalancerConfig(ctx, nodebalancerID, configID, opts)
}

func (c *LinodeAPI) DeleteNodeBalancerConfig(ctx context.Context, nodebalancerID int, configID int) error {
	return c.DoDeleteNodeBalancerConfig(ctx, nodebalancerID, configID)
}

func (c *LinodeAPI) ListNodeBalancerNodes(ctx context.Context, nodebalancerID int, configID int, opts *linodego.ListOptions) ([]linodego.NodeBalancerNode, error) {
	return c.DoListNodeBalancerNodes(ctx, nodebalancerID, configID, opts)
}

func (c *LinodeAPI) GetNodeBalancerNode(ctx context.Context, nodebalancerID int, configID int, nodeID int) (*linodego.NodeBalancerNode, error) {
	return c.DoGetNodeBalancerNode(ctx, nodebalancerID, configID, nodeID)
}

func (c *LinodeAPI) CreateNodeBalancerNode(ctx context.Context, nodebalancerID int, configID int, opts linodego.NodeBalancerNodeCreateOptions) (*linodego.NodeBalancerNode, error) {
	return c.DoCreateNodeBalancerNode(ctx, nodebalancerID, configID, opts)
}

func (c *LinodeAPI) UpdateNodeBalancerNode(ctx context.Context, nodebalancerID int, configID int, nodeID int, opts linodego.NodeBalancerNodeUpdateOptions) (*linodego.NodeBalancerNode, error) {
	return c.DoUpdateNodeBalancerNode(ctx, nodebalancerID, configID, nodeID, opts)
}

func (c *LinodeAPI) DeleteNodeBalancerNode(ctx context.Context, nodebalancerID int, configID int, nodeID int) error {
	return c.DoDeleteNodeBalancerNode(ctx, nodebalancerID, configID, nodeID)
}
