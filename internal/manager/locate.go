package manager

import (
	"context"
	"fmt"

	"github.com/linode/linodego"

	"go.infratographer.com/nodebalancer-manager/internal/linodeapi"
)

// LocateBalancer returns the nodebalancer identified by ref, or nil when it does not exist.
// A non-zero ID is looked up directly, otherwise the first nodebalancer labelled ref.Name is returned.
func LocateBalancer(ctx context.Context, api API, ref BalancerRef) (*linodego.NodeBalancer, error) {
	if ref.ID != 0 {
		nb, err := api.GetNodeBalancer(ctx, ref.ID)
		if err != nil {
			if linodeapi.IsNotFound(err) {
				return nil, nil
			}

			return nil, linodeapi.WrapFault(err, fmt.Sprintf("getting nodebalancer %d", ref.ID))
		}

		return nb, nil
	}

	if ref.Name == "" {
		return nil, nil
	}

	nbs, err := api.ListNodeBalancers(ctx, nil)
	if err != nil {
		return nil, linodeapi.WrapFault(err, "listing nodebalancers")
	}

	for i := range nbs {
		if nbs[i].Label != nil && *nbs[i].Label == ref.Name {
			return &nbs[i], nil
		}
	}

	return nil, nil
}

// LocateConfig returns the config of nodebalancer nbID identified by ref, or nil when it does not exist.
// A non-zero ID is looked up directly, otherwise the first config listening on ref.Port with
// ref.Protocol is returned.
func LocateConfig(ctx context.Context, api API, nbID int, ref ConfigRef) (*linodego.NodeBalancerConfig, error) {
	if ref.ID != 0 {
		cfg, err := api.GetNodeBalancerConfig(ctx, nbID, ref.ID)
		if err != nil {
			if linodeapi.IsNotFound(err) {
				return nil, nil
			}

			return nil, linodeapi.WrapFault(err, fmt.Sprintf("getting config %d", ref.ID))
		}

		return cfg, nil
	}

	if ref.Port == 0 || ref.Protocol == "" {
		return nil, nil
	}

	cfgs, err := api.ListNodeBalancerConfigs(ctx, nbID, nil)
	if err != nil {
		return nil, linodeapi.WrapFault(err, "listing nodebalancer configs")
	}

	for i := range cfgs {
		if cfgs[i].Port == ref.Port && string(cfgs[i].Protocol) == ref.Protocol {
			return &cfgs[i], nil
		}
	}

	return nil, nil
}

// LocateNode returns the node of config configID identified by spec, or nil when it does not exist.
// A non-zero ID is looked up directly, otherwise the first node labelled spec.Name is returned.
func LocateNode(ctx context.Context, api API, nbID, configID int, spec NodeSpec) (*linodego.NodeBalancerNode, error) {
	if spec.ID != 0 {
		node, err := api.GetNodeBalancerNode(ctx, nbID, configID, spec.ID)
		if err != nil {
			if linodeapi.IsNotFound(err) {
				return nil, nil
			}

			return nil, linodeapi.WrapFault(err, fmt.Sprintf("getting node %d", spec.ID))
		}

		return node, nil
	}

	if spec.Name == "" {
		return nil, nil
	}

	nodes, err := api.ListNodeBalancerNodes(ctx, nbID, configID, nil)
	if err != nil {
		return nil, linodeapi.WrapFault(err, "listing nodebalancer nodes")
	}

	for i := range nodes {
		if nodes[i].Label == spec.Name {
			return &nodes[i], nil
		}
	}

	return nil, nil
}

// requireBalancer locates the parent nodebalancer of a config or node
func requireBalancer(ctx context.Context, api API, ref BalancerRef) (*linodego.NodeBalancer, error) {
	nb, err := LocateBalancer(ctx, api, ref)
	if err != nil {
		return nil, err
	}

	if nb == nil {
		return nil, newBalancerNotFoundError(ref)
	}

	return nb, nil
}

// requireConfig locates the parent config of a node
func requireConfig(ctx context.Context, api API, nbID int, ref ConfigRef) (*linodego.NodeBalancerConfig, error) {
	cfg, err := LocateConfig(ctx, api, nbID, ref)
	if err != nil {
		return nil, err
	}

	if cfg == nil {
		return nil, newConfigNotFoundError(ref)
	}

	return cfg, nil
}
