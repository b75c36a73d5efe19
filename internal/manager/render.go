package manager

import (
	"context"
	"fmt"
	"strings"

	parser "github.com/haproxytech/config-parser/v4"
	"github.com/haproxytech/config-parser/v4/options"
	"github.com/haproxytech/config-parser/v4/types"
	"github.com/linode/linodego"

	"go.infratographer.com/nodebalancer-manager/internal/linodeapi"
)

// defaultBaseConfig is used when no base haproxy config file is given
const defaultBaseConfig = `global
  log stdout format raw local0 info

defaults
  log global
  timeout connect 5s
  timeout client 50s
  timeout server 50s
`

// NewBaseConfig loads the haproxy config the rendered sections are merged into.
// An empty path selects a minimal built in config.
func NewBaseConfig(path string) (parser.Parser, error) {
	if path != "" {
		return parser.New(options.Path(path), options.NoNamedDefaultsFrom)
	}

	return parser.New(options.Reader(strings.NewReader(defaultBaseConfig)), options.NoNamedDefaultsFrom)
}

// Render merges an haproxy equivalent of the nodebalancer identified by ref into cfg
func (m *Manager) Render(ctx context.Context, ref BalancerRef, cfg parser.Parser) (parser.Parser, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}

	lb, err := m.snapshot(ctx, ref)
	if err != nil {
		return nil, err
	}

	m.logger().Debugw("rendering nodebalancer", "nodebalancerID", lb.ID, "ports", len(lb.Ports))

	return mergeConfig(cfg, lb)
}

// snapshot reads a nodebalancer with all of its configs and nodes
func (m *Manager) snapshot(ctx context.Context, ref BalancerRef) (*loadBalancer, error) {
	nb, err := requireBalancer(ctx, m.API, ref)
	if err != nil {
		return nil, err
	}

	cfgs, err := m.API.ListNodeBalancerConfigs(ctx, nb.ID, nil)
	if err != nil {
		return nil, linodeapi.WrapFault(err, "listing nodebalancer configs")
	}

	lb := &loadBalancer{ID: nb.ID}
	if nb.Label != nil {
		lb.Label = *nb.Label
	}

	for _, c := range cfgs {
		nodes, err := m.API.ListNodeBalancerNodes(ctx, nb.ID, c.ID, nil)
		if err != nil {
			return nil, linodeapi.WrapFault(err, fmt.Sprintf("listing nodes of config %d", c.ID))
		}

		p := port{
			ID:        c.ID,
			Port:      c.Port,
			Protocol:  string(c.Protocol),
			Algorithm: string(c.Algorithm),
		}

		for _, n := range nodes {
			p.Nodes = append(p.Nodes, backendNode{
				ID:      n.ID,
				Label:   n.Label,
				Address: n.Address,
				Weight:  n.Weight,
				Mode:    string(n.Mode),
			})
		}

		lb.Ports = append(lb.Ports, p)
	}

	return lb, nil
}

func (p port) sectionName() string {
	return fmt.Sprintf("%s-%d", p.Protocol, p.Port)
}

// haproxyMode maps a config protocol onto an haproxy proxy mode
func haproxyMode(protocol string) string {
	if protocol == string(linodego.ProtocolTCP) {
		return "tcp"
	}

	return "http"
}

// serverAddress renders a node as an haproxy server address with its options
func serverAddress(n backendNode) string {
	weight := n.Weight

	if n.Mode == string(linodego.ModeDrain) {
		weight = 0
	}

	addr := fmt.Sprintf("%s check weight %d", n.Address, weight)

	if n.Mode == string(linodego.ModeReject) {
		addr += " disabled"
	}

	return addr
}

// mergeConfig takes a nodebalancer snapshot, merges it with the base haproxy config and returns it
func mergeConfig(cfg parser.Parser, lb *loadBalancer) (parser.Parser, error) {
	for _, p := range lb.Ports {
		name := p.sectionName()
		mode := types.StringC{Value: haproxyMode(p.Protocol)}

		if err := cfg.SectionsCreate(parser.Frontends, name); err != nil {
			return nil, newLabelError(name, errFrontendSectionLabelFailure, err)
		}

		if err := cfg.Set(parser.Frontends, name, "mode", mode); err != nil {
			return nil, newAttrError(errFrontendModeFailure, err)
		}

		if err := cfg.Insert(parser.Frontends, name, "bind", types.Bind{
			Path: fmt.Sprintf(":%d", p.Port)}); err != nil {
			return nil, newAttrError(errFrontendBindFailure, err)
		}

		if err := cfg.Set(parser.Frontends, name, "use_backend", types.UseBackend{Name: name}); err != nil {
			return nil, newAttrError(errUseBackendFailure, err)
		}

		if err := cfg.SectionsCreate(parser.Backends, name); err != nil {
			return nil, newLabelError(name, errBackendSectionLabelFailure, err)
		}

		if err := cfg.Set(parser.Backends, name, "mode", mode); err != nil {
			return nil, newAttrError(errBackendModeFailure, err)
		}

		if err := cfg.Set(parser.Backends, name, "balance", types.Balance{Algorithm: p.Algorithm}); err != nil {
			return nil, newAttrError(errBackendBalanceFailure, err)
		}

		for _, n := range p.Nodes {
			srvr := types.Server{
				Name:    n.Label,
				Address: serverAddress(n),
			}

			if err := cfg.Set(parser.Backends, name, "server", srvr); err != nil {
				return nil, newLabelError(name, errBackendServerFailure, err)
			}
		}
	}

	return cfg, nil
}
