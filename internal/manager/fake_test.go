package manager

import (
	"context"
	"net/http"
	"sort"

	"github.com/linode/linodego"

	"go.infratographer.com/nodebalancer-manager/internal/manager/mock"
)

// fakeAccount is an in memory linode account served through mock.LinodeAPI
type fakeAccount struct {
	nextID   int
	balancer map[int]*linodego.NodeBalancer
	configs  map[int]*linodego.NodeBalancerConfig
	nodes    map[int]*linodego.NodeBalancerNode

	calls map[string]int

	lastBalancerCreate linodego.NodeBalancerCreateOptions
	lastBalancerUpdate linodego.NodeBalancerUpdateOptions
	lastConfigCreate   linodego.NodeBalancerConfigCreateOptions
	lastConfigUpdate   linodego.NodeBalancerConfigUpdateOptions
	lastNodeCreate     linodego.NodeBalancerNodeCreateOptions
	lastNodeUpdate     linodego.NodeBalancerNodeUpdateOptions
}

func newFakeAccount() *fakeAccount {
	return &fakeAccount{
		nextID:   100,
		balancer: map[int]*linodego.NodeBalancer{},
		configs:  map[int]*linodego.NodeBalancerConfig{},
		nodes:    map[int]*linodego.NodeBalancerNode{},
		calls:    map[string]int{},
	}
}

func notFound() error {
	return &linodego.Error{Code: http.StatusNotFound, Message: "Not found"}
}

func (f *fakeAccount) id() int {
	f.nextID++
	return f.nextID
}

// mutations counts create, update and delete calls
func (f *fakeAccount) mutations() int {
	n := 0

	for _, op := range []string{"create", "update", "delete"} {
		n += f.calls[op]
	}

	return n
}

func (f *fakeAccount) addBalancer(label, region string, throttle int) *linodego.NodeBalancer {
	l := label
	nb := &linodego.NodeBalancer{ID: f.id(), Label: &l, Region: region, ClientConnThrottle: throttle}
	f.balancer[nb.ID] = nb

	return nb
}

func (f *fakeAccount) addConfig(cfg linodego.NodeBalancerConfig) *linodego.NodeBalancerConfig {
	cfg.ID = f.id()
	f.configs[cfg.ID] = &cfg

	return &cfg
}

func (f *fakeAccount) addNode(node linodego.NodeBalancerNode) *linodego.NodeBalancerNode {
	node.ID = f.id()
	f.nodes[node.ID] = &node

	return &node
}

func sortedKeys[T any](m map[int]T) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Ints(keys)

	return keys
}

func (f *fakeAccount) api() *mock.LinodeAPI {
	return &mock.LinodeAPI{
		DoListNodeBalancers: func(ctx context.Context, opts *linodego.ListOptions) ([]linodego.NodeBalancer, error) {
			f.calls["list"]++

			var out []linodego.NodeBalancer
			for _, id := range sortedKeys(f.balancer) {
				out = append(out, *f.balancer[id])
			}

			return out, nil
		},
		DoGetNodeBalancer: func(ctx context.Context, nodebalancerID int) (*linodego.NodeBalancer, error) {
			f.calls["get"]++

			nb, ok := f.balancer[nodebalancerID]
			if !ok {
				return nil, notFound()
			}

			out := *nb

			return &out, nil
		},
		DoCreateNodeBalancer: func(ctx context.Context, opts linodego.NodeBalancerCreateOptions) (*linodego.NodeBalancer, error) {
			f.calls["create"]++
			f.lastBalancerCreate = opts

			label := ""
			if opts.Label != nil {
				label = *opts.Label
			}

			throttle := 0
			if opts.ClientConnThrottle != nil {
				throttle = *opts.ClientConnThrottle
			}

			return f.addBalancer(label, opts.Region, throttle), nil
		},
		DoUpdateNodeBalancer: func(ctx context.Context, nodebalancerID int, opts linodego.NodeBalancerUpdateOptions) (*linodego.NodeBalancer, error) {
			f.calls["update"]++
			f.lastBalancerUpdate = opts

			nb, ok := f.balancer[nodebalancerID]
			if !ok {
				return nil, notFound()
			}

			if opts.Label != nil {
				l := *opts.Label
				nb.Label = &l
			}

			if opts.ClientConnThrottle != nil {
				nb.ClientConnThrottle = *opts.ClientConnThrottle
			}

			return nb, nil
		},
		DoDeleteNodeBalancer: func(ctx context.Context, nodebalancerID int) error {
			f.calls["delete"]++

			if _, ok := f.balancer[nodebalancerID]; !ok {
				return notFound()
			}

			delete(f.balancer, nodebalancerID)

			return nil
		},
		DoListNodeBalancerConfigs: func(ctx context.Context, nodebalancerID int, opts *linodego.ListOptions) ([]linodego.NodeBalancerConfig, error) {
			f.calls["list"]++

			var out []linodego.NodeBalancerConfig
			for _, id := range sortedKeys(f.configs) {
				if f.configs[id].NodeBalancerID == nodebalancerID {
					out = append(out, *f.configs[id])
				}
			}

			return out, nil
		},
		DoGetNodeBalancerConfig: func(ctx context.Context, nodebalancerID int, configID int) (*linodego.NodeBalancerConfig, error) {
			f.calls["get"]++

			cfg, ok := f.configs[configID]
			if !ok || cfg.NodeBalancerID != nodebalancerID {
				return nil, notFound()
			}

			out := *cfg

			return &out, nil
		},
		DoCreateNodeBalancerConfig: func(ctx context.Context, nodebalancerID int, opts linodego.NodeBalancerConfigCreateOptions) (*linodego.NodeBalancerConfig, error) {
			f.calls["create"]++
			f.lastConfigCreate = opts

			return f.addConfig(linodego.NodeBalancerConfig{
				NodeBalancerID: nodebalancerID,
				Port:           opts.Port,
				Protocol:       opts.Protocol,
				Algorithm:      opts.Algorithm,
				Stickiness:     opts.Stickiness,
				Check:          opts.Check,
				CheckInterval:  opts.CheckInterval,
				CheckTimeout:   opts.CheckTimeout,
				CheckAttempts:  opts.CheckAttempts,
				CheckPath:      opts.CheckPath,
				CheckBody:      opts.CheckBody,
			}), nil
		},
		DoUpdateNodeBalancerConfig: func(ctx context.Context, nodebalancerID int, configID int, opts linodego.NodeBalancerConfigUpdateOptions) (*linodego.NodeBalancerConfig, error) {
			f.calls["update"]++
			f.lastConfigUpdate = opts

			cfg, ok := f.configs[configID]
			if !ok {
				return nil, notFound()
			}

			cfg.Port = opts.Port
			cfg.Protocol = opts.Protocol
			cfg.Algorithm = opts.Algorithm
			cfg.Stickiness = opts.Stickiness
			cfg.Check = opts.Check
			cfg.CheckInterval = opts.CheckInterval
			cfg.CheckTimeout = opts.CheckTimeout
			cfg.CheckAttempts = opts.CheckAttempts
			cfg.CheckPath = opts.CheckPath
			cfg.CheckBody = opts.CheckBody

			return cfg, nil
		},
		DoDeleteNodeBalancerConfig: func(ctx context.Context, nodebalancerID int, configID int) error {
			f.calls["delete"]++

			if _, ok := f.configs[configID]; !ok {
				return notFound()
			}

			delete(f.configs, configID)

			return nil
		},
		DoListNodeBalancerNodes: func(ctx context.Context, nodebalancerID int, configID int, opts *linodego.ListOptions) ([]linodego.NodeBalancerNode, error) {
			f.calls["list"]++

			var out []linodego.NodeBalancerNode
			for _, id := range sortedKeys(f.nodes) {
				if f.nodes[id].ConfigID == configID {
					out = append(out, *f.nodes[id])
				}
			}

			return out, nil
		},
		DoGetNodeBalancerNode: func(ctx context.Context, nodebalancerID int, configID int, nodeID int) (*linodego.NodeBalancerNode, error) {
			f.calls["get"]++

			node, ok := f.nodes[nodeID]
			if !ok || node.ConfigID != configID {
				return nil, notFound()
			}

			out := *node

			return &out, nil
		},
		DoCreateNodeBalancerNode: func(ctx context.Context, nodebalancerID int, configID int, opts linodego.NodeBalancerNodeCreateOptions) (*linodego.NodeBalancerNode, error) {
			f.calls["create"]++
			f.lastNodeCreate = opts

			return f.addNode(linodego.NodeBalancerNode{
				NodeBalancerID: nodebalancerID,
				ConfigID:       configID,
				Label:          opts.Label,
				Address:        opts.Address,
				Weight:         opts.Weight,
				Mode:           opts.Mode,
			}), nil
		},
		DoUpdateNodeBalancerNode: func(ctx context.Context, nodebalancerID int, configID int, nodeID int, opts linodego.NodeBalancerNodeUpdateOptions) (*linodego.NodeBalancerNode, error) {
			f.calls["update"]++
			f.lastNodeUpdate = opts

			node, ok := f.nodes[nodeID]
			if !ok {
				return nil, notFound()
			}

			node.Label = opts.Label
			node.Address = opts.Address
			node.Weight = opts.Weight
			node.Mode = opts.Mode

			return node, nil
		},
		DoDeleteNodeBalancerNode: func(ctx context.Context, nodebalancerID int, configID int, nodeID int) error {
			f.calls["delete"]++

			if _, ok := f.nodes[nodeID]; !ok {
				return notFound()
			}

			delete(f.nodes, nodeID)

			return nil
		},
	}
}
