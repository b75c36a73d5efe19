// Package manager reconciles nodebalancers, their configs and their nodes against the Linode API.
package manager

import (
	"context"

	"github.com/linode/linodego"
	"go.uber.org/zap"

	"go.infratographer.com/nodebalancer-manager/internal/reconcile"
)

// Manager contains configuration and client connections
type Manager struct {
	API    API
	Logger *zap.SugaredLogger
}

func (m *Manager) logger() *zap.SugaredLogger {
	if m.Logger == nil {
		return zap.NewNop().Sugar()
	}

	return m.Logger
}

// ReconcileBalancer drives the nodebalancer described by spec to state
func (m *Manager) ReconcileBalancer(ctx context.Context, spec BalancerSpec, state reconcile.State) (BalancerResult, error) {
	return reconcile.Guard(func() (BalancerResult, error) {
		if _, err := reconcile.ParseState(string(state)); err != nil {
			return BalancerResult{Action: reconcile.ActionNone}, err
		}

		if err := spec.Validate(); err != nil {
			return BalancerResult{Action: reconcile.ActionNone}, err
		}

		logger := m.logger().With("nodebalancer", spec.Name, "nodebalancerID", spec.ID, "state", state)

		h := &BalancerHandler{API: m.API, Spec: spec, Logger: logger}

		return reconcile.Reconcile[linodego.NodeBalancer](ctx, h, state, reconcile.WithLogger(logger))
	})
}

// ReconcileConfig drives the config described by spec, under the nodebalancer identified by parent, to state
func (m *Manager) ReconcileConfig(ctx context.Context, parent BalancerRef, spec ConfigSpec, state reconcile.State) (ConfigResult, error) {
	return reconcile.Guard(func() (ConfigResult, error) {
		res := ConfigResult{Action: reconcile.ActionNone}

		if _, err := reconcile.ParseState(string(state)); err != nil {
			return res, err
		}

		if err := parent.Validate(); err != nil {
			return res, err
		}

		if err := spec.Validate(); err != nil {
			return res, err
		}

		nb, err := requireBalancer(ctx, m.API, parent)
		if err != nil {
			return res, err
		}

		logger := m.logger().With("nodebalancerID", nb.ID, "port", spec.Port, "protocol", spec.Protocol,
			"configID", spec.ID, "state", state)

		h := &ConfigHandler{API: m.API, NodeBalancerID: nb.ID, Spec: spec, Logger: logger}

		return reconcile.Reconcile[linodego.NodeBalancerConfig](ctx, h, state, reconcile.WithLogger(logger))
	})
}

// ReconcileNode drives the node described by spec, under the config identified by parent and cfg, to state
func (m *Manager) ReconcileNode(ctx context.Context, parent BalancerRef, cfg ConfigRef, spec NodeSpec, state reconcile.State) (NodeResult, error) {
	return reconcile.Guard(func() (NodeResult, error) {
		res := NodeResult{Action: reconcile.ActionNone}

		if _, err := reconcile.ParseState(string(state)); err != nil {
			return res, err
		}

		if err := parent.Validate(); err != nil {
			return res, err
		}

		if err := cfg.Validate(); err != nil {
			return res, err
		}

		if err := spec.Validate(state); err != nil {
			return res, err
		}

		nb, err := requireBalancer(ctx, m.API, parent)
		if err != nil {
			return res, err
		}

		config, err := requireConfig(ctx, m.API, nb.ID, cfg)
		if err != nil {
			return res, err
		}

		logger := m.logger().With("nodebalancerID", nb.ID, "configID", config.ID, "node", spec.Name,
			"nodeID", spec.ID, "state", state)

		h := &NodeHandler{API: m.API, NodeBalancerID: nb.ID, ConfigID: config.ID, Spec: spec, Logger: logger}

		return reconcile.Reconcile[linodego.NodeBalancerNode](ctx, h, state, reconcile.WithLogger(logger))
	})
}
