package manager

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/linode/linodego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"go.infratographer.com/nodebalancer-manager/internal/reconcile"
)

func newTestManager(t *testing.T, f *fakeAccount) *Manager {
	t.Helper()

	l, err := zap.NewDevelopmentConfig().Build()
	require.Nil(t, err)

	return &Manager{API: f.api(), Logger: l.Sugar()}
}

func strPtr(s string) *string {
	return &s
}

func defaultConfigSpec() ConfigSpec {
	return ConfigSpec{
		ConfigRef:     ConfigRef{Port: DefaultPort, Protocol: DefaultProtocol},
		Algorithm:     DefaultAlgorithm,
		Stickiness:    DefaultStickiness,
		Check:         DefaultCheck,
		CheckInterval: DefaultCheckInterval,
		CheckTimeout:  DefaultCheckTimeout,
		CheckAttempts: DefaultCheckAttempts,
	}
}

func defaultConfig(nbID int) linodego.NodeBalancerConfig {
	return linodego.NodeBalancerConfig{
		NodeBalancerID: nbID,
		Port:           DefaultPort,
		Protocol:       linodego.ProtocolHTTP,
		Algorithm:      linodego.AlgorithmRoundRobin,
		Stickiness:     linodego.StickinessNone,
		Check:          linodego.CheckConnection,
		CheckInterval:  DefaultCheckInterval,
		CheckTimeout:   DefaultCheckTimeout,
		CheckAttempts:  DefaultCheckAttempts,
	}
}

func TestReconcileBalancer(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a missing nodebalancer", func(t *testing.T) {
		f := newFakeAccount()
		mgr := newTestManager(t, f)

		spec := BalancerSpec{BalancerRef: BalancerRef{Name: "api-test"}, PaymentTerm: DefaultPaymentTerm}

		res, err := mgr.ReconcileBalancer(ctx, spec, reconcile.StatePresent)
		require.Nil(t, err)

		assert.True(t, res.Changed)
		assert.Equal(t, reconcile.ActionCreate, res.Action)
		require.NotNil(t, res.Resource)
		assert.Equal(t, "api-test", *res.Resource.Label)

		require.NotNil(t, f.lastBalancerCreate.Label)
		assert.Equal(t, "api-test", *f.lastBalancerCreate.Label)
		require.NotNil(t, f.lastBalancerCreate.ClientConnThrottle)
		assert.Equal(t, 0, *f.lastBalancerCreate.ClientConnThrottle)
		assert.Equal(t, DefaultRegion, f.lastBalancerCreate.Region)
	})

	t.Run("converges on a second run", func(t *testing.T) {
		f := newFakeAccount()
		mgr := newTestManager(t, f)

		spec := BalancerSpec{BalancerRef: BalancerRef{Name: "api-test"}, Datacenter: "7", PaymentTerm: 12, ClientConnThrottle: 5}

		_, err := mgr.ReconcileBalancer(ctx, spec, reconcile.StatePresent)
		require.Nil(t, err)
		assert.Equal(t, "eu-west", f.lastBalancerCreate.Region)

		res, err := mgr.ReconcileBalancer(ctx, spec, reconcile.StatePresent)
		require.Nil(t, err)

		assert.False(t, res.Changed)
		assert.Equal(t, reconcile.ActionNone, res.Action)
		assert.Equal(t, 1, f.mutations())
	})

	t.Run("region mismatch is only reported for an explicit datacenter", func(t *testing.T) {
		f := newFakeAccount()
		f.addBalancer("api-test", "us-east", 0)

		core, logs := observer.New(zap.WarnLevel)
		mgr := &Manager{API: f.api(), Logger: zap.New(core).Sugar()}

		spec := BalancerSpec{BalancerRef: BalancerRef{Name: "api-test"}, PaymentTerm: DefaultPaymentTerm}

		res, err := mgr.ReconcileBalancer(ctx, spec, reconcile.StatePresent)
		require.Nil(t, err)
		assert.False(t, res.Changed)
		assert.Equal(t, 0, logs.Len())

		spec.Datacenter = "eu-west"

		res, err = mgr.ReconcileBalancer(ctx, spec, reconcile.StatePresent)
		require.Nil(t, err)
		assert.False(t, res.Changed)
		assert.Equal(t, 1, logs.FilterMessage("nodebalancer region cannot be changed in place, ignoring").Len())
	})

	t.Run("updates throttle drift", func(t *testing.T) {
		f := newFakeAccount()
		nb := f.addBalancer("api-test", "us-east", 0)
		mgr := newTestManager(t, f)

		spec := BalancerSpec{BalancerRef: BalancerRef{Name: "api-test"}, PaymentTerm: 1, ClientConnThrottle: 10}

		res, err := mgr.ReconcileBalancer(ctx, spec, reconcile.StatePresent)
		require.Nil(t, err)

		assert.True(t, res.Changed)
		assert.Equal(t, reconcile.ActionUpdate, res.Action)
		assert.Equal(t, []string{"client_conn_throttle"}, res.Diff)
		assert.Equal(t, 10, f.balancer[nb.ID].ClientConnThrottle)
		// region drift is not corrected
		assert.Equal(t, "us-east", f.balancer[nb.ID].Region)
	})

	t.Run("id takes precedence over name", func(t *testing.T) {
		f := newFakeAccount()
		f.addBalancer("renamed", "eu-west", 0)
		byID := f.addBalancer("original", "eu-west", 0)
		mgr := newTestManager(t, f)

		spec := BalancerSpec{BalancerRef: BalancerRef{ID: byID.ID, Name: "renamed"}, PaymentTerm: 1}

		res, err := mgr.ReconcileBalancer(ctx, spec, reconcile.StatePresent)
		require.Nil(t, err)

		assert.Equal(t, reconcile.ActionUpdate, res.Action)
		assert.Equal(t, byID.ID, res.Resource.ID)
		assert.Equal(t, "renamed", *f.balancer[byID.ID].Label)
		assert.Equal(t, 0, f.calls["create"])
	})

	t.Run("id alone leaves the label alone", func(t *testing.T) {
		f := newFakeAccount()
		nb := f.addBalancer("keep-me", "eu-west", 0)
		mgr := newTestManager(t, f)

		res, err := mgr.ReconcileBalancer(ctx, BalancerSpec{BalancerRef: BalancerRef{ID: nb.ID}, PaymentTerm: 1}, reconcile.StatePresent)
		require.Nil(t, err)

		assert.False(t, res.Changed)
		assert.Equal(t, 0, f.mutations())
	})

	t.Run("unknown id is absent", func(t *testing.T) {
		f := newFakeAccount()
		mgr := newTestManager(t, f)

		res, err := mgr.ReconcileBalancer(ctx, BalancerSpec{BalancerRef: BalancerRef{ID: 999}, PaymentTerm: 1}, reconcile.StateAbsent)
		require.Nil(t, err)

		assert.False(t, res.Changed)
		assert.Nil(t, res.Resource)
		assert.Equal(t, 1, f.calls["get"])
		assert.Equal(t, 0, f.mutations())
	})

	t.Run("deletes an existing nodebalancer", func(t *testing.T) {
		f := newFakeAccount()
		nb := f.addBalancer("api-test", "eu-west", 0)
		mgr := newTestManager(t, f)

		res, err := mgr.ReconcileBalancer(ctx, BalancerSpec{BalancerRef: BalancerRef{Name: "api-test"}, PaymentTerm: 1}, reconcile.StateAbsent)
		require.Nil(t, err)

		assert.True(t, res.Changed)
		assert.Equal(t, reconcile.ActionDelete, res.Action)
		assert.NotContains(t, f.balancer, nb.ID)

		res, err = mgr.ReconcileBalancer(ctx, BalancerSpec{BalancerRef: BalancerRef{Name: "api-test"}, PaymentTerm: 1}, reconcile.StateAbsent)
		require.Nil(t, err)
		assert.False(t, res.Changed)
	})

	t.Run("validation happens before any call", func(t *testing.T) {
		f := newFakeAccount()
		mgr := newTestManager(t, f)

		_, err := mgr.ReconcileBalancer(ctx, BalancerSpec{PaymentTerm: 1}, reconcile.StatePresent)
		assert.ErrorIs(t, err, ErrIdentifierRequired)

		_, err = mgr.ReconcileBalancer(ctx, BalancerSpec{BalancerRef: BalancerRef{Name: "api-test"}, PaymentTerm: 3}, reconcile.StatePresent)
		assert.ErrorIs(t, err, ErrInvalidSpec)

		_, err = mgr.ReconcileBalancer(ctx, BalancerSpec{BalancerRef: BalancerRef{Name: "api-test"}, PaymentTerm: 1}, "bogus")
		assert.ErrorIs(t, err, reconcile.ErrInvalidState)

		assert.Empty(t, f.calls)
	})

	t.Run("remote faults are fatal", func(t *testing.T) {
		f := newFakeAccount()
		api := f.api()
		api.DoCreateNodeBalancer = func(ctx context.Context, opts linodego.NodeBalancerCreateOptions) (*linodego.NodeBalancer, error) {
			return nil, &linodego.Error{Code: http.StatusBadRequest, Message: "region is not valid"}
		}

		mgr := &Manager{API: api}

		_, err := mgr.ReconcileBalancer(ctx, BalancerSpec{BalancerRef: BalancerRef{Name: "api-test"}, PaymentTerm: 1}, reconcile.StatePresent)
		require.NotNil(t, err)

		var fatal *reconcile.FatalError
		require.True(t, errors.As(err, &fatal))
		assert.Equal(t, http.StatusBadRequest, fatal.Code)
		assert.Equal(t, "FATAL: Code [400] - region is not valid", err.Error())
	})
}

func TestReconcileConfig(t *testing.T) {
	ctx := context.Background()
	parent := BalancerRef{Name: "api-test"}

	t.Run("creates a default config", func(t *testing.T) {
		f := newFakeAccount()
		nb := f.addBalancer("api-test", "eu-west", 0)
		mgr := newTestManager(t, f)

		res, err := mgr.ReconcileConfig(ctx, parent, defaultConfigSpec(), reconcile.StatePresent)
		require.Nil(t, err)

		assert.True(t, res.Changed)
		assert.Equal(t, reconcile.ActionCreate, res.Action)
		assert.Equal(t, nb.ID, res.Resource.NodeBalancerID)
		assert.Equal(t, 80, f.lastConfigCreate.Port)
		assert.Equal(t, linodego.ProtocolHTTP, f.lastConfigCreate.Protocol)
		assert.Equal(t, linodego.AlgorithmRoundRobin, f.lastConfigCreate.Algorithm)
		assert.Equal(t, linodego.CheckConnection, f.lastConfigCreate.Check)

		res, err = mgr.ReconcileConfig(ctx, parent, defaultConfigSpec(), reconcile.StatePresent)
		require.Nil(t, err)
		assert.False(t, res.Changed)
		assert.Equal(t, 1, f.mutations())
	})

	t.Run("unset check path is never compared", func(t *testing.T) {
		f := newFakeAccount()
		nb := f.addBalancer("api-test", "eu-west", 0)

		cfg := defaultConfig(nb.ID)
		cfg.CheckPath = "/health"
		f.addConfig(cfg)

		mgr := newTestManager(t, f)

		res, err := mgr.ReconcileConfig(ctx, parent, defaultConfigSpec(), reconcile.StatePresent)
		require.Nil(t, err)

		assert.False(t, res.Changed)
		assert.Equal(t, 0, f.mutations())
	})

	t.Run("set check path is managed", func(t *testing.T) {
		f := newFakeAccount()
		nb := f.addBalancer("api-test", "eu-west", 0)

		cfg := defaultConfig(nb.ID)
		cfg.CheckPath = "/health"
		cfg.CheckBody = "ok"
		f.addConfig(cfg)

		mgr := newTestManager(t, f)

		spec := defaultConfigSpec()
		spec.CheckPath = strPtr("/status")

		res, err := mgr.ReconcileConfig(ctx, parent, spec, reconcile.StatePresent)
		require.Nil(t, err)

		assert.Equal(t, reconcile.ActionUpdate, res.Action)
		assert.Equal(t, []string{"check_path"}, res.Diff)
		assert.Equal(t, "/status", f.lastConfigUpdate.CheckPath)
		assert.Equal(t, "ok", f.lastConfigUpdate.CheckBody)
	})

	t.Run("config id keeps the listener", func(t *testing.T) {
		f := newFakeAccount()
		nb := f.addBalancer("api-test", "eu-west", 0)

		cfg := defaultConfig(nb.ID)
		cfg.Port = 443
		cfg.Protocol = linodego.ProtocolTCP
		existing := f.addConfig(cfg)

		mgr := newTestManager(t, f)

		spec := defaultConfigSpec()
		spec.ConfigRef = ConfigRef{ID: existing.ID}
		spec.Algorithm = string(linodego.AlgorithmLeastConn)

		res, err := mgr.ReconcileConfig(ctx, parent, spec, reconcile.StatePresent)
		require.Nil(t, err)

		assert.Equal(t, []string{"algorithm"}, res.Diff)
		assert.Equal(t, 443, f.lastConfigUpdate.Port)
		assert.Equal(t, linodego.ProtocolTCP, f.lastConfigUpdate.Protocol)
	})

	t.Run("unknown config id is created on the default listener", func(t *testing.T) {
		f := newFakeAccount()
		f.addBalancer("api-test", "eu-west", 0)
		mgr := newTestManager(t, f)

		spec := defaultConfigSpec()
		spec.ConfigRef = ConfigRef{ID: 4242}

		res, err := mgr.ReconcileConfig(ctx, parent, spec, reconcile.StatePresent)
		require.Nil(t, err)

		assert.Equal(t, reconcile.ActionCreate, res.Action)
		assert.Equal(t, DefaultPort, f.lastConfigCreate.Port)
		assert.Equal(t, linodego.ProtocolHTTP, f.lastConfigCreate.Protocol)
		assert.Equal(t, DefaultPort, res.Resource.Port)
	})

	t.Run("deletes a config", func(t *testing.T) {
		f := newFakeAccount()
		nb := f.addBalancer("api-test", "eu-west", 0)
		existing := f.addConfig(defaultConfig(nb.ID))
		mgr := newTestManager(t, f)

		res, err := mgr.ReconcileConfig(ctx, parent, defaultConfigSpec(), reconcile.StateAbsent)
		require.Nil(t, err)

		assert.Equal(t, reconcile.ActionDelete, res.Action)
		assert.NotContains(t, f.configs, existing.ID)
	})

	t.Run("missing parent", func(t *testing.T) {
		f := newFakeAccount()
		mgr := newTestManager(t, f)

		_, err := mgr.ReconcileConfig(ctx, BalancerRef{Name: "missing"}, defaultConfigSpec(), reconcile.StatePresent)
		require.NotNil(t, err)

		assert.ErrorIs(t, err, ErrParentNotFound)
		assert.Equal(t, "FATAL: missing/0 Nodebalancer not found", err.Error())
		assert.Equal(t, 0, f.mutations())
	})

	t.Run("missing identifier", func(t *testing.T) {
		f := newFakeAccount()
		mgr := newTestManager(t, f)

		spec := defaultConfigSpec()
		spec.ConfigRef = ConfigRef{Port: 80}

		_, err := mgr.ReconcileConfig(ctx, parent, spec, reconcile.StatePresent)
		assert.ErrorIs(t, err, ErrIdentifierRequired)
		assert.Empty(t, f.calls)
	})
}

func TestReconcileNode(t *testing.T) {
	ctx := context.Background()
	parent := BalancerRef{Name: "api-test"}
	cfgRef := ConfigRef{Port: 80, Protocol: "http"}

	setup := func(t *testing.T) (*fakeAccount, *linodego.NodeBalancerConfig) {
		t.Helper()

		f := newFakeAccount()
		nb := f.addBalancer("api-test", "eu-west", 0)
		cfg := f.addConfig(defaultConfig(nb.ID))

		return f, cfg
	}

	t.Run("creates a node", func(t *testing.T) {
		f, cfg := setup(t)
		mgr := newTestManager(t, f)

		spec := NodeSpec{Name: "web01", Address: "192.168.1.10:80", Weight: DefaultWeight, Mode: DefaultMode}

		res, err := mgr.ReconcileNode(ctx, parent, cfgRef, spec, reconcile.StatePresent)
		require.Nil(t, err)

		assert.Equal(t, reconcile.ActionCreate, res.Action)
		assert.Equal(t, cfg.ID, res.Resource.ConfigID)
		assert.Equal(t, "web01", f.lastNodeCreate.Label)
		assert.Equal(t, 100, f.lastNodeCreate.Weight)
		assert.Equal(t, linodego.ModeAccept, f.lastNodeCreate.Mode)

		res, err = mgr.ReconcileNode(ctx, parent, cfgRef, spec, reconcile.StatePresent)
		require.Nil(t, err)
		assert.False(t, res.Changed)
		assert.Equal(t, 1, f.mutations())
	})

	t.Run("drains a node", func(t *testing.T) {
		f, cfg := setup(t)
		node := f.addNode(linodego.NodeBalancerNode{
			ConfigID: cfg.ID, NodeBalancerID: cfg.NodeBalancerID,
			Label: "web01", Address: "192.168.1.10:80", Weight: 100, Mode: linodego.ModeAccept,
		})
		mgr := newTestManager(t, f)

		spec := NodeSpec{Name: "web01", Address: "192.168.1.10:80", Weight: 0, Mode: "drain"}

		res, err := mgr.ReconcileNode(ctx, parent, cfgRef, spec, reconcile.StatePresent)
		require.Nil(t, err)

		assert.Equal(t, reconcile.ActionUpdate, res.Action)
		assert.ElementsMatch(t, []string{"weight", "mode"}, res.Diff)
		assert.Equal(t, 0, f.lastNodeUpdate.Weight)
		assert.Equal(t, linodego.ModeDrain, f.lastNodeUpdate.Mode)
		assert.Equal(t, linodego.ModeDrain, f.nodes[node.ID].Mode)
	})

	t.Run("removes a node without an address", func(t *testing.T) {
		f, cfg := setup(t)
		node := f.addNode(linodego.NodeBalancerNode{ConfigID: cfg.ID, Label: "web01", Address: "10.0.0.1:80", Weight: 100, Mode: linodego.ModeAccept})
		mgr := newTestManager(t, f)

		res, err := mgr.ReconcileNode(ctx, parent, cfgRef, NodeSpec{Name: "web01", Weight: 100, Mode: "accept"}, reconcile.StateAbsent)
		require.Nil(t, err)

		assert.Equal(t, reconcile.ActionDelete, res.Action)
		assert.NotContains(t, f.nodes, node.ID)
	})

	t.Run("node id without a name cannot be created", func(t *testing.T) {
		f, _ := setup(t)
		mgr := newTestManager(t, f)

		spec := NodeSpec{ID: 4242, Address: "10.0.0.1:80", Weight: 100, Mode: "accept"}

		_, err := mgr.ReconcileNode(ctx, parent, cfgRef, spec, reconcile.StatePresent)
		assert.ErrorIs(t, err, ErrNodeNameRequired)
		assert.Equal(t, 0, f.mutations())
	})

	t.Run("missing config", func(t *testing.T) {
		f, _ := setup(t)
		mgr := newTestManager(t, f)

		spec := NodeSpec{Name: "web01", Address: "10.0.0.1:80", Weight: 100, Mode: "accept"}

		_, err := mgr.ReconcileNode(ctx, parent, ConfigRef{Port: 8443, Protocol: "tcp"}, spec, reconcile.StatePresent)
		require.NotNil(t, err)

		assert.ErrorIs(t, err, ErrParentNotFound)
		assert.Equal(t, "FATAL: tcp:8443/0 Config not found", err.Error())
	})

	t.Run("address required when present", func(t *testing.T) {
		f, _ := setup(t)
		mgr := newTestManager(t, f)

		_, err := mgr.ReconcileNode(ctx, parent, cfgRef, NodeSpec{Name: "web01", Weight: 100, Mode: "accept"}, reconcile.StatePresent)
		assert.ErrorIs(t, err, ErrInvalidSpec)
		assert.Empty(t, f.calls)
	})
}
