package manager

import (
	"context"
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/linode/linodego"
	"go.uber.org/zap"

	"go.infratographer.com/nodebalancer-manager/internal/linodeapi"
)

// configFields are the tracked fields of a nodebalancer config
type configFields struct {
	Port          int
	Protocol      string
	Algorithm     string
	Stickiness    string
	Check         string
	CheckInterval int
	CheckTimeout  int
	CheckAttempts int
	CheckPath     string
	CheckBody     string
}

// ConfigHandler reconciles a single config of an already located nodebalancer
type ConfigHandler struct {
	API            API
	NodeBalancerID int
	Spec           ConfigSpec
	Logger         *zap.SugaredLogger
}

func (h *ConfigHandler) logger() *zap.SugaredLogger {
	if h.Logger == nil {
		return zap.NewNop().Sugar()
	}

	return h.Logger
}

// Locate implements reconcile.Handler
func (h *ConfigHandler) Locate(ctx context.Context) (*linodego.NodeBalancerConfig, error) {
	return LocateConfig(ctx, h.API, h.NodeBalancerID, h.Spec.ConfigRef)
}

func observedConfig(cfg *linodego.NodeBalancerConfig) configFields {
	return configFields{
		Port:          cfg.Port,
		Protocol:      string(cfg.Protocol),
		Algorithm:     string(cfg.Algorithm),
		Stickiness:    string(cfg.Stickiness),
		Check:         string(cfg.Check),
		CheckInterval: cfg.CheckInterval,
		CheckTimeout:  cfg.CheckTimeout,
		CheckAttempts: cfg.CheckAttempts,
		CheckPath:     cfg.CheckPath,
		CheckBody:     cfg.CheckBody,
	}
}

// desired merges the spec over current. Unset check path and body keep the current values.
func (h *ConfigHandler) desired(current configFields) configFields {
	want := configFields{
		Port:          h.Spec.Port,
		Protocol:      h.Spec.Protocol,
		Algorithm:     h.Spec.Algorithm,
		Stickiness:    h.Spec.Stickiness,
		Check:         h.Spec.Check,
		CheckInterval: h.Spec.CheckInterval,
		CheckTimeout:  h.Spec.CheckTimeout,
		CheckAttempts: h.Spec.CheckAttempts,
		CheckPath:     current.CheckPath,
		CheckBody:     current.CheckBody,
	}

	// a config targeted by id alone keeps its listener
	if h.Spec.Port == 0 || h.Spec.Protocol == "" {
		want.Port, want.Protocol = current.Port, current.Protocol
	}

	if h.Spec.CheckPath != nil {
		want.CheckPath = *h.Spec.CheckPath
	}

	if h.Spec.CheckBody != nil {
		want.CheckBody = *h.Spec.CheckBody
	}

	return want
}

// Diff implements reconcile.Handler
func (h *ConfigHandler) Diff(current *linodego.NodeBalancerConfig) []string {
	have := observedConfig(current)
	want := h.desired(have)

	var diff []string

	add := func(name string, differs bool) {
		if differs {
			diff = append(diff, name)
		}
	}

	add("port", have.Port != want.Port)
	add("protocol", have.Protocol != want.Protocol)
	add("algorithm", have.Algorithm != want.Algorithm)
	add("stickiness", have.Stickiness != want.Stickiness)
	add("check", have.Check != want.Check)
	add("check_interval", have.CheckInterval != want.CheckInterval)
	add("check_timeout", have.CheckTimeout != want.CheckTimeout)
	add("check_attempts", have.CheckAttempts != want.CheckAttempts)
	add("check_path", have.CheckPath != want.CheckPath)
	add("check_body", have.CheckBody != want.CheckBody)

	if len(diff) > 0 {
		h.logger().Debugw("config differs", "configID", current.ID, "diff", cmp.Diff(have, want))
	}

	return diff
}

// Create implements reconcile.Handler
func (h *ConfigHandler) Create(ctx context.Context) (*linodego.NodeBalancerConfig, error) {
	// a config created by id alone gets the default listener
	want := h.desired(configFields{Port: DefaultPort, Protocol: DefaultProtocol})

	opts := linodego.NodeBalancerConfigCreateOptions{
		Port:          want.Port,
		Protocol:      linodego.ConfigProtocol(want.Protocol),
		Algorithm:     linodego.ConfigAlgorithm(want.Algorithm),
		Stickiness:    linodego.ConfigStickiness(want.Stickiness),
		Check:         linodego.ConfigCheck(want.Check),
		CheckInterval: want.CheckInterval,
		CheckTimeout:  want.CheckTimeout,
		CheckAttempts: want.CheckAttempts,
		CheckPath:     want.CheckPath,
		CheckBody:     want.CheckBody,
	}

	cfg, err := h.API.CreateNodeBalancerConfig(ctx, h.NodeBalancerID, opts)
	if err != nil {
		return nil, linodeapi.WrapFault(err, "creating nodebalancer config")
	}

	h.logger().Infow("created nodebalancer config", "nodebalancerID", h.NodeBalancerID, "configID", cfg.ID)

	return h.relocate(ctx, cfg.ID)
}

// Update implements reconcile.Handler
func (h *ConfigHandler) Update(ctx context.Context, current *linodego.NodeBalancerConfig) (*linodego.NodeBalancerConfig, error) {
	want := h.desired(observedConfig(current))

	opts := linodego.NodeBalancerConfigUpdateOptions{
		Port:          want.Port,
		Protocol:      linodego.ConfigProtocol(want.Protocol),
		Algorithm:     linodego.ConfigAlgorithm(want.Algorithm),
		Stickiness:    linodego.ConfigStickiness(want.Stickiness),
		Check:         linodego.ConfigCheck(want.Check),
		CheckInterval: want.CheckInterval,
		CheckTimeout:  want.CheckTimeout,
		CheckAttempts: want.CheckAttempts,
		CheckPath:     want.CheckPath,
		CheckBody:     want.CheckBody,
	}

	cfg, err := h.API.UpdateNodeBalancerConfig(ctx, h.NodeBalancerID, current.ID, opts)
	if err != nil {
		return nil, linodeapi.WrapFault(err, fmt.Sprintf("updating nodebalancer config %d", current.ID))
	}

	return h.relocate(ctx, cfg.ID)
}

// Delete implements reconcile.Handler
func (h *ConfigHandler) Delete(ctx context.Context, current *linodego.NodeBalancerConfig) error {
	if err := h.API.DeleteNodeBalancerConfig(ctx, h.NodeBalancerID, current.ID); err != nil {
		return linodeapi.WrapFault(err, fmt.Sprintf("deleting nodebalancer config %d", current.ID))
	}

	return nil
}

func (h *ConfigHandler) relocate(ctx context.Context, id int) (*linodego.NodeBalancerConfig, error) {
	cfg, err := LocateConfig(ctx, h.API, h.NodeBalancerID, ConfigRef{ID: id})
	if err != nil {
		return nil, err
	}

	if cfg == nil {
		return nil, fmt.Errorf("%w: config %d", ErrVanished, id)
	}

	return cfg, nil
}
