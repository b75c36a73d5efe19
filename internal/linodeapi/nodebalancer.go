package linodeapi

import (
	"context"
	"fmt"

	"github.com/linode/linodego"
)

// nodeBody is the node request body. linodego drops a zero weight, so it is sent explicitly.
type nodeBody struct {
	Label   string            `json:"label,omitempty"`
	Address string            `json:"address,omitempty"`
	Weight  int               `json:"weight"`
	Mode    linodego.NodeMode `json:"mode,omitempty"`
}

// configBody is the config request body. An empty check path or body clears the remote value.
type configBody struct {
	Port          int                       `json:"port"`
	Protocol      linodego.ConfigProtocol   `json:"protocol,omitempty"`
	Algorithm     linodego.ConfigAlgorithm  `json:"algorithm,omitempty"`
	Stickiness    linodego.ConfigStickiness `json:"stickiness,omitempty"`
	Check         linodego.ConfigCheck      `json:"check,omitempty"`
	CheckInterval int                       `json:"check_interval,omitempty"`
	CheckAttempts int                       `json:"check_attempts,omitempty"`
	CheckTimeout  int                       `json:"check_timeout,omitempty"`
	CheckPath     string                    `json:"check_path"`
	CheckBody     string                    `json:"check_body"`
}

func configBodyFrom(opts linodego.NodeBalancerConfigCreateOptions) configBody {
	return configBody{
		Port:          opts.Port,
		Protocol:      opts.Protocol,
		Algorithm:     opts.Algorithm,
		Stickiness:    opts.Stickiness,
		Check:         opts.Check,
		CheckInterval: opts.CheckInterval,
		CheckAttempts: opts.CheckAttempts,
		CheckTimeout:  opts.CheckTimeout,
		CheckPath:     opts.CheckPath,
		CheckBody:     opts.CheckBody,
	}
}

func configPath(nodebalancerID int) string {
	return fmt.Sprintf("nodebalancers/%d/configs", nodebalancerID)
}

func nodePath(nodebalancerID, configID int) string {
	return fmt.Sprintf("nodebalancers/%d/configs/%d/nodes", nodebalancerID, configID)
}

// CreateNodeBalancerConfig creates a config, always sending the check path and body
func (c *Client) CreateNodeBalancerConfig(ctx context.Context, nodebalancerID int, opts linodego.NodeBalancerConfigCreateOptions) (*linodego.NodeBalancerConfig, error) {
	var cfg linodego.NodeBalancerConfig

	resp, err := c.R(ctx).SetBody(configBodyFrom(opts)).SetResult(&cfg).Post(configPath(nodebalancerID))
	if err = responseError(resp, err); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// UpdateNodeBalancerConfig updates a config, always sending the check path and body
func (c *Client) UpdateNodeBalancerConfig(ctx context.Context, nodebalancerID int, configID int, opts linodego.NodeBalancerConfigUpdateOptions) (*linodego.NodeBalancerConfig, error) {
	var cfg linodego.NodeBalancerConfig

	body := configBodyFrom(linodego.NodeBalancerConfigCreateOptions(opts))
	path := fmt.Sprintf("%s/%d", configPath(nodebalancerID), configID)

	resp, err := c.R(ctx).SetBody(body).SetResult(&cfg).Put(path)
	if err = responseError(resp, err); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// CreateNodeBalancerNode creates a node, always sending the weight
func (c *Client) CreateNodeBalancerNode(ctx context.Context, nodebalancerID int, configID int, opts linodego.NodeBalancerNodeCreateOptions) (*linodego.NodeBalancerNode, error) {
	var node linodego.NodeBalancerNode

	body := nodeBody{
		Label:   opts.Label,
		Address: opts.Address,
		Weight:  opts.Weight,
		Mode:    opts.Mode,
	}

	resp, err := c.R(ctx).SetBody(body).SetResult(&node).Post(nodePath(nodebalancerID, configID))
	if err = responseError(resp, err); err != nil {
		return nil, err
	}

	return &node, nil
}

// UpdateNodeBalancerNode updates a node, always sending the weight
func (c *Client) UpdateNodeBalancerNode(ctx context.Context, nodebalancerID int, configID int, nodeID int, opts linodego.NodeBalancerNodeUpdateOptions) (*linodego.NodeBalancerNode, error) {
	var node linodego.NodeBalancerNode

	body := nodeBody{
		Label:   opts.Label,
		Address: opts.Address,
		Weight:  opts.Weight,
		Mode:    opts.Mode,
	}
	path := fmt.Sprintf("%s/%d", nodePath(nodebalancerID, configID), nodeID)

	resp, err := c.R(ctx).SetBody(body).SetResult(&node).Put(path)
	if err = responseError(resp, err); err != nil {
		return nil, err
	}

	return &node, nil
}

// responseError turns a transport error or an API error response into a *linodego.Error
func responseError(resp interface{ IsError() bool }, err error) error {
	if err != nil {
		return linodego.NewError(err)
	}

	if resp.IsError() {
		return linodego.NewError(resp)
	}

	return nil
}
