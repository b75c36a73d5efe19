package manager

import (
	"github.com/linode/linodego"

	"go.infratographer.com/nodebalancer-manager/internal/reconcile"
)

// Defaults applied by the command line when a field is not given.
const (
	DefaultRegion             = "eu-west"
	DefaultPaymentTerm        = 1
	DefaultClientConnThrottle = 0

	DefaultPort          = 80
	DefaultProtocol      = string(linodego.ProtocolHTTP)
	DefaultAlgorithm     = string(linodego.AlgorithmRoundRobin)
	DefaultStickiness    = string(linodego.StickinessNone)
	DefaultCheck         = string(linodego.CheckConnection)
	DefaultCheckInterval = 5
	DefaultCheckTimeout  = 3
	DefaultCheckAttempts = 2

	DefaultWeight = 100
	DefaultMode   = "accept"
)

// BalancerRef identifies a nodebalancer. ID takes precedence over Name.
type BalancerRef struct {
	ID   int    `flag:"nodebalancer-id" validate:"min=0"`
	Name string `flag:"name" validate:"omitempty,min=3,max=32"`
}

// BalancerSpec is the desired state of a nodebalancer
type BalancerSpec struct {
	BalancerRef

	// Datacenter is a region slug or a legacy numeric datacenter id. It is only used on create.
	Datacenter string `flag:"datacenter"`
	// PaymentTerm is accepted for compatibility, API v4 bills hourly.
	PaymentTerm        int `flag:"payment-term" validate:"oneof=1 12 24"`
	ClientConnThrottle int `flag:"client-conn-throttle" validate:"min=0,max=20"`
}

// ConfigRef identifies a nodebalancer config. ID takes precedence over Port and Protocol.
type ConfigRef struct {
	ID       int    `flag:"config-id" validate:"min=0"`
	Port     int    `flag:"port" validate:"min=0,max=65535"`
	Protocol string `flag:"protocol" validate:"omitempty,oneof=http tcp"`
}

// ConfigSpec is the desired state of a nodebalancer config
type ConfigSpec struct {
	ConfigRef

	Algorithm     string `flag:"algorithm" validate:"oneof=roundrobin leastconn source"`
	Stickiness    string `flag:"stickiness" validate:"oneof=none table http_cookie"`
	Check         string `flag:"check" validate:"oneof=connection http http_body"`
	CheckInterval int    `flag:"check-interval" validate:"min=2,max=3600"`
	CheckTimeout  int    `flag:"check-timeout" validate:"min=1,max=30"`
	CheckAttempts int    `flag:"check-attempts" validate:"min=1,max=30"`

	// CheckPath and CheckBody are only managed when set. A nil value leaves the remote value alone.
	CheckPath *string `flag:"check-path"`
	CheckBody *string `flag:"check-body"`
}

// NodeSpec is the desired state of a nodebalancer node. ID takes precedence over Name.
type NodeSpec struct {
	ID      int    `flag:"node-id" validate:"min=0"`
	Name    string `flag:"node-name" validate:"omitempty,min=3,max=32"`
	Address string `flag:"address" validate:"omitempty,hostname_port"`
	Weight  int    `flag:"weight" validate:"min=0,max=255"`
	Mode    string `flag:"mode" validate:"oneof=accept reject drain"`
}

// BalancerResult is the outcome of reconciling a nodebalancer
type BalancerResult = reconcile.Result[linodego.NodeBalancer]

// ConfigResult is the outcome of reconciling a nodebalancer config
type ConfigResult = reconcile.Result[linodego.NodeBalancerConfig]

// NodeResult is the outcome of reconciling a nodebalancer node
type NodeResult = reconcile.Result[linodego.NodeBalancerNode]
