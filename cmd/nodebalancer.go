package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.infratographer.com/nodebalancer-manager/internal/config"
	"go.infratographer.com/nodebalancer-manager/internal/manager"
	"go.infratographer.com/nodebalancer-manager/internal/reconcile"
)

// nodebalancerCmd reconciles a nodebalancer
var nodebalancerCmd = &cobra.Command{
	Use:   "nodebalancer",
	Short: "ensures a nodebalancer is present or absent",
	RunE: func(cmd *cobra.Command, args []string) error {
		spec := getBalancerSpec(cmd)

		state := getState(cmd)

		if err := validateBalancer(spec, state); err != nil {
			return err
		}

		mgr, err := newManager(cmd.Context())
		if err != nil {
			return err
		}

		res, err := mgr.ReconcileBalancer(cmd.Context(), spec, state)
		if err != nil {
			return err
		}

		return writeOutput(cmd.OutOrStdout(), config.AppConfig.Output, res)
	},
}

func init() {
	rootCmd.AddCommand(nodebalancerCmd)

	addBalancerRefFlags(nodebalancerCmd)
	addStateFlag(nodebalancerCmd)

	nodebalancerCmd.Flags().String("datacenter", manager.DefaultRegion, "region slug or legacy numeric datacenter id, used on create")
	bindFlag(nodebalancerCmd, "datacenter")

	nodebalancerCmd.Flags().Int("payment-term", manager.DefaultPaymentTerm, "payment term in months, one of 1, 12, 24")
	bindFlag(nodebalancerCmd, "payment-term")

	nodebalancerCmd.Flags().Int("client-conn-throttle", manager.DefaultClientConnThrottle, "connections per second allowed per client ip, 0 disables")
	bindFlag(nodebalancerCmd, "client-conn-throttle")
}

// getBalancerSpec reads the nodebalancer flags. The datacenter is only set when given,
// an empty one resolves to the default region on create.
func getBalancerSpec(cmd *cobra.Command) manager.BalancerSpec {
	spec := manager.BalancerSpec{
		BalancerRef:        getBalancerRef(cmd),
		PaymentTerm:        viper.GetInt(flagKey(cmd, "payment-term")),
		ClientConnThrottle: viper.GetInt(flagKey(cmd, "client-conn-throttle")),
	}

	if viper.IsSet(flagKey(cmd, "datacenter")) {
		spec.Datacenter = viper.GetString(flagKey(cmd, "datacenter"))
	}

	return spec
}

func validateBalancer(spec manager.BalancerSpec, state reconcile.State) error {
	if _, err := reconcile.ParseState(string(state)); err != nil {
		return err
	}

	return spec.Validate()
}
