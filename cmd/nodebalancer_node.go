package cmd

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.infratographer.com/nodebalancer-manager/internal/config"
	"go.infratographer.com/nodebalancer-manager/internal/manager"
	"go.infratographer.com/nodebalancer-manager/internal/reconcile"
)

// nodeCmd reconciles a backend node of a nodebalancer config
var nodeCmd = &cobra.Command{
	Use:   "node",
	Short: "ensures a nodebalancer backend node is present or absent",
	RunE: func(cmd *cobra.Command, args []string) error {
		parent := getBalancerRef(cmd)
		cfg := getConfigRef(cmd)
		spec := manager.NodeSpec{
			ID:      viper.GetInt(flagKey(cmd, "node-id")),
			Name:    viper.GetString(flagKey(cmd, "node-name")),
			Address: viper.GetString(flagKey(cmd, "address")),
			Weight:  viper.GetInt(flagKey(cmd, "weight")),
			Mode:    viper.GetString(flagKey(cmd, "mode")),
		}
		state := getState(cmd)

		if err := validateNode(parent, cfg, spec, state); err != nil {
			return err
		}

		mgr, err := newManager(cmd.Context())
		if err != nil {
			return err
		}

		res, err := mgr.ReconcileNode(cmd.Context(), parent, cfg, spec, state)
		if err != nil {
			return err
		}

		return writeOutput(cmd.OutOrStdout(), config.AppConfig.Output, res)
	},
}

func init() {
	rootCmd.AddCommand(nodeCmd)

	addBalancerRefFlags(nodeCmd)
	addConfigRefFlags(nodeCmd)
	addStateFlag(nodeCmd)

	nodeCmd.Flags().Int("node-id", 0, "node id, takes precedence over node-name")
	bindFlag(nodeCmd, "node-id")

	nodeCmd.Flags().String("node-name", "", "node label")
	bindFlag(nodeCmd, "node-name")

	nodeCmd.Flags().String("address", "", "backend address as ip:port, required when present")
	bindFlag(nodeCmd, "address")

	nodeCmd.Flags().Int("weight", manager.DefaultWeight, "load balancing weight, 0 to 255")
	bindFlag(nodeCmd, "weight")

	nodeCmd.Flags().String("mode", manager.DefaultMode, "node mode, one of accept, reject, drain")
	bindFlag(nodeCmd, "mode")
}

// validateNode collects the validation failures of both parents and the node
func validateNode(parent manager.BalancerRef, cfg manager.ConfigRef, spec manager.NodeSpec, state reconcile.State) error {
	errs := []error{}

	if _, err := reconcile.ParseState(string(state)); err != nil {
		errs = append(errs, err)
	}

	if err := parent.Validate(); err != nil {
		errs = append(errs, err)
	}

	if err := cfg.Validate(); err != nil {
		errs = append(errs, err)
	}

	if err := spec.Validate(state); err != nil {
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		return nil
	}

	return errors.Join(errs...)
}
