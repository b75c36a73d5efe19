package cmd

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.infratographer.com/nodebalancer-manager/internal/config"
	"go.infratographer.com/nodebalancer-manager/internal/manager"
	"go.infratographer.com/nodebalancer-manager/internal/reconcile"
)

// configCmd reconciles a port config of a nodebalancer
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "ensures a nodebalancer port config is present or absent",
	RunE: func(cmd *cobra.Command, args []string) error {
		parent := getBalancerRef(cmd)
		spec := getConfigSpec(cmd)
		state := getState(cmd)

		if err := validateConfig(parent, spec, state); err != nil {
			return err
		}

		mgr, err := newManager(cmd.Context())
		if err != nil {
			return err
		}

		res, err := mgr.ReconcileConfig(cmd.Context(), parent, spec, state)
		if err != nil {
			return err
		}

		return writeOutput(cmd.OutOrStdout(), config.AppConfig.Output, res)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)

	addBalancerRefFlags(configCmd)
	addConfigRefFlags(configCmd)
	addStateFlag(configCmd)

	configCmd.Flags().String("algorithm", manager.DefaultAlgorithm, "balancing algorithm, one of roundrobin, leastconn, source")
	bindFlag(configCmd, "algorithm")

	configCmd.Flags().String("stickiness", manager.DefaultStickiness, "session stickiness, one of none, table, http_cookie")
	bindFlag(configCmd, "stickiness")

	configCmd.Flags().String("check", manager.DefaultCheck, "health check type, one of connection, http, http_body")
	bindFlag(configCmd, "check")

	configCmd.Flags().Int("check-interval", manager.DefaultCheckInterval, "seconds between health checks")
	bindFlag(configCmd, "check-interval")

	configCmd.Flags().Int("check-timeout", manager.DefaultCheckTimeout, "seconds to wait for a health check response")
	bindFlag(configCmd, "check-timeout")

	configCmd.Flags().Int("check-attempts", manager.DefaultCheckAttempts, "failed health checks before a node is taken out of rotation")
	bindFlag(configCmd, "check-attempts")

	configCmd.Flags().String("check-path", "", "http path to check, left unmanaged when not given")
	bindFlag(configCmd, "check-path")

	configCmd.Flags().String("check-body", "", "regex the check response body must match, left unmanaged when not given")
	bindFlag(configCmd, "check-body")
}

func getConfigSpec(cmd *cobra.Command) manager.ConfigSpec {
	return manager.ConfigSpec{
		ConfigRef:     getConfigRef(cmd),
		Algorithm:     viper.GetString(flagKey(cmd, "algorithm")),
		Stickiness:    viper.GetString(flagKey(cmd, "stickiness")),
		Check:         viper.GetString(flagKey(cmd, "check")),
		CheckInterval: viper.GetInt(flagKey(cmd, "check-interval")),
		CheckTimeout:  viper.GetInt(flagKey(cmd, "check-timeout")),
		CheckAttempts: viper.GetInt(flagKey(cmd, "check-attempts")),
		CheckPath:     optionalString(cmd, "check-path"),
		CheckBody:     optionalString(cmd, "check-body"),
	}
}

// validateConfig collects the validation failures of the parent and the config
func validateConfig(parent manager.BalancerRef, spec manager.ConfigSpec, state reconcile.State) error {
	errs := []error{}

	if _, err := reconcile.ParseState(string(state)); err != nil {
		errs = append(errs, err)
	}

	if err := parent.Validate(); err != nil {
		errs = append(errs, err)
	}

	if err := spec.Validate(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		return nil
	}

	return errors.Join(errs...)
}
