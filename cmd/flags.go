package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.infratographer.com/x/viperx"

	"go.infratographer.com/nodebalancer-manager/internal/manager"
	"go.infratographer.com/nodebalancer-manager/internal/reconcile"
)

// flagKey scopes a flag's viper key to its command, so commands sharing a flag name do not collide
func flagKey(cmd *cobra.Command, name string) string {
	return cmd.Name() + "." + name
}

func bindFlag(cmd *cobra.Command, name string) {
	viperx.MustBindFlag(viper.GetViper(), flagKey(cmd, name), cmd.Flags().Lookup(name))
}

func addStateFlag(cmd *cobra.Command) {
	cmd.Flags().String("state", string(reconcile.StatePresent), "desired state, one of present, absent")
	bindFlag(cmd, "state")
}

func getState(cmd *cobra.Command) reconcile.State {
	return reconcile.State(viper.GetString(flagKey(cmd, "state")))
}

func addBalancerRefFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "nodebalancer label")
	bindFlag(cmd, "name")

	cmd.Flags().Int("nodebalancer-id", 0, "nodebalancer id, takes precedence over name")
	bindFlag(cmd, "nodebalancer-id")
}

func getBalancerRef(cmd *cobra.Command) manager.BalancerRef {
	return manager.BalancerRef{
		ID:   viper.GetInt(flagKey(cmd, "nodebalancer-id")),
		Name: viper.GetString(flagKey(cmd, "name")),
	}
}

func addConfigRefFlags(cmd *cobra.Command) {
	cmd.Flags().Int("config-id", 0, "config id, takes precedence over port and protocol")
	bindFlag(cmd, "config-id")

	cmd.Flags().Int("port", manager.DefaultPort, "port the config listens on")
	bindFlag(cmd, "port")

	cmd.Flags().String("protocol", manager.DefaultProtocol, "config protocol, one of http, tcp")
	bindFlag(cmd, "protocol")
}

// getConfigRef reads the config identifier. A config id given without an explicit port or
// protocol leaves the listener out of the ref.
func getConfigRef(cmd *cobra.Command) manager.ConfigRef {
	ref := manager.ConfigRef{
		ID:       viper.GetInt(flagKey(cmd, "config-id")),
		Port:     viper.GetInt(flagKey(cmd, "port")),
		Protocol: viper.GetString(flagKey(cmd, "protocol")),
	}

	if ref.ID != 0 && !viper.IsSet(flagKey(cmd, "port")) && !viper.IsSet(flagKey(cmd, "protocol")) {
		ref.Port, ref.Protocol = 0, ""
	}

	return ref
}

// optionalString returns nil unless the flag was given on the command line, in the environment or
// in the config file
func optionalString(cmd *cobra.Command, name string) *string {
	key := flagKey(cmd, name)
	if !viper.IsSet(key) {
		return nil
	}

	v := viper.GetString(key)

	return &v
}
