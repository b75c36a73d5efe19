package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.infratographer.com/x/viperx"

	"go.infratographer.com/nodebalancer-manager/internal/config"
)

// checkAPICmd checks that the configured token authenticates against the Linode API
var checkAPICmd = &cobra.Command{
	Use:   "check-api",
	Short: "checks the connection and credentials for the Linode API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateOutput(config.AppConfig.Output); err != nil {
			return err
		}

		client, err := newLinodeClient(cmd.Context())
		if err != nil {
			return err
		}

		username, err := client.WaitForReady(
			cmd.Context(),
			viper.GetInt("check-api.attempts"),
			viper.GetDuration("check-api.retry-interval"),
		)
		if err != nil {
			return err
		}

		logger.Infow("linode api is ready", "username", username)

		return writeOutput(cmd.OutOrStdout(), config.AppConfig.Output, map[string]interface{}{
			"changed":  false,
			"username": username,
		})
	},
}

const (
	defaultCheckAttempts = 1
	defaultRetryInterval = 1 * time.Second
)

func init() {
	rootCmd.AddCommand(checkAPICmd)

	checkAPICmd.Flags().Int("attempts", defaultCheckAttempts, "number of attempts to verify the connection to the Linode API")
	viperx.MustBindFlag(viper.GetViper(), "check-api.attempts", checkAPICmd.Flags().Lookup("attempts"))

	checkAPICmd.Flags().Duration("retry-interval", defaultRetryInterval, "interval between checks")
	viperx.MustBindFlag(viper.GetViper(), "check-api.retry-interval", checkAPICmd.Flags().Lookup("retry-interval"))
}
