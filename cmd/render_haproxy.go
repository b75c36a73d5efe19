package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.infratographer.com/x/viperx"

	"go.infratographer.com/nodebalancer-manager/internal/config"
	"go.infratographer.com/nodebalancer-manager/internal/dataplaneapi"
	"go.infratographer.com/nodebalancer-manager/internal/manager"
)

const (
	defaultDataplaneRetries       = 3
	defaultDataplaneRetryInterval = 1 * time.Second
)

// renderHAProxyCmd renders a nodebalancer as an haproxy config
var renderHAProxyCmd = &cobra.Command{
	Use:   "render-haproxy",
	Short: "renders a nodebalancer, its configs and nodes as an haproxy config",
	Long: `render-haproxy reads a nodebalancer without changing it and prints an equivalent
haproxy config. With --check or --push the config is validated or applied through an
HAProxy Data Plane API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ref := getBalancerRef(cmd)

		if err := validateRender(ref); err != nil {
			return err
		}

		mgr, err := newManager(cmd.Context())
		if err != nil {
			return err
		}

		base, err := manager.NewBaseConfig(viper.GetString("render-haproxy.base-haproxy-config"))
		if err != nil {
			return fmt.Errorf("loading base haproxy config: %w", err)
		}

		cfg, err := mgr.Render(cmd.Context(), ref, base)
		if err != nil {
			return err
		}

		out := cfg.String()

		if err := publishConfig(cmd.Context(), out); err != nil {
			return err
		}

		_, err = fmt.Fprint(cmd.OutOrStdout(), out)

		return err
	},
}

func init() {
	rootCmd.AddCommand(renderHAProxyCmd)

	addBalancerRefFlags(renderHAProxyCmd)

	renderHAProxyCmd.Flags().String("base-haproxy-config", "", "base haproxy config the nodebalancer is merged into")
	viperx.MustBindFlag(viper.GetViper(), "render-haproxy.base-haproxy-config", renderHAProxyCmd.Flags().Lookup("base-haproxy-config"))

	renderHAProxyCmd.Flags().Bool("check", false, "validate the rendered config with the Data Plane API")
	viperx.MustBindFlag(viper.GetViper(), "render-haproxy.check", renderHAProxyCmd.Flags().Lookup("check"))

	renderHAProxyCmd.Flags().Bool("push", false, "push the rendered config to the Data Plane API")
	viperx.MustBindFlag(viper.GetViper(), "render-haproxy.push", renderHAProxyCmd.Flags().Lookup("push"))

	renderHAProxyCmd.Flags().String("dataplane-user-name", "haproxy", "DataplaneAPI user name")
	viperx.MustBindFlag(viper.GetViper(), "dataplane.user.name", renderHAProxyCmd.Flags().Lookup("dataplane-user-name"))

	renderHAProxyCmd.Flags().String("dataplane-user-pwd", "adminpwd", "DataplaneAPI user password")
	viperx.MustBindFlag(viper.GetViper(), "dataplane.user.pwd", renderHAProxyCmd.Flags().Lookup("dataplane-user-pwd"))

	renderHAProxyCmd.Flags().String("dataplane-url", "", "DataplaneAPI base url")
	viperx.MustBindFlag(viper.GetViper(), "dataplane.url", renderHAProxyCmd.Flags().Lookup("dataplane-url"))

	renderHAProxyCmd.Flags().Int("dataplane-retries", defaultDataplaneRetries, "Number of attempts to verify connection to DataplaneAPI")
	viperx.MustBindFlag(viper.GetViper(), "render-haproxy.dataplane-retries", renderHAProxyCmd.Flags().Lookup("dataplane-retries"))

	renderHAProxyCmd.Flags().Duration("dataplane-retry-interval", defaultDataplaneRetryInterval, "Interval between DataplaneAPI checks")
	viperx.MustBindFlag(viper.GetViper(), "render-haproxy.dataplane-retry-interval", renderHAProxyCmd.Flags().Lookup("dataplane-retry-interval"))
}

// validateRender collects the mandatory flag validation
func validateRender(ref manager.BalancerRef) error {
	errs := []error{}

	if err := ref.Validate(); err != nil {
		errs = append(errs, err)
	}

	wantsDataplane := viper.GetBool("render-haproxy.check") || viper.GetBool("render-haproxy.push")
	if wantsDataplane && config.AppConfig.Dataplane.URL == "" {
		errs = append(errs, ErrDataplaneURLRequired)
	}

	if len(errs) == 0 {
		return nil
	}

	return errors.Join(errs...)
}

// publishConfig waits for the Data Plane API, then validates and optionally pushes the rendered config
func publishConfig(ctx context.Context, cfg string, options ...dataplaneapi.Option) error {
	check := viper.GetBool("render-haproxy.check")
	push := viper.GetBool("render-haproxy.push")

	if !check && !push {
		return nil
	}

	options = append([]dataplaneapi.Option{
		dataplaneapi.WithLogger(logger),
		dataplaneapi.WithBasicAuth(config.AppConfig.Dataplane.User.Name, config.AppConfig.Dataplane.User.Pwd),
	}, options...)

	dp := dataplaneapi.NewClient(config.AppConfig.Dataplane.URL, options...)

	if err := dp.WaitForDataPlaneReady(
		ctx,
		viper.GetInt("render-haproxy.dataplane-retries"),
		viper.GetDuration("render-haproxy.dataplane-retry-interval"),
	); err != nil {
		return err
	}

	if err := dp.CheckConfig(ctx, cfg); err != nil {
		return err
	}

	if !push {
		return nil
	}

	return dp.PostConfig(ctx, cfg)
}
