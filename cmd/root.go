// Package cmd is our cobra/viper cli implementation
package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.infratographer.com/x/loggingx"
	"go.infratographer.com/x/versionx"
	"go.infratographer.com/x/viperx"
	"go.uber.org/zap"

	"go.infratographer.com/nodebalancer-manager/internal/config"
)

const (
	appName = "nodebalancer-manager"

	defaultAPITimeout = 30 * time.Second
)

var (
	cfgFile string
	logger  = zap.NewNop().Sugar()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "idempotently manage Linode NodeBalancers, their configs and nodes",
	Long: `nodebalancer-manager drives a NodeBalancer, one of its port configs or one of
its backend nodes to a desired state. Every run reads the current remote state,
issues at most one mutating call and reports whether anything changed.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_ = writeFailure(os.Stdout, config.AppConfig.Output, err)

		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/."+appName+".yaml)")

	rootCmd.PersistentFlags().String("api-key", "", "Linode API token, falls back to $LINODE_API_KEY then $LINODE_TOKEN")
	viperx.MustBindFlag(viper.GetViper(), "api.key", rootCmd.PersistentFlags().Lookup("api-key"))

	rootCmd.PersistentFlags().String("api-url", "", "Linode API base url (default is the public API)")
	viperx.MustBindFlag(viper.GetViper(), "api.url", rootCmd.PersistentFlags().Lookup("api-url"))

	rootCmd.PersistentFlags().Duration("api-timeout", defaultAPITimeout, "timeout of a single Linode API request")
	viperx.MustBindFlag(viper.GetViper(), "api.timeout", rootCmd.PersistentFlags().Lookup("api-timeout"))

	rootCmd.PersistentFlags().Int("api-retries", 0, "number of times a failed Linode API request is retried")
	viperx.MustBindFlag(viper.GetViper(), "api.retries", rootCmd.PersistentFlags().Lookup("api-retries"))

	rootCmd.PersistentFlags().StringP("output", "o", outputJSON, "result format, one of json, yaml")
	viperx.MustBindFlag(viper.GetViper(), "output", rootCmd.PersistentFlags().Lookup("output"))

	// Logging flags
	loggingx.MustViperFlags(viper.GetViper(), rootCmd.PersistentFlags())

	// Register version command
	versionx.RegisterCobraCommand(rootCmd, func() { versionx.PrintVersion(logger) })
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".nodebalancer-manager" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName("." + appName)
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.SetEnvPrefix(appName)

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	cfgErr := viper.ReadInConfig()

	setupAppConfig()

	logger = loggingx.InitLogger(appName, config.AppConfig.Logging)

	if cfgErr == nil {
		logger.Debugw("using config file",
			"file", viper.ConfigFileUsed(),
		)
	}
}

// setupAppConfig loads our config.AppConfig struct with the values bound by
// viper. Then, anywhere we need these values, we can just return to AppConfig
// instead of performing viper.GetString(...), viper.GetBool(...), etc.
func setupAppConfig() {
	err := viper.Unmarshal(&config.AppConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to decode app config: %s\n", err)
		os.Exit(1)
	}
}
