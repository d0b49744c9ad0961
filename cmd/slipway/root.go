package slipway

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "slipway [source-path]",
	Short: "Validate and convert service deployment manifests",
	Long: `Slipway works with declarative deployment manifests (render.yaml
blueprints): it finds them in a source tree, checks them against the
platform's schema rules, reports the environment each service needs, and
generates blueprints from other deployment config formats.

Running slipway with no subcommand validates the given source tree.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd, sourcePathFromArgs(args))
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.slipway.yaml)")
	rootCmd.SilenceUsage = true

	addValidateFlags(rootCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".slipway")
	}

	viper.SetEnvPrefix("slipway")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func sourcePathFromArgs(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
