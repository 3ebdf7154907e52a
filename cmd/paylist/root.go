package main

import (
	"fmt"
	"os"

	"github.com/aretw0/paylist/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var rootCmd = &cobra.Command{
	Use:   "paylist",
	Short: "Browse payment methods available per country",
	Long: `paylist mounts a country dropdown fed by a Deriv-style websocket API and lists
the payment methods available for the selected country.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	addGlobalFlags(rootCmd.PersistentFlags())
}

func addGlobalFlags(flags *pflag.FlagSet) {
	flags.String("config", config.DefaultPath, "Path to the YAML configuration file")
	flags.Bool("debug", false, "Enable debug logging on stderr")
	flags.Bool("offline", false, "Answer from built-in sample data instead of dialing the endpoint")
	flags.String("endpoint", "", "Websocket endpoint (overrides config)")
	flags.String("app-id", "", "Application id sent as app_id (overrides config)")
	flags.Bool("correlate", false, "Only accept payment methods answering the latest fetch")
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if v, _ := cmd.Flags().GetString("endpoint"); v != "" {
		cfg.Endpoint = v
	}
	if v, _ := cmd.Flags().GetString("app-id"); v != "" {
		cfg.AppID = v
	}
	if cmd.Flags().Changed("correlate") {
		cfg.CorrelateRequests, _ = cmd.Flags().GetBool("correlate")
	}
	if cmd.Flags().Changed("addr") {
		cfg.Server.Addr, _ = cmd.Flags().GetString("addr")
	}
	return cfg, cfg.Validate()
}
