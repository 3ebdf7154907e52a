package main

import (
	"github.com/aretw0/paylist/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve many forms over HTTP",
	Long: `Starts the REST API. All forms share one upstream connection; each form is
still processed one event at a time. Configure redis to keep form state outside the process.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		debug, _ := cmd.Flags().GetBool("debug")
		offline, _ := cmd.Flags().GetBool("offline")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		return cli.Serve(ctx, cli.ServeOptions{Config: cfg, Debug: debug, Offline: offline})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on (overrides config)")
}
