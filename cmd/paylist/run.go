package main

import (
	"github.com/aretw0/paylist/internal/cli"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open an interactive payment-method form",
	Long: `Connects to the endpoint, mounts one form and renders it after every change.

Commands: select <code>, select (back to the placeholder), fetch, clear, list, view, quit.
With --json, views are written as JSON lines and commands may be JSON objects such as
{"action":"select","value":"in"}.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		debug, _ := cmd.Flags().GetBool("debug")
		offline, _ := cmd.Flags().GetBool("offline")
		jsonMode, _ := cmd.Flags().GetBool("json")
		quiet, _ := cmd.Flags().GetBool("quiet")
		sessionID, _ := cmd.Flags().GetString("session")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		return cli.RunForm(ctx, cli.RunOptions{
			Config:    cfg,
			Debug:     debug,
			JSON:      jsonMode,
			Offline:   offline,
			Quiet:     quiet,
			SessionID: sessionID,
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("json", false, "Read and write JSON lines instead of text")
	runCmd.Flags().Bool("quiet", false, "Do not print the banner")
	runCmd.Flags().String("session", "", "Snapshot the form state under this id (requires redis)")

	// Without a subcommand, paylist behaves like `paylist run`.
	rootCmd.RunE = runCmd.RunE
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
