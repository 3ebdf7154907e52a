package main

import (
	"fmt"

	"github.com/aretw0/paylist"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of paylist",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "paylist version %s\n", paylist.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
