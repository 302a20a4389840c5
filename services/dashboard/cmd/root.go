package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Polish IT job offer analytics",
	Long: `Loads monthly snapshots of Polish software job offers, derives salary,
contract and location columns, and serves chart-ready aggregates.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, reportCmd, migrateCmd, importCmd, watchCmd)
}
