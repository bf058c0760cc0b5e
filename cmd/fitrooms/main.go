// Package main runs the fitrooms server and its maintenance commands.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// configPath is the optional YAML configuration file.
	configPath string
	version    = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fitrooms",
	Short: "Small-group fitness accountability rooms",
	Long: `fitrooms serves the rooms API: members log their day once, share a
feed with up to five people and keep each other on streak.

Configuration comes from an optional YAML file and FITROOMS_* environment
variables, for example FITROOMS_DATABASE_URL.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.AddCommand(serveCmd, sweepCmd, migrateCmd)
}
