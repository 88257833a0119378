// Package main - точка входа в приложение.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:          "webhook-repo",
		Short:        "Record GitHub push and pull request notifications as events",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"), "Path to YAML config file")

	rootCmd.AddCommand(
		newServeCmd(&configPath),
		newClearCmd(&configPath),
		newSendSamplesCmd(&configPath),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
