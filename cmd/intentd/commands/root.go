// Package commands implements the intentd CLI.
package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	envName    string
)

var rootCmd = &cobra.Command{
	Use:   "intentd",
	Short: "Intent classification server",
	Long: `intentd - classifies short sentences into intents.

Intents (tag, example patterns, canned responses) are read from JSON datasets.
'intentd train' fits a predictor over word vectors of the patterns and stores
a model snapshot; 'intentd serve' loads the snapshot and answers
{"sentence": "..."} requests over TCP.

Configuration is read from config/<ENV>.yaml (ENV defaults to "local"):

  intentd train
  intentd serve
  intentd ask "hello there"
  intentd --config /etc/intentd.yaml serve`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default: config/<ENV>.yaml)")
	rootCmd.PersistentFlags().StringVar(&envName, "env", "", "environment: local, dev, docker, prod (default: $ENV or local)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(versionCmd)
}
