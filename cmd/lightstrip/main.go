package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "lightstrip",
	Short:        "Addressable LED strip controller",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "path to a .yaml or .toml config file")
	rootCmd.PersistentFlags().String("log-level", "info", "debug | info | warn | error")
	rootCmd.PersistentFlags().String("log-format", "console", "console | json | journal")
	rootCmd.AddCommand(runCmd, sendCmd, patternsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("lightstrip failed")
		os.Exit(1)
	}
}
