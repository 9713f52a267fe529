package main

import (
	"github.com/spf13/cobra"

	"github.com/LoohanZinho/joraps/config"
	"github.com/LoohanZinho/joraps/logger"
)

var configFile string

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "joraps",
		Short: "Audio transcription service",
		Long:  "Joraps records or ingests audio, transcribes it through an AI gateway, and post-processes the result.",
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to config.yml")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newTranscribeCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// loadConfig reads, defaults, and validates the full configuration, and
// initializes the global logger from it.
func loadConfig() (*config.Config, error) {
	cfg := &config.Config{}

	var opts []config.LoaderOption
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if err := config.Load("joraps", cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Init(cfg.Logging)
	return cfg, nil
}
