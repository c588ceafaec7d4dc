package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/awantoch/familyassign/config"
	"github.com/awantoch/familyassign/logger"
)

var (
	exit       = os.Exit
	configPath string
	debug      bool
)

// NewRootCmd creates the root 'familyassign' command with persistent flags and subcommands.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "familyassign",
		Short:         "Generate family assignments through the remote database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigPath, "Path to config file (JSON or YAML)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logs")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if debug {
			logger.SetMode("debug")
		}
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newGenerateCmd(),
		newEnvCmd(),
		newAttemptsCmd(),
	)
	return rootCmd
}

// loadConfig reads the config file when present and overlays the environment.
// A missing file is only an error when the path was given explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	switch {
	case err == nil:
		config.ApplyEnv(cfg, os.Getenv)
	case errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config"):
		cfg = config.FromEnv(os.Getenv)
	default:
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if debug {
		cfg.Debug = true
	}
	return cfg, nil
}
