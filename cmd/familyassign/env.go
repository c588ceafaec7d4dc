package main

import (
	"github.com/spf13/cobra"

	"github.com/awantoch/familyassign/config"
)

// newEnvCmd creates the 'env' subcommand: which deployment variables are set, never their values.
func newEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Report which deployment settings are present",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			printJSON(envReport(cfg))
			return nil
		},
	}
}

func envReport(cfg *config.Config) map[string]any {
	return map[string]any{
		"rpc_driver": cfg.RPC.Driver,
		"missing":    cfg.MissingBackend(),
		"env":        cfg.EnvFlags(),
	}
}
