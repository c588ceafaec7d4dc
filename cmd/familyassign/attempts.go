package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/awantoch/familyassign/config"
	"github.com/awantoch/familyassign/storage"
)

var errNoAuditStore = errors.New("no audit store configured (set STORAGE_DRIVER)")

// newAttemptsCmd creates the 'attempts' subcommand, which reads the audit trail.
func newAttemptsCmd() *cobra.Command {
	var (
		family string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "attempts",
		Short: "List recorded generation attempts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return listAttempts(cmd.Context(), cfg, family, limit)
		},
	}
	cmd.Flags().StringVar(&family, "family", "", "Only show attempts for this family code")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of attempts (0 for all)")
	return cmd
}

func listAttempts(ctx context.Context, cfg *config.Config, family string, limit int) error {
	store, err := storage.NewStorageFromConfig(&cfg.Storage)
	if err != nil {
		return err
	}
	if store == nil {
		return errNoAuditStore
	}
	defer store.Close()

	attempts, err := store.ListAttempts(ctx, family, limit)
	if err != nil {
		return err
	}
	if attempts == nil {
		attempts = []*storage.Attempt{}
	}
	printJSON(attempts)
	return nil
}
