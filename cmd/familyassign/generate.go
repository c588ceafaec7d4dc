package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/awantoch/familyassign/config"
	"github.com/awantoch/familyassign/constants"
	"github.com/awantoch/familyassign/logger"
	"github.com/awantoch/familyassign/rpc"
	"github.com/awantoch/familyassign/secrets"
	"github.com/awantoch/familyassign/telemetry"
)

var errGenerationFailed = errors.New(constants.ResponseGenerationFailed)

// newGenerateCmd creates the 'generate' subcommand.
func newGenerateCmd() *cobra.Command {
	var family string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate assignments for one family without going through HTTP",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := loadConfig(cmd)
			if err != nil {
				logger.Error("%v", err)
				exit(1)
				return
			}
			if err := hydrate(cmd.Context(), cfg); err != nil {
				logger.Error("%v", err)
				exit(1)
				return
			}
			if err := runGenerate(cmd.Context(), cfg, rpc.NewCaller, family); err != nil {
				logger.Error("generate %s: %v", family, err)
				exit(1)
			}
		},
	}
	cmd.Flags().StringVar(&family, "family", "", "Family code to generate assignments for")
	_ = cmd.MarkFlagRequired("family")
	return cmd
}

func hydrate(ctx context.Context, cfg *config.Config) error {
	provider, err := secrets.NewSecretsProvider(ctx, &cfg.Secrets)
	if err != nil {
		return err
	}
	defer provider.Close()
	return secrets.Hydrate(ctx, provider, cfg)
}

// runGenerate calls the procedure and writes the body the endpoint would
// return for the same outcome. Any non-success outcome is returned as an error.
func runGenerate(ctx context.Context, cfg *config.Config, callers rpc.Factory, family string) error {
	if family == "" {
		return fmt.Errorf("family code is required")
	}
	if missing := cfg.MissingBackend(); len(missing) > 0 {
		body := map[string]any{"error": constants.ResponseMissingConfig}
		if cfg.Debug {
			body["env"] = cfg.EnvFlags()
		}
		printJSON(body)
		return fmt.Errorf("%s: missing %v", constants.ResponseMissingConfig, missing)
	}

	caller, err := callers(cfg)
	if err != nil {
		return err
	}
	if c, ok := caller.(io.Closer); ok {
		defer c.Close()
	}

	res, err := caller.Call(ctx, cfg.RPC.Procedure, map[string]any{constants.ArgFamilyCode: family})
	if err != nil {
		telemetry.RecordGeneration(constants.OutcomeError)
		return err
	}
	if !res.OK() {
		telemetry.RecordGeneration(constants.OutcomeFailure)
		printJSON(map[string]any{"error": constants.ResponseGenerationFailed, "detail": res.Message()})
		return fmt.Errorf("%w: %s", errGenerationFailed, res.Message())
	}
	telemetry.RecordGeneration(constants.OutcomeSuccess)
	printJSON(map[string]any{"message": res.MessageOr(constants.ResponseGeneratedFallback)})
	return nil
}

// printJSON writes a command result to the user output.
func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		logger.Error("%s: %v", constants.LogFailedEncodeJSON, err)
		return
	}
	logger.User("%s", data)
}
