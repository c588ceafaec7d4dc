package secrets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/awantoch/familyassign/config"
	"github.com/awantoch/familyassign/constants"
	"github.com/awantoch/familyassign/logger"
)

// ErrSecretNotFound is returned when a provider has no value for a key.
var ErrSecretNotFound = errors.New("secret not found")

// SecretsProvider resolves deployment secrets (host secret, service-role key, DSN).
type SecretsProvider interface {
	GetSecret(ctx context.Context, key string) (string, error)
	Close() error
}

// NewSecretsProvider creates a secrets provider from configuration.
func NewSecretsProvider(ctx context.Context, cfg *config.SecretsConfig) (SecretsProvider, error) {
	if cfg == nil {
		return NewEnvSecretsProvider(""), nil
	}

	switch strings.ToLower(cfg.Driver) {
	case "", "env":
		return NewEnvSecretsProvider(cfg.Prefix), nil
	case "aws-sm", "aws":
		if cfg.Region == "" {
			return nil, fmt.Errorf("region is required for AWS Secrets Manager")
		}
		return NewAWSSecretsProvider(ctx, cfg.Region, cfg.Prefix)
	default:
		return nil, fmt.Errorf("unsupported secrets driver: %s", cfg.Driver)
	}
}

// Hydrate fills the credential fields of cfg that are still empty.
// A missing secret leaves the field empty so the request gates report it.
func Hydrate(ctx context.Context, p SecretsProvider, cfg *config.Config) error {
	targets := []struct {
		key string
		dst *string
	}{
		{constants.EnvHostSecret, &cfg.HostSecret},
		{constants.EnvServiceRoleKey, &cfg.Supabase.ServiceRoleKey},
		{constants.EnvDatabaseURL, &cfg.RPC.DSN},
	}
	for _, t := range targets {
		if *t.dst != "" {
			continue
		}
		v, err := p.GetSecret(ctx, t.key)
		if errors.Is(err, ErrSecretNotFound) {
			logger.Debug("secret %s not found, leaving unset", t.key)
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", t.key, err)
		}
		*t.dst = v
	}
	return nil
}
