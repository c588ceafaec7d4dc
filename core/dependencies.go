package core

import (
	"context"
	"fmt"

	"github.com/awantoch/familyassign/config"
	"github.com/awantoch/familyassign/event"
	"github.com/awantoch/familyassign/logger"
	"github.com/awantoch/familyassign/rpc"
	"github.com/awantoch/familyassign/secrets"
	"github.com/awantoch/familyassign/storage"
)

// Dependencies is everything the generate handler needs besides the request.
// Bus and Store are optional and may be nil.
type Dependencies struct {
	Config  *config.Config
	Callers rpc.Factory
	Bus     event.EventBus
	Store   storage.Storage
}

// InitializeDependencies resolves secrets into cfg and sets up the event bus,
// audit store and audit subscriber. The returned cleanup func must be called
// on shutdown.
func InitializeDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, func(), error) {
	provider, err := secrets.NewSecretsProvider(ctx, &cfg.Secrets)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create secrets provider: %w", err)
	}
	defer provider.Close()
	if err := secrets.Hydrate(ctx, provider, cfg); err != nil {
		return nil, nil, err
	}

	bus, err := event.NewEventBusFromConfig(&cfg.Event)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create event bus: %w", err)
	}
	store, err := storage.NewStorageFromConfig(&cfg.Storage)
	if err != nil {
		if bus != nil {
			bus.Close()
		}
		return nil, nil, fmt.Errorf("failed to create audit store: %w", err)
	}

	auditCtx, stopAudit := context.WithCancel(context.Background())
	if bus != nil && store != nil {
		if err := SubscribeAudit(auditCtx, bus, store); err != nil {
			logger.Warn("audit subscriber disabled: %v", err)
		}
	}

	deps := &Dependencies{
		Config:  cfg,
		Callers: rpc.NewCaller,
		Bus:     bus,
		Store:   store,
	}

	cleanup := func() {
		stopAudit()
		if bus != nil {
			if err := bus.Close(); err != nil {
				logger.Error("Failed to close event bus: %v", err)
			}
		}
		if store != nil {
			if err := store.Close(); err != nil {
				logger.Error("Failed to close audit store: %v", err)
			}
		}
	}
	return deps, cleanup, nil
}
