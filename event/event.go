package event

import (
	"context"
	"fmt"
	"strings"

	"github.com/awantoch/familyassign/config"
	"github.com/awantoch/familyassign/constants"
)

// EventBus carries generation outcomes to interested subscribers (audit log, metrics sinks).
type EventBus interface {
	Publish(ctx context.Context, topic string, payload any) error
	Subscribe(ctx context.Context, topic string, handler func(payload []byte)) error
	Close() error
}

// NewInProcEventBus returns a new in-memory event bus.
func NewInProcEventBus() *WatermillEventBus {
	return NewWatermillInMemBus()
}

// NewEventBusFromConfig returns an EventBus based on config. Supported: memory, nats (with url).
// An empty driver means no bus and returns (nil, nil).
func NewEventBusFromConfig(cfg *config.EventConfig) (EventBus, error) {
	if cfg == nil || cfg.Driver == "" {
		return nil, nil
	}
	switch strings.ToLower(cfg.Driver) {
	case constants.EventDriverMemory:
		return NewWatermillInMemBus(), nil
	case constants.EventDriverNATS:
		if cfg.URL == "" {
			return nil, fmt.Errorf("NATS driver requires url")
		}
		bus, err := NewWatermillNATSBus("familyassign", "familyassign-client", cfg.URL)
		if err != nil {
			return nil, err
		}
		return bus, nil
	default:
		return nil, fmt.Errorf("unsupported event bus driver: %s", cfg.Driver)
	}
}
