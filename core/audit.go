package core

import (
	"context"

	"github.com/awantoch/familyassign/constants"
	"github.com/awantoch/familyassign/event"
	"github.com/awantoch/familyassign/logger"
	"github.com/awantoch/familyassign/storage"
)

// SubscribeAudit persists every generation event published on bus into store
// until ctx is cancelled.
func SubscribeAudit(ctx context.Context, bus event.EventBus, store storage.Storage) error {
	return bus.Subscribe(ctx, constants.TopicAssignmentsGenerated, func(payload []byte) {
		ev, err := event.DecodeGenerationEvent(payload)
		if err != nil {
			logger.Warn("dropping malformed generation event: %v", err)
			return
		}
		attempt := &storage.Attempt{
			ID:         ev.ID,
			RequestID:  ev.RequestID,
			FamilyCode: ev.FamilyCode,
			Outcome:    ev.Outcome,
			Detail:     ev.Detail,
			Status:     ev.Status,
			CreatedAt:  ev.At,
		}
		if err := store.SaveAttempt(ctx, attempt); err != nil {
			logger.Error("failed to save attempt %s: %v", ev.ID, err)
		}
	})
}
