package event

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// GenerationEvent records one pass through remote invocation. It never
// carries the host secret or backend credentials.
type GenerationEvent struct {
	ID         string    `json:"id"`
	RequestID  string    `json:"request_id,omitempty"`
	FamilyCode string    `json:"family_code"`
	Outcome    string    `json:"outcome"`
	Detail     string    `json:"detail,omitempty"`
	Status     int       `json:"status"`
	At         time.Time `json:"at"`
}

func NewGenerationEvent(requestID, familyCode, outcome, detail string, status int) GenerationEvent {
	return GenerationEvent{
		ID:         uuid.NewString(),
		RequestID:  requestID,
		FamilyCode: familyCode,
		Outcome:    outcome,
		Detail:     detail,
		Status:     status,
		At:         time.Now().UTC(),
	}
}

// DecodeGenerationEvent parses a payload published by the handler.
func DecodeGenerationEvent(payload []byte) (GenerationEvent, error) {
	var ev GenerationEvent
	err := json.Unmarshal(payload, &ev)
	return ev, err
}
