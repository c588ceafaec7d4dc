package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/awantoch/familyassign/config"
	"github.com/awantoch/familyassign/constants"
)

// Attempt is the audit record of one generation request that reached the
// remote procedure.
type Attempt struct {
	ID         string    `json:"id"`
	RequestID  string    `json:"request_id,omitempty"`
	FamilyCode string    `json:"family_code"`
	Outcome    string    `json:"outcome"`
	Detail     string    `json:"detail,omitempty"`
	Status     int       `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

type Storage interface {
	SaveAttempt(ctx context.Context, a *Attempt) error
	// ListAttempts returns newest first. An empty familyCode lists all
	// families; limit <= 0 means no limit.
	ListAttempts(ctx context.Context, familyCode string, limit int) ([]*Attempt, error)
	Close() error
}

// NewStorageFromConfig returns the audit store named by cfg, or nil when no driver is set.
func NewStorageFromConfig(cfg *config.StorageConfig) (Storage, error) {
	if cfg == nil || cfg.Driver == "" {
		return nil, nil
	}
	switch strings.ToLower(cfg.Driver) {
	case constants.StorageDriverMemory:
		return NewMemoryStorage(), nil
	case constants.StorageDriverSQLite:
		dsn := cfg.DSN
		if dsn == "" {
			dsn = config.DefaultAuditDSN
		}
		s, err := NewSqliteStorage(dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}
