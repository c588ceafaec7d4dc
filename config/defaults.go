package config

import "time"

const (
	// DefaultConfigPath is the optional config file picked up by the CLI.
	DefaultConfigPath = "familyassign.config.json"
	// DefaultRPCTimeout bounds a single remote procedure call.
	DefaultRPCTimeout = 30 * time.Second
	// DefaultAuditDSN is the SQLite file used when the sqlite audit store has no DSN.
	DefaultAuditDSN = ".familyassign/audit.db"
)
