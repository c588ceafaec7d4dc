package storage

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/awantoch/familyassign/logger"
	_ "modernc.org/sqlite"
)

// SqliteStorage implements Storage using SQLite as the backend.
type SqliteStorage struct {
	db *sql.DB
}

var _ Storage = (*SqliteStorage)(nil)

func NewSqliteStorage(dsn string) (*SqliteStorage, error) {
	// Only create parent directories for file-backed databases.
	if dsn != ":memory:" && dsn != "" && !strings.HasPrefix(dsn, "file:") {
		dir := filepath.Dir(dsn)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, logger.Errorf("failed to create db directory %q: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)
	sqlStmt := `
CREATE TABLE IF NOT EXISTS attempts (
	id TEXT PRIMARY KEY,
	request_id TEXT,
	family_code TEXT NOT NULL,
	outcome TEXT NOT NULL,
	detail TEXT,
	status INTEGER,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS attempts_family_idx ON attempts (family_code, created_at);
`
	if _, err := db.Exec(sqlStmt); err != nil {
		db.Close()
		return nil, err
	}
	return &SqliteStorage{db: db}, nil
}

func (s *SqliteStorage) SaveAttempt(ctx context.Context, a *Attempt) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO attempts (id, request_id, family_code, outcome, detail, status, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET outcome=excluded.outcome, detail=excluded.detail, status=excluded.status
`, a.ID, a.RequestID, a.FamilyCode, a.Outcome, a.Detail, a.Status, a.CreatedAt.UnixNano())
	return err
}

func (s *SqliteStorage) ListAttempts(ctx context.Context, familyCode string, limit int) ([]*Attempt, error) {
	query := `SELECT id, request_id, family_code, outcome, detail, status, created_at FROM attempts`
	var args []any
	if familyCode != "" {
		query += ` WHERE family_code = ?`
		args = append(args, familyCode)
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Attempt
	for rows.Next() {
		var a Attempt
		var requestID, detail sql.NullString
		var createdAt int64
		if err := rows.Scan(&a.ID, &requestID, &a.FamilyCode, &a.Outcome, &detail, &a.Status, &createdAt); err != nil {
			return nil, err
		}
		a.RequestID = requestID.String
		a.Detail = detail.String
		a.CreatedAt = time.Unix(0, createdAt).UTC()
		out = append(out, &a)
	}
	return out, rows.Err()
}

func (s *SqliteStorage) Close() error {
	return s.db.Close()
}
