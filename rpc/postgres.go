package rpc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/awantoch/familyassign/logger"
	"github.com/lib/pq"
)

// PostgresCaller calls stored procedures over a direct database connection,
// bypassing the REST gateway. The DSN must carry a role with the same
// privileges as the service-role key.
type PostgresCaller struct {
	db *sql.DB
}

var _ Caller = (*PostgresCaller)(nil)

func NewPostgresCaller(dsn string) (*PostgresCaller, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres caller requires a dsn")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	db.SetMaxOpenConns(1)
	return &PostgresCaller{db: db}, nil
}

// buildCallQuery renders "SELECT to_json(proc(a => $1, b => $2))::text" with
// arguments in name order. The result arrives as JSON text, so numbers,
// booleans and objects decode to the same values the REST gateway returns.
func buildCallQuery(procedure string, args map[string]any) (string, []any, error) {
	if !validIdent(procedure) {
		return "", nil, fmt.Errorf("invalid procedure name %q", procedure)
	}
	names := make([]string, 0, len(args))
	for name := range args {
		if !validIdent(name) || strings.Contains(name, ".") {
			return "", nil, fmt.Errorf("invalid argument name %q", name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	values := make([]any, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s => $%d", name, i+1)
		values[i] = args[name]
	}
	return fmt.Sprintf("SELECT to_json(%s(%s))::text", procedure, strings.Join(parts, ", ")), values, nil
}

func (c *PostgresCaller) Call(ctx context.Context, procedure string, args map[string]any) (Result, error) {
	query, values, err := buildCallQuery(procedure, args)
	if err != nil {
		return Result{}, err
	}
	var out sql.NullString
	if err := c.db.QueryRowContext(ctx, query, values...).Scan(&out); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			logger.WarnCtx(ctx, "rpc database error", "procedure", procedure, "code", string(pqErr.Code))
			return Failure(pqErr.Message), nil
		}
		return Failure(err.Error()), nil
	}
	if !out.Valid {
		return Success(nil), nil
	}
	return successFromJSON([]byte(out.String)), nil
}

func (c *PostgresCaller) Close() error {
	return c.db.Close()
}
