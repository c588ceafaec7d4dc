package rpc

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/awantoch/familyassign/config"
	"github.com/awantoch/familyassign/constants"
)

// Caller invokes a named remote procedure. Remote outcomes, including
// transport failures, come back as a Result; the error return is reserved
// for local faults such as a request that cannot be built.
type Caller interface {
	Call(ctx context.Context, procedure string, args map[string]any) (Result, error)
}

// Factory builds a Caller from configuration. Handlers call it per request.
type Factory func(cfg *config.Config) (Caller, error)

var identRe = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*\.)?[A-Za-z_][A-Za-z0-9_]*$`)

func validIdent(name string) bool {
	return identRe.MatchString(name)
}

// NewCaller is the default Factory, selecting the implementation from cfg.RPC.Driver.
func NewCaller(cfg *config.Config) (Caller, error) {
	switch strings.ToLower(cfg.RPC.Driver) {
	case "", constants.RPCDriverREST:
		c, err := NewRESTCaller(cfg.Supabase.URL, cfg.Supabase.ServiceRoleKey,
			WithSchema(cfg.RPC.Schema), WithTimeout(cfg.RPC.Timeout))
		if err != nil {
			return nil, err
		}
		return c, nil
	case constants.RPCDriverPostgres:
		c, err := NewPostgresCaller(cfg.RPC.DSN)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unsupported rpc driver: %s", cfg.RPC.Driver)
	}
}
