package http

import (
	"context"
	"net/http"
	"os"
	"sync"

	"github.com/awantoch/familyassign/config"
	"github.com/awantoch/familyassign/core"
	"github.com/awantoch/familyassign/logger"
	"github.com/awantoch/familyassign/telemetry"
)

var (
	initServerless   sync.Once
	initErr          error
	serverlessCORS   CORSPolicy
	serverlessHandle http.Handler
	cleanupFunc      func()
	serverlessMutex  sync.RWMutex
)

// ServerlessHandler is the function entry point. Configuration is read from
// the environment once per process; every path is served by the generate handler.
func ServerlessHandler(w http.ResponseWriter, r *http.Request) {
	serverlessMutex.RLock()
	initServerless.Do(initServerlessHandler)
	handler, cors, err := serverlessHandle, serverlessCORS, initErr
	serverlessMutex.RUnlock()

	if err != nil {
		cors.Apply(w.Header(), r)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		logger.Error("serverless init failed: %v", err)
		writeServerError(w, err.Error())
		return
	}
	handler.ServeHTTP(w, r)
}

func initServerlessHandler() {
	cfg := config.FromEnv(os.Getenv)
	if cfg.Debug {
		logger.SetMode("debug")
	}
	serverlessCORS = NewCORSPolicy(cfg.CORS.AllowedOrigins)

	if _, err := telemetry.Init(cfg); err != nil {
		logger.Warn("tracing disabled: %v", err)
	}

	deps, cleanup, err := core.InitializeDependencies(context.Background(), cfg)
	if err != nil {
		initErr = err
		return
	}
	cleanupFunc = cleanup
	serverlessHandle = NewGenerateHandler(deps)
}

// ResetServerless drops the cached handler so the next request re-reads the environment (for testing).
func ResetServerless() {
	serverlessMutex.Lock()
	defer serverlessMutex.Unlock()

	if cleanupFunc != nil {
		cleanupFunc()
	}
	initServerless = sync.Once{}
	initErr = nil
	serverlessHandle = nil
	serverlessCORS = CORSPolicy{}
	cleanupFunc = nil
}
