package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/awantoch/familyassign/config"
	"github.com/awantoch/familyassign/core"
	fahttp "github.com/awantoch/familyassign/http"
	"github.com/awantoch/familyassign/logger"
	"github.com/awantoch/familyassign/telemetry"
)

func main() {
	cfg := config.FromEnv(os.Getenv)
	if cfg.Debug {
		logger.SetMode("debug")
	}
	if _, err := telemetry.Init(cfg); err != nil {
		logger.Warn("tracing disabled: %v", err)
	}

	deps, cleanup, err := core.InitializeDependencies(context.Background(), cfg)
	if err != nil {
		logger.Error("init failed: %v", err)
		os.Exit(1)
	}
	defer cleanup()

	lambda.Start(fahttp.LambdaHandler(fahttp.NewGenerateHandler(deps)))
}
