package http

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/awantoch/familyassign/config"
	"github.com/awantoch/familyassign/constants"
	"github.com/awantoch/familyassign/core"
	"github.com/awantoch/familyassign/event"
	"github.com/awantoch/familyassign/logger"
	"github.com/awantoch/familyassign/rpc"
	"github.com/awantoch/familyassign/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/awantoch/familyassign/http")

// GenerateHandler validates a host's request and asks the remote database to
// generate assignments for the family. It owns no state between requests.
type GenerateHandler struct {
	cfg     *config.Config
	cors    CORSPolicy
	callers rpc.Factory
	bus     event.EventBus
}

var _ http.Handler = (*GenerateHandler)(nil)

func NewGenerateHandler(deps *core.Dependencies) *GenerateHandler {
	callers := deps.Callers
	if callers == nil {
		callers = rpc.NewCaller
	}
	return &GenerateHandler{
		cfg:     deps.Config,
		cors:    NewCORSPolicy(deps.Config.CORS.AllowedOrigins),
		callers: callers,
		bus:     deps.Bus,
	}
}

// ServeHTTP runs the gates in order and stops at the first one that fails:
// preflight, method, payload, host secret, backend config, remote call.
func (h *GenerateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	ctx := logger.WithRequestID(r.Context(), requestID)
	w.Header().Set(constants.HeaderRequestID, requestID)
	h.cors.Apply(w.Header(), r)

	defer func() {
		if rec := recover(); rec != nil {
			logger.ErrorCtx(ctx, "unhandled fault", "panic", rec)
			telemetry.RecordGeneration(constants.OutcomeError)
			writeServerError(w, fmt.Sprint(rec))
		}
	}()

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, constants.ResponseMethodNotAllowed)
		return
	}

	req, err := decodeGenerateRequest(r.Body)
	if err != nil {
		logger.DebugCtx(ctx, "rejected payload", "error", err)
		writeError(w, http.StatusBadRequest, constants.ResponseMissingFields)
		return
	}

	// Plain equality, not constant-time.
	if h.cfg.HostSecret == "" || req.HostSecret != h.cfg.HostSecret {
		logger.WarnCtx(ctx, "invalid host secret", "family_code", req.FamilyCode)
		writeError(w, http.StatusForbidden, constants.ResponseInvalidHostSecret)
		return
	}

	if missing := h.cfg.MissingBackend(); len(missing) > 0 {
		logger.ErrorCtx(ctx, "backend not configured", "missing", missing)
		body := errorResponse{Error: constants.ResponseMissingConfig}
		if h.cfg.Debug {
			body.Env = h.cfg.EnvFlags()
		}
		writeJSON(w, http.StatusInternalServerError, body)
		return
	}

	h.generate(ctx, w, requestID, req.FamilyCode)
}

func (h *GenerateHandler) generate(ctx context.Context, w http.ResponseWriter, requestID, familyCode string) {
	ctx, span := tracer.Start(ctx, "generate_assignments",
		trace.WithAttributes(
			attribute.String("family_code", familyCode),
			attribute.String("rpc.driver", h.cfg.RPC.Driver),
		))
	defer span.End()

	caller, err := h.callers(h.cfg)
	if err != nil {
		h.fault(ctx, w, span, requestID, familyCode, err)
		return
	}
	if c, ok := caller.(io.Closer); ok {
		defer c.Close()
	}

	res, err := caller.Call(ctx, h.cfg.RPC.Procedure, map[string]any{
		constants.ArgFamilyCode: familyCode,
	})
	if err != nil {
		h.fault(ctx, w, span, requestID, familyCode, err)
		return
	}

	if !res.OK() {
		logger.ErrorCtx(ctx, "RPC error", "family_code", familyCode, "detail", res.Message())
		span.SetStatus(codes.Error, res.Message())
		h.record(ctx, requestID, familyCode, constants.OutcomeFailure, res.Message(), http.StatusInternalServerError)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:  constants.ResponseGenerationFailed,
			Detail: res.Message(),
		})
		return
	}

	logger.InfoCtx(ctx, "assignments generated", "family_code", familyCode)
	h.record(ctx, requestID, familyCode, constants.OutcomeSuccess, "", http.StatusOK)
	writeJSON(w, http.StatusOK, messageResponse{
		Message: res.MessageOr(constants.ResponseGeneratedFallback),
	})
}

func (h *GenerateHandler) fault(ctx context.Context, w http.ResponseWriter, span trace.Span, requestID, familyCode string, err error) {
	logger.ErrorCtx(ctx, "generation fault", "family_code", familyCode, "error", err)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	h.record(ctx, requestID, familyCode, constants.OutcomeError, err.Error(), http.StatusInternalServerError)
	writeServerError(w, err.Error())
}

// record counts the outcome and publishes it when a bus is configured.
// Publishing never changes the response.
func (h *GenerateHandler) record(ctx context.Context, requestID, familyCode, outcome, detail string, status int) {
	telemetry.RecordGeneration(outcome)
	if h.bus == nil {
		return
	}
	ev := event.NewGenerationEvent(requestID, familyCode, outcome, detail, status)
	if err := h.bus.Publish(ctx, constants.TopicAssignmentsGenerated, ev); err != nil {
		logger.WarnCtx(ctx, constants.LogPublishFailed, "error", err)
	}
}
