package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/awantoch/familyassign/config"
	"github.com/awantoch/familyassign/constants"
	"github.com/awantoch/familyassign/logger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// RESTCaller calls stored procedures through the Supabase REST gateway
// (PostgREST) with the service-role key.
type RESTCaller struct {
	baseURL    string
	serviceKey string
	schema     string
	client     *http.Client
}

var _ Caller = (*RESTCaller)(nil)

type RESTOption func(*RESTCaller)

// WithSchema sets the Content-Profile schema; "public" needs no header.
func WithSchema(schema string) RESTOption {
	return func(c *RESTCaller) { c.schema = schema }
}

func WithTimeout(d time.Duration) RESTOption {
	return func(c *RESTCaller) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithHTTPClient replaces the instrumented default client.
func WithHTTPClient(client *http.Client) RESTOption {
	return func(c *RESTCaller) { c.client = client }
}

func NewRESTCaller(baseURL, serviceKey string, opts ...RESTOption) (*RESTCaller, error) {
	if baseURL == "" || serviceKey == "" {
		return nil, fmt.Errorf("rest caller requires base url and service key")
	}
	c := &RESTCaller{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		schema:     constants.DefaultRPCSchema,
		client: &http.Client{
			Timeout:   config.DefaultRPCTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// postgrestError is the error body PostgREST returns on non-2xx responses.
type postgrestError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (c *RESTCaller) Call(ctx context.Context, procedure string, args map[string]any) (Result, error) {
	if !validIdent(procedure) {
		return Result{}, fmt.Errorf("invalid procedure name %q", procedure)
	}
	if args == nil {
		args = map[string]any{}
	}
	body, err := json.Marshal(args)
	if err != nil {
		return Result{}, fmt.Errorf("failed to encode rpc args: %w", err)
	}
	url := c.baseURL + constants.RPCPathPrefix + procedure
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("failed to build rpc request: %w", err)
	}
	req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	req.Header.Set(constants.HeaderAccept, constants.ContentTypeJSON)
	req.Header.Set(constants.HeaderAPIKey, c.serviceKey)
	req.Header.Set(constants.HeaderAuthorization, "Bearer "+c.serviceKey)
	if c.schema != "" && c.schema != constants.DefaultRPCSchema {
		req.Header.Set(constants.HeaderContentProfile, c.schema)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		logger.WarnCtx(ctx, "rpc transport error", "procedure", procedure, "error", err)
		return Failure(err.Error()), nil
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Failure(fmt.Sprintf("failed to read rpc response: %v", err)), nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Failure(failureMessage(resp.StatusCode, data)), nil
	}
	return successFromJSON(data), nil
}

// successFromJSON decodes a JSON result. Empty input is a null result and
// non-JSON input is relayed verbatim as a string.
func successFromJSON(data []byte) Result {
	if len(bytes.TrimSpace(data)) == 0 {
		return Success(nil)
	}
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return Success(string(data))
	}
	return Success(value)
}

func failureMessage(status int, data []byte) string {
	var pgErr postgrestError
	if err := json.Unmarshal(data, &pgErr); err == nil && pgErr.Message != "" {
		return pgErr.Message
	}
	msg := fmt.Sprintf("%d %s", status, http.StatusText(status))
	if trimmed := strings.TrimSpace(string(data)); trimmed != "" {
		msg += ": " + trimmed
	}
	return msg
}
