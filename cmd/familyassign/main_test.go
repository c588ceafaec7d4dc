package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awantoch/familyassign/config"
	"github.com/awantoch/familyassign/core"
	"github.com/awantoch/familyassign/logger"
	"github.com/awantoch/familyassign/rpc"
	"github.com/awantoch/familyassign/storage"
	"github.com/awantoch/familyassign/testutil"
)

// captureOutput collects everything written through logger.User while f runs.
func captureOutput(t *testing.T, f func()) string {
	t.Helper()
	var buf bytes.Buffer
	logger.SetUserOutput(&buf)
	defer logger.SetUserOutput(nil)
	f()
	return buf.String()
}

type stubCaller struct {
	res  rpc.Result
	err  error
	args map[string]any
}

func (s *stubCaller) Call(_ context.Context, _ string, args map[string]any) (rpc.Result, error) {
	s.args = args
	return s.res, s.err
}

func stubFactory(c *stubCaller) rpc.Factory {
	return func(*config.Config) (rpc.Caller, error) { return c, nil }
}

func backendConfig() *config.Config {
	env := map[string]string{
		"SUPABASE_URL":              "https://example.supabase.co",
		"SUPABASE_SERVICE_ROLE_KEY": "service-key",
	}
	return config.FromEnv(testutil.EnvLookup(env))
}

func clearEnv(t *testing.T) {
	t.Helper()
	testutil.SetEnv(t, []string{"HOST_SECRET", "SUPABASE_URL", "SUPABASE_SERVICE_ROLE_KEY", "DEBUG", "RPC_DRIVER", "DATABASE_URL", "STORAGE_DRIVER", "STORAGE_DSN"}, nil)
}

func TestRunGenerate_Success(t *testing.T) {
	caller := &stubCaller{res: rpc.Success("3 assignments created")}
	var err error

	out := captureOutput(t, func() {
		err = runGenerate(context.Background(), backendConfig(), stubFactory(caller), "fam-42")
	})

	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"3 assignments created"}`, out)
	assert.Equal(t, map[string]any{"in_family_code": "fam-42"}, caller.args)
}

func TestRunGenerate_Fallback(t *testing.T) {
	var err error
	out := captureOutput(t, func() {
		err = runGenerate(context.Background(), backendConfig(), stubFactory(&stubCaller{res: rpc.Success(nil)}), "fam-42")
	})

	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"generated"}`, out)
}

func TestRunGenerate_Failure(t *testing.T) {
	var err error
	out := captureOutput(t, func() {
		err = runGenerate(context.Background(), backendConfig(), stubFactory(&stubCaller{res: rpc.Failure("boom")}), "fam-42")
	})

	assert.ErrorIs(t, err, errGenerationFailed)
	assert.JSONEq(t, `{"error":"Generation failed","detail":"boom"}`, out)
}

func TestRunGenerate_CallerError(t *testing.T) {
	var err error
	out := captureOutput(t, func() {
		err = runGenerate(context.Background(), backendConfig(), stubFactory(&stubCaller{err: errors.New("bad name")}), "fam-42")
	})

	assert.EqualError(t, err, "bad name")
	assert.Empty(t, out)
}

func TestRunGenerate_MissingBackend(t *testing.T) {
	cfg := config.FromEnv(func(string) string { return "" })
	cfg.Debug = true
	caller := &stubCaller{}
	var err error

	out := captureOutput(t, func() {
		err = runGenerate(context.Background(), cfg, stubFactory(caller), "fam-42")
	})

	assert.Error(t, err)
	assert.Nil(t, caller.args)
	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, "Missing supabase config", body["error"])
	assert.Contains(t, body, "env")
}

func TestRunGenerate_RequiresFamily(t *testing.T) {
	err := runGenerate(context.Background(), backendConfig(), stubFactory(&stubCaller{}), "")
	assert.Error(t, err)
}

func TestEnvCommand(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOST_SECRET", "s1")
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")

	cmd := NewRootCmd()
	cmd.SetArgs([]string{"env", "--config", filepath.Join(t.TempDir(), "missing.json")})

	// An explicit config path that does not exist is an error.
	assert.Error(t, cmd.Execute())

	// The default path may be absent.
	t.Chdir(t.TempDir())
	cmd = NewRootCmd()
	cmd.SetArgs([]string{"env"})

	var err error
	out := captureOutput(t, func() { err = cmd.Execute() })
	require.NoError(t, err)
	assert.NotContains(t, out, "s1")
	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "rest", report["rpc_driver"])
	assert.Equal(t, []any{"SUPABASE_SERVICE_ROLE_KEY"}, report["missing"])
	assert.Equal(t, map[string]any{
		"HOST_SECRET":               true,
		"SUPABASE_URL":              true,
		"SUPABASE_SERVICE_ROLE_KEY": false,
	}, report["env"])
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "familyassign.yaml")
	require.NoError(t, os.WriteFile(path, []byte("host_secret: from-file\nsupabase:\n  url: https://file.example\n"), 0o600))
	t.Setenv("SUPABASE_URL", "https://env.example")

	cmd := NewRootCmd()
	t.Cleanup(func() { debug = false })
	require.NoError(t, cmd.ParseFlags([]string{"--config", path, "--debug"}))

	cfg, err := loadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.HostSecret)
	assert.Equal(t, "https://env.example", cfg.Supabase.URL)
	assert.True(t, cfg.Debug)
}

func TestServeMux(t *testing.T) {
	remote := testutil.NewPostgREST(t, http.StatusOK, `"ok"`)

	env := map[string]string{
		"HOST_SECRET":               "s1",
		"SUPABASE_URL":              remote.URL,
		"SUPABASE_SERVICE_ROLE_KEY": "service-key",
	}
	cfg := config.FromEnv(testutil.EnvLookup(env))
	mux := newServeMux(&core.Dependencies{Config: cfg, Callers: rpc.NewCaller})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"host_secret":"s1","family_code":"fam-42"}`))
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "familyassign_http_requests_total")
}

func TestAttemptsCommand(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	dsn := filepath.Join(t.TempDir(), "audit.db")

	store, err := storage.NewSqliteStorage(dsn)
	require.NoError(t, err)
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for i, a := range []*storage.Attempt{
		{ID: "a1", FamilyCode: "fam-42", Outcome: "success", Status: 200, CreatedAt: base},
		{ID: "a2", FamilyCode: "fam-7", Outcome: "failure", Detail: "boom", Status: 500, CreatedAt: base.Add(time.Minute)},
		{ID: "a3", FamilyCode: "fam-42", Outcome: "failure", Detail: "boom", Status: 500, CreatedAt: base.Add(2 * time.Minute)},
	} {
		require.NoError(t, store.SaveAttempt(context.Background(), a), i)
	}
	require.NoError(t, store.Close())

	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("STORAGE_DSN", dsn)

	cmd := NewRootCmd()
	cmd.SetArgs([]string{"attempts", "--family", "fam-42", "--limit", "1"})
	out := captureOutput(t, func() { err = cmd.Execute() })
	require.NoError(t, err)

	var got []storage.Attempt
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "a3", got[0].ID)
	assert.Equal(t, "boom", got[0].Detail)

	cmd = NewRootCmd()
	cmd.SetArgs([]string{"attempts", "--limit", "0"})
	out = captureOutput(t, func() { err = cmd.Execute() })
	require.NoError(t, err)
	got = nil
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Len(t, got, 3)
}

func TestAttemptsCommand_NoStore(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cmd := NewRootCmd()
	cmd.SetArgs([]string{"attempts"})
	assert.ErrorIs(t, cmd.Execute(), errNoAuditStore)
}
