package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// EnvLookup returns a getenv func backed by env, for config.FromEnv.
func EnvLookup(env map[string]string) func(string) string {
	return func(k string) string { return env[k] }
}

// SetEnv sets every key in keys for the duration of the test, to env[key] or "".
func SetEnv(t *testing.T, keys []string, env map[string]string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, env[k])
	}
}

// RPCCall is one request received by a PostgREST fake.
type RPCCall struct {
	Path   string
	Header http.Header
	Args   map[string]any
}

// PostgREST is a fake Supabase REST gateway that answers every RPC with a
// fixed status and body and records what it received.
type PostgREST struct {
	*httptest.Server

	mu    sync.Mutex
	calls []RPCCall
}

// NewPostgREST starts a fake closed on test cleanup.
func NewPostgREST(t *testing.T, status int, body string) *PostgREST {
	t.Helper()
	p := &PostgREST{}
	p.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var args map[string]any
		_ = json.NewDecoder(r.Body).Decode(&args)
		p.mu.Lock()
		p.calls = append(p.calls, RPCCall{Path: r.URL.Path, Header: r.Header.Clone(), Args: args})
		p.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(p.Close)
	return p
}

// Calls returns a copy of the recorded requests.
func (p *PostgREST) Calls() []RPCCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]RPCCall(nil), p.calls...)
}
