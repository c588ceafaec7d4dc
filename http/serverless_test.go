package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/awantoch/familyassign/constants"
	"github.com/awantoch/familyassign/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakePostgREST(t *testing.T, status int, body string) *testutil.PostgREST {
	t.Helper()
	return testutil.NewPostgREST(t, status, body)
}

func setServerlessEnv(t *testing.T, env map[string]string) {
	t.Helper()
	testutil.SetEnv(t, []string{
		constants.EnvHostSecret, constants.EnvSupabaseURL, constants.EnvServiceRoleKey,
		constants.EnvAllowedOrigin, constants.EnvDebug, constants.EnvRPCDriver,
		constants.EnvDatabaseURL, constants.EnvSecretsDriver, constants.EnvEventDriver,
		constants.EnvStorageDriver, constants.EnvTracingExporter,
	}, env)
	ResetServerless()
	t.Cleanup(ResetServerless)
}

func serve(body string, method string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/generate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	ServerlessHandler(rec, req)
	return rec
}

func TestServerlessHandler_GeneratesAgainstRemote(t *testing.T) {
	srv := fakePostgREST(t, http.StatusOK, `"3 assignments created"`)
	setServerlessEnv(t, map[string]string{
		constants.EnvHostSecret:     "s1",
		constants.EnvSupabaseURL:    srv.URL,
		constants.EnvServiceRoleKey: "service-key",
	})

	rec := serve(`{"host_secret":"s1","family_code":"fam-42"}`, http.MethodPost)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"3 assignments created"}`, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get(constants.HeaderAllowOrigin))
	calls := srv.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, constants.RPCPathPrefix+constants.ProcGenerateAssignments, calls[0].Path)
	assert.Equal(t, "service-key", calls[0].Header.Get(constants.HeaderAPIKey))
	assert.Equal(t, "Bearer service-key", calls[0].Header.Get(constants.HeaderAuthorization))
	assert.Equal(t, map[string]any{"in_family_code": "fam-42"}, calls[0].Args)
}

func TestServerlessHandler_RemoteError(t *testing.T) {
	srv := fakePostgREST(t, http.StatusBadRequest, `{"code":"P0001","message":"boom"}`)
	setServerlessEnv(t, map[string]string{
		constants.EnvHostSecret:     "s1",
		constants.EnvSupabaseURL:    srv.URL,
		constants.EnvServiceRoleKey: "service-key",
	})

	rec := serve(`{"host_secret":"s1","family_code":"fam-42"}`, http.MethodPost)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Generation failed","detail":"boom"}`, rec.Body.String())
}

func TestServerlessHandler_NullResultFallsBack(t *testing.T) {
	srv := fakePostgREST(t, http.StatusOK, `null`)
	setServerlessEnv(t, map[string]string{
		constants.EnvHostSecret:     "s1",
		constants.EnvSupabaseURL:    srv.URL,
		constants.EnvServiceRoleKey: "service-key",
	})

	rec := serve(`{"host_secret":"s1","family_code":"fam-42"}`, http.MethodPost)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"generated"}`, rec.Body.String())
}

func TestServerlessHandler_MissingConfigWithDebug(t *testing.T) {
	setServerlessEnv(t, map[string]string{
		constants.EnvHostSecret: "s1",
		constants.EnvDebug:      "true",
	})

	rec := serve(`{"host_secret":"s1","family_code":"fam-42"}`, http.MethodPost)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Missing supabase config","env":{"HOST_SECRET":true,"SUPABASE_URL":false,"SUPABASE_SERVICE_ROLE_KEY":false}}`, rec.Body.String())
}

func TestServerlessHandler_InitFailure(t *testing.T) {
	setServerlessEnv(t, map[string]string{
		constants.EnvHostSecret:    "s1",
		constants.EnvEventDriver:   "carrier-pigeon",
		constants.EnvSupabaseURL:   "https://example.supabase.co",
		constants.EnvAllowedOrigin: "https://app.example",
	})

	rec := serve(`{"host_secret":"s1","family_code":"fam-42"}`, http.MethodPost)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "https://app.example", rec.Header().Get(constants.HeaderAllowOrigin))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Server error", body["error"])
	assert.Contains(t, body["message"], "carrier-pigeon")

	rec = serve("", http.MethodOptions)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, "https://app.example", rec.Header().Get(constants.HeaderAllowOrigin))
}

func TestServerlessHandler_PreflightAndMethod(t *testing.T) {
	setServerlessEnv(t, map[string]string{})

	rec := serve("", http.MethodOptions)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get(constants.HeaderAllowOrigin))

	rec = serve("", http.MethodGet)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.JSONEq(t, `{"error":"Method not allowed"}`, rec.Body.String())
}

func TestServerlessHandler_AuditPipeline(t *testing.T) {
	srv := fakePostgREST(t, http.StatusOK, `"ok"`)
	setServerlessEnv(t, map[string]string{
		constants.EnvHostSecret:     "s1",
		constants.EnvSupabaseURL:    srv.URL,
		constants.EnvServiceRoleKey: "service-key",
		constants.EnvEventDriver:    constants.EventDriverMemory,
		constants.EnvStorageDriver:  constants.StorageDriverMemory,
	})

	for i := 0; i < 2; i++ {
		rec := serve(`{"host_secret":"s1","family_code":"fam-42"}`, http.MethodPost)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
