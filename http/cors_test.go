package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/awantoch/familyassign/constants"
	"github.com/stretchr/testify/assert"
)

func TestCORSPolicy_AllowOrigin(t *testing.T) {
	cases := []struct {
		name    string
		origins []string
		origin  string
		want    string
	}{
		{"empty list is wildcard", nil, "https://a.example", "*"},
		{"explicit wildcard", []string{"*"}, "https://a.example", "*"},
		{"wildcard wins over list", []string{"https://a.example", "*"}, "https://b.example", "*"},
		{"listed origin echoed", []string{"https://a.example", "https://b.example"}, "https://b.example", "https://b.example"},
		{"unlisted origin gets first", []string{"https://a.example", "https://b.example"}, "https://evil.example", "https://a.example"},
		{"no origin header", []string{"https://a.example"}, "", "https://a.example"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, NewCORSPolicy(c.origins).AllowOrigin(c.origin))
		})
	}
}

func TestCORSPolicy_Apply(t *testing.T) {
	t.Run("wildcard", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		h := http.Header{}
		NewCORSPolicy([]string{"*"}).Apply(h, req)

		assert.Equal(t, "*", h.Get(constants.HeaderAllowOrigin))
		assert.Equal(t, "Content-Type, Authorization", h.Get(constants.HeaderAllowHeaders))
		assert.Equal(t, "POST, OPTIONS", h.Get(constants.HeaderAllowMethods))
		assert.Equal(t, "true", h.Get(constants.HeaderAllowCredentials))
		assert.Empty(t, h.Get(constants.HeaderVary))
	})

	t.Run("allow-list", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set(constants.HeaderOrigin, "https://app.example")
		h := http.Header{}
		NewCORSPolicy([]string{"https://app.example"}).Apply(h, req)

		assert.Equal(t, "https://app.example", h.Get(constants.HeaderAllowOrigin))
		assert.Equal(t, constants.HeaderOrigin, h.Get(constants.HeaderVary))
	})
}

func TestGenerate_CORSAllowList(t *testing.T) {
	env := configuredEnv()
	env[constants.EnvAllowedOrigin] = "https://app.example, https://admin.example"
	h := newTestHandler(envConfig(env), &fakeCaller{}, nil)

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set(constants.HeaderOrigin, "https://admin.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://admin.example", rec.Header().Get(constants.HeaderAllowOrigin))
}
