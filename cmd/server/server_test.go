package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-cms/pkg/simplecms/config"
)

func newTestServer(t *testing.T, opts ...config.Option) http.Handler {
	t.Helper()
	return newTestServerIn(t, "testing", opts...)
}

func newTestServerIn(t *testing.T, env string, opts ...config.Option) http.Handler {
	t.Helper()
	opts = append([]config.Option{
		config.WithSecretKey("test-secret", time.Hour),
		config.WithBcryptCost(4),
	}, opts...)
	cfg, err := config.Load(opts...)
	require.NoError(t, err)
	cfg.Environment = env

	components, err := cfg.Build(context.Background())
	require.NoError(t, err)
	t.Cleanup(components.Close)

	server, err := NewHTTPServer(components, cfg)
	require.NoError(t, err)
	return server.Routes()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealthz(t *testing.T) {
	h := newTestServer(t)

	for _, path := range []string{"/healthz", "/healthz/ready"} {
		rr := doJSON(t, h, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, rr.Code, path)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(t)

	rr := doJSON(t, h, http.MethodPost, "/api/v1/user/register", map[string]string{"name": "jack", "password": "pw"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = doJSON(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), "go_goroutines"))
}

func TestMetricsDisabled(t *testing.T) {
	h := newTestServer(t, config.WithMetrics(false))

	rr := doJSON(t, h, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRegisterThroughServer(t *testing.T) {
	h := newTestServer(t)

	rr := doJSON(t, h, http.MethodPost, "/api/v1/user/register", map[string]string{"name": "jack", "password": "pw"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/article", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Data.Token)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"success","message":"Articles from user requested","data":[]}`, rr.Body.String())
}

func TestCORSInDevelopment(t *testing.T) {
	preflight := func(h http.Handler) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/article", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
		req.Header.Set("Access-Control-Request-Headers", "Authorization")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}

	rr := preflight(newTestServerIn(t, "development"))
	assert.Less(t, rr.Code, http.StatusMultipleChoices)
	assert.NotEmpty(t, rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)

	rr = preflight(newTestServer(t))
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}
