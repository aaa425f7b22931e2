package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"inkspace/internal/config"
	"inkspace/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOrigin = "http://localhost:5173"

func (e *testEnv) send(method, path string, headers map[string]string) *http.Response {
	e.t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(e.t, err)
	e.t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestCORS_BlogIndexOrigins(t *testing.T) {
	env := newTestEnv(t)

	resp := env.send(http.MethodGet, "/api/blog", map[string]string{"Origin": testOrigin})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, testOrigin, resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))

	resp = env.send(http.MethodGet, "/api/blog", map[string]string{"Origin": "https://evil.example"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestCORS_WildcardOriginDropsCredentials(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	srv, err := NewServerWithDeps(&config.Config{
		Env:            "test",
		JWTSecret:      testSecret,
		AllowedOrigins: "*",
	}, db, nil)
	require.NoError(t, err)
	env := &testEnv{t: t, db: db, srv: srv, app: srv.NewApp()}

	resp := env.send(http.MethodGet, "/api/blog", map[string]string{"Origin": "https://reader.example"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Credentials"))
}

func TestCORS_LimitedBlogReadsKeepHeadersAndPreflightPasses(t *testing.T) {
	env := newTestEnv(t)
	origin := map[string]string{"Origin": testOrigin}

	for i := 0; i < 100; i++ {
		resp := env.send(http.MethodGet, "/api/blog", origin)
		require.Equal(t, http.StatusOK, resp.StatusCode, "request %d", i+1)
	}

	limited := env.send(http.MethodGet, "/api/blog", origin)
	assert.Equal(t, http.StatusTooManyRequests, limited.StatusCode)
	assert.Equal(t, testOrigin, limited.Header.Get("Access-Control-Allow-Origin"))
	var body map[string]string
	require.NoError(t, json.NewDecoder(limited.Body).Decode(&body))
	assert.NotEmpty(t, body["error"])

	preflight := env.send(http.MethodOptions, "/api/posts/1/like", map[string]string{
		"Origin":                         testOrigin,
		"Access-Control-Request-Method":  http.MethodPost,
		"Access-Control-Request-Headers": "authorization,content-type",
	})
	assert.Equal(t, http.StatusNoContent, preflight.StatusCode)
	assert.Equal(t, testOrigin, preflight.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, preflight.Header.Get("Access-Control-Allow-Methods"), http.MethodPost)
	assert.Contains(t, preflight.Header.Get("Access-Control-Allow-Headers"), "Authorization")
}
