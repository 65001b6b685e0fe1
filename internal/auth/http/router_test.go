package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/sessionauth/internal/auth/metrics"
	"github.com/aussiebroadwan/sessionauth/internal/auth/service"
	"github.com/aussiebroadwan/sessionauth/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/sessionauth/pkg/authsdk"
	"github.com/aussiebroadwan/sessionauth/pkg/cryptox"
)

type testEnv struct {
	router *Router
	auth   *service.AuthManager
	store  *sqlite.Store
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(sqlite.MemoryPath)
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	m := metrics.New()
	auth := service.NewAuthManager(st, &cryptox.BcryptHasher{Cost: 4}, nil, m)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := NewRouter(auth, st, m, logger, opts)
	r.ApplyRoutes()
	return &testEnv{router: r, auth: auth, store: st}
}

func (e *testEnv) do(t *testing.T, method, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func sessionFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == authsdk.SessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func creds(email, password string) url.Values {
	return url.Values{"email": {email}, "password": {password}}
}

func TestIndexAndStatus(t *testing.T) {
	e := newTestEnv(t, Options{})

	rec := e.do(t, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Bienvenue"}`, rec.Body.String())

	rec = e.do(t, http.MethodGet, "/api/v1/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"OK"}`, rec.Body.String())

	rec = e.do(t, http.MethodGet, "/nope", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, rec.Body.String())

	rec = e.do(t, http.MethodPatch, "/users", nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRegister(t *testing.T) {
	e := newTestEnv(t, Options{})

	rec := e.do(t, http.MethodPost, "/users", creds("bob@me.com", "mySuperPwd"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"email":"bob@me.com","message":"user created"}`, rec.Body.String())

	rec = e.do(t, http.MethodPost, "/users", creds("bob@me.com", "mySuperPwd"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"email already registered"}`, rec.Body.String())

	rec = e.do(t, http.MethodPost, "/users", url.Values{"email": {"x@me.com"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"password is required"}`, rec.Body.String())

	rec = e.do(t, http.MethodGet, "/api/v1/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"users":1}`, rec.Body.String())
}

func TestLoginLogoutProfile(t *testing.T) {
	e := newTestEnv(t, Options{LogoutRedirect: "/"})
	e.do(t, http.MethodPost, "/users", creds("bob@me.com", "pwd"))

	rec := e.do(t, http.MethodPost, "/sessions", creds("bob@me.com", "wrong"))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())

	rec = e.do(t, http.MethodPost, "/sessions", creds("bob@me.com", "pwd"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"email":"bob@me.com","message":"logged in"}`, rec.Body.String())

	cookie := sessionFrom(t, rec)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)

	rec = e.do(t, http.MethodGet, "/profile", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"email":"bob@me.com"}`, rec.Body.String())

	rec = e.do(t, http.MethodGet, "/profile", nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"Forbidden"}`, rec.Body.String())

	rec = e.do(t, http.MethodGet, "/profile", nil, &http.Cookie{Name: authsdk.SessionCookie, Value: "bogus"})
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = e.do(t, http.MethodDelete, "/sessions", nil, cookie)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	cleared := sessionFrom(t, rec)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)

	rec = e.do(t, http.MethodGet, "/profile", nil, cookie)
	require.Equal(t, http.StatusForbidden, rec.Code, "session destroyed")

	rec = e.do(t, http.MethodDelete, "/sessions", nil, cookie)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLogoutWithoutRedirect(t *testing.T) {
	e := newTestEnv(t, Options{})
	e.do(t, http.MethodPost, "/users", creds("bob@me.com", "pwd"))
	cookie := sessionFrom(t, e.do(t, http.MethodPost, "/sessions", creds("bob@me.com", "pwd")))

	rec := e.do(t, http.MethodDelete, "/sessions", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"logged out"}`, rec.Body.String())
}

func TestNewLoginInvalidatesOldCookie(t *testing.T) {
	e := newTestEnv(t, Options{})
	e.do(t, http.MethodPost, "/users", creds("bob@me.com", "pwd"))

	first := sessionFrom(t, e.do(t, http.MethodPost, "/sessions", creds("bob@me.com", "pwd")))
	second := sessionFrom(t, e.do(t, http.MethodPost, "/sessions", creds("bob@me.com", "pwd")))

	assert.Equal(t, http.StatusForbidden, e.do(t, http.MethodGet, "/profile", nil, first).Code)
	assert.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/profile", nil, second).Code)
}

func TestResetPassword(t *testing.T) {
	e := newTestEnv(t, Options{})
	e.do(t, http.MethodPost, "/users", creds("bob@me.com", "pwd"))

	rec := e.do(t, http.MethodPost, "/reset_password", url.Values{"email": {"alice@me.com"}})
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = e.do(t, http.MethodPost, "/reset_password", url.Values{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"email is required"}`, rec.Body.String())

	rec = e.do(t, http.MethodPost, "/reset_password", url.Values{"email": {"bob@me.com"}})
	require.Equal(t, http.StatusOK, rec.Code)

	var reset authsdk.ResetTokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reset))
	assert.Equal(t, "bob@me.com", reset.Email)
	require.NotEmpty(t, reset.ResetToken)

	update := url.Values{
		"email":        {"bob@me.com"},
		"reset_token":  {reset.ResetToken},
		"new_password": {"newPwd"},
	}

	rec = e.do(t, http.MethodPut, "/reset_password", url.Values{"email": {"bob@me.com"}, "reset_token": {"x"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"new_password is required"}`, rec.Body.String())

	rec = e.do(t, http.MethodPut, "/reset_password", update)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"email":"bob@me.com","message":"Password updated"}`, rec.Body.String())

	rec = e.do(t, http.MethodPut, "/reset_password", update)
	require.Equal(t, http.StatusForbidden, rec.Code, "token already used")

	assert.True(t, e.auth.ValidLogin(context.Background(), "bob@me.com", "newPwd"))
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t, Options{BuildVersion: "test"})

	rec := e.do(t, http.MethodGet, "/livez", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var live authsdk.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &live))
	assert.Equal(t, "ok", live.Status)
	assert.Equal(t, "test", live.Version)

	rec = e.do(t, http.MethodGet, "/readyz", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, e.store.Close())
	rec = e.do(t, http.MethodGet, "/readyz", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var ready authsdk.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ready))
	assert.Equal(t, "degraded", ready.Status)
	require.NotNil(t, ready.Checks)
	assert.Contains(t, ready.Checks.Database, "error")
}

func TestMetricsEndpoint(t *testing.T) {
	e := newTestEnv(t, Options{})
	e.do(t, http.MethodPost, "/users", creds("bob@me.com", "pwd"))

	rec := e.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `auth_operations_total{operation="register_user",outcome="success"} 1`)
	assert.Contains(t, rec.Body.String(), `route="/users"`)
}

func TestRouter_RequestIDLogged(t *testing.T) {
	st, err := sqlite.NewStore(sqlite.MemoryPath)
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	auth := service.NewAuthManager(st, &cryptox.BcryptHasher{Cost: 4}, nil, nil)

	r := NewRouter(auth, st, nil, logger, Options{})
	r.ApplyRoutes()

	var assigned string
	r.Mux.Get("/whoami", func(w http.ResponseWriter, req *http.Request) {
		assigned = chimiddleware.GetReqID(req.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	requestLog := func() map[string]any {
		t.Helper()
		sc := bufio.NewScanner(&buf)
		for sc.Scan() {
			var line map[string]any
			require.NoError(t, json.Unmarshal(sc.Bytes(), &line))
			if line["msg"] == "http_request" {
				return line
			}
		}
		t.Fatal("no http_request log line")
		return nil
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotEmpty(t, assigned)
	assert.Equal(t, assigned, requestLog()["req_id"])

	buf.Reset()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(chimiddleware.RequestIDHeader, "upstream-42")
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "upstream-42", assigned)
	assert.Equal(t, "upstream-42", requestLog()["req_id"])
}
