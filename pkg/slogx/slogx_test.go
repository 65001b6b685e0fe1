package slogx

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNewHandler_TraceCorrelation(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(Config{Output: &buf}))

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	logger.InfoContext(ctx, "inside span")
	span.End()

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, span.SpanContext().TraceID().String(), line["trace_id"])
	require.Equal(t, span.SpanContext().SpanID().String(), line["span_id"])
}

func TestNewHandler_NoSpan(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(Config{Output: &buf}))

	logger.Info("no span")

	require.NotContains(t, buf.String(), "trace_id")
}

func TestNewHandler_RedactionDefaults(t *testing.T) {
	t.Run("nil fields use defaults", func(t *testing.T) {
		var buf bytes.Buffer
		slog.New(NewHandler(Config{Output: &buf})).Info("x", "email", "a@x.com")
		require.NotContains(t, buf.String(), "a@x.com")
	})

	t.Run("empty fields disable redaction", func(t *testing.T) {
		var buf bytes.Buffer
		slog.New(NewHandler(Config{Output: &buf, RedactFields: []string{}})).Info("x", "email", "a@x.com")
		require.Contains(t, buf.String(), "a@x.com")
	})
}

func TestNewHandler_LevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(Config{Output: &buf, Level: "warn", Format: "text"}))

	logger.Info("hidden")
	logger.Warn("shown")

	require.NotContains(t, buf.String(), "hidden")
	require.True(t, strings.Contains(buf.String(), "msg=shown"))
}

func TestHTTPMiddleware(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	var fromCtx *slog.Logger
	h := HTTPMiddleware(base, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = FromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("X-Request-ID", "req-123")
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, fromCtx)
	require.NotSame(t, slog.Default(), fromCtx)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "http_request", line["msg"])
	require.Equal(t, "req-123", line["req_id"])
	require.Equal(t, "/profile", line["path"])
	require.EqualValues(t, http.StatusTeapot, line["status"])
}

func TestHTTPMiddleware_RequestIDFunc(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	h := HTTPMiddleware(base, func(context.Context) string { return "from-router" })(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}),
	)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "from-router", line["req_id"])
	require.EqualValues(t, http.StatusOK, line["status"])
}
