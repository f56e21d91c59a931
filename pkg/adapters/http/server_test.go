package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/switchboard/internal/logging"
	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/ops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, table *ops.Table, opts ...Option) http.Handler {
	t.Helper()
	return NewHandler(table, append([]Option{WithLogger(logging.NewNop())}, opts...)...)
}

func post(t *testing.T, h http.Handler, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/operate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	return w, resp
}

func TestOperate_Success(t *testing.T) {
	h := newTestHandler(t, ops.Numeric())

	w, resp := post(t, h, `{"operation": "divide", "args": [144, 12], "kwargs": {}}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "divide", resp["operation"])
	assert.Equal(t, 12.0, resp["result"])
	assert.Equal(t, "success", resp["status"])
}

func TestOperate_StructuredResult(t *testing.T) {
	h := newTestHandler(t, ops.Numeric())

	w, resp := post(t, h, `{"operation": "convert_seconds", "args": [3665]}`)

	require.Equal(t, http.StatusOK, w.Code)
	result := resp["result"].(map[string]any)
	assert.Equal(t, "1h 1m 5s", result["result"])
	assert.Len(t, result["steps"], 8)
}

func TestOperate_Errors(t *testing.T) {
	h := newTestHandler(t, ops.Numeric())

	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"unknown operation", `{"operation": "unknown_op", "args": []}`, "unknown operation: unknown_op"},
		{"malformed json", `{"operation": `, "invalid JSON"},
		{"missing operation", `{"args": [1, 2]}`, "invalid request"},
		{"args not a list", `{"operation": "add", "args": 5}`, "invalid request"},
		{"division by zero", `{"operation": "divide", "args": [1, 0]}`, "division by zero"},
		{"bad arity", `{"operation": "subtract", "args": [1]}`, "missing required argument"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := post(t, h, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, resp["error"], tt.wantMsg)
			assert.Len(t, resp, 1, "error responses carry only the message")
		})
	}
}

func TestOperate_BodyLimit(t *testing.T) {
	h := newTestHandler(t, ops.Textual(), WithMaxBodyBytes(64))

	body := `{"operation": "word_count", "args": ["` + strings.Repeat("a", 128) + `"]}`
	w, resp := post(t, h, body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, resp["error"], "exceeds 64 bytes")
}

func TestHealthAndTools(t *testing.T) {
	h := newTestHandler(t, ops.Tabular(domain.EmptyDataset()))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "healthy", "service": "data"}`, w.Body.String())

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tools", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var tools struct {
		Tools []domain.Tool `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tools))
	require.Len(t, tools.Tools, 7)
	assert.Equal(t, "filter_records", tools.Tools[0].Name)
}

func TestNotFound(t *testing.T) {
	h := newTestHandler(t, ops.Numeric())

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/nope"},
		{http.MethodGet, "/operate"},
		{http.MethodPost, "/health"},
		{http.MethodDelete, "/tools"},
	} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusNotFound, w.Code, "%s %s", tc.method, tc.path)
		assert.JSONEq(t, `{"error": "not found"}`, w.Body.String())
	}
}

func TestMetrics(t *testing.T) {
	h := newTestHandler(t, ops.Numeric())

	post(t, h, `{"operation": "add", "args": [[1, 2]]}`)
	post(t, h, `{"operation": "divide", "args": [1, 0]}`)
	post(t, h, `{"operation": "made_up"}`)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `switchboard_operations_total{domain="math",operation="add",status="success"} 1`)
	assert.Contains(t, body, `switchboard_operations_total{domain="math",operation="divide",status="error"} 1`)
	assert.Contains(t, body, `switchboard_operations_total{domain="math",operation="unlisted",status="error"} 1`)
	assert.Contains(t, body, "switchboard_operation_duration_seconds")
}

func TestOpenAPIDocument(t *testing.T) {
	_, err := loadSpec()
	require.NoError(t, err)

	h := newTestHandler(t, ops.Numeric())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.Equal(Spec(), w.Body.Bytes()))
}

func TestRequestIDPropagates(t *testing.T) {
	srv := httptest.NewServer(newTestHandler(t, ops.Numeric()))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/operate", strings.NewReader(`{"operation": "add", "args": [[2, 3]]}`))
	require.NoError(t, err)
	req.Header.Set("X-Request-Id", "req-123")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(body))
}

func TestServer_GracefulShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	srv := NewServer(ln.Addr().String(), newTestHandler(t, ops.Textual()), logging.NewNop())

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(ShutdownTimeout + time.Second):
		t.Fatal("server did not stop")
	}
}
