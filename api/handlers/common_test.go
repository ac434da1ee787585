package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BaSui01/agentflow-nodes/internal/ctxkeys"
	"github.com/BaSui01/agentflow-nodes/types"
)

func TestWriteSuccess_IncludesRequestID(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(ctxkeys.WithTraceID(r.Context(), "req-1"))
	w := httptest.NewRecorder()

	WriteSuccess(w, r, map[string]string{"key": "value"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	var resp Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "req-1", resp.RequestID)
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"configuration", types.NewConfigurationError("bad"), http.StatusBadRequest, "CONFIGURATION"},
		{"credential", types.NewCredentialError("none"), http.StatusUnauthorized, "CREDENTIAL"},
		{"rate limit", types.NewError(types.ErrRateLimit, "slow down").WithHTTPStatus(429), http.StatusTooManyRequests, "RATE_LIMIT"},
		{"upstream auth", types.NewError(types.ErrAuthentication, "bad key").WithHTTPStatus(401), http.StatusBadGateway, "AUTHENTICATION"},
		{"timeout", types.NewError(types.ErrUpstreamTimeout, "slow"), http.StatusGatewayTimeout, "UPSTREAM_TIMEOUT"},
		{"wrapped", errors.Join(types.NewError(types.ErrUpstreamError, "boom")), http.StatusBadGateway, "UPSTREAM_ERROR"},
		{"plain", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, httptest.NewRequest(http.MethodGet, "/", nil), tt.err, zap.NewNop())

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp Response
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestDecodeJSONBody(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
	require.NoError(t, DecodeJSONBody(w, r, &dst))
	assert.Equal(t, "x", dst.Name)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"other":"x"}`))
	err := DecodeJSONBody(w, r, &dst)
	assert.Equal(t, types.ErrInvalidRequest, types.GetErrorCode(err))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	assert.Error(t, DecodeJSONBody(w, r, &dst))
}

func TestResponseWriter_CapturesFirstStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := NewResponseWriter(rec)

	rw.WriteHeader(http.StatusAccepted)
	rw.WriteHeader(http.StatusTeapot)
	_, _ = rw.Write([]byte("ok"))

	assert.Equal(t, http.StatusAccepted, rw.StatusCode)
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestHealthHandler(t *testing.T) {
	h := NewHealthHandler(zap.NewNop())

	w := httptest.NewRecorder()
	h.HandleHealthz(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	h.RegisterCheck(NewPingCheck("credentials", func(ctx context.Context) error { return nil }))
	w = httptest.NewRecorder()
	h.HandleReady(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	h.RegisterCheck(NewPingCheck("redis", func(ctx context.Context) error { return errors.New("down") }))
	w = httptest.NewRecorder()
	h.HandleReady(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var status HealthStatus
	require.NoError(t, json.NewDecoder(w.Body).Decode(&status))
	assert.Equal(t, "unhealthy", status.Status)
	assert.Equal(t, "pass", status.Checks["credentials"].Status)
	assert.Equal(t, "fail", status.Checks["redis"].Status)
}

func TestHealthHandler_Version(t *testing.T) {
	h := NewHealthHandler(nil)
	w := httptest.NewRecorder()
	h.HandleVersion("1.0.0", "now", "abc")(w, httptest.NewRequest(http.MethodGet, "/version", nil))

	var resp Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "1.0.0", resp.Data.(map[string]any)["version"])
}
