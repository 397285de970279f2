package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := zap.New(core)

	handler := RequestID(AccessLog(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/boom" {
			Internal(w)
			return
		}
		OK(w, http.StatusOK, map[string]string{"message": "ok"})
	})))

	req := httptest.NewRequest(http.MethodGet, "/items", nil)
	req.Header.Set("X-Request-Id", "req-1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	entries := logs.All()
	require.Len(t, entries, 2)

	first := entries[0].ContextMap()
	require.Equal(t, zapcore.InfoLevel, entries[0].Level)
	require.Equal(t, "GET", first["method"])
	require.Equal(t, "/items", first["path"])
	require.EqualValues(t, http.StatusOK, first["status"])
	require.Equal(t, "req-1", first["request_id"])

	require.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	require.EqualValues(t, http.StatusInternalServerError, entries[1].ContextMap()["status"])
}
