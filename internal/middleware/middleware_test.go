package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"edge-tickets/internal/apikey"
	"edge-tickets/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type verifierFunc func(string) bool

func (f verifierFunc) Verify(key string) bool { return f(key) }

func decodeCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["code"]
}

func TestAPIKeyMiddleware(t *testing.T) {
	ks, err := apikey.NewKeySet([]string{"good-key"}, nil)
	require.NoError(t, err)

	t.Run("Missing key", func(t *testing.T) {
		called := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

		req := httptest.NewRequest(http.MethodGet, "/attendees/tickets", nil)
		w := httptest.NewRecorder()

		APIKeyMiddleware(ks)(next).ServeHTTP(w, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "missing_api_key", decodeCode(t, w))
	})

	t.Run("Invalid key", func(t *testing.T) {
		called := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

		req := httptest.NewRequest(http.MethodGet, "/attendees/tickets", nil)
		req.Header.Set(apikey.Header, "bad-key")
		w := httptest.NewRecorder()

		APIKeyMiddleware(ks)(next).ServeHTTP(w, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "invalid_api_key", decodeCode(t, w))
	})

	t.Run("Valid key", func(t *testing.T) {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/attendees/tickets", nil)
		req.Header.Set(apikey.Header, "good-key")
		w := httptest.NewRecorder()

		APIKeyMiddleware(ks)(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Verifier sees raw header", func(t *testing.T) {
		var got string
		v := verifierFunc(func(k string) bool { got = k; return true })

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(apikey.Header, "abc")
		w := httptest.NewRecorder()

		APIKeyMiddleware(v)(http.NotFoundHandler()).ServeHTTP(w, req)

		assert.Equal(t, "abc", got)
	})
}

func TestLoggingMiddleware(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	defer logger.Set(zap.New(core))()

	t.Run("Success", func(t *testing.T) {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		})

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()

		LoggingMiddleware(next).ServeHTTP(w, req)

		logs := observed.TakeAll()
		require.Len(t, logs, 1)
		assert.Equal(t, "HTTP request", logs[0].Message)
		assert.Equal(t, zapcore.InfoLevel, logs[0].Level)
		assert.Equal(t, "/health", logs[0].ContextMap()["path"])
		assert.EqualValues(t, http.StatusCreated, logs[0].ContextMap()["status"])
	})

	t.Run("Server error logged as error", func(t *testing.T) {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		req := httptest.NewRequest(http.MethodGet, "/attendees/tickets", nil)
		w := httptest.NewRecorder()

		LoggingMiddleware(next).ServeHTTP(w, req)

		logs := observed.TakeAll()
		require.Len(t, logs, 1)
		assert.Equal(t, zapcore.ErrorLevel, logs[0].Level)
	})

	t.Run("Default status", func(t *testing.T) {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("ok"))
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()

		LoggingMiddleware(next).ServeHTTP(w, req)

		logs := observed.TakeAll()
		require.Len(t, logs, 1)
		assert.EqualValues(t, http.StatusOK, logs[0].ContextMap()["status"])
	})
}
