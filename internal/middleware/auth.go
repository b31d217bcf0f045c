package middleware

import (
	"net/http"

	"edge-tickets/internal/apikey"
	"edge-tickets/internal/logger"
	"edge-tickets/internal/utils"

	"go.uber.org/zap"
)

const (
	codeMissingAPIKey = "missing_api_key"
	codeInvalidAPIKey = "invalid_api_key"
)

// APIKeyMiddleware rejects requests whose X-API-Key header is absent or not
// accepted by v. Rejected requests never reach next.
func APIKeyMiddleware(v apikey.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(apikey.Header)
			if key == "" {
				logger.FromCtx(r.Context()).Warn("request without API key",
					zap.String("path", r.URL.Path),
				)
				utils.WriteJSONError(w, http.StatusUnauthorized, codeMissingAPIKey, "X-API-Key header is required")
				return
			}

			if !v.Verify(key) {
				logger.FromCtx(r.Context()).Warn("request with invalid API key",
					zap.String("path", r.URL.Path),
					zap.String("ip", r.RemoteAddr),
				)
				utils.WriteJSONError(w, http.StatusUnauthorized, codeInvalidAPIKey, "invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
