package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/upkeephq/upkeep/internal/infrastructure/http/response"
)

// Auth is HTTP middleware for static API key authentication.
type Auth struct {
	apiKey string
}

// NewAuth creates a new auth middleware for the configured API key.
func NewAuth(apiKey string) *Auth {
	return &Auth{apiKey: apiKey}
}

// Validate is a Chi middleware that validates API keys from the Authorization
// header. Expects format: "Authorization: Bearer <api-key>"
func (a *Auth) Validate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			slog.WarnContext(r.Context(), "authentication failed: missing Authorization header",
				"path", r.URL.Path,
				"method", r.Method)
			response.Unauthorized(w, "missing Authorization header")
			return
		}

		apiKey, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			slog.WarnContext(r.Context(), "authentication failed: invalid Authorization header format",
				"path", r.URL.Path,
				"method", r.Method)
			response.Unauthorized(w, "invalid Authorization header format, expected: Bearer <token>")
			return
		}

		// Constant-time comparison to resist timing probes.
		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(a.apiKey)) != 1 {
			slog.WarnContext(r.Context(), "authentication failed: invalid API key",
				"path", r.URL.Path,
				"method", r.Method)
			response.Unauthorized(w, "invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// CronSecret returns a middleware that guards sweep trigger endpoints with a
// shared secret carried in the X-Cron-Secret header. These endpoints are meant
// for schedulers, not interactive clients, so they use a separate credential.
func CronSecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get("X-Cron-Secret")
			if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
				slog.WarnContext(r.Context(), "cron trigger rejected: invalid secret",
					"path", r.URL.Path)
				response.Unauthorized(w, "invalid cron secret")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
