// Package middleware holds the mux middlewares wrapped around the API.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"taskmanager/app/render"
)

// TokenHeader carries the bearer token on protected routes.
const TokenHeader = "x-auth-token"

// TokenVerifier resolves a token to the user id it was issued for.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

type ctxKey int

const userIDKey ctxKey = iota

// WithUserID returns a copy of ctx carrying the verified user id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID returns the id stored by Auth, or "" outside protected routes.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// Auth rejects requests without a valid token before any handler runs.
func Auth(verifier TokenVerifier, logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := verifier.Verify(r.Context(), r.Header.Get(TokenHeader))
			if err != nil {
				render.Error(w, r, logger, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// RequestLogger logs one line per request with its status and duration.
func RequestLogger(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m := httpsnoop.CaptureMetrics(next, w, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", m.Code,
				"bytes", m.Written,
				"duration", m.Duration,
			)
		})
	}
}

// Recover turns handler panics into 500 responses and logs them.
func Recover(logger *slog.Logger) mux.MiddlewareFunc {
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(slog.NewLogLogger(logger.Handler(), slog.LevelError)),
	)
}

// CORS allows browser clients on any origin to send the token header.
func CORS() func(http.Handler) http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", TokenHeader}),
	)
}
