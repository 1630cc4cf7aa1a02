// internal/api/middleware.go
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"listing-wizard/internal/common/auth"
	"listing-wizard/internal/common/logger"
	"listing-wizard/internal/models"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

type contextKey string

const (
	identityKey contextKey = "identity"
	loggerKey   contextKey = "logger"
)

// TokenVerifier resolves a bearer token to its owner.
type TokenVerifier interface {
	UserInfo(ctx context.Context, bearer string) (models.Identity, error)
}

// LoggerMiddleware attaches a request scoped logger and logs each request.
func LoggerMiddleware(log logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := r.Header.Get("X-Trace-ID")
			if _, err := uuid.Parse(traceID); err != nil {
				traceID = uuid.NewString()
			}
			reqLogger := log.WithFields(map[string]interface{}{"traceId": traceID})

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), loggerKey, reqLogger)))

			reqLogger.Info("request finished", map[string]interface{}{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"bytes":      ww.BytesWritten(),
				"durationMs": time.Since(start).Milliseconds(),
			})
		})
	}
}

// AuthMiddleware identifies the user. With a verifier the bearer token is
// checked and yields the full identity; without one the X-User-ID header
// set by the gateway in front of the service is trusted.
func AuthMiddleware(verifier TokenVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id models.Identity
			if verifier != nil {
				bearer, _ := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
				resolved, err := verifier.UserInfo(r.Context(), bearer)
				if err != nil {
					status := http.StatusBadGateway
					if errors.Is(err, auth.ErrUnauthenticated) {
						status = http.StatusUnauthorized
					}
					WriteJSONError(w, status, "Authentication failed")
					return
				}
				id = resolved
			} else {
				id.UserID = r.Header.Get("X-User-ID")
				if id.UserID == "" {
					WriteJSONError(w, http.StatusUnauthorized, "X-User-ID header is missing")
					return
				}
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, id)))
		})
	}
}
